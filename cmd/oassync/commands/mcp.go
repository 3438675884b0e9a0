package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/erraggy/oassync/engine"
	"github.com/erraggy/oassync/internal/mcpserver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	var metricsAddr string
	var allowPrivate bool
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the oassync tools over MCP on stdio",
		Long: `Serve parse, deps, diff, status and generate as MCP tools on stdin/stdout.
Logs go to stderr. Remote sources are fetched with a client that refuses
private and loopback addresses unless --allow-private-networks is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []engine.Option{}
			if !allowPrivate {
				opts = append(opts, engine.WithHTTPClient(mcpserver.NewSafeHTTPClient(a.cfg.FetchTimeout)))
			}
			var reg *prometheus.Registry
			if metricsAddr != "" {
				reg = prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				opts = append(opts, engine.WithRegisterer(reg))
			}
			eng, err := a.newEngine(opts...)
			if err != nil {
				return err
			}
			defer func() {
				if err := eng.Close(); err != nil {
					a.logger.Warn("closing cache failed", "error", err)
				}
			}()

			ctx := cmd.Context()
			if reg != nil {
				stop := a.serveMetrics(metricsAddr, reg)
				defer stop()
			}
			a.logger.Info("mcp server starting", "project_dir", a.cfg.ProjectDir)
			return mcpserver.Run(ctx, eng)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9464)")
	cmd.Flags().BoolVar(&allowPrivate, "allow-private-networks", false, "allow fetching sources from private and loopback addresses")
	return cmd
}

// serveMetrics exposes reg on addr/metrics until the returned func is called.
func (a *app) serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
