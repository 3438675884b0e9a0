// Package commands provides the cobra command tree of the oassync CLI.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/erraggy/oassync"
	"github.com/erraggy/oassync/engine"
	"github.com/erraggy/oassync/internal/cliutil"
	"github.com/erraggy/oassync/internal/config"
	"github.com/erraggy/oassync/logging"
	"github.com/erraggy/oassync/oaserrors"
	"github.com/spf13/cobra"
)

// Exit codes returned by Execute.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitBreaking = 2
)

// errBreaking makes diff --fail-on-breaking exit with ExitBreaking.
var errBreaking = errors.New("breaking changes detected")

// app carries the global flags and the state built from them.
type app struct {
	stdout, stderr io.Writer

	projectDir string
	logLevel   string
	output     string
	noCache    bool

	cfg    *config.Config
	logger *slog.Logger
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errBreaking):
		return ExitBreaking
	}
	cliutil.Writef(stderr, "Error: %s\n", oaserrors.Describe(err))
	return ExitError
}

// NewRootCmd builds the command tree writing results to stdout and logs
// and errors to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "oassync",
		Short: "OpenAPI spec intelligence: parse, dependency queries, breaking-change diffs and code generation",
		Long: `oassync normalizes OpenAPI 2.0 and 3.x documents into one model, caches
them per project in .oassync.cache.json and answers questions about them.

Defaults come from OASSYNC_* environment variables; flags override them.`,
		Version:           fmt.Sprintf("%s (%s)", oassync.Version(), oassync.Commit()),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return a.setup() },
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.projectDir, "project-dir", "", "project directory holding the cache file (default: $OASSYNC_PROJECT_DIR or the working directory)")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (default: $OASSYNC_LOG_LEVEL or info)")
	flags.StringVarP(&a.output, "output", "o", cliutil.FormatText, "output format: text, json or yaml")
	flags.BoolVar(&a.noCache, "no-cache", false, "always fetch and parse sources instead of answering from the cache")

	root.AddCommand(
		newParseCmd(a),
		newDepsCmd(a),
		newDiffCmd(a),
		newStatusCmd(a),
		newGenerateCmd(a),
		newMCPCmd(a),
	)
	return root
}

// setup resolves configuration and the logger once flags are parsed.
func (a *app) setup() error {
	if err := cliutil.ValidateFormat(a.output); err != nil {
		return err
	}
	a.cfg = config.Load()
	if a.projectDir != "" {
		a.cfg.ProjectDir = a.projectDir
	}
	if a.logLevel != "" {
		a.cfg.LogLevel = a.logLevel
	}
	level, ok := logging.ParseLevel(a.cfg.LogLevel)
	if !ok {
		return &oaserrors.ConfigError{Option: "log-level", Value: a.cfg.LogLevel, Message: "must be one of debug, info, warn, error"}
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) newEngine(opts ...engine.Option) (*engine.Engine, error) {
	opts = append([]engine.Option{engine.WithLogger(logging.NewSlogAdapter(a.logger))}, opts...)
	return engine.New(a.cfg, opts...)
}

// withEngine runs fn against a fresh engine and closes it afterwards.
func (a *app) withEngine(fn func(*engine.Engine) error) (err error) {
	eng, err := a.newEngine()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := eng.Close(); cerr != nil && err == nil {
			a.logger.Warn("closing cache failed", "error", cerr)
		}
	}()
	return fn(eng)
}

// render writes v in the selected structured format, or calls text.
func (a *app) render(v any, text func(io.Writer) error) error {
	if a.output == cliutil.FormatText {
		return text(a.stdout)
	}
	return cliutil.WriteStructured(a.stdout, v, a.output)
}
