package commands

import (
	"io"
	"time"

	"github.com/erraggy/oassync/engine"
	"github.com/erraggy/oassync/internal/cliutil"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	var checkRemote bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the freshness of every cached source in the project",
		Example: `  oassync status
  oassync status --check-remote --project-dir ./api`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(func(eng *engine.Engine) error {
				view, err := eng.Status(cmd.Context(), engine.StatusRequest{CheckRemote: checkRemote})
				if err != nil {
					return err
				}
				return a.render(view, func(w io.Writer) error { return writeStatusText(w, view) })
			})
		},
	}
	cmd.Flags().BoolVar(&checkRemote, "check-remote", false, "revalidate every entry with its source")
	return cmd
}

func writeStatusText(w io.Writer, v *engine.StatusView) error {
	cliutil.Writef(w, "Cache: %s\n", v.CacheFile)
	if v.Warning != "" {
		cliutil.Writef(w, "warning: %s\n", v.Warning)
	}
	if len(v.Entries) == 0 {
		cliutil.Writef(w, "No cached sources.\n")
		return nil
	}
	t := cliutil.NewTable(w, "STATE", "SOURCE", "TITLE", "VERSION", "FETCHED", "EXPIRES")
	for _, e := range v.Entries {
		state := e.State
		if e.Error != "" {
			state += ": " + e.Error
		}
		t.Row(state, e.Key, e.Title, e.Version, e.FetchedAt.Format(time.RFC3339), e.ExpiresAt.Format(time.RFC3339))
	}
	if err := t.Flush(); err != nil {
		return err
	}
	cliutil.Writef(w, "%d fresh, %d stale\n", v.Fresh, v.Stale)
	return nil
}
