package commands

import (
	"io"

	"github.com/erraggy/oassync/engine"
	"github.com/erraggy/oassync/internal/cliutil"
	"github.com/spf13/cobra"
)

func newDiffCmd(a *app) *cobra.Command {
	var breakingOnly, failOnBreaking bool
	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Classify the changes between two versions of a document",
		Example: `  oassync diff api-v1.yaml api-v2.yaml
  oassync diff --breaking-only --fail-on-breaking -o json old.yaml https://example.com/openapi.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(func(eng *engine.Engine) error {
				view, err := eng.Diff(cmd.Context(), engine.DiffRequest{
					OldSource:    args[0],
					NewSource:    args[1],
					BreakingOnly: breakingOnly,
					UseCache:     !a.noCache,
				})
				if err != nil {
					return err
				}
				if err := a.render(view, func(w io.Writer) error { return writeDiffText(w, view) }); err != nil {
					return err
				}
				if failOnBreaking && view.HasBreakingChanges() {
					return errBreaking
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&breakingOnly, "breaking-only", false, "only report breaking changes")
	cmd.Flags().BoolVar(&failOnBreaking, "fail-on-breaking", false, "exit with status 2 when breaking changes are found")
	return cmd
}

func writeDiffText(w io.Writer, v *engine.DiffView) error {
	for _, c := range v.Changes {
		label := "non-breaking"
		if c.IsBreaking() {
			label = "BREAKING"
		}
		cliutil.Writef(w, "[%s] %s (%s): %s\n", label, c.Path, c.Rule, c.Message)
		for _, in := range c.Interpretations {
			cliutil.Writef(w, "    as %s: %s, %s\n", in.Role, in.Severity, in.Reason)
		}
	}
	cliutil.Writef(w, "%s\n", v.Summary)
	return nil
}
