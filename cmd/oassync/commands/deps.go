package commands

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/oassync/engine"
	"github.com/erraggy/oassync/graph"
	"github.com/erraggy/oassync/internal/cliutil"
	"github.com/spf13/cobra"
)

func newDepsCmd(a *app) *cobra.Command {
	var (
		direction     string
		limit, offset int
	)
	cmd := &cobra.Command{
		Use:   "deps <file|url> <schema>",
		Short: "Show which schemas and endpoints depend on, or are used by, a schema",
		Example: `  oassync deps openapi.yaml Pet
  oassync deps --direction upstream openapi.yaml Order`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(func(eng *engine.Engine) error {
				view, err := eng.Deps(cmd.Context(), engine.DepsRequest{
					Source:    args[0],
					Schema:    args[1],
					Direction: direction,
					UseCache:  !a.noCache,
					Limit:     limit,
					Offset:    offset,
				})
				if err != nil {
					return err
				}
				return a.render(view, func(w io.Writer) error { return writeDepsText(w, view) })
			})
		},
	}
	cmd.Flags().StringVarP(&direction, "direction", "d", string(graph.Downstream), "downstream, upstream or both")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default: $OASSYNC_DEFAULT_LIMIT)")
	cmd.Flags().IntVar(&offset, "offset", 0, "impacts to skip")
	return cmd
}

func writeDepsText(w io.Writer, v *engine.DepsView) error {
	cliutil.Writef(w, "%s (%s) %s: %d schemas, %d endpoints\n", v.Schema, v.Role, v.Direction, v.AffectedSchemas, v.AffectedEndpoints)
	t := cliutil.NewTable(w, "DEPTH", "KIND", "NAME", "VIA")
	for _, im := range v.Impacts {
		kinds := make([]string, 0, len(im.EdgeKinds))
		for _, k := range im.EdgeKinds {
			kinds = append(kinds, string(k))
		}
		slices.Sort(kinds)
		name := im.Node.Name
		if im.Cyclic {
			name += " (cycle)"
		}
		t.Row(strconv.Itoa(im.Depth), string(im.Node.Kind), name, strings.Join(kinds, ","))
	}
	if err := t.Flush(); err != nil {
		return err
	}
	writePage(w, "impacts", v.Pagination)
	return nil
}
