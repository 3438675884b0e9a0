package commands

import (
	"io"
	"strings"

	"github.com/erraggy/oassync/engine"
	"github.com/erraggy/oassync/internal/cliutil"
	"github.com/spf13/cobra"
)

type parseFlags struct {
	format     string
	strict     bool
	limit      int
	offset     int
	tag        string
	pathPrefix string
}

func newParseCmd(a *app) *cobra.Command {
	f := &parseFlags{}
	cmd := &cobra.Command{
		Use:   "parse <file|url>",
		Short: "Parse a document and show a summary, list or detail view",
		Example: `  oassync parse openapi.yaml
  oassync parse --format endpoints-list --tag pets openapi.yaml
  oassync parse --format schemas --limit 20 --offset 20 -o json https://example.com/openapi.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(func(eng *engine.Engine) error {
				view, err := eng.Parse(cmd.Context(), engine.ParseRequest{
					Source:     args[0],
					Format:     f.format,
					UseCache:   !a.noCache,
					Strict:     f.strict,
					Limit:      f.limit,
					Offset:     f.offset,
					Tag:        f.tag,
					PathPrefix: f.pathPrefix,
				})
				if err != nil {
					return err
				}
				return a.render(view, func(w io.Writer) error { return writeParseText(w, view) })
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.format, "format", string(engine.FormatSummary), "view: summary, endpoints-list, schemas-list, endpoints, schemas or full")
	fl.BoolVar(&f.strict, "strict", false, "fail on structural violations instead of reporting warnings")
	fl.IntVar(&f.limit, "limit", 0, "page size for list views (default: $OASSYNC_DEFAULT_LIMIT)")
	fl.IntVar(&f.offset, "offset", 0, "items to skip in list views")
	fl.StringVar(&f.tag, "tag", "", "only endpoints with this tag")
	fl.StringVar(&f.pathPrefix, "path-prefix", "", "only endpoints whose path starts with this prefix")
	return cmd
}

func writeParseText(w io.Writer, v *engine.ParseView) error {
	m := v.Metadata
	cliutil.Writef(w, "%s %s (OpenAPI %s) [%s]\n", m.Title, m.Version, m.OpenAPIVersion, v.Freshness)
	if v.Format == engine.FormatSummary {
		if m.Description != "" {
			cliutil.Writef(w, "%s\n", m.Description)
		}
		if len(m.Servers) > 0 {
			cliutil.Writef(w, "Servers:   %s\n", strings.Join(m.Servers, ", "))
		}
		cliutil.Writef(w, "Endpoints: %d\nSchemas:   %d\nTags:      %d\n", m.EndpointCount, m.SchemaCount, m.TagCount)
		cliutil.Writef(w, "Graph:     %d edges, %d recursive, %d orphan schemas\n", v.Stats.Edges, v.Stats.Recursive, v.Stats.Orphans)
	}
	for _, k := range v.EndpointKeys {
		cliutil.Writef(w, "%s\n", k)
	}
	for _, n := range v.SchemaNames {
		cliutil.Writef(w, "%s\n", n)
	}
	if len(v.Endpoints) > 0 {
		t := cliutil.NewTable(w, "ENDPOINT", "OPERATION", "SCHEMAS")
		for _, ep := range v.Endpoints {
			op := ep.OperationID
			if ep.Deprecated {
				op += " (deprecated)"
			}
			t.Row(ep.Key, op, strings.Join(ep.SchemaRefs, ","))
		}
		if err := t.Flush(); err != nil {
			return err
		}
	}
	if len(v.Schemas) > 0 {
		t := cliutil.NewTable(w, "SCHEMA", "KIND", "ROLE", "REFS")
		for _, s := range v.Schemas {
			name := s.Name
			if s.Recursive {
				name += "*"
			}
			t.Row(name, string(s.Kind), string(s.Role), strings.Join(s.Refs, ","))
		}
		if err := t.Flush(); err != nil {
			return err
		}
	}
	if len(v.OrphanSchemas) > 0 {
		cliutil.Writef(w, "Orphan schemas: %s\n", strings.Join(v.OrphanSchemas, ", "))
	}
	writePage(w, "endpoints", v.EndpointPage)
	writePage(w, "schemas", v.SchemaPage)
	for _, warn := range v.Warnings {
		cliutil.Writef(w, "warning: %s: %s\n", warn.Pointer, warn.Message)
	}
	return nil
}

func writePage(w io.Writer, what string, p *engine.PageInfo) {
	if p == nil || !p.HasMore {
		return
	}
	cliutil.Writef(w, "(%s %d-%d of %d; use --offset %d for more)\n", what, p.Offset+1, p.Offset+p.Limit, p.Total, p.Offset+p.Limit)
}
