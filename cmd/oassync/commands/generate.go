package commands

import (
	"io"
	"strings"

	"github.com/erraggy/oassync/engine"
	"github.com/erraggy/oassync/generator"
	"github.com/erraggy/oassync/internal/cliutil"
	"github.com/erraggy/oassync/internal/severity"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		target    string
		outputDir string
		strict    bool
		style     = generator.DefaultStyle()
	)
	targets := make([]string, 0, len(generator.Targets()))
	for _, t := range generator.Targets() {
		targets = append(targets, string(t))
	}
	cmd := &cobra.Command{
		Use:   "generate <file|url>",
		Short: "Generate typed code for one target",
		Long: `Generate typed code from a document. Without --out-dir the files are
printed to stdout. Documents with structural violations are rejected unless
--strict=false is given.

Targets: ` + strings.Join(targets, ", "),
		Example: `  oassync generate --target typescript-fetch --out-dir ./src/api openapi.yaml
  oassync generate --target go-client --package petstore --docs --out-dir ./petstore openapi.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(func(eng *engine.Engine) error {
				view, err := eng.Generate(cmd.Context(), engine.GenerateRequest{
					Source:    args[0],
					Target:    target,
					Style:     style,
					UseCache:  !a.noCache,
					Strict:    &strict,
					OutputDir: outputDir,
				})
				if err != nil {
					return err
				}
				for _, w := range view.Warnings {
					switch w.Severity {
					case severity.SeverityInfo:
						a.logger.Info(w.Message, "path", w.Path)
					case severity.SeverityError:
						a.logger.Error(w.Message, "path", w.Path)
					default:
						a.logger.Warn(w.Message, "path", w.Path)
					}
				}
				return a.render(view, func(w io.Writer) error { return writeGenerateText(w, view) })
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&target, "target", "t", "", "output target (required)")
	fl.StringVar(&outputDir, "out-dir", "", "write the files to this directory")
	fl.BoolVar(&strict, "strict", true, "reject documents with structural violations (--strict=false to generate anyway)")
	fl.StringVar(&style.TypeNaming, "type-naming", style.TypeNaming, "PascalCase, camelCase or snake_case")
	fl.BoolVar(&style.GenerateDocs, "docs", false, "emit descriptions as comments")
	fl.StringVar(&style.PackageName, "package", style.PackageName, "Go package name for Go targets")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func writeGenerateText(w io.Writer, v *engine.GenerateView) error {
	if len(v.Written) > 0 {
		for _, path := range v.Written {
			cliutil.Writef(w, "wrote %s\n", path)
		}
		return nil
	}
	for i, f := range v.Files {
		if i > 0 {
			cliutil.Writef(w, "\n")
		}
		cliutil.Writef(w, "// ==> %s <==\n%s", f.Name, f.Content)
	}
	return nil
}
