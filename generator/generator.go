package generator

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/oassync"
	"github.com/erraggy/oassync/internal/issues"
	"github.com/erraggy/oassync/internal/severity"
	"github.com/erraggy/oassync/ir"
	"github.com/erraggy/oassync/logging"
	"github.com/erraggy/oassync/oaserrors"
	"golang.org/x/tools/imports"
)

// Warning is a non-fatal generation issue, such as a construct rendered in
// a degraded form.
type Warning = issues.Issue

// File is one generated output file.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Result contains the generated files and warnings.
type Result struct {
	Target   Target    `json:"target"`
	Files    []File    `json:"files"`
	Warnings []Warning `json:"warnings"`
}

// File returns the named file, or nil.
func (r *Result) File(name string) *File {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

type config struct {
	logger logging.Logger
}

// Option configures a Generate call.
type Option func(*config) error

// WithLogger sets the logger for debug output.
func WithLogger(l logging.Logger) Option {
	return func(c *config) error {
		c.logger = logging.OrNop(l)
		return nil
	}
}

// Generate renders doc for target. Unknown targets and invalid styles are
// ConfigErrors; unsupported constructs degrade to best-effort output with
// warnings. Identical inputs always produce byte-identical files.
func Generate(ctx context.Context, doc *ir.Document, target Target, style Style, opts ...Option) (*Result, error) {
	cfg := &config{logger: logging.NopLogger{}}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, &oaserrors.ConfigError{Option: "generate", Message: "invalid option", Cause: err}
		}
	}
	spec, ok := targets[target]
	if !ok {
		return nil, unknownTarget(string(target))
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &oaserrors.ConfigError{Option: "document", Message: "a document is required"}
	}
	style = style.withDefaults()

	m := newModel(ctx, doc, spec.lang, style)
	if err := m.build(); err != nil {
		return nil, err
	}

	res := &Result{Target: target}
	types, err := m.renderTypes(spec)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, types)

	if spec.caps&CapClient != 0 {
		ops := m.operations()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		client, err := m.renderClient(spec, ops)
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, client)
	}

	res.Warnings = sortedWarnings(m.warnings)
	cfg.logger.Debug("generated code",
		"target", string(target),
		"files", len(res.Files),
		"types", len(m.decls),
		"warnings", len(res.Warnings),
	)
	return res, nil
}

type pyImport struct {
	Module string
	Names  []string
}

type typesData struct {
	Title   string
	Version string
	Package string
	Decls   []*decl
	Imports []pyImport
}

type clientData struct {
	Title     string
	Version   string
	Package   string
	UserAgent string
	Types     []string
	Ops       []operation
}

// header returns the title and version for generated file headers. Both are
// folded onto one line since they land in line comments.
func (m *model) header() (title, version string) {
	title, version = oneLine(m.doc.Info.Title), oneLine(m.doc.Info.Version)
	if title == "" {
		title = "API"
	}
	return title, version
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (m *model) renderTypes(spec targetSpec) (File, error) {
	title, version := m.header()
	data := typesData{Title: title, Version: version, Package: m.style.PackageName, Decls: m.decls}

	var name string
	switch spec.lang {
	case langGo:
		name = "go_types"
	case langTypeScript:
		name = "ts_types"
	default:
		name = "python_models"
		var moved []*decl
		data.Decls, moved = pythonOrder(m.decls)
		for _, d := range moved {
			m.report(severity.SeverityInfo, "schemas/"+d.Source,
				fmt.Sprintf("class %s moved after its base classes", d.Name))
		}
		for _, d := range data.Decls {
			if d.Kind == declAlias {
				m.needPy("TypeAlias")
			}
		}
		data.Imports = m.pythonImportList()
	}
	return m.render(spec, spec.typesFile, name, data)
}

func (m *model) renderClient(spec targetSpec, ops []operation) (File, error) {
	title, version := m.header()
	data := clientData{
		Title:     title,
		Version:   version,
		Package:   m.style.PackageName,
		UserAgent: fmt.Sprintf("oassync/%s/generated/%s", oassync.Version(), title),
		Types:     m.referencedTypes(),
		Ops:       ops,
	}
	name := "ts_client"
	if spec.lang == langGo {
		name = "go_client"
	}
	return m.render(spec, spec.clientFile, name, data)
}

func (m *model) render(spec targetSpec, file, tmpl string, data any) (File, error) {
	out, err := executeTemplate(tmpl, data)
	if err != nil {
		return File{}, &oaserrors.CodegenError{
			Target:  string(spec.lang),
			File:    file,
			Reason:  oaserrors.CodegenRender,
			Message: "template execution failed",
			Cause:   err,
		}
	}
	if spec.lang == langGo {
		formatted, ferr := imports.Process(file, out, nil)
		if ferr != nil {
			m.report(severity.SeverityError, file, "gofmt/goimports failed; output left unformatted: "+ferr.Error())
		} else {
			out = formatted
		}
	}
	return File{Name: file, Content: string(out)}, nil
}

// pythonOrder moves each class after the classes it inherits from; the
// relative order is otherwise kept. moved lists the classes that had to wait
// for a base, in input order.
func pythonOrder(decls []*decl) (ordered, moved []*decl) {
	emitted := make(map[string]bool, len(decls))
	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		declared[d.Name] = true
	}
	ordered = make([]*decl, 0, len(decls))
	pending := slices.Clone(decls)
	for round := 0; len(pending) > 0; round++ {
		progress := false
		var rest []*decl
		for _, d := range pending {
			ready := true
			for _, base := range d.Embeds {
				if declared[base] && !emitted[base] && base != d.Name {
					ready = false
					break
				}
			}
			if ready {
				ordered = append(ordered, d)
				emitted[d.Name] = true
				progress = true
			} else {
				rest = append(rest, d)
			}
		}
		if round == 0 {
			moved = slices.Clone(rest)
		}
		if !progress {
			ordered = append(ordered, rest...)
			break
		}
		pending = rest
	}
	return ordered, moved
}

func (m *model) pythonImportList() []pyImport {
	var out []pyImport
	for mod, names := range m.pyImports {
		imp := pyImport{Module: mod}
		for n := range names {
			imp.Names = append(imp.Names, n)
		}
		slices.Sort(imp.Names)
		out = append(out, imp)
	}
	slices.SortFunc(out, func(a, b pyImport) int { return cmp.Compare(a.Module, b.Module) })
	return out
}
