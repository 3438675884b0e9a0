package generator

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/oassync/internal/issues"
	"github.com/erraggy/oassync/internal/naming"
	"github.com/erraggy/oassync/internal/severity"
	"github.com/erraggy/oassync/ir"
)

type declKind int

const (
	declStruct declKind = iota
	declEnum
	declAlias
)

// decl is one language-neutral type declaration, already resolved to the
// target language's type expressions.
type decl struct {
	Kind     declKind
	Name     string
	IsAlias  bool
	Source   string
	Doc      []string
	Fields   []field
	Embeds   []string
	Target   string
	BaseType string
	Values   []enumValue
}

type field struct {
	Name     string
	Wire     string
	Type     string
	Required bool
	Doc      []string
}

type enumValue struct {
	Name    string
	Literal string
}

// model converts an IR document into declarations for one language.
type model struct {
	ctx       context.Context
	lang      language
	style     Style
	doc       *ir.Document
	typeNames map[string]string
	used      map[string]bool
	decls     []*decl
	pyImports map[string]map[string]bool
	// refs collects type names referenced while it is non-nil.
	refs     map[string]bool
	warnings []Warning
}

func newModel(ctx context.Context, doc *ir.Document, lang language, style Style) *model {
	return &model{
		ctx:       ctx,
		lang:      lang,
		style:     style,
		doc:       doc,
		typeNames: make(map[string]string),
		used:      make(map[string]bool),
		pyImports: make(map[string]map[string]bool),
	}
}

func (m *model) warn(path, format string, args ...any) {
	m.report(severity.SeverityWarning, path, fmt.Sprintf(format, args...))
}

func (m *model) report(sev severity.Severity, path, msg string) {
	m.warnings = append(m.warnings, Warning{Path: path, Message: msg, Severity: sev})
}

// reserve returns a unique identifier derived from want, suffixing a counter
// on collisions. Collisions are reported against path.
func (m *model) reserve(want, fallback, path string) string {
	name := naming.Identifier(want, fallback)
	if reservedWords[m.lang][name] {
		name += "_"
	}
	if !m.used[name] {
		m.used[name] = true
		return name
	}
	for i := 2; ; i++ {
		candidate := name + strconv.Itoa(i)
		if !m.used[candidate] {
			m.used[candidate] = true
			m.warn(path, "type name %q already used; renamed to %q", name, candidate)
			return candidate
		}
	}
}

// assignNames fixes every schema's type name before any declaration is
// built, so forward references resolve.
func (m *model) assignNames() {
	for name := range m.doc.Schemas.All() {
		m.typeNames[name] = m.reserve(naming.Apply(m.style.TypeNaming, name), "Schema", "schemas/"+name)
	}
}

func (m *model) build() error {
	m.assignNames()
	for name, s := range m.doc.Schemas.All() {
		if err := m.ctx.Err(); err != nil {
			return err
		}
		m.decls = append(m.decls, m.declare(name, s))
	}
	return nil
}

func (m *model) docLines(text string) []string {
	if !m.style.GenerateDocs {
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func (m *model) declare(name string, s *ir.Schema) *decl {
	path := "schemas/" + name
	d := &decl{Name: m.typeNames[name], Source: name, Doc: m.docLines(s.Description)}

	switch {
	case s.Kind == ir.KindReference:
		d.Kind = declAlias
		d.IsAlias = true
		d.Target = m.refType(s.Ref, path)
	case len(s.Enum) > 0 && s.Kind == ir.KindPrimitive:
		m.enumDecl(d, s, path)
	case s.Kind == ir.KindObject && s.Properties.Len() > 0:
		d.Kind = declStruct
		d.Fields = m.fields(d.Name, s, path)
		if s.AdditionalProperties != nil && m.lang != langTypeScript {
			m.warn(path, "additionalProperties alongside declared properties is not represented")
		}
		if m.lang == langTypeScript && s.AdditionalProperties != nil {
			d.Fields = append(d.Fields, field{Name: "[key: string]", Type: m.typeExpr(s.AdditionalProperties, path+"/additionalProperties", 0) + " | unknown", Required: true})
		}
	case s.Kind == ir.KindComposition && len(s.AllOf) > 0 && len(s.OneOf) == 0 && len(s.AnyOf) == 0:
		m.allOfDecl(d, s, path)
	default:
		d.Kind = declAlias
		d.Target = m.schemaExpr(s, path, 0)
	}
	return d
}

func (m *model) enumDecl(d *decl, s *ir.Schema, path string) {
	d.Kind = declEnum
	d.BaseType = primitiveType(m.lang, s.Type, s.Format)
	numeric := s.Type == "integer" || s.Type == "number"
	seen := make(map[string]bool)
	for i, v := range s.Enum {
		literal := strconv.Quote(v)
		if numeric {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				m.warn(path, "enum value %q is not numeric; skipped", v)
				continue
			}
			literal = v
		}
		var constName string
		switch m.lang {
		case langGo:
			constName = d.Name + naming.ToPascalCase(v)
		case langPython:
			constName = strings.ToUpper(naming.ToSnakeCase(v))
		default:
			constName = naming.ToPascalCase(v)
		}
		if constName == d.Name || constName == "" {
			constName = d.Name + "Value" + strconv.Itoa(i)
			if m.lang == langPython {
				constName = "VALUE_" + strconv.Itoa(i)
			}
		}
		constName = naming.Identifier(constName, "Value")
		if reservedWords[m.lang][constName] {
			constName += "_"
		}
		if seen[constName] {
			constName += "_" + strconv.Itoa(i)
		}
		seen[constName] = true
		d.Values = append(d.Values, enumValue{Name: constName, Literal: literal})
	}
	if m.lang == langPython {
		m.needPy("Enum")
	}
}

func (m *model) allOfDecl(d *decl, s *ir.Schema, path string) {
	if m.lang == langTypeScript {
		d.Kind = declAlias
		d.Target = m.schemaExpr(s, path, 0)
		return
	}
	d.Kind = declStruct
	for i, member := range s.AllOf {
		mpath := path + "/allOf/" + strconv.Itoa(i)
		switch {
		case member == nil:
		case member.IsRef():
			d.Embeds = append(d.Embeds, m.refType(member.Ref, mpath))
		case member.Inline != nil && member.Inline.Properties.Len() > 0:
			d.Fields = append(d.Fields, m.fields(d.Name, member.Inline, mpath)...)
		default:
			m.warn(mpath, "allOf member without properties is not represented")
		}
	}
}

func (m *model) fields(owner string, s *ir.Schema, path string) []field {
	var out []field
	seen := make(map[string]bool)
	for wire, ref := range s.Properties.All() {
		ppath := path + "/properties/" + wire
		required := s.IsRequired(wire)
		typ := m.typeExpr(ref, ppath, 0)
		nullable := ref != nil && ref.Inline != nil && ref.Inline.Nullable

		f := field{Wire: wire, Required: required}
		if ref != nil && ref.Inline != nil {
			f.Doc = m.docLines(ref.Inline.Description)
		}
		switch m.lang {
		case langGo:
			f.Name = naming.Identifier(naming.ToPascalCase(wire), "Field")
			if (!required || nullable || typ == owner) && pointerable(typ) {
				typ = "*" + typ
			}
		case langPython:
			f.Name = naming.Identifier(naming.ToSnakeCase(wire), "field")
			if reservedWords[langPython][f.Name] {
				f.Name += "_"
			}
			if !required || nullable {
				typ += " | None"
			}
		default:
			f.Name = wire
			if !naming.IsIdentifier(wire) {
				f.Name = strconv.Quote(wire)
			}
			if nullable {
				typ += " | null"
			}
		}
		if seen[f.Name] {
			m.warn(ppath, "field name %q collides with another property; renamed to %q", f.Name, f.Name+"_")
			f.Name += "_"
		}
		seen[f.Name] = true
		f.Type = typ
		out = append(out, f)
	}
	if m.lang == langPython {
		// dataclass fields with defaults must follow those without.
		slices.SortStableFunc(out, func(a, b field) int {
			switch {
			case a.Required == b.Required:
				return 0
			case a.Required:
				return -1
			default:
				return 1
			}
		})
	}
	return out
}

func pointerable(goType string) bool {
	return !strings.HasPrefix(goType, "[]") &&
		!strings.HasPrefix(goType, "map[") &&
		!strings.HasPrefix(goType, "*") &&
		goType != "any" &&
		goType != "json.RawMessage"
}

func (m *model) refType(name, path string) string {
	if t, ok := m.typeNames[name]; ok {
		if m.refs != nil {
			m.refs[t] = true
		}
		return t
	}
	m.warn(path, "unresolved reference to schema %q rendered as an untyped value", name)
	return m.anyType()
}

func (m *model) anyType() string {
	if m.lang == langPython {
		m.needPy("Any")
	}
	return primitiveTypes[m.lang][""]
}

func (m *model) needPy(name string) {
	mod := pythonImports[name]
	if mod == "" {
		return
	}
	if m.pyImports[mod] == nil {
		m.pyImports[mod] = make(map[string]bool)
	}
	m.pyImports[mod][name] = true
}

// typeExpr renders a schema position as a type expression.
func (m *model) typeExpr(ref *ir.SchemaRef, path string, depth int) string {
	switch {
	case ref == nil:
		return m.anyType()
	case ref.IsRef():
		return m.refType(ref.Ref, path)
	default:
		return m.schemaExpr(ref.Inline, path, depth+1)
	}
}

func (m *model) schemaExpr(s *ir.Schema, path string, depth int) string {
	if s == nil || depth > maxRenderDepth {
		return m.anyType()
	}
	switch s.Kind {
	case ir.KindReference:
		return m.refType(s.Ref, path)
	case ir.KindArray:
		elem := m.typeExpr(s.Items, path+"/items", depth)
		switch m.lang {
		case langGo:
			return "[]" + elem
		case langPython:
			return "list[" + elem + "]"
		default:
			if strings.ContainsAny(elem, "|&") {
				elem = "(" + elem + ")"
			}
			return elem + "[]"
		}
	case ir.KindObject:
		return m.objectExpr(s, path, depth)
	case ir.KindComposition:
		return m.compositionExpr(s, path, depth)
	default:
		return m.primitiveExpr(s)
	}
}

func (m *model) primitiveExpr(s *ir.Schema) string {
	if len(s.Enum) > 0 && m.lang != langGo {
		numeric := s.Type == "integer" || s.Type == "number"
		var literals []string
		for _, v := range s.Enum {
			if numeric {
				literals = append(literals, v)
			} else {
				literals = append(literals, strconv.Quote(v))
			}
		}
		if m.lang == langPython {
			m.needPy("Literal")
			return "Literal[" + strings.Join(literals, ", ") + "]"
		}
		return strings.Join(literals, " | ")
	}
	t := primitiveType(m.lang, s.Type, s.Format)
	if m.lang == langPython {
		m.needPy(t)
	}
	return t
}

func (m *model) objectExpr(s *ir.Schema, path string, depth int) string {
	if s.Properties.Len() == 0 {
		value := m.anyType()
		if s.AdditionalProperties != nil {
			value = m.typeExpr(s.AdditionalProperties, path+"/additionalProperties", depth)
		}
		switch m.lang {
		case langGo:
			return "map[string]" + value
		case langPython:
			return "dict[str, " + value + "]"
		default:
			return "Record<string, " + value + ">"
		}
	}
	switch m.lang {
	case langTypeScript:
		var b strings.Builder
		b.WriteString("{ ")
		for wire, ref := range s.Properties.All() {
			name := wire
			if !naming.IsIdentifier(wire) {
				name = strconv.Quote(wire)
			}
			opt := "?"
			if s.IsRequired(wire) {
				opt = ""
			}
			fmt.Fprintf(&b, "%s%s: %s; ", name, opt, m.typeExpr(ref, path+"/properties/"+wire, depth))
		}
		b.WriteString("}")
		return b.String()
	case langGo:
		m.warn(path, "inline object rendered as map[string]any; declare it as a named schema for a struct")
		return "map[string]any"
	default:
		m.warn(path, "inline object rendered as dict[str, Any]; declare it as a named schema for a dataclass")
		return "dict[str, " + m.anyType() + "]"
	}
}

func (m *model) compositionExpr(s *ir.Schema, path string, depth int) string {
	if m.lang == langGo {
		m.warn(path, "composition rendered as json.RawMessage")
		return "json.RawMessage"
	}
	var parts []string
	sep := " | "
	members := append(append([]*ir.SchemaRef{}, s.OneOf...), s.AnyOf...)
	switch {
	case len(s.AllOf) > 0 && len(members) == 0:
		if m.lang == langPython {
			m.warn(path, "allOf composition rendered as Any")
			return m.anyType()
		}
		members, sep = s.AllOf, " & "
	case len(s.AllOf) > 0:
		m.warn(path, "allOf combined with oneOf/anyOf; allOf members ignored")
	}
	for i, member := range members {
		t := m.typeExpr(member, path+"/"+strconv.Itoa(i), depth)
		if !slices.Contains(parts, t) {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return m.anyType()
	}
	return strings.Join(parts, sep)
}

// maxRenderDepth bounds recursion through nested inline schemas.
const maxRenderDepth = 32

func sortedWarnings(w []Warning) []Warning {
	if len(w) == 0 {
		return []Warning{}
	}
	return issues.Sort(w)
}
