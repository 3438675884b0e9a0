package generator

import (
	"bytes"
	"embed"
	"regexp"
	"strconv"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates *template.Template

func init() {
	var err error
	templates, err = template.New("").
		Funcs(templateFuncs).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		panic(err)
	}
}

// templateFuncs provides custom functions for templates
var templateFuncs = template.FuncMap{
	"quote":       strconv.Quote,
	"join":        strings.Join,
	"goDoc":       goDoc,
	"tsDoc":       tsDoc,
	"pyDoc":       pyDoc,
	"tsEnum":      tsEnum,
	"tsArgs":      tsArgs,
	"goParamLine": goParamLine,
	"pyEnumBase":  pyEnumBase,
	"pyDefault":   pyDefault,
}

// executeTemplate executes a template by name and tidies blank lines.
func executeTemplate(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return tidy(buf.Bytes()), nil
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// tidy collapses runs of blank lines, strips trailing spaces and ends the
// text with exactly one newline.
func tidy(src []byte) []byte {
	lines := strings.Split(string(src), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	out := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return []byte(strings.TrimLeft(strings.TrimRight(out, "\n"), "\n") + "\n")
}

func (d *decl) IsEnum() bool   { return d.Kind == declEnum }
func (d *decl) IsStruct() bool { return d.Kind == declStruct }

func goDoc(indent string, lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(indent)
		b.WriteString("// ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}

func tsDoc(indent string, lines []string) string {
	switch len(lines) {
	case 0:
		return ""
	case 1:
		return indent + "/** " + escapeComment(lines[0]) + " */\n"
	}
	var b strings.Builder
	b.WriteString(indent + "/**\n")
	for _, l := range lines {
		b.WriteString(indent + " * " + escapeComment(l) + "\n")
	}
	b.WriteString(indent + " */\n")
	return b.String()
}

func escapeComment(s string) string {
	return strings.ReplaceAll(s, "*/", "*\\/")
}

func pyDoc(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	text := strings.ReplaceAll(strings.Join(lines, "\n    "), `"""`, `\"\"\"`)
	return "\n    \"\"\"" + text + "\"\"\""
}

func tsEnum(d *decl) string {
	if len(d.Values) == 0 {
		return d.BaseType
	}
	literals := make([]string, len(d.Values))
	for i, v := range d.Values {
		literals[i] = v.Literal
	}
	return strings.Join(literals, " | ")
}

func tsArgs(op operation) string {
	var args []string
	if len(op.Params) > 0 {
		var fields []string
		anyRequired := false
		for _, p := range op.Params {
			opt := "?"
			if p.Required {
				opt, anyRequired = "", true
			}
			fields = append(fields, p.Name+opt+": "+p.Type)
		}
		arg := "params: { " + strings.Join(fields, "; ") + " }"
		if !anyRequired {
			arg += " = {}"
		}
		args = append(args, arg)
	}
	if op.Body != nil {
		opt := "?"
		if op.Body.Required {
			opt = ""
		}
		args = append(args, "body"+opt+": "+op.Body.Type)
	}
	return strings.Join(args, ", ")
}

// goParamLine renders the statement that copies one parameter into a
// url.Values or http.Header named target.
func goParamLine(target string, p param) string {
	key := strconv.Quote(p.Wire)
	switch {
	case p.Slice:
		return "\tfor _, v := range params." + p.Name + " {\n\t\t" + target + ".Add(" + key + ", fmt.Sprint(v))\n\t}"
	case p.Pointer:
		return "\tif params." + p.Name + " != nil {\n\t\t" + target + ".Set(" + key + ", fmt.Sprint(*params." + p.Name + "))\n\t}"
	case !p.Required && !pointerable(p.Type):
		return "\tif params." + p.Name + " != nil {\n\t\t" + target + ".Set(" + key + ", fmt.Sprint(params." + p.Name + "))\n\t}"
	default:
		return "\t" + target + ".Set(" + key + ", fmt.Sprint(params." + p.Name + "))"
	}
}

func pyEnumBase(base string) string {
	switch base {
	case "int", "float":
		return base
	default:
		return "str"
	}
}

func pyDefault(f field) string {
	switch {
	case f.Name != f.Wire && f.Required:
		return " = field(metadata={\"json\": " + strconv.Quote(f.Wire) + "})"
	case f.Name != f.Wire:
		return " = field(default=None, metadata={\"json\": " + strconv.Quote(f.Wire) + "})"
	case !f.Required:
		return " = None"
	default:
		return ""
	}
}
