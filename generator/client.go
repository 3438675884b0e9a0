package generator

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/oassync/internal/httputil"
	"github.com/erraggy/oassync/internal/naming"
	"github.com/erraggy/oassync/ir"
)

// operation is one endpoint prepared for client rendering.
type operation struct {
	Name       string
	ParamsType string
	Method     string
	Path       string
	Doc        []string
	PathExpr   string
	Params     []param
	Body       *bodyParam
	Result     string
	ResultPtr  bool
	Query      []param
	Headers    []param
}

type param struct {
	Name     string
	Wire     string
	Type     string
	Required bool
	Slice    bool
	Pointer  bool
}

type bodyParam struct {
	Type     string
	Required bool
	Pointer  bool
}

var templateParam = regexp.MustCompile(`\{([^{}]+)\}`)

// reservedMethods are names the client scaffolding already uses.
var reservedMethods = setOf("request", "constructor", "do", "NewClient")

func (m *model) operations() []operation {
	m.refs = make(map[string]bool)
	methods := make(map[string]bool)
	var ops []operation
	for key, ep := range m.doc.Endpoints.All() {
		if m.ctx.Err() != nil {
			break
		}
		ops = append(ops, m.operation(key, ep, methods))
	}
	return ops
}

func (m *model) methodName(key string, ep *ir.Endpoint, used map[string]bool) string {
	base := ep.OperationID
	if base == "" {
		base = strings.ToLower(ep.Method) + " " + templateParam.ReplaceAllString(ep.Path, "by $1")
	}
	var name string
	if m.lang == langGo {
		name = naming.Identifier(naming.ToPascalCase(base), "Call")
	} else {
		name = naming.Identifier(naming.ToCamelCase(base), "call")
	}
	if reservedMethods[name] || reservedWords[m.lang][name] {
		name += "Op"
	}
	if !used[name] {
		used[name] = true
		return name
	}
	for i := 2; ; i++ {
		candidate := name + strconv.Itoa(i)
		if !used[candidate] {
			used[candidate] = true
			m.warn("endpoints/"+key, "method name %q already used; renamed to %q", name, candidate)
			return candidate
		}
	}
}

func (m *model) operation(key string, ep *ir.Endpoint, used map[string]bool) operation {
	path := "endpoints/" + key
	op := operation{
		Name:   m.methodName(key, ep, used),
		Method: strings.ToUpper(ep.Method),
		Path:   ep.Path,
		Doc:    m.docLines(firstNonEmpty(ep.Summary, ep.Description)),
	}
	if m.lang == langGo {
		op.ParamsType = m.reserve(op.Name+"Params", "Params", path)
	}

	byWire := make(map[string]param)
	for _, p := range ep.Parameters {
		ppath := path + "/parameters/" + p.ID()
		typ := m.typeExpr(p.Schema, ppath+"/schema", 0)
		required := p.Required || p.In == ir.InPath
		pr := param{Wire: p.Name, Type: typ, Required: required}
		pr.Slice = strings.HasPrefix(typ, "[]") || strings.HasSuffix(typ, "[]")
		if m.lang == langGo {
			pr.Name = naming.Identifier(naming.ToPascalCase(p.Name), "Param")
			if !required && pointerable(typ) {
				pr.Type, pr.Pointer = "*"+typ, true
			}
		} else {
			pr.Name = naming.Identifier(naming.ToCamelCase(p.Name), "param")
		}
		switch p.In {
		case ir.InPath:
			byWire[p.Name] = pr
		case ir.InQuery:
			op.Query = append(op.Query, pr)
		case ir.InHeader:
			op.Headers = append(op.Headers, pr)
		default:
			m.warn(ppath, "%s parameter %q is not sent by the generated client", p.In, p.Name)
			continue
		}
		op.Params = append(op.Params, pr)
	}
	op.PathExpr = m.pathExpr(ep.Path, byWire)

	if rb := ep.RequestBody; rb != nil {
		body := &bodyParam{Type: m.typeExpr(rb.Schema, path+"/request_body/schema", 0), Required: rb.Required}
		if m.lang == langGo && !rb.Required && pointerable(body.Type) {
			body.Type, body.Pointer = "*"+body.Type, true
		}
		if len(rb.ContentTypes) > 0 && !httputil.IsJSONMedia(rb.ContentTypes[0]) {
			m.warn(path+"/request_body", "request body media type %s is sent as JSON", rb.ContentTypes[0])
		}
		op.Body = body
	}

	for code, resp := range ep.Responses.All() {
		if resp.IsSuccess() && resp.Schema != nil {
			op.Result = m.typeExpr(resp.Schema, path+"/responses/"+code+"/schema", 0)
			op.ResultPtr = m.lang == langGo && pointerable(op.Result)
			break
		}
	}
	return op
}

// pathExpr renders the path template as a string expression that
// substitutes escaped path parameters.
func (m *model) pathExpr(template string, params map[string]param) string {
	var parts []string
	last := 0
	for _, loc := range templateParam.FindAllStringSubmatchIndex(template, -1) {
		literal := template[last:loc[0]]
		name := template[loc[2]:loc[3]]
		last = loc[1]
		p, ok := params[name]
		if m.lang == langGo {
			if literal != "" {
				parts = append(parts, strconv.Quote(literal))
			}
			if ok {
				parts = append(parts, fmt.Sprintf("url.PathEscape(fmt.Sprint(params.%s))", p.Name))
			} else {
				parts = append(parts, strconv.Quote(template[loc[0]:loc[1]]))
			}
			continue
		}
		parts = append(parts, escapeTemplateLiteral(literal))
		if ok {
			parts = append(parts, fmt.Sprintf("${encodeURIComponent(String(params.%s))}", p.Name))
		} else {
			parts = append(parts, escapeTemplateLiteral(template[loc[0]:loc[1]]))
		}
	}
	rest := template[last:]
	if m.lang == langGo {
		if rest != "" || len(parts) == 0 {
			parts = append(parts, strconv.Quote(rest))
		}
		return strings.Join(parts, " + ")
	}
	parts = append(parts, escapeTemplateLiteral(rest))
	return "`" + strings.Join(parts, "") + "`"
}

func escapeTemplateLiteral(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "`", "\\`", "${", "\\${")
	return r.Replace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// referencedTypes returns the declared type names the client refers to.
func (m *model) referencedTypes() []string {
	out := make([]string, 0, len(m.refs))
	for name := range m.refs {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
