package normalizer

import (
	"slices"

	"github.com/erraggy/oassync/internal/httputil"
	"github.com/erraggy/oassync/ir"
	"go.yaml.in/yaml/v4"
)

const (
	mediaJSON      = httputil.MediaTypeJSON
	mediaMultipart = "multipart/form-data"
	mediaForm      = "application/x-www-form-urlencoded"
)

// legacyServers derives one server per scheme from host, basePath and schemes.
func (b *builder) legacyServers() {
	host := scalar(mapGet(b.root, "host"))
	basePath := scalar(mapGet(b.root, "basePath"))
	if host == "" {
		if basePath != "" {
			b.doc.Servers = append(b.doc.Servers, ir.Server{URL: basePath})
		}
		return
	}
	schemes := stringList(mapGet(b.root, "schemes"))
	if len(schemes) == 0 {
		schemes = []string{"https"}
	}
	for _, scheme := range schemes {
		b.doc.Servers = append(b.doc.Servers, ir.Server{URL: scheme + "://" + host + basePath})
	}
}

func (b *builder) legacySecuritySchemes() {
	mapEach(mapGet(b.root, "securityDefinitions"), func(name string, n *yaml.Node) {
		scheme := &ir.SecurityScheme{
			Type:        scalar(mapGet(n, "type")),
			Description: scalar(mapGet(n, "description")),
			Name:        scalar(mapGet(n, "name")),
			In:          scalar(mapGet(n, "in")),
		}
		if scheme.Type == "basic" {
			scheme.Type, scheme.Scheme = "http", "basic"
		}
		b.doc.SecuritySchemes.Set(name, scheme)
	})
}

// legacyParameters splits 2.0 parameters into plain parameters and a request
// body: one "body" parameter, or every "formData" parameter folded into an
// inline object.
func (b *builder) legacyParameters(ep *ir.Endpoint, op *yaml.Node, params []rawParam) {
	var form []rawParam
	for _, p := range params {
		switch p.in {
		case "body":
			if ep.RequestBody != nil {
				b.violate(p.node, p.ptr, "only one body parameter is allowed")
				continue
			}
			schema := mapGet(p.node, "schema")
			if schema == nil {
				b.violate(p.node, child(p.ptr, "schema"), "body parameter requires a schema")
			}
			ep.RequestBody = &ir.RequestBody{
				Required:     boolean(mapGet(p.node, "required")),
				Description:  scalar(mapGet(p.node, "description")),
				ContentTypes: b.mediaTypes(op, "consumes"),
				Schema:       b.schema(schema, child(p.ptr, "schema"), 0),
			}
		case "formData":
			form = append(form, p)
		default:
			ep.Parameters = append(ep.Parameters, &ir.Parameter{
				Name:        p.name,
				In:          p.in,
				Required:    p.in == ir.InPath || boolean(mapGet(p.node, "required")),
				Deprecated:  boolean(mapGet(p.node, "x-deprecated")),
				Description: scalar(mapGet(p.node, "description")),
				Schema:      b.legacyParamSchema(p),
			})
		}
	}
	if len(form) == 0 {
		return
	}
	if ep.RequestBody != nil {
		b.violate(form[0].node, form[0].ptr, "body and formData parameters cannot be combined")
		return
	}
	ep.RequestBody = b.formBody(op, form)
}

// legacyParamSchema reads the type information declared directly on a 2.0
// non-body parameter.
func (b *builder) legacyParamSchema(p rawParam) *ir.SchemaRef {
	ref := b.schema(p.node, p.ptr, 0)
	if ref.Inline != nil {
		ref.Inline.Description = ""
		ref.Inline.Required = nil
	}
	return ref
}

func (b *builder) formBody(op *yaml.Node, form []rawParam) *ir.RequestBody {
	obj := &ir.Schema{
		Kind:       ir.KindObject,
		Type:       "object",
		Properties: ir.NewOrderedMap[*ir.SchemaRef](),
	}
	hasFile := false
	for _, p := range form {
		if scalar(mapGet(p.node, "type")) == "file" {
			hasFile = true
		}
		prop := b.legacyParamSchema(p)
		if prop.Inline != nil {
			prop.Inline.Description = scalar(mapGet(p.node, "description"))
		}
		obj.Properties.Set(p.name, prop)
		if boolean(mapGet(p.node, "required")) {
			obj.Required = append(obj.Required, p.name)
		}
	}

	var types []string
	for _, t := range b.declaredMediaTypes(op, "consumes") {
		if base := httputil.MediaBase(t); base == mediaMultipart || base == mediaForm {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		if hasFile {
			types = []string{mediaMultipart}
		} else {
			types = []string{mediaForm}
		}
	}
	return &ir.RequestBody{
		Required:     len(obj.Required) > 0,
		ContentTypes: types,
		Schema:       ir.InlineSchema(obj),
	}
}

// declaredMediaTypes returns the operation's consumes/produces list, falling
// back to the document-level one.
func (b *builder) declaredMediaTypes(op *yaml.Node, field string) []string {
	if types := stringList(mapGet(op, field)); len(types) > 0 {
		return types
	}
	return stringList(mapGet(b.root, field))
}

// mediaTypes is declaredMediaTypes defaulting to application/json.
func (b *builder) mediaTypes(op *yaml.Node, field string) []string {
	types := b.declaredMediaTypes(op, field)
	if len(types) == 0 {
		return []string{mediaJSON}
	}
	return slices.Clone(types)
}
