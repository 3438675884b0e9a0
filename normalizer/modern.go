package normalizer

import (
	"github.com/erraggy/oassync/ir"
	"go.yaml.in/yaml/v4"
)

func (b *builder) modernParameters(ep *ir.Endpoint, params []rawParam) {
	for _, p := range params {
		param := &ir.Parameter{
			Name:        p.name,
			In:          p.in,
			Required:    p.in == ir.InPath || boolean(mapGet(p.node, "required")),
			Deprecated:  boolean(mapGet(p.node, "deprecated")),
			Description: scalar(mapGet(p.node, "description")),
		}
		if schema := mapGet(p.node, "schema"); schema != nil {
			param.Schema = b.schema(schema, child(p.ptr, "schema"), 0)
		} else if content := mapGet(p.node, "content"); content != nil {
			_, media, mediaPtr := preferredMedia(content, child(p.ptr, "content"))
			if s := mapGet(media, "schema"); s != nil {
				param.Schema = b.schema(s, child(mediaPtr, "schema"), 0)
			}
		}
		ep.Parameters = append(ep.Parameters, param)
	}
}

func (b *builder) requestBody(ep *ir.Endpoint, n *yaml.Node, ptr string) {
	if n == nil {
		return
	}
	if ref := mapGet(n, "$ref"); ref != nil {
		target, targetPtr := b.resolveRef(ref, child(ptr, "$ref"))
		if target == nil {
			return
		}
		n, ptr = target, targetPtr
	}
	if !isMapping(n) {
		b.violate(n, ptr, "requestBody must be an object")
		return
	}
	body := &ir.RequestBody{
		Required:    boolean(mapGet(n, "required")),
		Description: scalar(mapGet(n, "description")),
	}
	types, media, mediaPtr := preferredMedia(mapGet(n, "content"), child(ptr, "content"))
	body.ContentTypes = types
	if schema := mapGet(media, "schema"); schema != nil {
		body.Schema = b.schema(schema, child(mediaPtr, "schema"), 0)
	}
	ep.RequestBody = body
}
