package normalizer

import (
	"strconv"
	"strings"

	"github.com/erraggy/oassync/ir"
	"go.yaml.in/yaml/v4"
)

// anySchema is the placeholder used where a schema cannot be interpreted.
func anySchema() *ir.SchemaRef {
	return ir.InlineSchema(&ir.Schema{Kind: ir.KindPrimitive})
}

// schema converts a schema node into a reference: a named reference for
// "$ref" nodes, an inline schema otherwise. Returns nil for a nil node.
func (b *builder) schema(n *yaml.Node, ptr string, depth int) *ir.SchemaRef {
	n = resolveAlias(n)
	if n == nil {
		return nil
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!bool" {
		// 3.1 boolean schemas: true accepts anything, false is rendered the same way.
		return anySchema()
	}
	if n.Kind != yaml.MappingNode {
		b.violate(n, ptr, "schema must be an object")
		return anySchema()
	}
	if ref := mapGet(n, "$ref"); ref != nil {
		return b.schemaRef(ref, child(ptr, "$ref"))
	}
	if depth > b.cfg.maxDepth {
		b.violate(n, ptr, "schema nesting exceeds maximum depth of %d", b.cfg.maxDepth)
		return anySchema()
	}

	s := &ir.Schema{
		Format:      scalar(mapGet(n, "format")),
		Description: scalar(mapGet(n, "description")),
		Nullable:    boolean(mapGet(n, "nullable")) || boolean(mapGet(n, "x-nullable")),
		Deprecated:  boolean(mapGet(n, "deprecated")),
		ReadOnly:    boolean(mapGet(n, "readOnly")),
		WriteOnly:   boolean(mapGet(n, "writeOnly")),
	}

	typ := mapGet(n, "type")
	switch {
	case typ == nil:
	case typ.Kind == yaml.SequenceNode:
		var types []string
		for _, t := range stringList(typ) {
			if t == "null" {
				s.Nullable = true
				continue
			}
			types = append(types, t)
		}
		if len(types) == 1 {
			s.Type = types[0]
		}
	default:
		s.Type = scalar(typ)
	}
	if s.Type == "file" {
		s.Type, s.Format = "string", "binary"
	}

	seqEach(mapGet(n, "enum"), func(_ int, v *yaml.Node) {
		s.Enum = append(s.Enum, scalarText(v))
	})
	if c := mapGet(n, "const"); c != nil && len(s.Enum) == 0 {
		s.Enum = []string{scalarText(c)}
	}

	if props := mapGet(n, "properties"); props != nil {
		propsPtr := child(ptr, "properties")
		if !isMapping(props) {
			b.violate(props, propsPtr, "properties must be an object")
		}
		mapEach(props, func(name string, val *yaml.Node) {
			if s.Properties == nil {
				s.Properties = ir.NewOrderedMap[*ir.SchemaRef]()
			}
			s.Properties.Set(name, b.schema(val, child(propsPtr, name), depth+1))
		})
	}
	s.Required = stringList(mapGet(n, "required"))

	if items := mapGet(n, "items"); items != nil {
		itemsPtr := child(ptr, "items")
		if items.Kind == yaml.SequenceNode {
			// Tuple-style items: the first member describes the element type.
			if len(items.Content) > 0 {
				s.Items = b.schema(items.Content[0], itemsPtr+"/0", depth+1)
			}
		} else {
			s.Items = b.schema(items, itemsPtr, depth+1)
		}
	}

	if ap := mapGet(n, "additionalProperties"); ap != nil {
		switch {
		case ap.Kind == yaml.ScalarNode && boolean(ap):
			s.AdditionalProperties = anySchema()
		case ap.Kind == yaml.MappingNode:
			s.AdditionalProperties = b.schema(ap, child(ptr, "additionalProperties"), depth+1)
		}
	}

	s.AllOf = b.schemaList(mapGet(n, "allOf"), child(ptr, "allOf"), depth)
	s.OneOf = b.schemaList(mapGet(n, "oneOf"), child(ptr, "oneOf"), depth)
	s.AnyOf = b.schemaList(mapGet(n, "anyOf"), child(ptr, "anyOf"), depth)

	switch {
	case len(s.AllOf)+len(s.OneOf)+len(s.AnyOf) > 0:
		s.Kind = ir.KindComposition
	case s.Type == "array" || s.Items != nil:
		s.Kind = ir.KindArray
		s.Type = "array"
	case s.Type == "object" || s.Properties.Len() > 0 || s.AdditionalProperties != nil:
		s.Kind = ir.KindObject
		s.Type = "object"
	default:
		s.Kind = ir.KindPrimitive
	}
	return ir.InlineSchema(s)
}

func (b *builder) schemaList(n *yaml.Node, ptr string, depth int) []*ir.SchemaRef {
	if n == nil {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		b.violate(n, ptr, "must be an array of schemas")
		return nil
	}
	var out []*ir.SchemaRef
	seqEach(n, func(i int, v *yaml.Node) {
		out = append(out, b.schema(v, ptr+"/"+strconv.Itoa(i), depth+1))
	})
	return out
}

// schemaRef converts a "$ref" value into a named reference. Resolution is
// checked once every named schema is known.
func (b *builder) schemaRef(ref *yaml.Node, ptr string) *ir.SchemaRef {
	target := scalar(ref)
	switch {
	case strings.HasPrefix(target, b.schemaPrefix):
		name := strings.TrimPrefix(target, b.schemaPrefix)
		if name == "" || strings.Contains(name, "/") {
			b.violate(ref, ptr, "reference %q does not name a schema", target)
			return anySchema()
		}
		name = pointerUnescape(name)
		b.schemaUses = append(b.schemaUses, refUse{name: name, pointer: ptr, line: ref.Line, column: ref.Column})
		return ir.RefTo(name)
	case strings.HasPrefix(target, "#"):
		b.violate(ref, ptr, "reference %q does not point at a schema definition", target)
	default:
		b.violate(ref, ptr, "external reference %q is not supported", target)
	}
	return anySchema()
}

// namedSchema converts a definitions/components entry. A definition that is
// only a "$ref" becomes a KindReference alias.
func (b *builder) namedSchema(name string, n *yaml.Node, ptr string) *ir.Schema {
	ref := b.schema(n, ptr, 0)
	if ref.IsRef() {
		return &ir.Schema{
			Name:        name,
			Kind:        ir.KindReference,
			Ref:         ref.Ref,
			Description: scalar(mapGet(n, "description")),
		}
	}
	s := ref.Inline
	s.Name = name
	return s
}

// schemas registers every named schema of a definitions/components section.
func (b *builder) schemas(section *yaml.Node, ptr string) {
	if section == nil {
		return
	}
	if !isMapping(section) {
		b.violate(section, ptr, "must be an object")
		return
	}
	mapEach(section, func(name string, val *yaml.Node) {
		b.doc.Schemas.Set(name, b.namedSchema(name, val, child(ptr, name)))
	})
}

// checkSchemaRefs reports every named reference whose target is not declared.
func (b *builder) checkSchemaRefs() {
	for _, use := range b.schemaUses {
		if !b.doc.Schemas.Has(use.name) {
			b.violateAt(use.pointer, use.line, use.column, "unresolved schema reference %q", b.schemaPrefix+pointerEscape(use.name))
		}
	}
}
