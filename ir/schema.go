package ir

import "strconv"

// Kind classifies a schema's shape.
type Kind string

const (
	// KindObject has properties or additionalProperties.
	KindObject Kind = "object"
	// KindArray has items.
	KindArray Kind = "array"
	// KindPrimitive is string, number, integer, boolean or an untyped "any".
	KindPrimitive Kind = "primitive"
	// KindReference is a named schema that only aliases another named schema.
	KindReference Kind = "reference"
	// KindComposition combines members with allOf, oneOf or anyOf.
	KindComposition Kind = "composition"
)

// Schema is a normalized JSON schema.
type Schema struct {
	// Name is set for named (component/definition) schemas only.
	Name string `json:"name,omitempty"`
	Kind Kind   `json:"kind"`
	// Type is the JSON type ("object", "array", "string", "integer", "number", "boolean"), empty for any.
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Description string `json:"description,omitempty"`
	// Ref is the aliased schema name for KindReference.
	Ref        string                  `json:"ref,omitempty"`
	Properties *OrderedMap[*SchemaRef] `json:"properties,omitempty"`
	Required   []string                `json:"required,omitempty"`
	Items      *SchemaRef              `json:"items,omitempty"`
	// AdditionalProperties is the value schema of a map; `true` becomes an untyped schema.
	AdditionalProperties *SchemaRef   `json:"additional_properties,omitempty"`
	AllOf                []*SchemaRef `json:"all_of,omitempty"`
	OneOf                []*SchemaRef `json:"one_of,omitempty"`
	AnyOf                []*SchemaRef `json:"any_of,omitempty"`
	// Enum holds the allowed values rendered as strings, in declaration order.
	Enum       []string `json:"enum,omitempty"`
	Nullable   bool     `json:"nullable,omitempty"`
	Deprecated bool     `json:"deprecated,omitempty"`
	ReadOnly   bool     `json:"read_only,omitempty"`
	WriteOnly  bool     `json:"write_only,omitempty"`
}

// IsRequired reports whether prop is listed in Required.
func (s *Schema) IsRequired(prop string) bool {
	for _, r := range s.Required {
		if r == prop {
			return true
		}
	}
	return false
}

// SchemaRef points at a schema: either a named schema (Ref) or an inline one.
// Exactly one of the two fields is set.
type SchemaRef struct {
	Ref    string  `json:"ref,omitempty"`
	Inline *Schema `json:"inline,omitempty"`
}

// RefTo returns a reference to the named schema.
func RefTo(name string) *SchemaRef {
	return &SchemaRef{Ref: name}
}

// InlineSchema wraps s as an inline reference.
func InlineSchema(s *Schema) *SchemaRef {
	return &SchemaRef{Inline: s}
}

// IsRef reports whether r names a schema.
func (r *SchemaRef) IsRef() bool {
	return r != nil && r.Ref != ""
}

// Hop names the position of a sub-schema within its parent.
type Hop string

const (
	HopProperty             Hop = "property"
	HopItems                Hop = "items"
	HopAdditionalProperties Hop = "additionalProperties"
	HopAllOf                Hop = "allOf"
	HopOneOf                Hop = "oneOf"
	HopAnyOf                Hop = "anyOf"
)

// IsComposition reports whether the hop is an allOf/oneOf/anyOf member.
func (h Hop) IsComposition() bool {
	return h == HopAllOf || h == HopOneOf || h == HopAnyOf
}

// Child is one direct sub-schema of a schema.
type Child struct {
	Hop Hop
	// Label is the property name for HopProperty and the member index for compositions.
	Label string
	Ref   *SchemaRef
}

// Children returns the direct sub-schemas of s in a stable order: properties,
// items, additionalProperties, then allOf, oneOf and anyOf members.
func (s *Schema) Children() []Child {
	if s == nil {
		return nil
	}
	var out []Child
	for name, ref := range s.Properties.All() {
		out = append(out, Child{Hop: HopProperty, Label: name, Ref: ref})
	}
	if s.Items != nil {
		out = append(out, Child{Hop: HopItems, Ref: s.Items})
	}
	if s.AdditionalProperties != nil {
		out = append(out, Child{Hop: HopAdditionalProperties, Ref: s.AdditionalProperties})
	}
	for _, group := range []struct {
		hop  Hop
		refs []*SchemaRef
	}{{HopAllOf, s.AllOf}, {HopOneOf, s.OneOf}, {HopAnyOf, s.AnyOf}} {
		for i, ref := range group.refs {
			out = append(out, Child{Hop: group.hop, Label: strconv.Itoa(i), Ref: ref})
		}
	}
	return out
}
