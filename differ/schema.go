package differ

import (
	"fmt"
	"strconv"

	"github.com/erraggy/oassync/graph"
	"github.com/erraggy/oassync/ir"
)

// maxCompareDepth bounds recursion through nested inline schemas.
const maxCompareDepth = 64

func (d *differ) diffSchemas() error {
	for name, oldSchema := range d.old.Schemas.All() {
		if err := d.ctx.Err(); err != nil {
			return err
		}
		path := "schemas/" + name
		newSchema, ok := d.new.Schemas.Get(name)
		if !ok {
			d.add(Change{
				Path:     path,
				Type:     ChangeTypeRemoved,
				Category: CategorySchema,
				Rule:     RuleSchemaRemoved,
				OldValue: name,
				Message:  fmt.Sprintf("schema %s removed", name),
			})
			continue
		}
		d.compareSchema(oldSchema, newSchema, path, CategorySchema, d.roles[name], 0)
	}
	for name := range d.new.Schemas.All() {
		if d.old.Schemas.Has(name) {
			continue
		}
		d.add(Change{
			Path:     "schemas/" + name,
			Type:     ChangeTypeAdded,
			Category: CategorySchema,
			Rule:     RuleSchemaAdded,
			NewValue: name,
			Message:  fmt.Sprintf("schema %s added", name),
		})
	}
	return nil
}

func refLabel(r *ir.SchemaRef) string {
	switch {
	case r == nil:
		return ""
	case r.IsRef():
		return r.Ref
	case r.Inline != nil && r.Inline.Type != "":
		return "inline " + r.Inline.Type
	default:
		return "inline schema"
	}
}

// compareRef compares two schema positions. Named references are compared by
// name only; the named schemas themselves are compared once, by diffSchemas.
func (d *differ) compareRef(oldRef, newRef *ir.SchemaRef, path string, cat ChangeCategory, role graph.Role, depth int) {
	if oldRef == nil || newRef == nil || depth > maxCompareDepth {
		return
	}
	if oldRef.IsRef() || newRef.IsRef() {
		if oldRef.Ref != newRef.Ref {
			d.add(Change{
				Path:     path,
				Type:     ChangeTypeModified,
				Category: cat,
				Rule:     RuleSchemaRefChanged,
				OldValue: refLabel(oldRef),
				NewValue: refLabel(newRef),
				Message:  fmt.Sprintf("schema changed from %s to %s", refLabel(oldRef), refLabel(newRef)),
			})
		}
		return
	}
	d.compareSchema(oldRef.Inline, newRef.Inline, path, cat, role, depth+1)
}

func (d *differ) compareSchema(oldS, newS *ir.Schema, path string, cat ChangeCategory, role graph.Role, depth int) {
	if oldS == nil || newS == nil {
		return
	}

	if oldS.Kind == ir.KindReference || newS.Kind == ir.KindReference {
		if oldS.Kind != newS.Kind || oldS.Ref != newS.Ref {
			d.add(Change{
				Path:     path,
				Type:     ChangeTypeModified,
				Category: cat,
				Rule:     RuleSchemaRefChanged,
				OldValue: schemaLabel(oldS),
				NewValue: schemaLabel(newS),
				Message:  fmt.Sprintf("schema changed from %s to %s", schemaLabel(oldS), schemaLabel(newS)),
			})
		}
		return
	}

	if oldS.Kind != newS.Kind || oldS.Type != newS.Type {
		if oldS.Kind == newS.Kind && widenedTypes[[2]string{oldS.Type, newS.Type}] {
			d.add(Change{
				Path:     path + "/type",
				Type:     ChangeTypeModified,
				Category: cat,
				Rule:     RuleTypeWidened,
				OldValue: oldS.Type,
				NewValue: newS.Type,
				Message:  fmt.Sprintf("type widened from %s to %s", oldS.Type, newS.Type),
			})
		} else {
			d.add(Change{
				Path:     path + "/type",
				Type:     ChangeTypeModified,
				Category: cat,
				Rule:     RuleTypeChanged,
				OldValue: schemaLabel(oldS),
				NewValue: schemaLabel(newS),
				Message:  fmt.Sprintf("type changed from %s to %s", schemaLabel(oldS), schemaLabel(newS)),
			})
			return
		}
	}

	d.compareFormat(oldS, newS, path, cat)
	d.compareEnum(oldS, newS, path, cat)
	d.compareNullable(oldS, newS, path, cat)
	d.compareProperties(oldS, newS, path, cat, role, depth)
	d.compareRef(oldS.Items, newS.Items, path+"/items", cat, role, depth)
	d.compareRef(oldS.AdditionalProperties, newS.AdditionalProperties, path+"/additionalProperties", cat, role, depth)
	d.compareMembers(oldS.AllOf, newS.AllOf, path+"/allOf", cat, role, depth, true)
	d.compareMembers(oldS.OneOf, newS.OneOf, path+"/oneOf", cat, role, depth, false)
	d.compareMembers(oldS.AnyOf, newS.AnyOf, path+"/anyOf", cat, role, depth, false)
}

func schemaLabel(s *ir.Schema) string {
	switch {
	case s.Kind == ir.KindReference:
		return s.Ref
	case s.Type != "" && s.Format != "":
		return s.Type + "(" + s.Format + ")"
	case s.Type != "":
		return s.Type
	default:
		return string(s.Kind)
	}
}

func (d *differ) compareFormat(oldS, newS *ir.Schema, path string, cat ChangeCategory) {
	if oldS.Format == newS.Format {
		return
	}
	rule := RuleFormatChanged
	if newS.Format == "" || widenedFormats[[2]string{oldS.Format, newS.Format}] {
		rule = RuleFormatWidened
	}
	d.add(Change{
		Path:     path + "/format",
		Type:     ChangeTypeModified,
		Category: cat,
		Rule:     rule,
		OldValue: oldS.Format,
		NewValue: newS.Format,
		Message:  fmt.Sprintf("format changed from %q to %q", oldS.Format, newS.Format),
	})
}

func (d *differ) compareEnum(oldS, newS *ir.Schema, path string, cat ChangeCategory) {
	switch {
	case len(oldS.Enum) == 0 && len(newS.Enum) == 0:
		return
	case len(oldS.Enum) == 0:
		d.add(Change{
			Path:     path + "/enum",
			Type:     ChangeTypeAdded,
			Category: cat,
			Rule:     RuleEnumIntroduced,
			NewValue: newS.Enum,
			Message:  fmt.Sprintf("enum constraint introduced with %d value(s)", len(newS.Enum)),
		})
		return
	case len(newS.Enum) == 0:
		d.add(Change{
			Path:     path + "/enum",
			Type:     ChangeTypeRemoved,
			Category: cat,
			Rule:     RuleEnumDropped,
			OldValue: oldS.Enum,
			Message:  "enum constraint dropped",
		})
		return
	}
	removed, added := setDiff(oldS.Enum, newS.Enum)
	for _, v := range removed {
		d.add(Change{
			Path:     path + "/enum/" + v,
			Type:     ChangeTypeRemoved,
			Category: cat,
			Rule:     RuleEnumValueRemoved,
			OldValue: v,
			Message:  fmt.Sprintf("enum value %q removed", v),
		})
	}
	for _, v := range added {
		d.add(Change{
			Path:     path + "/enum/" + v,
			Type:     ChangeTypeAdded,
			Category: cat,
			Rule:     RuleEnumValueAdded,
			NewValue: v,
			Message:  fmt.Sprintf("enum value %q added", v),
		})
	}
}

func (d *differ) compareNullable(oldS, newS *ir.Schema, path string, cat ChangeCategory) {
	switch {
	case !oldS.Nullable && newS.Nullable:
		d.add(Change{
			Path:     path + "/nullable",
			Type:     ChangeTypeModified,
			Category: cat,
			Rule:     RuleNullableAdded,
			OldValue: false,
			NewValue: true,
			Message:  "schema became nullable",
		})
	case oldS.Nullable && !newS.Nullable:
		d.add(Change{
			Path:     path + "/nullable",
			Type:     ChangeTypeModified,
			Category: cat,
			Rule:     RuleNullableRemoved,
			OldValue: true,
			NewValue: false,
			Message:  "schema is no longer nullable",
		})
	}
}

func (d *differ) compareProperties(oldS, newS *ir.Schema, path string, cat ChangeCategory, role graph.Role, depth int) {
	for name, oldProp := range oldS.Properties.All() {
		ppath := path + "/properties/" + name
		newProp, ok := newS.Properties.Get(name)
		if !ok {
			d.add(Change{
				Path:     ppath,
				Type:     ChangeTypeRemoved,
				Category: cat,
				Rule:     RulePropertyRemoved,
				OldValue: name,
				Message:  fmt.Sprintf("property %q removed from %s", name, path),
			})
			continue
		}
		oldReq, newReq := oldS.IsRequired(name), newS.IsRequired(name)
		switch {
		case !oldReq && newReq:
			d.requiredAdded(ppath, name, cat, role)
		case oldReq && !newReq:
			d.add(Change{
				Path:     ppath,
				Type:     ChangeTypeModified,
				Category: cat,
				Rule:     RuleRequiredFieldRemoved,
				OldValue: true,
				NewValue: false,
				Message:  fmt.Sprintf("property %q is no longer required", name),
			})
		}
		d.compareRef(oldProp, newProp, ppath, cat, role, depth)
	}
	for name, newProp := range newS.Properties.All() {
		if oldS.Properties.Has(name) {
			continue
		}
		ppath := path + "/properties/" + name
		d.add(Change{
			Path:     ppath,
			Type:     ChangeTypeAdded,
			Category: cat,
			Rule:     RulePropertyAdded,
			NewValue: refLabel(newProp),
			Message:  fmt.Sprintf("property %q added to %s", name, path),
		})
		if newS.IsRequired(name) {
			d.requiredAdded(ppath, name, cat, role)
		}
	}
}

// requiredAdded classifies a newly required field by the role of the schema
// that carries it. Request payloads break old clients; response-only
// payloads only break strict deserializers; mixed or unused schemas keep
// both readings.
func (d *differ) requiredAdded(path, name string, cat ChangeCategory, role graph.Role) {
	c := Change{
		Path:     path,
		Type:     ChangeTypeModified,
		Category: cat,
		Rule:     RuleRequiredFieldAdded,
		NewValue: name,
	}
	requestReading := Interpretation{
		Role:     string(graph.RoleRequest),
		Severity: SeverityBreaking,
		Reason:   "existing clients may omit the field when sending this schema",
	}
	responseReading := Interpretation{
		Role:     string(graph.RoleResponse),
		Severity: SeverityNonBreaking,
		Reason:   "clients receive an additional guaranteed field",
		Flags:    []string{FlagStrictDeserializer},
	}
	switch role {
	case graph.RoleRequest:
		c.Severity = SeverityBreaking
		c.Message = fmt.Sprintf("required field %q added to a request schema", name)
	case graph.RoleResponse:
		c.Severity = SeverityNonBreaking
		c.Flags = []string{FlagStrictDeserializer}
		c.Message = fmt.Sprintf("required field %q added to a response-only schema", name)
	default:
		c.Severity = SeverityBreaking
		c.Interpretations = []Interpretation{requestReading, responseReading}
		c.Message = fmt.Sprintf("required field %q added to a schema with %s role; see interpretations", name, roleName(role))
	}
	d.add(c)
}

func roleName(r graph.Role) string {
	if r == "" {
		return string(graph.RoleUnused)
	}
	return string(r)
}

// compareMembers matches composition members: named members by name and
// inline members by their position among the inline members.
func (d *differ) compareMembers(oldMembers, newMembers []*ir.SchemaRef, path string, cat ChangeCategory, role graph.Role, depth int, allOf bool) {
	oldNames, oldInline := splitMembers(oldMembers)
	newNames, newInline := splitMembers(newMembers)

	removed, added := setDiff(oldNames, newNames)
	for _, name := range removed {
		d.add(Change{
			Path:     path + "/" + name,
			Type:     ChangeTypeRemoved,
			Category: cat,
			Rule:     RuleCompositionRemoved,
			OldValue: name,
			Message:  fmt.Sprintf("composition member %s removed", name),
		})
	}
	addRule := RuleCompositionMemberAdded
	if allOf {
		addRule = RuleAllOfMemberAdded
	}
	for _, name := range added {
		d.add(Change{
			Path:     path + "/" + name,
			Type:     ChangeTypeAdded,
			Category: cat,
			Rule:     addRule,
			NewValue: name,
			Message:  fmt.Sprintf("composition member %s added", name),
		})
	}

	for i := 0; i < max(len(oldInline), len(newInline)); i++ {
		mpath := path + "/" + strconv.Itoa(i)
		switch {
		case i >= len(newInline):
			d.add(Change{
				Path:     mpath,
				Type:     ChangeTypeRemoved,
				Category: cat,
				Rule:     RuleCompositionRemoved,
				Message:  "inline composition member removed",
			})
		case i >= len(oldInline):
			d.add(Change{
				Path:     mpath,
				Type:     ChangeTypeAdded,
				Category: cat,
				Rule:     addRule,
				Message:  "inline composition member added",
			})
		default:
			d.compareSchema(oldInline[i], newInline[i], mpath, cat, role, depth+1)
		}
	}
}

func splitMembers(members []*ir.SchemaRef) (names []string, inline []*ir.Schema) {
	for _, m := range members {
		switch {
		case m == nil:
		case m.IsRef():
			names = append(names, m.Ref)
		case m.Inline != nil:
			inline = append(inline, m.Inline)
		}
	}
	return names, inline
}
