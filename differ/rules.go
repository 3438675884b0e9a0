package differ

// Rule identifies one entry of the fixed classification table.
type Rule string

const (
	RuleEndpointAdded      Rule = "endpoint-added"
	RuleEndpointRemoved    Rule = "endpoint-removed"
	RuleEndpointDeprecated Rule = "endpoint-deprecated"
	RuleOperationIDChanged Rule = "operation-id-changed"

	RuleParameterAddedRequired Rule = "parameter-added-required"
	RuleParameterAddedOptional Rule = "parameter-added-optional"
	RuleParameterRemoved       Rule = "parameter-removed"
	RuleParameterRequired      Rule = "parameter-became-required"
	RuleParameterOptional      Rule = "parameter-became-optional"

	RuleRequestBodyAddedRequired Rule = "request-body-added-required"
	RuleRequestBodyAddedOptional Rule = "request-body-added-optional"
	RuleRequestBodyRemoved       Rule = "request-body-removed"
	RuleRequestBodyRequired      Rule = "request-body-became-required"
	RuleRequestBodyOptional      Rule = "request-body-became-optional"

	RuleResponseAdded              Rule = "response-added"
	RuleResponseSuccessRemoved     Rule = "response-success-removed"
	RuleResponseErrorRemoved       Rule = "response-error-removed"
	RuleMediaTypeAdded             Rule = "media-type-added"
	RuleMediaTypeRemoved           Rule = "media-type-removed"
	RuleBodySchemaAdded            Rule = "body-schema-added"
	RuleBodySchemaRemoved          Rule = "body-schema-removed"
	RuleSecurityRequirementAdded   Rule = "security-requirement-added"
	RuleSecurityRequirementRemoved Rule = "security-requirement-removed"
	RuleSecuritySchemeAdded        Rule = "security-scheme-added"
	RuleSecuritySchemeRemoved      Rule = "security-scheme-removed"
	RuleSecuritySchemeTypeChanged  Rule = "security-scheme-type-changed"
	RuleServerAdded                Rule = "server-added"
	RuleServerRemoved              Rule = "server-removed"
	RuleInfoVersionChanged         Rule = "info-version-changed"
	RuleInfoTitleChanged           Rule = "info-title-changed"

	RuleSchemaAdded            Rule = "schema-added"
	RuleSchemaRemoved          Rule = "schema-removed"
	RuleSchemaRefChanged       Rule = "schema-ref-changed"
	RulePropertyAdded          Rule = "property-added"
	RulePropertyRemoved        Rule = "property-removed"
	RuleRequiredFieldAdded     Rule = "required-field-added"
	RuleRequiredFieldRemoved   Rule = "required-field-removed"
	RuleTypeChanged            Rule = "type-changed"
	RuleTypeWidened            Rule = "type-widened"
	RuleFormatChanged          Rule = "format-changed"
	RuleFormatWidened          Rule = "format-widened"
	RuleEnumValueAdded         Rule = "enum-value-added"
	RuleEnumValueRemoved       Rule = "enum-value-removed"
	RuleEnumIntroduced         Rule = "enum-introduced"
	RuleEnumDropped            Rule = "enum-dropped"
	RuleNullableAdded          Rule = "nullable-added"
	RuleNullableRemoved        Rule = "nullable-removed"
	RuleCompositionMemberAdded Rule = "composition-member-added"
	RuleAllOfMemberAdded       Rule = "allof-member-added"
	RuleCompositionRemoved     Rule = "composition-member-removed"
)

// ruleSeverity is the fixed classification policy. It is not configurable
// per call. RuleRequiredFieldAdded is listed with its request-role severity;
// the differ adjusts it by schema role.
var ruleSeverity = map[Rule]Severity{
	RuleEndpointAdded:      SeverityNonBreaking,
	RuleEndpointRemoved:    SeverityBreaking,
	RuleEndpointDeprecated: SeverityNonBreaking,
	RuleOperationIDChanged: SeverityNonBreaking,

	RuleParameterAddedRequired: SeverityBreaking,
	RuleParameterAddedOptional: SeverityNonBreaking,
	RuleParameterRemoved:       SeverityBreaking,
	RuleParameterRequired:      SeverityBreaking,
	RuleParameterOptional:      SeverityNonBreaking,

	RuleRequestBodyAddedRequired: SeverityBreaking,
	RuleRequestBodyAddedOptional: SeverityNonBreaking,
	RuleRequestBodyRemoved:       SeverityBreaking,
	RuleRequestBodyRequired:      SeverityBreaking,
	RuleRequestBodyOptional:      SeverityNonBreaking,

	RuleResponseAdded:              SeverityNonBreaking,
	RuleResponseSuccessRemoved:     SeverityBreaking,
	RuleResponseErrorRemoved:       SeverityNonBreaking,
	RuleMediaTypeAdded:             SeverityNonBreaking,
	RuleMediaTypeRemoved:           SeverityBreaking,
	RuleBodySchemaAdded:            SeverityNonBreaking,
	RuleBodySchemaRemoved:          SeverityBreaking,
	RuleSecurityRequirementAdded:   SeverityBreaking,
	RuleSecurityRequirementRemoved: SeverityNonBreaking,
	RuleSecuritySchemeAdded:        SeverityNonBreaking,
	RuleSecuritySchemeRemoved:      SeverityBreaking,
	RuleSecuritySchemeTypeChanged:  SeverityBreaking,
	RuleServerAdded:                SeverityNonBreaking,
	RuleServerRemoved:              SeverityBreaking,
	RuleInfoVersionChanged:         SeverityNonBreaking,
	RuleInfoTitleChanged:           SeverityNonBreaking,

	RuleSchemaAdded:            SeverityNonBreaking,
	RuleSchemaRemoved:          SeverityBreaking,
	RuleSchemaRefChanged:       SeverityBreaking,
	RulePropertyAdded:          SeverityNonBreaking,
	RulePropertyRemoved:        SeverityBreaking,
	RuleRequiredFieldAdded:     SeverityBreaking,
	RuleRequiredFieldRemoved:   SeverityNonBreaking,
	RuleTypeChanged:            SeverityBreaking,
	RuleTypeWidened:            SeverityNonBreaking,
	RuleFormatChanged:          SeverityBreaking,
	RuleFormatWidened:          SeverityNonBreaking,
	RuleEnumValueAdded:         SeverityNonBreaking,
	RuleEnumValueRemoved:       SeverityBreaking,
	RuleEnumIntroduced:         SeverityBreaking,
	RuleEnumDropped:            SeverityNonBreaking,
	RuleNullableAdded:          SeverityNonBreaking,
	RuleNullableRemoved:        SeverityBreaking,
	RuleCompositionMemberAdded: SeverityNonBreaking,
	RuleAllOfMemberAdded:       SeverityBreaking,
	RuleCompositionRemoved:     SeverityBreaking,
}

// SeverityOf returns the table severity of a rule. Unknown rules are
// breaking.
func SeverityOf(r Rule) Severity {
	if s, ok := ruleSeverity[r]; ok {
		return s
	}
	return SeverityBreaking
}

// Rules returns the classification table as a copy.
func Rules() map[Rule]Severity {
	out := make(map[Rule]Severity, len(ruleSeverity))
	for k, v := range ruleSeverity {
		out[k] = v
	}
	return out
}

// widenedTypes lists compatible primitive type widenings (old → new).
var widenedTypes = map[[2]string]bool{
	{"integer", "number"}: true,
}

// widenedFormats lists compatible format widenings (old → new). Dropping a
// format entirely is also a widening.
var widenedFormats = map[[2]string]bool{
	{"int32", "int64"}:  true,
	{"float", "double"}: true,
}
