package differ

import (
	"fmt"
)

// ChangeType indicates whether a change is an addition, removal, or modification
type ChangeType string

const (
	// ChangeTypeAdded indicates a new element was added
	ChangeTypeAdded ChangeType = "added"
	// ChangeTypeRemoved indicates an element was removed
	ChangeTypeRemoved ChangeType = "removed"
	// ChangeTypeModified indicates an existing element was changed
	ChangeTypeModified ChangeType = "modified"
)

// ChangeCategory indicates which part of the document was changed
type ChangeCategory string

const (
	CategoryEndpoint    ChangeCategory = "endpoint"
	CategoryParameter   ChangeCategory = "parameter"
	CategoryRequestBody ChangeCategory = "request_body"
	CategoryResponse    ChangeCategory = "response"
	CategorySchema      ChangeCategory = "schema"
	CategorySecurity    ChangeCategory = "security"
	CategoryServer      ChangeCategory = "server"
	CategoryInfo        ChangeCategory = "info"
)

// Severity is the compatibility classification of a change.
type Severity string

const (
	// SeverityBreaking can make a previously valid client/server interaction fail.
	SeverityBreaking Severity = "breaking"
	// SeverityNonBreaking is safe for existing clients.
	SeverityNonBreaking Severity = "non-breaking"
)

// FlagStrictDeserializer marks changes that only break clients which reject
// unknown or unexpected fields.
const FlagStrictDeserializer = "strict-deserializer"

// Interpretation is one reading of a change whose severity depends on how
// the affected schema is used.
type Interpretation struct {
	Role     string   `json:"role"`
	Severity Severity `json:"severity"`
	Reason   string   `json:"reason"`
	Flags    []string `json:"flags,omitempty"`
}

// Change represents a single difference between two documents
type Change struct {
	// Path is the structural path of the changed element
	// (e.g., "endpoints/GET /pets/parameters/query/limit").
	Path string `json:"path"`
	// Type indicates if this is an addition, removal, or modification
	Type ChangeType `json:"type"`
	// Category indicates which part of the document was changed
	Category ChangeCategory `json:"category"`
	// Rule identifies the classification rule that produced the change
	Rule Rule `json:"rule"`
	// Severity is the rule's classification
	Severity Severity `json:"severity"`
	// OldValue is the value in the old document (nil for additions)
	OldValue any `json:"old_value,omitempty"`
	// NewValue is the value in the new document (nil for removals)
	NewValue any `json:"new_value,omitempty"`
	// Message is a human-readable description of the change
	Message string `json:"message"`
	// Flags qualify the severity (e.g., FlagStrictDeserializer)
	Flags []string `json:"flags,omitempty"`
	// Interpretations lists every reading when the severity depends on schema role
	Interpretations []Interpretation `json:"interpretations,omitempty"`
}

// IsBreaking reports whether the change is classified as breaking.
func (c Change) IsBreaking() bool {
	return c.Severity == SeverityBreaking
}

// String returns a formatted string representation of the change
func (c Change) String() string {
	symbol := "ℹ"
	if c.IsBreaking() {
		symbol = "✗"
	}
	return fmt.Sprintf("%s %s [%s] %s: %s", symbol, c.Path, c.Type, c.Rule, c.Message)
}
