// Package issues provides the warning type shared by the normalizer and the
// code generator.
package issues

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/erraggy/oassync/internal/severity"
)

// Issue is a single non-fatal problem found while processing a document.
type Issue struct {
	// Path locates the problem: a JSON pointer for documents, a schema or
	// endpoint path for generated code (e.g. "schemas/Pet/properties/tag").
	Path string `json:"path"`
	// Message is a human-readable description of the issue
	Message string `json:"message"`
	// Severity indicates the severity level of the issue
	Severity severity.Severity `json:"severity"`
	// Line is the 1-based line number in the source file (0 if unknown)
	Line int `json:"line,omitempty"`
	// Column is the 1-based column number in the source file (0 if unknown)
	Column int `json:"column,omitempty"`
}

// String returns a formatted string representation of the issue.
// Uses "✗" for errors, "⚠" for warnings and "ℹ" for informational notices.
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}
	if i.Line > 0 {
		return fmt.Sprintf("%s %s (line %d, col %d): %s", symbol, i.Path, i.Line, i.Column, i.Message)
	}
	return fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
}

// Sort orders issues by path, then message, then severity, and drops exact
// duplicates. The slice is sorted in place and the deduplicated prefix returned.
func Sort(list []Issue) []Issue {
	slices.SortFunc(list, func(a, b Issue) int {
		if c := cmp.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Message, b.Message); c != 0 {
			return c
		}
		return cmp.Compare(a.Severity, b.Severity)
	})
	return slices.Compact(list)
}
