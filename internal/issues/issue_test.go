package issues

import (
	"testing"

	"github.com/erraggy/oassync/internal/severity"
	"github.com/stretchr/testify/assert"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name     string
		issue    Issue
		expected string
	}{
		{
			name:     "warning without location",
			issue:    Issue{Path: "schemas/Pet/properties/kind", Message: "oneOf rendered as json.RawMessage", Severity: severity.SeverityWarning},
			expected: "⚠ schemas/Pet/properties/kind: oneOf rendered as json.RawMessage",
		},
		{
			name:     "error with location",
			issue:    Issue{Path: "/paths/~1pets", Message: "bad", Severity: severity.SeverityError, Line: 4, Column: 3},
			expected: "✗ /paths/~1pets (line 4, col 3): bad",
		},
		{
			name:     "info",
			issue:    Issue{Path: "client.go", Message: "formatted", Severity: severity.SeverityInfo},
			expected: "ℹ client.go: formatted",
		},
		{
			name:     "unknown severity",
			issue:    Issue{Path: "x", Message: "y", Severity: severity.Severity(42)},
			expected: "? x: y",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.issue.String())
		})
	}
}

func TestSort(t *testing.T) {
	list := []Issue{
		{Path: "schemas/B", Message: "second"},
		{Path: "schemas/A", Message: "z"},
		{Path: "schemas/A", Message: "a"},
		{Path: "schemas/B", Message: "second"},
	}
	got := Sort(list)
	assert.Equal(t, []Issue{
		{Path: "schemas/A", Message: "a"},
		{Path: "schemas/A", Message: "z"},
		{Path: "schemas/B", Message: "second"},
	}, got)
}
