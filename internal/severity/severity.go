// Package severity provides the severity levels attached to warnings raised
// while normalizing documents and generating code.
//
// Levels are ordered from least to most severe: Info < Warning < Error.
package severity

import "fmt"

// Severity indicates how serious a reported issue is.
type Severity int

const (
	// SeverityInfo indicates an informational notice about a processing choice.
	SeverityInfo Severity = iota

	// SeverityWarning indicates a lossy or best-effort result that still completed.
	SeverityWarning

	// SeverityError indicates a structural violation kept only in lenient mode.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity by name so JSON output stays readable.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name produced by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("severity: unknown level %q", text)
	}
	return nil
}
