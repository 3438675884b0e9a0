// Package cliutil renders command results for the oassync CLI.
package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/erraggy/oassync/oaserrors"
	"go.yaml.in/yaml/v4"
)

// Output formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var formats = []string{FormatText, FormatJSON, FormatYAML}

// ValidateFormat rejects unknown output formats.
func ValidateFormat(format string) error {
	if slices.Contains(formats, format) {
		return nil
	}
	return &oaserrors.ConfigError{
		Option:  "output",
		Value:   format,
		Message: "must be one of " + strings.Join(formats, ", "),
	}
}

// WriteStructured writes v as indented JSON or as YAML. YAML output uses
// the same keys as the JSON encoding.
func WriteStructured(w io.Writer, v any, format string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling to json: %w", err)
	}
	switch format {
	case FormatJSON:
		data = append(data, '\n')
	case FormatYAML:
		var tree any
		if err := json.Unmarshal(data, &tree); err != nil {
			return fmt.Errorf("re-decoding json: %w", err)
		}
		if data, err = yaml.Marshal(tree); err != nil {
			return fmt.Errorf("marshaling to yaml: %w", err)
		}
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}
	_, err = w.Write(data)
	return err
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Table aligns rows into columns separated by two spaces.
type Table struct {
	tw *tabwriter.Writer
}

// NewTable starts a table on w with an optional header row.
func NewTable(w io.Writer, header ...string) *Table {
	t := &Table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	if len(header) > 0 {
		t.Row(header...)
	}
	return t
}

// Row appends one row.
func (t *Table) Row(cols ...string) {
	Writef(t.tw, "%s\n", strings.Join(cols, "\t"))
}

// Flush writes the aligned rows.
func (t *Table) Flush() error {
	return t.tw.Flush()
}
