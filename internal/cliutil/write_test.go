package cliutil

import (
	"bytes"
	"testing"

	"github.com/erraggy/oassync/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "%s: %d items, %v active", "Status", 42, true)
	assert.Equal(t, "Status: 42 items, true active", buf.String())
}

// errorWriter is a writer that always returns an error
type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestWritef_WriteError(t *testing.T) {
	assert.NotPanics(t, func() { Writef(errorWriter{}, "This will fail") })
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatText, FormatJSON, FormatYAML} {
		assert.NoError(t, ValidateFormat(f))
	}
	err := ValidateFormat("xml")
	require.ErrorIs(t, err, oaserrors.ErrConfig)
	assert.Contains(t, err.Error(), "text, json, yaml")
}

type sample struct {
	Name  string   `json:"name"`
	Count int      `json:"item_count"`
	Tags  []string `json:"tags,omitempty"`
}

func TestWriteStructured(t *testing.T) {
	v := sample{Name: "pets", Count: 2, Tags: []string{"a"}}

	var js bytes.Buffer
	require.NoError(t, WriteStructured(&js, v, FormatJSON))
	assert.JSONEq(t, `{"name":"pets","item_count":2,"tags":["a"]}`, js.String())
	assert.Equal(t, byte('\n'), js.Bytes()[js.Len()-1])

	var ys bytes.Buffer
	require.NoError(t, WriteStructured(&ys, v, FormatYAML))
	assert.Contains(t, ys.String(), "item_count: 2")
	assert.Contains(t, ys.String(), "name: pets")

	assert.Error(t, WriteStructured(&bytes.Buffer{}, v, FormatText))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "STATE", "SOURCE")
	tbl.Row("fresh", "api.yaml")
	tbl.Row("modified", "other.yaml")
	require.NoError(t, tbl.Flush())
	assert.Equal(t, "STATE     SOURCE\nfresh     api.yaml\nmodified  other.yaml\n", buf.String())
}
