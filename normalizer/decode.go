package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/erraggy/oassync/oaserrors"
	"go.yaml.in/yaml/v4"
)

// sniffFormat detects the source format from content.
// JSON documents start with '{' or '['; everything else is treated as YAML.
func sniffFormat(data []byte) string {
	trimmed := bytes.TrimLeft(data, " \t\n\r\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// decode parses data into the root mapping node of the document.
func decode(data []byte, format, source string) (*yaml.Node, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &oaserrors.ParseError{Source: source, Reason: oaserrors.ParseSyntax, Message: "document is empty"}
	}

	var root *yaml.Node
	if format == FormatJSON {
		n, err := decodeJSON(data)
		if err != nil {
			pe := &oaserrors.ParseError{Source: source, Reason: oaserrors.ParseSyntax, Message: "invalid JSON", Cause: err}
			var se *json.SyntaxError
			if errors.As(err, &se) {
				pe.Line, pe.Column = offsetPosition(data, se.Offset)
			}
			return nil, pe
		}
		root = n
	} else {
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			pe := &oaserrors.ParseError{Source: source, Reason: oaserrors.ParseSyntax, Message: "invalid YAML", Cause: err}
			pe.Line, pe.Column = yamlErrorPosition(err)
			return nil, pe
		}
		if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
			root = resolveAlias(doc.Content[0])
		}
	}

	if root == nil || isNull(root) {
		return nil, &oaserrors.ParseError{Source: source, Reason: oaserrors.ParseSyntax, Message: "document is empty"}
	}
	if root.Kind != yaml.MappingNode {
		return nil, &oaserrors.ParseError{
			Source:  source,
			Reason:  oaserrors.ParseStructure,
			Pointer: "/",
			Line:    root.Line,
			Column:  root.Column,
			Message: "document root must be an object",
		}
	}
	return root, nil
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)(?:, column (\d+))?`)

// yamlErrorPosition extracts the line and column from a YAML error message.
func yamlErrorPosition(err error) (line, column int) {
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0, 0
	}
	line, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		column, _ = strconv.Atoi(m[2])
	}
	return line, column
}

// offsetPosition converts a byte offset into a 1-based line and column.
func offsetPosition(data []byte, offset int64) (line, column int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, column = 1, 1
	for _, c := range data[:offset] {
		if c == '\n' {
			line++
			column = 1
			continue
		}
		column++
	}
	return line, column
}

// decodeJSON builds a yaml.Node tree from JSON so both formats share one
// representation. Key order and token positions are preserved.
func decodeJSON(data []byte) (*yaml.Node, error) {
	if !json.Valid(data) {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("invalid JSON")
	}
	d := &jsonNodeDecoder{data: data, dec: json.NewDecoder(bytes.NewReader(data))}
	d.dec.UseNumber()
	n, err := d.value()
	if err != nil {
		return nil, err
	}
	if _, err := d.dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return n, nil
}

type jsonNodeDecoder struct {
	data []byte
	dec  *json.Decoder
}

// position locates the next token by skipping separators after the last one.
func (d *jsonNodeDecoder) position() (line, column int) {
	off := d.dec.InputOffset()
	for off < int64(len(d.data)) && isJSONSeparator(d.data[off]) {
		off++
	}
	return offsetPosition(d.data, off+1)
}

func isJSONSeparator(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ',', ':':
		return true
	}
	return false
}

func (d *jsonNodeDecoder) value() (*yaml.Node, error) {
	line, col := d.position()
	tok, err := d.dec.Token()
	if err != nil {
		return nil, err
	}
	n := &yaml.Node{Line: line, Column: col - 1}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n.Kind, n.Tag = yaml.MappingNode, "!!map"
			for d.dec.More() {
				kline, kcol := d.position()
				ktok, err := d.dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := ktok.(string)
				val, err := d.value()
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key, Line: kline, Column: kcol - 1},
					val)
			}
		case '[':
			n.Kind, n.Tag = yaml.SequenceNode, "!!seq"
			for d.dec.More() {
				val, err := d.value()
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, val)
			}
		}
		if _, err := d.dec.Token(); err != nil {
			return nil, err
		}
	case string:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!str", v
	case json.Number:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!float", v.String()
		if _, err := v.Int64(); err == nil {
			n.Tag = "!!int"
		}
	case bool:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!bool", strconv.FormatBool(v)
	case nil:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!null", "null"
	}
	return n, nil
}
