package normalizer

import (
	"strings"

	"go.yaml.in/yaml/v4"
)

// resolveAlias follows YAML aliases to the anchored node.
func resolveAlias(n *yaml.Node) *yaml.Node {
	for depth := 0; n != nil && n.Kind == yaml.AliasNode && depth < 16; depth++ {
		n = n.Alias
	}
	return n
}

// mapGet returns the value stored under key in a mapping node, or nil.
func mapGet(n *yaml.Node, key string) *yaml.Node {
	n = resolveAlias(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return resolveAlias(n.Content[i+1])
		}
	}
	return nil
}

// mapHas reports whether a mapping node carries key.
func mapHas(n *yaml.Node, key string) bool {
	return mapGet(n, key) != nil
}

// mapEach calls fn for every key/value pair of a mapping node in document order.
func mapEach(n *yaml.Node, fn func(key string, val *yaml.Node)) {
	n = resolveAlias(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		fn(n.Content[i].Value, resolveAlias(n.Content[i+1]))
	}
}

// seqEach calls fn for every element of a sequence node.
func seqEach(n *yaml.Node, fn func(i int, val *yaml.Node)) {
	n = resolveAlias(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return
	}
	for i, c := range n.Content {
		fn(i, resolveAlias(c))
	}
}

// scalar returns the raw text of a scalar node, or "".
func scalar(n *yaml.Node) string {
	n = resolveAlias(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

// stringList returns the scalar elements of a sequence node.
func stringList(n *yaml.Node) []string {
	var out []string
	seqEach(n, func(_ int, v *yaml.Node) {
		if v.Kind == yaml.ScalarNode {
			out = append(out, v.Value)
		}
	})
	return out
}

// boolean reports whether n is a scalar true.
func boolean(n *yaml.Node) bool {
	switch strings.ToLower(scalar(n)) {
	case "true", "yes", "on":
		return true
	}
	return false
}

// isMapping reports whether n is a mapping node.
func isMapping(n *yaml.Node) bool {
	n = resolveAlias(n)
	return n != nil && n.Kind == yaml.MappingNode
}

// isNull reports whether a scalar node holds a YAML null.
func isNull(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

// scalarText renders an enum or const value as a string.
func scalarText(n *yaml.Node) string {
	n = resolveAlias(n)
	switch {
	case n == nil:
		return ""
	case isNull(n):
		return "null"
	case n.Kind == yaml.ScalarNode:
		return n.Value
	}
	// Structured enum values are rare; keep them readable.
	var v any
	if err := n.Decode(&v); err == nil {
		out, err := yaml.Marshal(v)
		if err == nil {
			return strings.TrimSpace(string(out))
		}
	}
	return ""
}

// pointerEscape escapes a JSON pointer reference token.
func pointerEscape(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// pointerUnescape reverses pointerEscape.
func pointerUnescape(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// child appends an escaped token to a JSON pointer.
func child(ptr, token string) string {
	return ptr + "/" + pointerEscape(token)
}

// lookupPointer resolves a local JSON pointer ("/components/schemas/Pet")
// against root. Returns nil when any segment is missing.
func lookupPointer(root *yaml.Node, ptr string) *yaml.Node {
	if ptr == "" || ptr == "/" {
		return root
	}
	cur := root
	for _, tok := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		if cur == nil {
			return nil
		}
		cur = mapGet(cur, pointerUnescape(tok))
	}
	return cur
}
