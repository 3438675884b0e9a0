package generator

// primitiveTypes maps "type" or "type/format" to a type expression per
// language. The "" key is the fallback for untyped schemas.
var primitiveTypes = map[language]map[string]string{
	langGo: {
		"string":           "string",
		"string/date-time": "time.Time",
		"string/byte":      "[]byte",
		"string/binary":    "[]byte",
		"integer":          "int64",
		"integer/int32":    "int32",
		"integer/int64":    "int64",
		"number":           "float64",
		"number/float":     "float32",
		"number/double":    "float64",
		"boolean":          "bool",
		"":                 "any",
	},
	langTypeScript: {
		"string":        "string",
		"string/binary": "Blob",
		"integer":       "number",
		"number":        "number",
		"boolean":       "boolean",
		"":              "unknown",
	},
	langPython: {
		"string":           "str",
		"string/date-time": "datetime",
		"string/date":      "date",
		"string/byte":      "bytes",
		"string/binary":    "bytes",
		"integer":          "int",
		"number":           "float",
		"boolean":          "bool",
		"":                 "Any",
	},
}

// primitiveType returns the mapped type for an IR primitive, preferring the
// type/format entry.
func primitiveType(lang language, typ, format string) string {
	table := primitiveTypes[lang]
	if format != "" {
		if t, ok := table[typ+"/"+format]; ok {
			return t
		}
	}
	if t, ok := table[typ]; ok {
		return t
	}
	return table[""]
}

// pythonImports lists the module each mapped Python name comes from.
var pythonImports = map[string]string{
	"datetime":  "datetime",
	"date":      "datetime",
	"Any":       "typing",
	"Literal":   "typing",
	"Enum":      "enum",
	"TypeAlias": "typing",
}

var reservedWords = map[language]map[string]bool{
	langGo: setOf("break", "case", "chan", "const", "continue", "default", "defer", "else",
		"fallthrough", "for", "func", "go", "goto", "if", "import", "interface", "map",
		"package", "range", "return", "select", "struct", "switch", "type", "var"),
	langTypeScript: setOf("any", "boolean", "break", "case", "catch", "class", "const", "continue",
		"default", "delete", "do", "else", "enum", "export", "extends", "false", "finally",
		"for", "function", "if", "import", "in", "instanceof", "never", "new", "null",
		"number", "object", "return", "string", "super", "switch", "this", "throw", "true",
		"try", "typeof", "undefined", "unknown", "var", "void", "while", "with"),
	langPython: setOf("False", "None", "True", "and", "as", "assert", "async", "await",
		"break", "class", "continue", "def", "del", "elif", "else", "except", "finally",
		"for", "from", "global", "if", "import", "in", "is", "lambda", "nonlocal", "not",
		"or", "pass", "raise", "return", "try", "while", "with", "yield"),
}

func setOf(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
