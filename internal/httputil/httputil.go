// Package httputil provides the HTTP vocabulary shared by the normalizer and
// the code generators: operation methods, response status keys and media
// types.
package httputil

import "strings"

// Operation methods a path item may declare.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace" // OAS 3.0+ only
)

// Status code bounds for response keys.
const (
	MinStatusCode = 100
	MaxStatusCode = 599
)

// MediaTypeJSON is the preferred payload media type.
const MediaTypeJSON = "application/json"

var methods = map[string]bool{
	MethodGet: true, MethodPut: true, MethodPost: true, MethodDelete: true,
	MethodOptions: true, MethodHead: true, MethodPatch: true, MethodTrace: true,
}

// IsMethod reports whether name (lower-case) is an operation method.
func IsMethod(name string) bool {
	return methods[name]
}

// ValidStatusCode reports whether code is a valid response key: "default",
// a numeric code in [MinStatusCode, MaxStatusCode], or a range 1XX-5XX
// (either case).
func ValidStatusCode(code string) bool {
	if code == "default" {
		return true
	}
	if len(code) != 3 || code[0] < '1' || code[0] > '5' {
		return false
	}
	rest := strings.ToUpper(code[1:])
	if rest == "XX" {
		return true
	}
	return isDigit(rest[0]) && isDigit(rest[1])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// MediaBase lower-cases a media type and strips its parameters.
func MediaBase(mediaType string) string {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// IsJSONMedia reports whether mediaType is application/json or a +json
// structured syntax type.
func IsJSONMedia(mediaType string) bool {
	base := MediaBase(mediaType)
	return base == MediaTypeJSON || strings.HasSuffix(base, "+json")
}
