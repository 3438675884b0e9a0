package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/erraggy/oassync/oaserrors"
)

// Document is a normalized OpenAPI document. It is built once by the
// normalizer and never mutated afterwards, so it may be shared freely
// between goroutines.
type Document struct {
	// SourceVersion is the version string declared by the source ("2.0", "3.0.3", "3.1.0").
	SourceVersion string `json:"source_version"`
	// Info holds title, version and description.
	Info Info `json:"info"`
	// Servers lists base URLs. Legacy documents derive one per scheme from host and basePath.
	Servers []Server `json:"servers,omitempty"`
	// Endpoints maps "METHOD /path" to the endpoint, in document order.
	Endpoints *OrderedMap[*Endpoint] `json:"endpoints"`
	// Schemas maps component/definition names to schemas, in document order.
	Schemas *OrderedMap[*Schema] `json:"schemas"`
	// SecuritySchemes maps scheme names to their definitions.
	SecuritySchemes *OrderedMap[*SecurityScheme] `json:"security_schemes,omitempty"`
	// Tags are the declared tags followed by any tag first seen on an operation.
	Tags []Tag `json:"tags,omitempty"`
	// ContentHash is the hex SHA-256 of the raw source bytes.
	ContentHash string `json:"content_hash"`
	// Warnings are structural violations kept because the document was normalized leniently.
	Warnings []oaserrors.Violation `json:"warnings,omitempty"`
}

// Info is the document's info object.
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Server is a base URL for the API.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Tag is a named operation group.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Endpoint is one operation: a method on a path template.
type Endpoint struct {
	// Method is upper-case ("GET", "POST", ...).
	Method string `json:"method"`
	// Path is the path template ("/pets/{petId}").
	Path        string   `json:"path"`
	OperationID string   `json:"operation_id,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`
	// Parameters holds path-level and operation-level parameters merged, in declaration order.
	Parameters  []*Parameter `json:"parameters,omitempty"`
	RequestBody *RequestBody `json:"request_body,omitempty"`
	// Responses maps status code ("200", "4XX", "default") to the response.
	Responses *OrderedMap[*Response] `json:"responses"`
	// Security lists the names of the security schemes the operation requires.
	Security []string `json:"security,omitempty"`
}

// Key returns the endpoint's map key, "METHOD /path".
func (e *Endpoint) Key() string {
	return EndpointKey(e.Method, e.Path)
}

// EndpointKey builds the key used in Document.Endpoints.
func EndpointKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// Parameter returns the parameter with the given name and location.
func (e *Endpoint) Parameter(name, in string) *Parameter {
	for _, p := range e.Parameters {
		if p.Name == name && p.In == in {
			return p
		}
	}
	return nil
}

// HasTag reports whether the endpoint is tagged with tag, ignoring case.
func (e *Endpoint) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Parameter locations.
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InCookie = "cookie"
)

// Parameter is an endpoint input outside the request body.
type Parameter struct {
	Name        string     `json:"name"`
	In          string     `json:"in"`
	Required    bool       `json:"required,omitempty"`
	Deprecated  bool       `json:"deprecated,omitempty"`
	Description string     `json:"description,omitempty"`
	Schema      *SchemaRef `json:"schema,omitempty"`
}

// ID returns "in/name", unique within one endpoint.
func (p *Parameter) ID() string {
	return p.In + "/" + p.Name
}

// RequestBody is the payload accepted by an endpoint.
type RequestBody struct {
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
	// ContentTypes lists every declared media type; Schema comes from the preferred one.
	ContentTypes []string   `json:"content_types,omitempty"`
	Schema       *SchemaRef `json:"schema,omitempty"`
}

// Response is one status code's response.
type Response struct {
	StatusCode   string     `json:"status_code"`
	Description  string     `json:"description,omitempty"`
	ContentTypes []string   `json:"content_types,omitempty"`
	Schema       *SchemaRef `json:"schema,omitempty"`
}

// IsSuccess reports whether the status code is a 2XX code (including the "2XX" range).
func (r *Response) IsSuccess() bool {
	return IsSuccessCode(r.StatusCode)
}

// IsSuccessCode reports whether code is a 2XX status or the "2XX" range.
func IsSuccessCode(code string) bool {
	return len(code) == 3 && code[0] == '2'
}

// SecurityScheme is a named authentication mechanism.
type SecurityScheme struct {
	// Type is apiKey, http, oauth2, openIdConnect or mutualTLS. Legacy "basic" becomes http/basic.
	Type         string `json:"type"`
	Description  string `json:"description,omitempty"`
	Name         string `json:"name,omitempty"`
	In           string `json:"in,omitempty"`
	Scheme       string `json:"scheme,omitempty"`
	BearerFormat string `json:"bearer_format,omitempty"`
}

// Schema looks up a named schema.
func (d *Document) Schema(name string) (*Schema, bool) {
	return d.Schemas.Get(name)
}

// Endpoint looks up an endpoint by method and path.
func (d *Document) Endpoint(method, path string) (*Endpoint, bool) {
	return d.Endpoints.Get(EndpointKey(method, path))
}

// HashContent returns the hex SHA-256 of data, the form stored in ContentHash.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
