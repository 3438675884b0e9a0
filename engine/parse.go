package engine

import (
	"context"
	"strings"

	"github.com/erraggy/oassync/graph"
	"github.com/erraggy/oassync/ir"
	"github.com/erraggy/oassync/loader"
	"github.com/erraggy/oassync/oaserrors"
	"github.com/erraggy/oassync/pagination"
)

// Format selects the shape of a parse view.
type Format string

// Parse view formats.
const (
	FormatSummary       Format = "summary"
	FormatEndpointsList Format = "endpoints-list"
	FormatSchemasList   Format = "schemas-list"
	FormatEndpoints     Format = "endpoints"
	FormatSchemas       Format = "schemas"
	FormatFull          Format = "full"
)

var formats = []Format{FormatSummary, FormatEndpointsList, FormatSchemasList, FormatEndpoints, FormatSchemas, FormatFull}

// ParseFormat validates a format name. The empty string means summary.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatSummary, nil
	}
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return "", &oaserrors.ConfigError{Option: "format", Value: s, Message: "must be one of " + strings.Join(names, ", ")}
}

// ParseRequest is the input of Parse.
type ParseRequest struct {
	Source     string
	Format     string
	ProjectDir string
	UseCache   bool
	Strict     bool
	Limit      int
	Offset     int
	// Tag keeps endpoints carrying the tag (case-insensitive).
	Tag string
	// PathPrefix keeps endpoints whose path starts with the prefix.
	PathPrefix string
}

// Metadata describes a document.
type Metadata struct {
	Title          string   `json:"title"`
	Version        string   `json:"version"`
	Description    string   `json:"description,omitempty"`
	OpenAPIVersion string   `json:"openapi_version"`
	Servers        []string `json:"servers,omitempty"`
	EndpointCount  int      `json:"endpoint_count"`
	SchemaCount    int      `json:"schema_count"`
	TagCount       int      `json:"tag_count"`
	ContentHash    string   `json:"content_hash"`
}

// EndpointSummary is one endpoint in an endpoints view.
type EndpointSummary struct {
	Key         string   `json:"key"`
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	OperationID string   `json:"operation_id,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`
	// SchemaRefs are the schemas the endpoint references directly.
	SchemaRefs []string `json:"schema_refs"`
}

// SchemaSummary is one schema in a schemas view.
type SchemaSummary struct {
	Name        string     `json:"name"`
	Kind        ir.Kind    `json:"kind"`
	Description string     `json:"description,omitempty"`
	Refs        []string   `json:"refs"`
	Role        graph.Role `json:"role"`
	Recursive   bool       `json:"recursive,omitempty"`
}

// PageInfo describes the window a list view returned.
type PageInfo struct {
	Total   int  `json:"total"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

func pageInfo[T any](p pagination.Page[T]) *PageInfo {
	return &PageInfo{Total: p.Total, Offset: p.Offset, Limit: p.Limit, HasMore: p.HasMore}
}

// ParseView is the output of Parse. Only the fields of the requested
// format are set.
type ParseView struct {
	Source    string                `json:"source"`
	Format    Format                `json:"format"`
	Freshness loader.Freshness      `json:"freshness"`
	Metadata  Metadata              `json:"metadata"`
	Stats     graph.Stats           `json:"graph_stats"`
	Warnings  []oaserrors.Violation `json:"warnings,omitempty"`

	EndpointKeys     []string          `json:"endpoint_keys,omitempty"`
	SchemaNames      []string          `json:"schema_names,omitempty"`
	Endpoints        []EndpointSummary `json:"endpoints,omitempty"`
	Schemas          []SchemaSummary   `json:"schemas,omitempty"`
	EndpointPage     *PageInfo         `json:"endpoint_pagination,omitempty"`
	SchemaPage       *PageInfo         `json:"schema_pagination,omitempty"`
	OrphanSchemas    []string          `json:"orphan_schemas,omitempty"`
	RecursiveSchemas []string          `json:"recursive_schemas,omitempty"`
}

// Parse loads a document and renders the requested view. Endpoint lists
// honor the tag and path prefix filters; every list is paginated in
// document order.
func (e *Engine) Parse(ctx context.Context, req ParseRequest) (*ParseView, error) {
	format, err := ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}
	res, err := e.load(ctx, req.ProjectDir, loader.Request{Source: req.Source, UseCache: req.UseCache, Strict: req.Strict})
	if err != nil {
		return nil, err
	}
	doc := res.Document
	g := e.graphFor(doc)

	view := &ParseView{
		Source:    req.Source,
		Format:    format,
		Freshness: res.Freshness,
		Metadata:  metadata(doc),
		Stats:     g.Stats(),
		Warnings:  doc.Warnings,
	}

	endpoints := filterEndpoints(doc, req.Tag, req.PathPrefix)
	limit, offset := req.Limit, req.Offset
	def, maxLimit := e.cfg.DefaultLimit, e.cfg.MaxLimit

	switch format {
	case FormatSummary:
	case FormatEndpointsList:
		p := pagination.Bounded(endpointKeys(endpoints), limit, offset, def, maxLimit)
		view.EndpointKeys, view.EndpointPage = p.Items, pageInfo(p)
	case FormatSchemasList:
		p := pagination.Bounded(doc.Schemas.Keys(), limit, offset, def, maxLimit)
		view.SchemaNames, view.SchemaPage = p.Items, pageInfo(p)
	case FormatEndpoints, FormatSchemas, FormatFull:
		if format != FormatSchemas {
			p := pagination.Bounded(endpoints, limit, offset, def, maxLimit)
			view.Endpoints, view.EndpointPage = summarizeEndpoints(g, p.Items), pageInfo(p)
		}
		if format != FormatEndpoints {
			p := pagination.Bounded(doc.Schemas.Keys(), limit, offset, def, maxLimit)
			view.Schemas, view.SchemaPage = summarizeSchemas(doc, g, p.Items), pageInfo(p)
		}
		if format == FormatFull {
			view.OrphanSchemas = g.Orphans()
			view.RecursiveSchemas = g.Recursive()
		}
	}
	return view, nil
}

func metadata(doc *ir.Document) Metadata {
	m := Metadata{
		Title:          doc.Info.Title,
		Version:        doc.Info.Version,
		Description:    doc.Info.Description,
		OpenAPIVersion: doc.SourceVersion,
		EndpointCount:  doc.Endpoints.Len(),
		SchemaCount:    doc.Schemas.Len(),
		TagCount:       len(doc.Tags),
		ContentHash:    doc.ContentHash,
	}
	for _, s := range doc.Servers {
		m.Servers = append(m.Servers, s.URL)
	}
	return m
}

func filterEndpoints(doc *ir.Document, tag, prefix string) []*ir.Endpoint {
	var out []*ir.Endpoint
	for _, ep := range doc.Endpoints.All() {
		if tag != "" && !ep.HasTag(tag) {
			continue
		}
		if prefix != "" && !strings.HasPrefix(ep.Path, prefix) {
			continue
		}
		out = append(out, ep)
	}
	return out
}

func endpointKeys(eps []*ir.Endpoint) []string {
	keys := make([]string, len(eps))
	for i, ep := range eps {
		keys[i] = ep.Key()
	}
	return keys
}

func summarizeEndpoints(g *graph.Graph, eps []*ir.Endpoint) []EndpointSummary {
	out := make([]EndpointSummary, 0, len(eps))
	for _, ep := range eps {
		out = append(out, EndpointSummary{
			Key:         ep.Key(),
			Method:      ep.Method,
			Path:        ep.Path,
			OperationID: ep.OperationID,
			Summary:     ep.Summary,
			Tags:        ep.Tags,
			Deprecated:  ep.Deprecated,
			SchemaRefs:  nonNil(g.References(graph.EndpointNode(ep.Key()))),
		})
	}
	return out
}

func summarizeSchemas(doc *ir.Document, g *graph.Graph, names []string) []SchemaSummary {
	out := make([]SchemaSummary, 0, len(names))
	for _, name := range names {
		s, _ := doc.Schema(name)
		sum := SchemaSummary{
			Name:      name,
			Refs:      nonNil(g.References(graph.SchemaNode(name))),
			Role:      g.Role(name),
			Recursive: g.IsRecursive(name),
		}
		if s != nil {
			sum.Kind = s.Kind
			sum.Description = s.Description
		}
		out = append(out, sum)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
