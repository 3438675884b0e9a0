package graph

import (
	"sync"

	"github.com/erraggy/oassync/ir"
)

// NodeKind distinguishes named schemas from synthetic endpoint nodes.
type NodeKind string

const (
	// NodeSchema is a named schema.
	NodeSchema NodeKind = "schema"
	// NodeEndpoint is an endpoint, named by its "METHOD /path" key.
	NodeEndpoint NodeKind = "endpoint"
)

// Node identifies a vertex of the graph.
type Node struct {
	Kind NodeKind `json:"kind"`
	Name string   `json:"name"`
}

// SchemaNode returns the node of a named schema.
func SchemaNode(name string) Node { return Node{Kind: NodeSchema, Name: name} }

// EndpointNode returns the node of an endpoint key.
func EndpointNode(key string) Node { return Node{Kind: NodeEndpoint, Name: key} }

// EdgeKind describes how one node refers to another.
type EdgeKind string

const (
	// EdgeProperty is a property or additionalProperties value.
	EdgeProperty EdgeKind = "property"
	// EdgeArrayItem is an array element schema.
	EdgeArrayItem EdgeKind = "array-item"
	// EdgeComposition is an allOf/oneOf/anyOf member, or the target of an alias.
	EdgeComposition EdgeKind = "composition-member"
	// EdgeRequestBody links an endpoint to its request payload schemas.
	EdgeRequestBody EdgeKind = "request-body"
	// EdgeResponseBody links an endpoint to its response payload schemas.
	EdgeResponseBody EdgeKind = "response-body"
	// EdgeParameter links an endpoint to its parameter schemas.
	EdgeParameter EdgeKind = "parameter"
)

// Edge is one reference occurrence: From refers to To.
type Edge struct {
	From Node     `json:"from"`
	To   Node     `json:"to"`
	Kind EdgeKind `json:"kind"`
}

// Graph is the schema dependency graph of one document. It is immutable
// after Build and safe for concurrent queries.
type Graph struct {
	schemas   []string
	endpoints []string
	known     map[string]bool
	out       map[Node][]Edge
	in        map[Node][]Edge
	edges     int

	once      sync.Once
	roles     map[string]Role
	recursive []string
}

// maxInlineDepth bounds recursion through inline sub-schemas.
const maxInlineDepth = 64

// Build constructs the graph for doc. References to undeclared schemas are
// skipped; the normalizer already reports them.
func Build(doc *ir.Document) *Graph {
	g := &Graph{
		known: make(map[string]bool, doc.Schemas.Len()),
		out:   make(map[Node][]Edge),
		in:    make(map[Node][]Edge),
	}
	for name := range doc.Schemas.All() {
		g.schemas = append(g.schemas, name)
		g.known[name] = true
	}

	for name, s := range doc.Schemas.All() {
		from := SchemaNode(name)
		if s.Kind == ir.KindReference && s.Ref != "" {
			g.addEdge(from, s.Ref, EdgeComposition)
		}
		for _, c := range s.Children() {
			walkRefs(c.Ref, c.Hop, 0, func(target string, hop ir.Hop) {
				g.addEdge(from, target, hopEdgeKind(hop))
			})
		}
	}

	for key, ep := range doc.Endpoints.All() {
		g.endpoints = append(g.endpoints, key)
		from := EndpointNode(key)
		for _, p := range ep.Parameters {
			walkRefs(p.Schema, ir.HopProperty, 0, func(target string, _ ir.Hop) {
				g.addEdge(from, target, EdgeParameter)
			})
		}
		if ep.RequestBody != nil {
			walkRefs(ep.RequestBody.Schema, ir.HopProperty, 0, func(target string, _ ir.Hop) {
				g.addEdge(from, target, EdgeRequestBody)
			})
		}
		for _, resp := range ep.Responses.All() {
			walkRefs(resp.Schema, ir.HopProperty, 0, func(target string, _ ir.Hop) {
				g.addEdge(from, target, EdgeResponseBody)
			})
		}
	}
	return g
}

// walkRefs reports every named reference reachable from ref through inline
// schemas, with the hop that directly contains it.
func walkRefs(ref *ir.SchemaRef, hop ir.Hop, depth int, fn func(target string, hop ir.Hop)) {
	if ref == nil || depth > maxInlineDepth {
		return
	}
	if ref.IsRef() {
		fn(ref.Ref, hop)
		return
	}
	s := ref.Inline
	if s == nil {
		return
	}
	if s.Ref != "" {
		fn(s.Ref, hop)
	}
	for _, c := range s.Children() {
		walkRefs(c.Ref, c.Hop, depth+1, fn)
	}
}

func hopEdgeKind(hop ir.Hop) EdgeKind {
	switch {
	case hop == ir.HopItems:
		return EdgeArrayItem
	case hop.IsComposition():
		return EdgeComposition
	default:
		return EdgeProperty
	}
}

// addEdge records one reference occurrence. Repeated references between the
// same nodes stay separate edges; queries collapse them through their visited
// sets.
func (g *Graph) addEdge(from Node, target string, kind EdgeKind) {
	if !g.known[target] {
		return
	}
	e := Edge{From: from, To: SchemaNode(target), Kind: kind}
	g.out[from] = append(g.out[from], e)
	g.in[e.To] = append(g.in[e.To], e)
	g.edges++
}

// HasSchema reports whether name is a node of the graph.
func (g *Graph) HasSchema(name string) bool {
	return g.known[name]
}

// Schemas returns the schema names in document order.
func (g *Graph) Schemas() []string {
	return append([]string(nil), g.schemas...)
}

// Endpoints returns the endpoint keys in document order.
func (g *Graph) Endpoints() []string {
	return append([]string(nil), g.endpoints...)
}

// Outgoing returns the edges leaving n (what n refers to).
func (g *Graph) Outgoing(n Node) []Edge {
	return append([]Edge(nil), g.out[n]...)
}

// Incoming returns the edges arriving at n (what refers to n).
func (g *Graph) Incoming(n Node) []Edge {
	return append([]Edge(nil), g.in[n]...)
}

// References returns the distinct schema names n refers to directly, in
// edge order.
func (g *Graph) References(n Node) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range g.out[n] {
		if !seen[e.To.Name] {
			seen[e.To.Name] = true
			out = append(out, e.To.Name)
		}
	}
	return out
}
