// Package graph builds the schema dependency graph of a normalized document
// and answers impact queries over it.
//
// Nodes are the document's named schemas plus one synthetic node per endpoint.
// Edges are recorded per reference occurrence and typed by how the reference
// is made (property, array-item, composition-member, request-body,
// response-body, parameter). References inside inline sub-schemas are
// attributed to the named schema that owns them.
//
//	g := graph.Build(doc)
//	res, err := g.Query("Pet", graph.Downstream)
//	for _, im := range res.Impacts {
//	    fmt.Println(im.Depth, im.Node.Kind, im.Node.Name, im.EdgeKinds)
//	}
//
// Downstream answers "what breaks if Pet changes"; Upstream answers "what does
// Pet depend on". A Graph is immutable once built and safe for concurrent use.
package graph
