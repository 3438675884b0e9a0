// Package oassync turns OpenAPI documents into something an assistant can
// reason about: a normalized model, a schema dependency graph, a breaking
// change report and generated client code.
//
// OAS 2.0 (Swagger) and OAS 3.0/3.1 documents are supported. Both are
// normalized into the same intermediate representation, so every downstream
// feature works identically regardless of the source version.
//
// # Packages
//
//   - ir: the normalized document model (endpoints, schemas, references)
//   - normalizer: decodes JSON or YAML and canonicalizes 2.0 and 3.x documents
//   - loader: cache-aware loading from local paths and URLs
//   - cache: the per-project on-disk cache of parsed documents
//   - graph: schema dependency graph and impact queries
//   - differ: structural diff with breaking-change classification
//   - generator: TypeScript, Go and Python code generation
//   - pagination: windowing over ordered results
//   - engine: the parse, deps, diff, status and generate operations
//   - oaserrors: the error taxonomy shared by every package
//
// # Quick Start
//
//	eng, err := engine.New(config.Load())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	view, err := eng.Parse(ctx, engine.ParseRequest{Source: "openapi.yaml", Format: "summary", UseCache: true})
//
// The cmd/oassync binary exposes the same operations on the command line and
// as an MCP server over stdio ("oassync mcp").
package oassync
