// Package engine implements the five tool operations of oassync on top of
// the loader, graph, differ, generator and pagination packages:
//
//   - [Engine.Parse] renders a summary, list or detail view of a document.
//   - [Engine.Deps] ranks the schemas and endpoints affected by a schema.
//   - [Engine.Diff] classifies the changes between two documents.
//   - [Engine.Status] reports cache freshness for a project directory.
//   - [Engine.Generate] renders typed code for one target.
//
// An Engine opens one cache store per project directory on first use and
// flushes it after every load that changed it. Call [Engine.Close] when
// done.
//
//	eng, err := engine.New(config.Load(), engine.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//	view, err := eng.Deps(ctx, engine.DepsRequest{Source: "api.yaml", Schema: "Pet", UseCache: true})
package engine
