// Package generator renders typed code from a normalized API document.
//
// Each [Target] has a fixed capability set: the "typescript", "go" and
// "python" targets emit type declarations only, while "typescript-fetch"
// and "go-client" additionally emit a client with one method per endpoint.
//
//	res, err := generator.Generate(ctx, doc, generator.TargetGoClient, generator.DefaultStyle())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range res.Warnings {
//	    fmt.Println(w)
//	}
//	paths, err := res.WriteFiles("./api")
//
// Generation is deterministic: the same document, target and style always
// produce byte-identical files. Constructs a language cannot express
// directly, such as oneOf in Go, degrade to a looser type and add a
// [Warning] instead of failing.
package generator
