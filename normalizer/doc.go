// Package normalizer decodes OpenAPI 2.0 and 3.x documents into the shared
// ir.Document model.
//
// Decoding goes through yaml.Node (JSON input is converted to the same node
// form) so document order and source positions survive. The version
// discriminator selects one of two canonicalization passes:
//
//   - 2.0: definitions become schemas, body and formData parameters become a
//     request body, consumes/produces become content types, and host,
//     basePath and schemes become servers.
//   - 3.x: components are read directly, parameter, request body and response
//     references are followed, and a preferred media type is chosen.
//
// Structural problems are collected as oaserrors.Violation values, each with
// a JSON pointer into the source. In ModeLenient (the default) they are
// attached to Document.Warnings; ModeStrict fails with a ParseError listing
// all of them.
//
// Example:
//
//	res, err := normalizer.Normalize(data, normalizer.WithMode(normalizer.ModeStrict))
//	if err != nil {
//	    return err
//	}
//	for key, ep := range res.Document.Endpoints.All() {
//	    fmt.Println(key, ep.OperationID)
//	}
package normalizer
