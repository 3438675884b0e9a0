// Package ir defines the normalized intermediate representation shared by
// every oassync feature.
//
// OAS 2.0 and 3.x documents normalize into the same [Document]. Schemas are
// referenced by name through [SchemaRef] and never copied, so a reference is
// resolved with a lookup in [Document.Schemas]. Collections that carry
// document order use [OrderedMap], whose JSON encoding preserves that order
// for cache snapshots.
package ir
