/*
Package differ compares two normalized documents and classifies every change
as breaking or non-breaking.

# Overview

Both inputs are [ir.Document] values, so a Swagger 2.0 document can be compared
with its OpenAPI 3.x successor. The comparison covers endpoints, parameters,
request bodies, responses per status code, named schemas (properties, required
flags, types, formats, enum values, nullability, array items and composition
members, recursing into inline sub-schemas), security schemes, servers and the
info version.

# Classification

Each [Change] carries the [Rule] that produced it and that rule's [Severity]
from a fixed table (see [Rules]). The one role-dependent rule is
[RuleRequiredFieldAdded]: it is breaking for schemas sent in requests,
non-breaking but flagged [FlagStrictDeserializer] for schemas only returned in
responses, and breaking with both readings listed in Change.Interpretations for
schemas used both ways or not reachable from any endpoint.

# Ordering

Changes are sorted by path, then rule, then change type. The order does not
depend on how keys were ordered in either source document. [WithBreakingOnly]
filters after sorting.

# Example

	res, err := differ.Diff(ctx, oldDoc, newDoc, differ.WithBreakingOnly(true))
	if err != nil {
		return err
	}
	for _, c := range res.Changes {
		fmt.Println(c)
	}
*/
package differ
