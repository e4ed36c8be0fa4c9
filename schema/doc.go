// Package schema models the recursive type descriptors that drive
// schema-guided extraction and validation. A [Node] covers a practical
// subset of JSON Schema: primitive types, numeric bounds, required object
// properties, array item schemas, and anyOf/oneOf alternation.
//
// Schemas are built either programmatically with the fluent constructors
// ([Object], [String], [Number], ...) or derived from a Go type with
// [FromType]. A schema is supplied by the caller, outlives any single parse,
// and is treated as read-only by the rest of the module.
package schema
