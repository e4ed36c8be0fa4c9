// Package value defines the format-agnostic tree that every parser in this
// module produces and every downstream stage consumes. A [Value] is a tagged
// union over null, boolean, integer, float, string, array, and object, with
// objects preserving key insertion order so that a parse/stringify round trip
// reproduces the input shape exactly.
//
// Values form strict trees: every child belongs to exactly one parent and the
// whole tree is released together with the result that owns it. The package
// also provides [Lookup] for resolving dotted/indexed field paths such as
// "user.addresses[0].city" against a tree.
package value
