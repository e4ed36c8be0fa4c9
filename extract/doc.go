// Package extract projects a parsed value tree onto a caller-supplied
// schema: declared object properties are pulled out in schema order, arrays
// recurse per element, anyOf takes the first matching member and oneOf
// demands exactly one, and primitives are coerced to the schema type when
// the options allow. Every extraction, coercion, and default application
// records its dotted/indexed field path, so callers can audit which parts of
// the result are verbatim input and which were synthesized.
//
// Structural violations — a missing required field without defaults, an
// ambiguous oneOf, exceeding the depth bound — always surface as errors;
// the extractor never silently guesses across a data/schema contract
// violation.
package extract
