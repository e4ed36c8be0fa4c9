// Package repair holds the syntax-recovery heuristics applied when a strict
// parse of LLM output fails. Each [Strategy] is a pure content-to-content
// transform targeting one class of syntax error — unquoted keys, trailing
// commas, single quotes, missing separators, unbalanced brackets, invalid
// escapes — and returns its input unchanged when it has nothing to do, so
// every strategy is idempotent and the chain terminates.
//
// The chain runs in a fixed priority order via [ApplyFirst]; the caller
// re-parses after each applied strategy and bounds the loop. [LibraryRepair]
// exposes the jsonrepair library as an optional whole-document fallback, and
// [ExtractPartial] is the last resort: salvage flat key/value fragments from
// content no strategy could fix.
package repair
