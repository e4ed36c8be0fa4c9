// Package parse turns raw LLM text into a [github.com/parsefix/parsefix/value]
// tree. It hosts the [Parser] contract, the concrete JSON and YAML parsers,
// and the [Registry] that dispatches between them by format hint or sniffing.
//
// Language models routinely emit near-valid structured output: unquoted keys,
// trailing commas, single quotes, truncated documents. When [Options]
// enables recovery, a failed strict parse hands the content to the repair
// strategy chain and re-parses after each transformation, bounded by
// [Options.MaxRecoveryAttempts]. When everything fails and partial results
// are allowed, a last-resort scanner salvages flat key/value fragments; such
// a result carries RecoveryApplied=true with Success=false — a degraded
// success the caller must treat as best-effort salvage, not a faithful parse.
//
// The pipeline is synchronous, does no I/O, and holds no mutable state
// during a call; construct a Registry once at startup and share it freely.
package parse
