// Package parsefix extracts structured data from free-form LLM output.
// Models routinely produce near-valid documents — missing commas, unquoted
// keys, wrong quote style, truncated structures — and this package makes
// deterministic, bounded, best-effort sense of them: sanitizing away framing
// prose and code fences, detecting the format, parsing with an ordered chain
// of syntax-repair heuristics, and optionally projecting the result onto a
// caller-supplied schema with type coercion and an audit trail.
//
// The one-call entry points are [Parse], the generic [ParseAs], and
// [ExtractAs]; the underlying stages live in the parse, repair, extract,
// schema, and value packages for callers that need finer control.
//
// Typical usage:
//
//	type Person struct {
//	    Name string `json:"name"`
//	    Age  int    `json:"age"`
//	}
//
//	p, res, err := parsefix.ParseAs[Person]("Sure! ```json\n{name: 'Ann', age: 5,}\n```", parse.DefaultOptions())
//	// p == Person{Name: "Ann", Age: 5}, res.RecoveryApplied == true
package parsefix
