package parse

import "github.com/parsefix/parsefix/value"

// Result is the outcome of one parse invocation.
//
// Success=false with a non-nil Value and RecoveryApplied=true is a degraded
// success: partial salvage produced best-effort contents that are not a
// faithful parse. Callers must check both flags before trusting Value.
type Result struct {
	// Value is the parsed tree, nil on outright failure.
	Value *value.Value

	// Format is the format of the parser that produced the result.
	Format Format

	// Success reports a faithful parse.
	Success bool

	// Errors, ordered as encountered. Non-empty whenever Success is false,
	// except for degraded successes.
	Errors []*Error

	// Warnings explain non-fatal findings: applied recovery strategies,
	// lenient schema mismatches, duplicate keys.
	Warnings []string

	// RecoveryApplied reports that at least one repair strategy, the
	// repair fallback, or partial salvage modified or reinterpreted the
	// input.
	RecoveryApplied bool
}

// Degraded reports whether the result is best-effort salvage rather than a
// faithful parse.
func (r *Result) Degraded() bool {
	return !r.Success && r.RecoveryApplied && r.Value != nil
}

func failure(format Format, errs ...*Error) *Result {
	return &Result{Format: format, Errors: errs}
}

func (r *Result) addWarning(w string) {
	r.Warnings = append(r.Warnings, w)
}
