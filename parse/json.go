package parse

import (
	"strings"

	"github.com/parsefix/parsefix/internal/sanitize"
	"github.com/parsefix/parsefix/repair"
)

// JSONParser parses JSON payloads, including JSON embedded in prose or code
// fences, with optional recovery of near-valid output.
type JSONParser struct{}

// NewJSONParser returns a stateless JSON parser.
func NewJSONParser() *JSONParser { return &JSONParser{} }

// Name implements [Parser].
func (p *JSONParser) Name() string { return "json" }

// Format implements [Parser].
func (p *JSONParser) Format() Format { return FormatJSON }

// CanParse sniffs for a JSON payload: text bounded by braces or brackets, a
// json-tagged code fence, or a balanced JSON span embedded in prose.
func (p *JSONParser) CanParse(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return true
	}
	if strings.Contains(input, "```json") {
		return true
	}
	_, ok := sanitize.FindJSONContent(input)
	return ok
}

// Parse sanitizes the input, locates the JSON payload, and attempts a strict
// parse. On failure with recovery enabled it loops the repair strategy
// chain, then the optional jsonrepair fallback, then partial salvage.
func (p *JSONParser) Parse(input string, opts Options) *Result {
	content := CleanResponse(input, opts.ConvertHTML)
	if !looksPureJSON(content) {
		if span, ok := sanitize.FindJSONContent(content); ok {
			content = span
		}
	}

	res := &Result{Format: FormatJSON}

	v, warns, perr := decodeJSON(content)
	if perr == nil {
		res.Value = v
		res.Success = true
		res.Warnings = warns
		finish(res, opts)
		return res
	}

	res.Errors = append(res.Errors, perr)

	current := content
	if opts.EnableRecovery {
		for attempt := uint(0); attempt < opts.attempts(); attempt++ {
			next, strategy, changed := repair.ApplyFirst(current)
			if !changed {
				break
			}
			current = next
			res.RecoveryApplied = true
			res.addWarning("recovery: applied strategy " + strategy)

			v, warns, perr = decodeJSON(current)
			if perr == nil {
				res.Value = v
				res.Success = true
				res.Errors = nil
				res.Warnings = append(res.Warnings, warns...)
				finish(res, opts)
				return res
			}
		}
		res.Errors = append(res.Errors, newError(CodeRecoveryFailed, -1,
			"recovery strategies exhausted after %d attempt(s)", opts.attempts()))
	}

	if opts.EnableRecovery && opts.RepairFallback {
		if fixed, err := repair.LibraryRepair(current); err == nil {
			if v, warns, perr := decodeJSON(fixed); perr == nil {
				res.Value = v
				res.Success = true
				res.Errors = nil
				res.RecoveryApplied = true
				res.addWarning("recovery: applied jsonrepair fallback")
				res.Warnings = append(res.Warnings, warns...)
				finish(res, opts)
				return res
			}
		}
	}

	if opts.AllowPartial {
		res.Value = repair.ExtractPartial(current)
		res.RecoveryApplied = true
		res.addWarning("recovery: partial extraction salvaged flat fragments")
	}
	return res
}

// looksPureJSON reports whether content already is a bare JSON document, so
// embedded-payload location can be skipped.
func looksPureJSON(content string) bool {
	t := strings.TrimSpace(content)
	if t == "" {
		return false
	}
	first, last := t[0], t[len(t)-1]
	return (first == '{' && last == '}') || (first == '[' && last == ']')
}
