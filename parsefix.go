package parsefix

import (
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/parsefix/parsefix/extract"
	"github.com/parsefix/parsefix/parse"
	"github.com/parsefix/parsefix/schema"
)

// NewRegistry returns a registry with the built-in parsers in sniffing
// order: JSON first, then YAML. Construct one per program (or per test) and
// share it; a registry is safe for concurrent readers once populated.
func NewRegistry() *parse.Registry {
	return parse.NewRegistry(parse.NewJSONParser(), parse.NewYAMLParser())
}

// Parse runs the full pipeline against raw LLM text with a fresh default
// registry: sanitize, dispatch by hint or sniffing, parse with recovery per
// opts. Callers holding their own registry should use [ParseWith].
func Parse(text string, opts parse.Options) *parse.Result {
	return ParseWith(NewRegistry(), text, opts)
}

// ParseWith is [Parse] against a caller-owned registry.
func ParseWith(reg *parse.Registry, text string, opts parse.Options) *parse.Result {
	cleaned := parse.CleanResponse(text, opts.ConvertHTML)
	return reg.Parse(cleaned, opts)
}

// Detect classifies raw text by its structural signals without parsing it.
func Detect(text string) parse.Format {
	return parse.DetectFormat(text)
}

// ParseAs parses raw LLM text and unmarshals the result into T via its JSON
// form. The returned error is nil for a faithful parse and for a degraded
// (partial-salvage) success; inspect the parse result's Success and
// RecoveryApplied flags before trusting the contents.
//
// Example:
//
//	settings, res, err := parsefix.ParseAs[map[string]int]("{a: 1, b: 2}", parse.DefaultOptions())
func ParseAs[T any](text string, opts parse.Options) (T, *parse.Result, error) {
	var out T
	res := Parse(text, opts)
	if res.Value == nil {
		return out, res, firstError(res)
	}
	if !res.Success && !res.Degraded() {
		return out, res, firstError(res)
	}

	data, err := res.Value.MarshalJSON()
	if err != nil {
		return out, res, fmt.Errorf("parsefix: cannot encode parsed value: %w", err)
	}
	if err := gojson.Unmarshal(data, &out); err != nil {
		return out, res, fmt.Errorf("parsefix: cannot unmarshal into %T: %w", out, err)
	}
	return out, res, nil
}

// ExtractAs parses raw LLM text, derives a schema from T by reflection,
// runs schema-guided extraction (coercion and defaults per opts), and
// unmarshals the projected value into T. The extraction result carries the
// audit trail of verbatim, coerced, and defaulted field paths.
func ExtractAs[T any](text string, opts parse.Options) (T, *extract.Result, error) {
	var out T

	node, err := schema.FromType[T]()
	if err != nil {
		return out, nil, fmt.Errorf("parsefix: cannot derive schema for %T: %w", out, err)
	}

	res := Parse(text, opts)
	if res.Value == nil {
		return out, nil, firstError(res)
	}

	er, eerr := extract.FromParse(res, node, opts)
	if eerr != nil {
		return out, nil, eerr
	}

	data, err := er.Value.MarshalJSON()
	if err != nil {
		return out, er, fmt.Errorf("parsefix: cannot encode extracted value: %w", err)
	}
	if err := gojson.Unmarshal(data, &out); err != nil {
		return out, er, fmt.Errorf("parsefix: cannot unmarshal into %T: %w", out, err)
	}
	return out, er, nil
}

func firstError(res *parse.Result) error {
	if len(res.Errors) > 0 {
		return res.Errors[0]
	}
	return fmt.Errorf("parsefix: parse failed with no recorded error")
}
