package parse

import (
	"testing"

	"github.com/parsefix/parsefix/value"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Format
	}{
		{name: "fenced block wins", in: "```json\n{\"a\":1}\n```", want: FormatMarkdownCodeBlock},
		{name: "braces", in: ` {"a": 1} `, want: FormatJSON},
		{name: "brackets", in: `[1, 2]`, want: FormatJSON},
		{name: "angle brackets", in: `<root><a>1</a></root>`, want: FormatXML},
		{name: "yaml heuristic", in: "key: value\nother: 123", want: FormatYAML},
		{name: "colon newline", in: "key:\n  nested: 1", want: FormatYAML},
		{name: "prose", in: "just words here", want: FormatPlainText},
		{name: "empty", in: "   ", want: FormatPlainText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.in); got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry(NewJSONParser(), NewYAMLParser())

	p, ok := reg.FindParser(`{"a": 1}`, FormatUnknown)
	if !ok || p.Name() != "json" {
		t.Errorf("sniff picked %v, want json", p)
	}

	p, ok = reg.FindParser("key: value", FormatUnknown)
	if !ok || p.Name() != "yaml" {
		t.Errorf("sniff picked %v, want yaml", p)
	}

	// An explicit hint overrides sniffing.
	p, ok = reg.FindParser(`{"a": 1}`, FormatYAML)
	if !ok || p.Name() != "yaml" {
		t.Errorf("hint picked %v, want yaml", p)
	}

	if _, ok := reg.FindParser("nothing structured", FormatUnknown); ok {
		t.Error("no parser should accept prose")
	}

	if _, ok := reg.FindParser(`{"a":1}`, Format("toml")); ok {
		t.Error("unknown hint must not match")
	}
}

func TestRegistryParse(t *testing.T) {
	reg := NewRegistry(NewJSONParser(), NewYAMLParser())

	res := reg.Parse("key: value\nother: 123", Options{})
	if !res.Success || res.Format != FormatYAML {
		t.Fatalf("Parse() = %+v", res)
	}
	other, _ := res.Value.Get("other")
	if other.Kind() != value.KindInt {
		t.Errorf("other should be an integer, got %s", other.Kind())
	}

	res = reg.Parse("total junk", Options{})
	if res.Success {
		t.Fatal("unparseable input must fail")
	}
	if len(res.Errors) == 0 || res.Errors[0].Code != CodeInvalidFormat {
		t.Errorf("want invalid_format, got %v", res.Errors)
	}
}

func TestRegistryDetectionGuidesSniffing(t *testing.T) {
	reg := NewRegistry(NewJSONParser(), NewYAMLParser())

	// A YAML document whose value is a flow map contains a balanced {...}
	// span; detection must keep it with the YAML parser.
	in := "name: Ann\naddress: {city: \"Boston\"}"
	p, ok := reg.FindParser(in, FormatUnknown)
	if !ok || p.Name() != "yaml" {
		t.Fatalf("sniff picked %v, want yaml", p)
	}
	res := reg.Parse(in, Options{})
	if !res.Success || res.Format != FormatYAML {
		t.Fatalf("Parse() = %+v", res)
	}
	if _, ok := res.Value.Get("name"); !ok {
		t.Error("top-level key dropped by dispatch")
	}

	// JSON embedded in prose still reaches the JSON parser: detection is
	// inconclusive for the leading prose, so CanParse sniffing decides.
	p, ok = reg.FindParser(`The result is {"a": 1} as requested`, FormatUnknown)
	if !ok || p.Name() != "json" {
		t.Errorf("sniff picked %v, want json", p)
	}
}

func TestRegistrySniffFallback(t *testing.T) {
	// A fenced block keeps detection inconclusive, so dispatch falls back
	// to CanParse in registration order.
	reg := NewRegistry(NewJSONParser(), NewYAMLParser())
	p, ok := reg.FindParser("```json\n{\"a\": 1}\n```", FormatUnknown)
	if !ok || p.Name() != "json" {
		t.Errorf("fallback picked %v, want json", p)
	}
}
