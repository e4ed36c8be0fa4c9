package parse

import (
	"strings"
	"testing"

	"github.com/parsefix/parsefix/value"
)

func mustStringify(t *testing.T, v *value.Value) string {
	t.Helper()
	s, err := value.Stringify(v)
	if err != nil {
		t.Fatalf("Stringify() error = %v", err)
	}
	return s
}

func TestJSONParserStrict(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "object with mixed types",
			in:   `{"name": "Ann", "age": 5, "score": 1.5, "ok": true, "none": null}`,
			want: `{"name":"Ann","age":5,"score":1.5,"ok":true,"none":null}`,
		},
		{
			name: "nested containers",
			in:   `{"a": [1, {"b": [true]}]}`,
			want: `{"a":[1,{"b":[true]}]}`,
		},
		{
			name: "key order preserved",
			in:   `{"z": 1, "a": 2, "m": 3}`,
			want: `{"z":1,"a":2,"m":3}`,
		},
		{
			name: "embedded in prose",
			in:   `The result you wanted is {"ok": true} — enjoy!`,
			want: `{"ok":true}`,
		},
		{
			name: "fenced block",
			in:   "Sure, here you go:\n```json\n{\"ok\":true}\n```",
			want: `{"ok":true}`,
		},
		{
			name: "unicode escapes",
			in:   `{"s": "\u00e9\n"}`,
			want: `{"s":"é\n"}`,
		},
		{
			name: "big integers stay integral",
			in:   `{"n": 9007199254740993}`,
			want: `{"n":9007199254740993}`,
		},
	}

	p := NewJSONParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Parse(tt.in, Options{})
			if !res.Success {
				t.Fatalf("Parse() failed: %v", res.Errors)
			}
			if got := mustStringify(t, res.Value); got != tt.want {
				t.Errorf("Parse() = %s, want %s", got, tt.want)
			}
			if res.RecoveryApplied {
				t.Error("strict parse must not set RecoveryApplied")
			}
		})
	}
}

func TestJSONParserSurrogatePairs(t *testing.T) {
	v, warns, perr := decodeJSON(`{"e": "😀", "lone": "\ud800x"}`)
	if perr != nil {
		t.Fatalf("decodeJSON: %v", perr)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	e, _ := v.Get("e")
	if e.StringVal() != "\U0001F600" {
		t.Errorf("e = %q, want the combined supplementary rune", e.StringVal())
	}
	lone, _ := v.Get("lone")
	if lone.StringVal() != "�x" {
		t.Errorf("lone = %q, want replacement char before x", lone.StringVal())
	}
}

func TestJSONParserErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Code
	}{
		{name: "unquoted key", in: `{name: 1}`, want: CodeUnexpectedToken},
		{name: "trailing comma", in: `{"a": 1,}`, want: CodeUnexpectedToken},
		{name: "missing colon", in: `{"a" 1}`, want: CodeMissingDelimiter},
		{name: "missing comma", in: `{"a": 1 "b": 2}`, want: CodeMissingDelimiter},
		{name: "unterminated string", in: `{"a": "oops`, want: CodeUnterminatedString},
		{name: "bad escape", in: `{"a": "\q"}`, want: CodeInvalidEscape},
		{name: "bad unicode escape", in: `{"a": "\u12g4"}`, want: CodeInvalidEscape},
		{name: "empty fraction", in: `{"a": 1.}`, want: CodeInvalidNumber},
		{name: "truncated object", in: `{"a": 1`, want: CodeMissingDelimiter},
		{name: "trailing garbage", in: `[1] [2]`, want: CodeUnexpectedToken},
	}

	p := NewJSONParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Parse(tt.in, Options{})
			if res.Success {
				t.Fatalf("Parse(%q) unexpectedly succeeded", tt.in)
			}
			if len(res.Errors) == 0 {
				t.Fatal("failed result must carry errors")
			}
			if res.Errors[0].Code != tt.want {
				t.Errorf("Parse(%q) code = %s, want %s", tt.in, res.Errors[0].Code, tt.want)
			}
		})
	}
}

func TestJSONParserRecovery(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		want       string
		strategies []string
	}{
		{
			name:       "unquoted keys then trailing comma",
			in:         `{name: "Ann", age: 5,}`,
			want:       `{"name":"Ann","age":5}`,
			strategies: []string{"quote_unquoted_keys", "remove_trailing_commas"},
		},
		{
			name:       "single quotes",
			in:         `{'name': 'O''Brien'}`,
			want:       `{"name":"O'Brien"}`,
			strategies: []string{"normalize_single_quotes"},
		},
		{
			name:       "missing comma between members",
			in:         "{\"a\": \"x\" \"b\": \"y\"}",
			want:       `{"a":"x","b":"y"}`,
			strategies: []string{"insert_missing_commas"},
		},
		{
			name:       "truncated response",
			in:         `{"a": {"b": [1, 2`,
			want:       `{"a":{"b":[1,2]}}`,
			strategies: []string{"balance_brackets"},
		},
		{
			name:       "invalid escape",
			in:         `{"path": "C:\Users\ann"}`,
			want:       `{"path":"C:\\Users\\ann"}`,
			strategies: []string{"escape_invalid_escapes"},
		},
	}

	p := NewJSONParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Parse(tt.in, DefaultOptions())
			if !res.Success {
				t.Fatalf("Parse(%q) failed: %v", tt.in, res.Errors)
			}
			if !res.RecoveryApplied {
				t.Error("recovered parse must set RecoveryApplied")
			}
			if got := mustStringify(t, res.Value); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
			}
			for _, strategy := range tt.strategies {
				if !hasWarningContaining(res, strategy) {
					t.Errorf("missing strategy warning %q in %v", strategy, res.Warnings)
				}
			}
		})
	}
}

func TestJSONParserRecoveryDisabled(t *testing.T) {
	p := NewJSONParser()
	res := p.Parse(`{name: "Ann"}`, Options{})
	if res.Success || res.RecoveryApplied {
		t.Fatalf("recovery must be opt-in, got %+v", res)
	}
}

func TestJSONParserPartialSalvage(t *testing.T) {
	p := NewJSONParser()

	res := p.Parse(`junk "name": "Ann" more junk "age": 5 ???`, DefaultOptions())
	if res.Success {
		t.Fatal("partial salvage must not report success")
	}
	if !res.Degraded() {
		t.Fatalf("expected degraded result, got %+v", res)
	}
	name, ok := res.Value.Get("name")
	if !ok || name.StringVal() != "Ann" {
		t.Errorf("salvaged name = %v, %v", name, ok)
	}
	age, ok := res.Value.Get("age")
	if !ok || age.IntVal() != 5 {
		t.Errorf("salvaged age = %v, %v", age, ok)
	}

	// Nothing salvageable still yields an empty object, flagged degraded.
	res = p.Parse(`{not json at all $$$`, DefaultOptions())
	if res.Success {
		t.Fatal("unsalvageable input must not succeed")
	}
	if !res.Degraded() || res.Value.Len() != 0 {
		t.Errorf("want empty degraded object, got %+v", res)
	}
	if len(res.Errors) == 0 {
		t.Error("degraded result still carries the parse errors")
	}
}

func TestJSONParserDuplicateKeys(t *testing.T) {
	p := NewJSONParser()
	res := p.Parse(`{"a": 1, "a": 2}`, Options{})
	if !res.Success {
		t.Fatalf("Parse() failed: %v", res.Errors)
	}
	a, _ := res.Value.Get("a")
	if a.IntVal() != 2 {
		t.Errorf("last value should win, got %d", a.IntVal())
	}
	if !hasWarningContaining(res, "duplicate") {
		t.Errorf("expected duplicate-key warning, got %v", res.Warnings)
	}
}

func TestJSONParserUnwrapSchemaWrappers(t *testing.T) {
	p := NewJSONParser()
	in := `{"name": {"type": "string", "value": "Ann"}, "age": {"type": "integer", "value": 5}}`

	res := p.Parse(in, Options{UnwrapSchemaWrappers: true})
	if !res.Success {
		t.Fatalf("Parse() failed: %v", res.Errors)
	}
	if got := mustStringify(t, res.Value); got != `{"name":"Ann","age":5}` {
		t.Errorf("unwrapped = %s", got)
	}

	// Without the option the envelope is payload.
	res = p.Parse(in, Options{})
	name, _ := res.Value.Get("name")
	if name.Kind() != value.KindObject {
		t.Error("unwrapping must be opt-in")
	}
}

func TestJSONParserFieldExtraction(t *testing.T) {
	p := NewJSONParser()
	in := `{"user": {"name": "Bob", "addresses": [{"city": "Lisbon"}]}, "extra": 1}`

	res := p.Parse(in, Options{ExtractFields: []string{"user.name", "user.addresses[0].city", "missing.path"}})
	if !res.Success {
		t.Fatalf("Parse() failed: %v", res.Errors)
	}
	got := mustStringify(t, res.Value)
	want := `{"user.name":"Bob","user.addresses[0].city":"Lisbon"}`
	if got != want {
		t.Errorf("extracted = %s, want %s", got, want)
	}
	if !hasWarningContaining(res, "missing.path") {
		t.Errorf("expected warning for unresolvable path, got %v", res.Warnings)
	}
}

func hasWarningContaining(res *Result, substr string) bool {
	for _, w := range res.Warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
