package parse

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/parsefix/parsefix/value"
)

// valueGen draws a random value tree of bounded depth. Floats are kept
// fractional so re-parsing cannot reclassify a whole float as an integer,
// which [value.Equal] treats as a different value.
func valueGen() *rapid.Generator[*value.Value] { return valueGenDepth(3) }

func valueGenDepth(depth int) *rapid.Generator[*value.Value] {
	leaf := rapid.OneOf(
		rapid.Just(value.Null()),
		rapid.Map(rapid.Bool(), value.Bool),
		rapid.Map(rapid.Int64(), value.Int),
		rapid.Custom(func(t *rapid.T) *value.Value {
			f := float64(rapid.Int64Range(-1_000_000_000, 1_000_000_000).Draw(t, "mantissa")) + 0.5
			return value.Float(f)
		}),
		rapid.Map(rapid.String(), value.String),
	)
	if depth <= 0 {
		return leaf
	}
	child := valueGenDepth(depth - 1)
	arr := rapid.Custom(func(t *rapid.T) *value.Value {
		return value.Array(rapid.SliceOfN(child, 0, 4).Draw(t, "items")...)
	})
	obj := rapid.Custom(func(t *rapid.T) *value.Value {
		o := value.Object()
		for k, v := range rapid.MapOfN(rapid.String(), child, 0, 4).Draw(t, "entries") {
			o.Set(k, v)
		}
		return o
	})
	return rapid.OneOf(leaf, leaf, arr, obj)
}

// Stringify and the scanner must agree: any tree we can encode decodes back
// to an equal tree, kinds included.
func TestJSONRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := valueGen().Draw(t, "tree")

		text, err := value.Stringify(in)
		if err != nil {
			t.Fatalf("Stringify: %v", err)
		}
		out, warnings, perr := decodeJSON(text)
		if perr != nil {
			t.Fatalf("decodeJSON(%q): %v", text, perr)
		}
		if len(warnings) != 0 {
			t.Fatalf("decodeJSON(%q) warned: %v", text, warnings)
		}
		if !value.Equal(in, out) {
			got, _ := value.Stringify(out)
			t.Fatalf("round trip mismatch:\n in  %s\n out %s", text, got)
		}
	})
}
