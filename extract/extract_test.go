package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsefix/parsefix/parse"
	"github.com/parsefix/parsefix/schema"
	"github.com/parsefix/parsefix/value"
)

func personSchema() *schema.Node {
	return schema.Object().
		Prop("name", schema.String()).
		Prop("age", schema.Number()).
		Require("name", "age")
}

func obj(pairs ...any) *value.Value {
	o := value.Object()
	for i := 0; i < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1].(*value.Value))
	}
	return o
}

func TestExtractVerbatim(t *testing.T) {
	src := obj("name", value.String("Ann"), "age", value.Int(42))
	res, err := Extract(src, personSchema(), parse.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, res.ExtractedFields)
	assert.Empty(t, res.CoercedFields)
	assert.Empty(t, res.DefaultedFields)
	assert.Empty(t, res.Validation)

	name, _ := res.Value.Get("name")
	assert.Equal(t, "Ann", name.StringVal())
}

func TestExtractCoercesStringToNumber(t *testing.T) {
	src := obj("name", value.String("Ann"), "age", value.String("42"))
	res, err := Extract(src, personSchema(), parse.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"age"}, res.CoercedFields)
	age, _ := res.Value.Get("age")
	assert.Equal(t, value.KindInt, age.Kind())
	assert.Equal(t, int64(42), age.IntVal())
}

func TestExtractCoercionDisabled(t *testing.T) {
	opts := parse.DefaultOptions()
	opts.CoerceTypes = false

	src := obj("name", value.String("Ann"), "age", value.String("42"))
	res, err := Extract(src, personSchema(), opts)
	require.NoError(t, err)

	// Lenient pass-through keeps the string; validation reports the mismatch.
	age, _ := res.Value.Get("age")
	assert.Equal(t, value.KindString, age.Kind())
	require.NotEmpty(t, res.Validation)
	assert.Equal(t, "age", res.Validation[0].Path)
	assert.Equal(t, schema.CodeInvalidType, res.Validation[0].Code)
}

func TestExtractDefaultsMissingRequired(t *testing.T) {
	src := obj("name", value.String("Ann"))
	res, err := Extract(src, personSchema(), parse.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"age"}, res.DefaultedFields)
	age, ok := res.Value.Get("age")
	require.True(t, ok)
	assert.Equal(t, int64(0), age.IntVal())
}

func TestExtractMissingRequiredWithoutDefaults(t *testing.T) {
	opts := parse.DefaultOptions()
	opts.UseDefaults = false

	_, err := Extract(obj("name", value.String("Ann")), personSchema(), opts)
	require.Error(t, err)
	var perr *parse.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parse.CodeMissingRequiredField, perr.Code)
	assert.Equal(t, "age", perr.Path)
}

func TestExtractOptionalMissingFieldOmitted(t *testing.T) {
	node := schema.Object().
		Prop("name", schema.String()).
		Prop("nickname", schema.String()).
		Require("name")

	res, err := Extract(obj("name", value.String("Ann")), node, parse.DefaultOptions())
	require.NoError(t, err)

	_, ok := res.Value.Get("nickname")
	assert.False(t, ok, "optional missing field must not be synthesized")
	assert.Empty(t, res.DefaultedFields)
}

func TestExtractDropsUndeclaredKeysWhenClosed(t *testing.T) {
	src := obj("name", value.String("Ann"), "age", value.Int(1), "extra", value.Bool(true))
	res, err := Extract(src, personSchema(), parse.DefaultOptions())
	require.NoError(t, err)

	_, ok := res.Value.Get("extra")
	assert.False(t, ok)
}

func TestExtractKeepsUndeclaredKeysWhenOpen(t *testing.T) {
	node := personSchema().Additional(true)
	src := obj("name", value.String("Ann"), "age", value.Int(1), "extra", value.Bool(true))
	res, err := Extract(src, node, parse.DefaultOptions())
	require.NoError(t, err)

	extra, ok := res.Value.Get("extra")
	require.True(t, ok)
	assert.True(t, extra.BoolVal())
	assert.Contains(t, res.ExtractedFields, "extra")
}

func TestExtractArrayPaths(t *testing.T) {
	node := schema.Object().
		Prop("scores", schema.Array(schema.Number())).
		Require("scores")
	src := obj("scores", value.Array(value.Int(1), value.String("2"), value.Int(3)))

	res, err := Extract(src, node, parse.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"scores[1]"}, res.CoercedFields)

	scores, _ := res.Value.Get("scores")
	assert.Equal(t, value.KindInt, scores.Items()[1].Kind())
}

func TestExtractAnyOfFirstMatchWins(t *testing.T) {
	node := schema.Object().
		Prop("id", schema.AnyOf(schema.Number(), schema.String())).
		Require("id")

	res, err := Extract(obj("id", value.String("abc")), node, parse.DefaultOptions())
	require.NoError(t, err)
	id, _ := res.Value.Get("id")
	assert.Equal(t, value.KindString, id.Kind())

	// "42" coerces to a number under the first member, so the number branch
	// wins before the string branch is tried.
	res, err = Extract(obj("id", value.String("42")), node, parse.DefaultOptions())
	require.NoError(t, err)
	id, _ = res.Value.Get("id")
	assert.Equal(t, value.KindInt, id.Kind())
	assert.Equal(t, []string{"id"}, res.CoercedFields)
}

func TestExtractOneOfExactlyOne(t *testing.T) {
	node := schema.Object().
		Prop("v", schema.OneOf(schema.Number(), schema.Boolean())).
		Require("v")

	res, err := Extract(obj("v", value.Int(7)), node, parse.DefaultOptions())
	require.NoError(t, err)
	v, _ := res.Value.Get("v")
	assert.Equal(t, int64(7), v.IntVal())
}

func TestExtractOneOfMultipleMatches(t *testing.T) {
	// With coercion on, the string "1" satisfies number, boolean, and string
	// members at once; oneOf must refuse the ambiguity.
	node := schema.Object().
		Prop("v", schema.OneOf(schema.Number(), schema.Boolean(), schema.String())).
		Require("v")

	_, err := Extract(obj("v", value.String("1")), node, parse.DefaultOptions())
	require.Error(t, err)
	var perr *parse.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parse.CodeMultipleMatches, perr.Code)
	assert.Equal(t, "v", perr.Path)
}

func TestExtractOneOfNoMatch(t *testing.T) {
	node := schema.Object().
		Prop("v", schema.OneOf(schema.Number(), schema.Boolean())).
		Require("v")
	opts := parse.DefaultOptions()
	opts.CoerceTypes = false

	_, err := Extract(obj("v", value.String("zebra")), node, opts)
	require.Error(t, err)
	var perr *parse.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parse.CodeNoMatchingSchema, perr.Code)
}

func TestExtractUnionAuditDiscarded(t *testing.T) {
	// A failed union trial must not leak its audit entries.
	node := schema.Object().
		Prop("v", schema.AnyOf(
			schema.Object().Prop("x", schema.Number()).Require("x"),
			schema.String(),
		)).
		Require("v")
	opts := parse.DefaultOptions()
	opts.UseDefaults = false

	res, err := Extract(obj("v", value.String("hello")), node, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"v"}, res.ExtractedFields)
	assert.Empty(t, res.DefaultedFields)
}

func TestExtractDepthBound(t *testing.T) {
	opts := parse.DefaultOptions()
	opts.MaxDepth = 2

	node := schema.Object().
		Prop("a", schema.Object().
			Prop("b", schema.Object().
				Prop("c", schema.String()).
				Require("c")).
			Require("b")).
		Require("a")
	src := obj("a", obj("b", obj("c", value.String("deep"))))

	_, err := Extract(src, node, opts)
	require.Error(t, err)
	var perr *parse.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parse.CodeMaxDepthExceeded, perr.Code)
}

func TestExtractLenientMismatchReturnsCopy(t *testing.T) {
	// The extraction result owns its tree: even the lenient pass-through of
	// a container mismatch must hand back a copy, not alias the input.
	node := schema.Object().
		Prop("items", schema.Object().Prop("x", schema.Number())).
		Require("items")
	src := obj("items", value.Array(value.Int(1)))

	res, err := Extract(src, node, parse.DefaultOptions())
	require.NoError(t, err)

	got, ok := res.Value.Get("items")
	require.True(t, ok)
	got.Append(value.Int(2))

	orig, _ := src.Get("items")
	assert.Equal(t, 1, orig.Len(), "mutating the result must not touch the source tree")
}

func TestExtractStrictTypeMismatch(t *testing.T) {
	opts := parse.DefaultOptions()
	opts.Strict = true
	opts.CoerceTypes = false

	_, err := Extract(obj("name", value.Int(5), "age", value.Int(1)), personSchema(), opts)
	require.Error(t, err)
	var perr *parse.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parse.CodeTypeMismatch, perr.Code)
	assert.Equal(t, "name", perr.Path)
}

func TestExtractNilInputs(t *testing.T) {
	_, err := Extract(nil, personSchema(), parse.DefaultOptions())
	require.Error(t, err)

	_, err = Extract(value.Object(), nil, parse.DefaultOptions())
	require.Error(t, err)
}

func TestFromParseCarriesFormat(t *testing.T) {
	pr := &parse.Result{
		Value:   obj("name", value.String("Ann"), "age", value.Int(3)),
		Format:  parse.FormatYAML,
		Success: true,
	}
	res, err := FromParse(pr, personSchema(), parse.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, parse.FormatYAML, res.SourceFormat)
}
