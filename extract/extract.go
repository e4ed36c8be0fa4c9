package extract

import (
	"fmt"

	"github.com/parsefix/parsefix/parse"
	"github.com/parsefix/parsefix/schema"
	"github.com/parsefix/parsefix/value"
)

// Result is the outcome of schema-guided extraction. The three field lists
// are ordered by visit and together form the audit trail: a path in
// ExtractedFields was taken verbatim, CoercedFields was converted to the
// schema type, DefaultedFields was synthesized.
type Result struct {
	Value           *value.Value
	SourceFormat    parse.Format
	ExtractedFields []string
	CoercedFields   []string
	DefaultedFields []string
	Validation      schema.Issues
}

// Extract walks the schema against a parsed value and returns the projected
// tree plus the audit trail. Validation issues found on the projected value
// are attached to the result; under opts.Strict they are returned as an
// error instead.
func Extract(v *value.Value, node *schema.Node, opts parse.Options) (*Result, error) {
	if v == nil {
		return nil, parse.PathError(parse.CodeTypeMismatch, "", "cannot extract from a nil value")
	}
	if node == nil {
		return nil, parse.PathError(parse.CodeNoMatchingSchema, "", "cannot extract without a schema")
	}

	e := &extractor{opts: opts}
	out, err := e.walk(v, node, "", 0)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Value:           out,
		ExtractedFields: e.extracted,
		CoercedFields:   e.coerced,
		DefaultedFields: e.defaulted,
		Validation:      schema.Check(out, node),
	}
	if opts.Strict && len(res.Validation) > 0 {
		return nil, parse.PathError(parse.CodeSchemaValidationFailed, res.Validation[0].Path,
			"extracted value fails validation: %s", res.Validation.Error())
	}
	return res, nil
}

// FromParse extracts from a parse result, carrying the source format over.
func FromParse(pr *parse.Result, node *schema.Node, opts parse.Options) (*Result, error) {
	if pr.Value == nil {
		return nil, parse.PathError(parse.CodeTypeMismatch, "", "parse result holds no value")
	}
	res, err := Extract(pr.Value, node, opts)
	if err != nil {
		return nil, err
	}
	res.SourceFormat = pr.Format
	return res, nil
}

type extractor struct {
	opts      parse.Options
	extracted []string
	coerced   []string
	defaulted []string
}

func (e *extractor) walk(v *value.Value, node *schema.Node, path string, depth int) (*value.Value, *parse.Error) {
	if depth > e.opts.MaxDepthOrDefault() {
		return nil, parse.PathError(parse.CodeMaxDepthExceeded, path,
			"extraction exceeds depth bound %d", e.opts.MaxDepthOrDefault())
	}

	switch node.Kind {
	case schema.KindObject:
		return e.walkObject(v, node, path, depth)
	case schema.KindArray:
		return e.walkArray(v, node, path, depth)
	case schema.KindAnyOf:
		return e.walkAnyOf(v, node, path, depth)
	case schema.KindOneOf:
		return e.walkOneOf(v, node, path, depth)
	default:
		return e.walkPrimitive(v, node, path)
	}
}

func (e *extractor) walkObject(v *value.Value, node *schema.Node, path string, depth int) (*value.Value, *parse.Error) {
	if v.Kind() != value.KindObject {
		if e.opts.Strict {
			return nil, parse.PathError(parse.CodeTypeMismatch, path,
				"expected object, got %s", v.Kind())
		}
		return v.Clone(), nil
	}

	out := value.Object()

	// Declared properties first, in schema declaration order.
	for _, prop := range node.Properties {
		childPath := joinPath(path, prop.Name)
		src, present := v.Get(prop.Name)
		if !present {
			if !node.IsRequired(prop.Name) {
				continue
			}
			if e.opts.UseDefaults {
				out.Set(prop.Name, defaultFor(prop.Node))
				e.defaulted = append(e.defaulted, childPath)
				continue
			}
			return nil, parse.PathError(parse.CodeMissingRequiredField, childPath,
				"required field %q is missing", prop.Name)
		}
		child, err := e.walk(src, prop.Node, childPath, depth+1)
		if err != nil {
			return nil, err
		}
		out.Set(prop.Name, child)
	}

	// Undeclared source keys pass through unmodified when the schema is open.
	if node.AdditionalProperties {
		for _, k := range v.Keys() {
			if _, declared := node.PropNode(k); declared {
				continue
			}
			src, _ := v.Get(k)
			out.Set(k, src.Clone())
			e.extracted = append(e.extracted, joinPath(path, k))
		}
	}
	return out, nil
}

func (e *extractor) walkArray(v *value.Value, node *schema.Node, path string, depth int) (*value.Value, *parse.Error) {
	if v.Kind() != value.KindArray {
		if e.opts.Strict {
			return nil, parse.PathError(parse.CodeTypeMismatch, path,
				"expected array, got %s", v.Kind())
		}
		return v.Clone(), nil
	}
	if node.Items == nil {
		e.extracted = append(e.extracted, path)
		return v.Clone(), nil
	}

	out := value.Array()
	for i, item := range v.Items() {
		child, err := e.walk(item, node.Items, fmt.Sprintf("%s[%d]", path, i), depth+1)
		if err != nil {
			return nil, err
		}
		out.Append(child)
	}
	return out, nil
}

// walkAnyOf tries members in declaration order; the first that extracts
// without error wins, including its audit entries.
func (e *extractor) walkAnyOf(v *value.Value, node *schema.Node, path string, depth int) (*value.Value, *parse.Error) {
	for _, member := range node.Members {
		trial := e.fork()
		out, err := trial.walk(v, member, path, depth+1)
		if err == nil && conforms(out, member) {
			e.merge(trial)
			return out, nil
		}
	}
	return nil, parse.PathError(parse.CodeNoMatchingSchema, path,
		"value matches none of %d anyOf members", len(node.Members))
}

// walkOneOf demands exactly one member match; zero and multiple are both
// contract violations that must surface.
func (e *extractor) walkOneOf(v *value.Value, node *schema.Node, path string, depth int) (*value.Value, *parse.Error) {
	var (
		matched *extractor
		out     *value.Value
		count   int
	)
	for _, member := range node.Members {
		trial := e.fork()
		candidate, err := trial.walk(v, member, path, depth+1)
		if err == nil && conforms(candidate, member) {
			count++
			matched = trial
			out = candidate
		}
	}
	switch count {
	case 1:
		e.merge(matched)
		return out, nil
	case 0:
		return nil, parse.PathError(parse.CodeNoMatchingSchema, path,
			"value matches none of %d oneOf members", len(node.Members))
	default:
		return nil, parse.PathError(parse.CodeMultipleMatches, path,
			"value matches %d oneOf members, exactly one required", count)
	}
}

func (e *extractor) walkPrimitive(v *value.Value, node *schema.Node, path string) (*value.Value, *parse.Error) {
	if matchesPrimitive(v, node) {
		e.extracted = append(e.extracted, path)
		return v.Clone(), nil
	}

	if e.opts.CoerceTypes {
		if coerced, ok := coerce(v, node); ok {
			e.coerced = append(e.coerced, path)
			return coerced, nil
		}
	}

	if e.opts.Strict {
		return nil, parse.PathError(parse.CodeTypeMismatch, path,
			"expected %s, got %s", node.Kind, v.Kind())
	}
	// Lenient mode passes the mismatch through; validation on the final
	// tree reports it.
	return v.Clone(), nil
}

// fork clones the audit state for a trial extraction of a union member.
func (e *extractor) fork() *extractor {
	return &extractor{
		opts:      e.opts,
		extracted: append([]string(nil), e.extracted...),
		coerced:   append([]string(nil), e.coerced...),
		defaulted: append([]string(nil), e.defaulted...),
	}
}

func (e *extractor) merge(trial *extractor) {
	e.extracted = trial.extracted
	e.coerced = trial.coerced
	e.defaulted = trial.defaulted
}

// conforms gates union matching on the projected value actually validating,
// so lenient pass-through does not count as a match.
func conforms(v *value.Value, node *schema.Node) bool {
	return len(schema.Check(v, node)) == 0
}

func matchesPrimitive(v *value.Value, node *schema.Node) bool {
	switch node.Kind {
	case schema.KindString:
		return v.Kind() == value.KindString
	case schema.KindBoolean:
		return v.Kind() == value.KindBool
	case schema.KindNull:
		return v.Kind() == value.KindNull
	case schema.KindNumber:
		_, ok := v.AsFloat()
		return ok
	default:
		return false
	}
}

// defaultFor synthesizes the schema-appropriate zero value.
func defaultFor(node *schema.Node) *value.Value {
	switch node.Kind {
	case schema.KindString:
		return value.String("")
	case schema.KindNumber:
		if node.Min != nil && *node.Min > 0 {
			return value.Float(*node.Min)
		}
		return value.Int(0)
	case schema.KindBoolean:
		return value.Bool(false)
	case schema.KindNull:
		return value.Null()
	case schema.KindArray:
		return value.Array()
	case schema.KindObject:
		obj := value.Object()
		for _, prop := range node.Properties {
			if node.IsRequired(prop.Name) {
				obj.Set(prop.Name, defaultFor(prop.Node))
			}
		}
		return obj
	case schema.KindAnyOf, schema.KindOneOf:
		if len(node.Members) > 0 {
			return defaultFor(node.Members[0])
		}
		return value.Null()
	default:
		return value.Null()
	}
}

func joinPath(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "." + segment
}
