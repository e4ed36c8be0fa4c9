package parse

import (
	"fmt"

	"github.com/parsefix/parsefix/schema"
	"github.com/parsefix/parsefix/value"
)

// finish runs the post-parse stages shared by all parsers on a successful
// result: schema-wrapper unwrapping, schema validation, and field-path
// extraction, in that order.
func finish(res *Result, opts Options) {
	if opts.UnwrapSchemaWrappers {
		if unwrapped, changed := unwrapSchemaWrappers(res.Value); changed {
			res.Value = unwrapped
			res.addWarning("unwrapped schema-style {\"type\", \"value\"} envelopes")
		}
	}

	if opts.Schema != nil {
		if iss := schema.Check(res.Value, opts.Schema); len(iss) > 0 {
			if opts.Strict {
				res.Success = false
				for _, issue := range iss {
					res.Errors = append(res.Errors,
						pathError(CodeSchemaValidationFailed, issue.Path, "%s: %s", issue.Code, issue.Message))
				}
			} else {
				for _, issue := range iss {
					res.addWarning(fmt.Sprintf("schema: %s at %q: %s", issue.Code, issue.Path, issue.Message))
				}
			}
		}
	}

	if len(opts.ExtractFields) > 0 && res.Value != nil {
		res.Value = extractFieldPaths(res, opts.ExtractFields)
	}
}

// extractFieldPaths narrows the result to the requested dotted/indexed
// paths, assembled into a flat object keyed by path. Unresolvable paths are
// reported as warnings and omitted.
func extractFieldPaths(res *Result, paths []string) *value.Value {
	out := value.Object()
	for _, path := range paths {
		found, err := value.Lookup(res.Value, path)
		if err != nil {
			res.addWarning(fmt.Sprintf("field extraction: path %q: %v", path, err))
			continue
		}
		out.Set(path, found.Clone())
	}
	return out
}

// unwrapSchemaWrappers rewrites {"type": ..., "value": ...} envelopes down
// to the wrapped value, recursively. Models asked for schema-conforming
// output sometimes echo the schema shape around every field instead of the
// data itself.
func unwrapSchemaWrappers(v *value.Value) (*value.Value, bool) {
	switch v.Kind() {
	case value.KindObject:
		if inner, ok := wrappedValue(v); ok {
			unwrapped, _ := unwrapSchemaWrappers(inner)
			return unwrapped, true
		}
		out := value.Object()
		changed := false
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			uc, c := unwrapSchemaWrappers(child)
			out.Set(k, uc)
			changed = changed || c
		}
		return out, changed
	case value.KindArray:
		out := value.Array()
		changed := false
		for _, item := range v.Items() {
			ui, c := unwrapSchemaWrappers(item)
			out.Append(ui)
			changed = changed || c
		}
		return out, changed
	default:
		return v, false
	}
}

// wrappedValue matches the exact two-key {"type": <string>, "value": ...}
// envelope; anything looser is left alone.
func wrappedValue(v *value.Value) (*value.Value, bool) {
	if v.Len() != 2 {
		return nil, false
	}
	typ, hasType := v.Get("type")
	inner, hasValue := v.Get("value")
	if !hasType || !hasValue || typ.Kind() != value.KindString {
		return nil, false
	}
	return inner, true
}
