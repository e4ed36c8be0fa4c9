package schema

import (
	"fmt"
	"strings"

	"github.com/parsefix/parsefix/value"
)

// Issue codes, exported as constants so callers can switch on them.
const (
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeUnknownKey     = "unknown_key"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeUnionNoMatch   = "union_no_match"
	CodeUnionAmbiguous = "union_ambiguous"
)

// Issue is a single validation finding at a field path.
type Issue struct {
	Path    string
	Code    string
	Message string
}

// Issues is an ordered collection of findings. It implements error; an empty
// collection means the value conforms.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	var sb strings.Builder
	shown := len(iss)
	if shown > maxShown {
		shown = maxShown
	}
	for i := 0; i < shown; i++ {
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s at %q", iss[i].Code, iss[i].Path)
	}
	if len(iss) > shown {
		fmt.Fprintf(&sb, "; ... (total %d)", len(iss))
	}
	return sb.String()
}

// Check validates a parsed value against the schema without modifying either.
// All findings are collected rather than stopping at the first.
func Check(v *value.Value, n *Node) Issues {
	var iss Issues
	check(v, n, "", &iss)
	return iss
}

func check(v *value.Value, n *Node, path string, iss *Issues) {
	switch n.Kind {
	case KindString:
		if v.Kind() != value.KindString {
			mismatch(v, n, path, iss)
		}
	case KindBoolean:
		if v.Kind() != value.KindBool {
			mismatch(v, n, path, iss)
		}
	case KindNull:
		if v.Kind() != value.KindNull {
			mismatch(v, n, path, iss)
		}
	case KindNumber:
		num, ok := v.AsFloat()
		if !ok {
			mismatch(v, n, path, iss)
			return
		}
		if n.Min != nil && num < *n.Min {
			*iss = append(*iss, Issue{Path: path, Code: CodeTooSmall,
				Message: fmt.Sprintf("%v is below minimum %v", num, *n.Min)})
		}
		if n.Max != nil && num > *n.Max {
			*iss = append(*iss, Issue{Path: path, Code: CodeTooBig,
				Message: fmt.Sprintf("%v exceeds maximum %v", num, *n.Max)})
		}
	case KindObject:
		if v.Kind() != value.KindObject {
			mismatch(v, n, path, iss)
			return
		}
		for _, p := range n.Properties {
			child, ok := v.Get(p.Name)
			if !ok {
				if n.IsRequired(p.Name) {
					*iss = append(*iss, Issue{Path: join(path, p.Name), Code: CodeRequired,
						Message: fmt.Sprintf("required property %q is missing", p.Name)})
				}
				continue
			}
			check(child, p.Node, join(path, p.Name), iss)
		}
		if !n.AdditionalProperties {
			for _, k := range v.Keys() {
				if _, declared := n.PropNode(k); !declared {
					*iss = append(*iss, Issue{Path: join(path, k), Code: CodeUnknownKey,
						Message: fmt.Sprintf("undeclared property %q", k)})
				}
			}
		}
	case KindArray:
		if v.Kind() != value.KindArray {
			mismatch(v, n, path, iss)
			return
		}
		if n.Items != nil {
			for i, item := range v.Items() {
				check(item, n.Items, fmt.Sprintf("%s[%d]", path, i), iss)
			}
		}
	case KindAnyOf:
		for _, m := range n.Members {
			if len(Check(v, m)) == 0 {
				return
			}
		}
		*iss = append(*iss, Issue{Path: path, Code: CodeUnionNoMatch,
			Message: "value matches no anyOf member"})
	case KindOneOf:
		matches := 0
		for _, m := range n.Members {
			if len(Check(v, m)) == 0 {
				matches++
			}
		}
		switch {
		case matches == 0:
			*iss = append(*iss, Issue{Path: path, Code: CodeUnionNoMatch,
				Message: "value matches no oneOf member"})
		case matches > 1:
			*iss = append(*iss, Issue{Path: path, Code: CodeUnionAmbiguous,
				Message: fmt.Sprintf("value matches %d oneOf members", matches)})
		}
	}
}

func mismatch(v *value.Value, n *Node, path string, iss *Issues) {
	*iss = append(*iss, Issue{Path: path, Code: CodeInvalidType,
		Message: fmt.Sprintf("expected %s, got %s", n.Kind, v.Kind())})
}

func join(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "." + segment
}
