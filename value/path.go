package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Lookup resolves a dotted/indexed field path such as "user.addresses[0].city"
// against a tree. Paths are split on '.' outside brackets; each segment names
// an object key optionally followed by one or more array subscripts.
//
// Example:
//
//	city, err := value.Lookup(root, "user.addresses[0].city")
func Lookup(root *Value, path string) (*Value, error) {
	if root == nil {
		return nil, fmt.Errorf("value: lookup on nil value")
	}
	segments, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	cur := root
	walked := ""
	for _, seg := range segments {
		if seg.key != "" {
			if cur.Kind() != KindObject {
				return nil, fmt.Errorf("value: %q is %s, not an object", walked, cur.Kind())
			}
			child, ok := cur.Get(seg.key)
			if !ok {
				return nil, fmt.Errorf("value: key %q not found at %q", seg.key, walked)
			}
			cur = child
			walked = joinPath(walked, seg.key)
		}
		for _, idx := range seg.indexes {
			if cur.Kind() != KindArray {
				return nil, fmt.Errorf("value: %q is %s, not an array", walked, cur.Kind())
			}
			if idx < 0 || idx >= cur.Len() {
				return nil, fmt.Errorf("value: index %d out of range at %q", idx, walked)
			}
			cur = cur.Items()[idx]
			walked = fmt.Sprintf("%s[%d]", walked, idx)
		}
	}
	return cur, nil
}

type pathSegment struct {
	key     string
	indexes []int
}

func splitPath(path string) ([]pathSegment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("value: empty field path")
	}
	var segments []pathSegment
	for _, raw := range splitOutsideBrackets(path) {
		seg := pathSegment{}
		rest := raw
		if i := strings.IndexByte(rest, '['); i >= 0 {
			seg.key = rest[:i]
			rest = rest[i:]
		} else {
			seg.key = rest
			rest = ""
		}
		for rest != "" {
			if rest[0] != '[' {
				return nil, fmt.Errorf("value: malformed path segment %q", raw)
			}
			close := strings.IndexByte(rest, ']')
			if close < 0 {
				return nil, fmt.Errorf("value: unterminated subscript in %q", raw)
			}
			idx, err := strconv.Atoi(rest[1:close])
			if err != nil {
				return nil, fmt.Errorf("value: invalid subscript in %q: %w", raw, err)
			}
			seg.indexes = append(seg.indexes, idx)
			rest = rest[close+1:]
		}
		if seg.key == "" && len(seg.indexes) == 0 {
			return nil, fmt.Errorf("value: empty segment in path %q", path)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func splitOutsideBrackets(path string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 {
				parts = append(parts, path[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, path[start:])
	return parts
}

func joinPath(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "." + segment
}
