package repair

import (
	"strconv"
	"strings"

	"github.com/parsefix/parsefix/value"
)

// ExtractPartial is the last-resort salvage pass: a permissive scan for
// well-formed `"key": value` fragments assembled into a flat object. The
// value must be a quoted string, a numeric literal, true/false, or null.
// Scanning stops at the first fragment whose value cannot be interpreted;
// repeated keys overwrite in place. ExtractPartial never fails — content
// with nothing salvageable yields an empty object.
func ExtractPartial(content string) *value.Value {
	out := value.Object()
	pos := 0

	for pos < len(content) {
		q := strings.IndexByte(content[pos:], '"')
		if q < 0 {
			break
		}
		pos += q
		key, next, ok := scanQuoted(content, pos)
		if !ok {
			break
		}
		pos = next

		pos = skipSpaces(content, pos)
		if pos >= len(content) || content[pos] != ':' {
			// A quoted string that is not a key; keep scanning after it.
			continue
		}
		pos = skipSpaces(content, pos+1)

		val, next, ok := scanValue(content, pos)
		if !ok {
			break // first uninterpretable fragment ends the salvage
		}
		out.Set(key, val)
		pos = next
	}
	return out
}

func skipSpaces(s string, pos int) int {
	for pos < len(s) {
		switch s[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// scanQuoted reads a double-quoted string starting at pos, interpreting the
// standard escapes permissively (an unknown escape keeps its literal
// character).
func scanQuoted(s string, pos int) (string, int, bool) {
	var sb strings.Builder
	i := pos + 1
	for i < len(s) {
		c := s[i]
		switch c {
		case '"':
			return sb.String(), i + 1, true
		case '\\':
			if i+1 >= len(s) {
				return "", pos, false
			}
			switch esc := s[i+1]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			default:
				sb.WriteByte(esc)
			}
			i += 2
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return "", pos, false
}

func scanValue(s string, pos int) (*value.Value, int, bool) {
	if pos >= len(s) {
		return nil, pos, false
	}
	switch c := s[pos]; {
	case c == '"':
		str, next, ok := scanQuoted(s, pos)
		if !ok {
			return nil, pos, false
		}
		return value.String(str), next, true
	case c == 't':
		if strings.HasPrefix(s[pos:], "true") {
			return value.Bool(true), pos + 4, true
		}
	case c == 'f':
		if strings.HasPrefix(s[pos:], "false") {
			return value.Bool(false), pos + 5, true
		}
	case c == 'n':
		if strings.HasPrefix(s[pos:], "null") {
			return value.Null(), pos + 4, true
		}
	case c == '-' || c >= '0' && c <= '9':
		return scanNumber(s, pos)
	}
	return nil, pos, false
}

func scanNumber(s string, pos int) (*value.Value, int, bool) {
	end := pos
	if s[end] == '-' {
		end++
	}
	isFloat := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' {
			isFloat = true
			end++
			continue
		}
		break
	}
	text := s[pos:end]
	if !isFloat {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return value.Int(i), end, true
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, pos, false
	}
	return value.Float(f), end, true
}
