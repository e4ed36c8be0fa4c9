package parse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/parsefix/parsefix/value"
)

// decodeJSON is the strict parse attempt: a recursive-descent scan producing
// a value tree with insertion-ordered object keys and typed errors carrying
// byte offsets. encoding/json cannot serve here — it loses key order, folds
// every number to float64, and reports untyped errors — so the scanner is
// hand-written. Duplicate keys are tolerated (last value wins) and reported
// as warnings.
func decodeJSON(src string) (*value.Value, []string, *Error) {
	s := &jsonScanner{src: src}
	v, err := s.parseValue()
	if err != nil {
		return nil, nil, err
	}
	s.skipSpace()
	if s.pos < len(s.src) {
		return nil, nil, newError(CodeUnexpectedToken, s.pos,
			"trailing content after top-level value: %s", s.peekFragment())
	}
	return v, s.warnings, nil
}

type jsonScanner struct {
	src      string
	pos      int
	warnings []string
}

func (s *jsonScanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *jsonScanner) peekFragment() string {
	end := s.pos + 12
	if end > len(s.src) {
		end = len(s.src)
	}
	return strconv.Quote(s.src[s.pos:end])
}

func (s *jsonScanner) parseValue() (*value.Value, *Error) {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return nil, newError(CodeMissingDelimiter, s.pos, "unexpected end of input, expected a value")
	}
	switch c := s.src[s.pos]; {
	case c == '{':
		return s.parseObject()
	case c == '[':
		return s.parseArray()
	case c == '"':
		str, err := s.parseString()
		if err != nil {
			return nil, err
		}
		return value.String(str), nil
	case c == 't', c == 'f', c == 'n':
		return s.parseLiteral()
	case c == '-' || (c >= '0' && c <= '9'):
		return s.parseNumber()
	default:
		return nil, newError(CodeUnexpectedToken, s.pos, "unexpected character %s", s.peekFragment())
	}
}

func (s *jsonScanner) parseObject() (*value.Value, *Error) {
	obj := value.Object()
	s.pos++ // consume '{'
	s.skipSpace()
	if s.pos < len(s.src) && s.src[s.pos] == '}' {
		s.pos++
		return obj, nil
	}

	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			return nil, newError(CodeMissingDelimiter, s.pos, "unexpected end of input inside object")
		}
		if s.src[s.pos] != '"' {
			return nil, newError(CodeUnexpectedToken, s.pos, "expected object key, got %s", s.peekFragment())
		}
		keyOffset := s.pos
		key, err := s.parseString()
		if err != nil {
			return nil, err
		}

		s.skipSpace()
		if s.pos >= len(s.src) || s.src[s.pos] != ':' {
			return nil, newError(CodeMissingDelimiter, s.pos, "expected ':' after object key %q", key)
		}
		s.pos++

		child, err := s.parseValue()
		if err != nil {
			return nil, err
		}
		if _, dup := obj.Get(key); dup {
			s.warnings = append(s.warnings,
				fmt.Sprintf("duplicate object key %q at offset %d, last value wins", key, keyOffset))
		}
		obj.Set(key, child)

		s.skipSpace()
		if s.pos >= len(s.src) {
			return nil, newError(CodeMissingDelimiter, s.pos, "unexpected end of input, expected ',' or '}'")
		}
		switch s.src[s.pos] {
		case ',':
			s.pos++
		case '}':
			s.pos++
			return obj, nil
		default:
			return nil, newError(CodeMissingDelimiter, s.pos, "expected ',' or '}', got %s", s.peekFragment())
		}
	}
}

func (s *jsonScanner) parseArray() (*value.Value, *Error) {
	arr := value.Array()
	s.pos++ // consume '['
	s.skipSpace()
	if s.pos < len(s.src) && s.src[s.pos] == ']' {
		s.pos++
		return arr, nil
	}

	for {
		item, err := s.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Append(item)

		s.skipSpace()
		if s.pos >= len(s.src) {
			return nil, newError(CodeMissingDelimiter, s.pos, "unexpected end of input, expected ',' or ']'")
		}
		switch s.src[s.pos] {
		case ',':
			s.pos++
		case ']':
			s.pos++
			return arr, nil
		default:
			return nil, newError(CodeMissingDelimiter, s.pos, "expected ',' or ']', got %s", s.peekFragment())
		}
	}
}

// parseString consumes a double-quoted string. Raw control characters are
// tolerated because LLMs routinely emit literal newlines inside strings;
// escape sequences are validated strictly so that the invalid-escape repair
// strategy has a precise trigger.
func (s *jsonScanner) parseString() (string, *Error) {
	start := s.pos
	s.pos++ // consume opening quote
	var sb strings.Builder

	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch c {
		case '"':
			s.pos++
			return sb.String(), nil
		case '\\':
			if s.pos+1 >= len(s.src) {
				return "", newError(CodeUnterminatedString, start, "string truncated inside escape sequence")
			}
			esc := s.src[s.pos+1]
			switch esc {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case '/':
				sb.WriteByte('/')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'u':
				r, err := s.parseUnicodeEscape()
				if err != nil {
					return "", err
				}
				sb.WriteRune(r)
				continue // parseUnicodeEscape advanced past the sequence
			default:
				return "", newError(CodeInvalidEscape, s.pos, "invalid escape sequence \\%c", esc)
			}
			s.pos += 2
		default:
			sb.WriteByte(c)
			s.pos++
		}
	}
	return "", newError(CodeUnterminatedString, start, "unterminated string literal")
}

// parseUnicodeEscape decodes one \uXXXX sequence. A high surrogate is
// combined with an immediately following \uXXXX low surrogate into the
// supplementary-plane rune; a lone or mismatched surrogate decodes to
// U+FFFD, matching encoding/json.
func (s *jsonScanner) parseUnicodeEscape() (rune, *Error) {
	r, err := s.parseHex4()
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(r) {
		return r, nil
	}
	if s.pos+1 < len(s.src) && s.src[s.pos] == '\\' && s.src[s.pos+1] == 'u' {
		save := s.pos
		r2, err2 := s.parseHex4()
		if err2 == nil {
			if combined := utf16.DecodeRune(r, r2); combined != utf8.RuneError {
				return combined, nil
			}
		}
		s.pos = save
	}
	return utf8.RuneError, nil
}

func (s *jsonScanner) parseHex4() (rune, *Error) {
	// s.pos sits on the backslash of \uXXXX.
	if s.pos+6 > len(s.src) {
		return 0, newError(CodeInvalidEscape, s.pos, "truncated \\u escape")
	}
	hex := s.src[s.pos+2 : s.pos+6]
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, newError(CodeInvalidEscape, s.pos, "invalid \\u escape %q", hex)
	}
	s.pos += 6
	return rune(n), nil
}

func (s *jsonScanner) parseLiteral() (*value.Value, *Error) {
	for _, lit := range []struct {
		text string
		val  *value.Value
	}{
		{"true", value.Bool(true)},
		{"false", value.Bool(false)},
		{"null", value.Null()},
	} {
		if strings.HasPrefix(s.src[s.pos:], lit.text) {
			s.pos += len(lit.text)
			return lit.val, nil
		}
	}
	return nil, newError(CodeUnexpectedToken, s.pos, "unexpected literal %s", s.peekFragment())
}

func (s *jsonScanner) parseNumber() (*value.Value, *Error) {
	start := s.pos
	isFloat := false

	if s.src[s.pos] == '-' {
		s.pos++
	}
	digits := 0
	for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
		s.pos++
		digits++
	}
	if digits == 0 {
		return nil, newError(CodeInvalidNumber, start, "number with no digits")
	}
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		isFloat = true
		s.pos++
		frac := 0
		for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
			s.pos++
			frac++
		}
		if frac == 0 {
			return nil, newError(CodeInvalidNumber, start, "number with empty fraction")
		}
	}
	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		isFloat = true
		s.pos++
		if s.pos < len(s.src) && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
			s.pos++
		}
		exp := 0
		for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
			s.pos++
			exp++
		}
		if exp == 0 {
			return nil, newError(CodeInvalidNumber, start, "number with empty exponent")
		}
	}

	text := s.src[start:s.pos]
	if !isFloat {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return value.Int(i), nil
		}
		// Out of int64 range; fall through to float.
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, newError(CodeInvalidNumber, start, "cannot parse number %q", text)
	}
	return value.Float(f), nil
}
