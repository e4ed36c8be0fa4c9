package repair

import "strings"

// Strategy is one pure repair transform. Apply returns the rewritten
// content; returning the input unchanged means the strategy does not match.
type Strategy struct {
	Name  string
	Apply func(content string) string
}

// chain is the fixed priority order. Earlier strategies make smaller, safer
// guesses; later ones rewrite more.
var chain = []Strategy{
	{Name: "quote_unquoted_keys", Apply: quoteUnquotedKeys},
	{Name: "remove_trailing_commas", Apply: removeTrailingCommas},
	{Name: "normalize_single_quotes", Apply: normalizeSingleQuotes},
	{Name: "insert_missing_commas", Apply: insertMissingCommas},
	{Name: "balance_brackets", Apply: balanceBrackets},
	{Name: "escape_invalid_escapes", Apply: escapeInvalidEscapes},
}

// Strategies returns the chain in priority order. The slice is shared; do
// not mutate it.
func Strategies() []Strategy { return chain }

// ApplyFirst runs the chain in priority order and applies the first strategy
// that changes the content. It returns the rewritten content, the strategy
// name, and whether anything changed.
func ApplyFirst(content string) (string, string, bool) {
	for _, s := range chain {
		if out := s.Apply(content); out != content {
			return out, s.Name, true
		}
	}
	return content, "", false
}

// stringState tracks double-quoted string literal and escape state while
// scanning JSON-ish text. Every strategy shares it so none of them rewrites
// payload bytes inside string values.
type stringState struct {
	inString bool
	escaped  bool
}

// step consumes one byte and reports whether it is inside a string literal
// (including the delimiting quotes).
func (st *stringState) step(c byte) bool {
	if st.inString {
		switch {
		case st.escaped:
			st.escaped = false
		case c == '\\':
			st.escaped = true
		case c == '"':
			st.inString = false
		}
		return true
	}
	if c == '"' {
		st.inString = true
		return true
	}
	return false
}

// quoteUnquotedKeys wraps bare identifiers used as object keys in double
// quotes: an identifier run immediately preceding ':' whose last significant
// predecessor is '{' or ','.
func quoteUnquotedKeys(content string) string {
	var sb strings.Builder
	sb.Grow(len(content) + 8)
	var st stringState
	prevSig := byte(0) // last significant byte outside strings

	for i := 0; i < len(content); {
		c := content[i]
		if st.step(c) {
			sb.WriteByte(c)
			i++
			continue
		}

		if isIdentStart(c) && (prevSig == '{' || prevSig == ',' || prevSig == 0) {
			j := i
			for j < len(content) && isIdentByte(content[j]) {
				j++
			}
			k := j
			for k < len(content) && isSpace(content[k]) {
				k++
			}
			if k < len(content) && content[k] == ':' {
				sb.WriteByte('"')
				sb.WriteString(content[i:j])
				sb.WriteByte('"')
				prevSig = '"'
				i = j
				continue
			}
		}

		sb.WriteByte(c)
		if !isSpace(c) {
			prevSig = c
		}
		i++
	}
	return sb.String()
}

// removeTrailingCommas drops every comma separated from a closing brace or
// bracket only by whitespace and other commas, so runs like ",,]" clear in
// a single pass.
func removeTrailingCommas(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))
	var st stringState

	for i := 0; i < len(content); i++ {
		c := content[i]
		if st.step(c) {
			sb.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(content) && (isSpace(content[j]) || content[j] == ',') {
				j++
			}
			if j < len(content) && (content[j] == '}' || content[j] == ']') {
				continue // drop the comma
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// normalizeSingleQuotes rewrites single-quoted strings to double-quoted
// ones, escaping embedded double quotes and unescaping \' sequences.
// Apostrophes inside double-quoted strings are untouched.
func normalizeSingleQuotes(content string) string {
	var sb strings.Builder
	sb.Grow(len(content) + 8)
	var st stringState

	for i := 0; i < len(content); i++ {
		c := content[i]
		if st.step(c) {
			sb.WriteByte(c)
			continue
		}
		if c != '\'' {
			sb.WriteByte(c)
			continue
		}

		// Find the closing single quote, honoring backslash escapes and
		// '' doubling.
		end := -1
		for j := i + 1; j < len(content); j++ {
			if content[j] == '\\' {
				j++
				continue
			}
			if content[j] == '\'' {
				if j+1 < len(content) && content[j+1] == '\'' {
					j++
					continue
				}
				end = j
				break
			}
		}
		if end < 0 {
			// Unterminated; leave it for another strategy.
			sb.WriteByte(c)
			continue
		}

		sb.WriteByte('"')
		for j := i + 1; j < end; j++ {
			switch {
			case content[j] == '\\' && j+1 < end && content[j+1] == '\'':
				sb.WriteByte('\'')
				j++
			case content[j] == '\'' && j+1 < end && content[j+1] == '\'':
				sb.WriteByte('\'')
				j++
			case content[j] == '"':
				sb.WriteString(`\"`)
			default:
				sb.WriteByte(content[j])
			}
		}
		sb.WriteByte('"')
		i = end
	}
	return sb.String()
}

// insertMissingCommas adds a comma between a closing quote and the next
// opening quote when nothing but whitespace (possibly none) separates them —
// the classic "value" "key": pattern of a dropped separator. The string
// state tracker keeps quote pairs inside literals from triggering it.
func insertMissingCommas(content string) string {
	var sb strings.Builder
	sb.Grow(len(content) + 8)
	var st stringState

	for i := 0; i < len(content); i++ {
		c := content[i]
		wasInString := st.inString
		st.step(c)
		sb.WriteByte(c)

		// Just closed a string literal.
		if wasInString && !st.inString && c == '"' {
			j := i + 1
			for j < len(content) && isSpace(content[j]) {
				j++
			}
			if j < len(content) && content[j] == '"' {
				sb.WriteByte(',')
			}
		}
	}
	return sb.String()
}

// balanceBrackets appends the closers an expected-closer stack says are
// missing at end of input. A mismatched closer found mid-stream aborts the
// strategy: guessing there risks corrupting semantics. An unterminated
// string at end of input is closed before the brackets, which recovers the
// common truncated-response case.
func balanceBrackets(content string) string {
	var stack []byte
	var st stringState

	for i := 0; i < len(content); i++ {
		c := content[i]
		if st.step(c) {
			continue
		}
		switch c {
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return content // mismatch: no guess
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) == 0 && !st.inString {
		return content
	}

	var sb strings.Builder
	sb.Grow(len(content) + len(stack) + 1)
	sb.WriteString(content)
	if st.inString {
		sb.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		sb.WriteByte(stack[i])
	}
	return sb.String()
}

// escapeInvalidEscapes doubles the backslash of any escape sequence inside a
// double-quoted string that JSON does not define. Valid sequences — the
// single-character escapes and \uXXXX with four hex digits — pass through
// verbatim.
func escapeInvalidEscapes(content string) string {
	var sb strings.Builder
	sb.Grow(len(content) + 8)
	inString := false

	for i := 0; i < len(content); i++ {
		c := content[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			sb.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inString = false
			sb.WriteByte(c)
		case '\\':
			if i+1 >= len(content) {
				sb.WriteString(`\\`)
				continue
			}
			next := content[i+1]
			switch {
			case strings.IndexByte(`"\/bfnrt`, next) >= 0:
				sb.WriteByte(c)
				sb.WriteByte(next)
				i++
			case next == 'u' && validHex4(content[i+2:]):
				sb.WriteString(content[i : i+6])
				i += 5
			default:
				sb.WriteString(`\\`)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func validHex4(s string) bool {
	if len(s) < 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$'
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9' || c == '-'
}
