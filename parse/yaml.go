package parse

import (
	"strconv"
	"strings"

	"github.com/parsefix/parsefix/repair"
	"github.com/parsefix/parsefix/value"
)

// YAMLParser parses the line-oriented YAML subset this module supports:
// nested mappings via indentation, block sequences, and typed scalars. Flow
// collections on a single line are delegated to the JSON scanner, since the
// JSON grammar is valid YAML flow syntax. Multi-document streams, anchors,
// and aliases are out of scope; a document separator after the first line is
// a structure mismatch.
type YAMLParser struct{}

// NewYAMLParser returns a stateless YAML parser.
func NewYAMLParser() *YAMLParser { return &YAMLParser{} }

// Name implements [Parser].
func (p *YAMLParser) Name() string { return "yaml" }

// Format implements [Parser].
func (p *YAMLParser) Format() Format { return FormatYAML }

// CanParse sniffs for a "key: value" or "- item" first content line. The
// key part must be bare or quoted without interior spaces, so prose
// containing a colon does not match.
func (p *YAMLParser) CanParse(input string) bool {
	for _, line := range strings.Split(input, "\n") {
		text := strings.TrimSpace(line)
		if text == "" || strings.HasPrefix(text, "#") || text == "---" {
			continue
		}
		if isSeqItem(text) {
			return true
		}
		rawKey, _, ok := splitYAMLKeyRaw(text)
		if !ok {
			return false
		}
		if rawKey[0] == '"' || rawKey[0] == '\'' {
			return true
		}
		return !strings.ContainsAny(rawKey, " {}[]")
	}
	return false
}

// Parse sanitizes the input and decodes the YAML subset. Syntax-repair
// strategies target JSON punctuation and do not apply here; a failure is
// final unless the caller falls back to another format.
func (p *YAMLParser) Parse(input string, opts Options) *Result {
	content := CleanResponse(input, opts.ConvertHTML)

	res := &Result{Format: FormatYAML}
	v, perr := decodeYAML(content)
	if perr != nil {
		res.Errors = append(res.Errors, perr)
		return res
	}
	res.Value = v
	res.Success = true
	finish(res, opts)
	return res
}

type yamlLine struct {
	indent int
	text   string
	offset int
}

type yamlDecoder struct {
	lines []yamlLine
	idx   int
}

func decodeYAML(content string) (*value.Value, *Error) {
	d := &yamlDecoder{}
	offset := 0
	sawContent := false
	for _, raw := range strings.Split(content, "\n") {
		lineOffset := offset
		offset += len(raw) + 1

		line := strings.TrimRight(raw, "\r")
		text := strings.TrimSpace(line)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if text == "---" {
			if sawContent || len(d.lines) > 0 {
				return nil, newError(CodeStructureMismatch, lineOffset,
					"multi-document streams are not supported")
			}
			sawContent = true
			continue
		}
		sawContent = true
		d.lines = append(d.lines, yamlLine{indent: yamlIndent(line), text: text, offset: lineOffset})
	}

	if len(d.lines) == 0 {
		return nil, newError(CodeInvalidFormat, 0, "no YAML content found")
	}

	root, err := d.parseNode(d.lines[0].indent)
	if err != nil {
		return nil, err
	}
	if d.idx < len(d.lines) {
		left := d.lines[d.idx]
		return nil, newError(CodeStructureMismatch, left.offset,
			"inconsistent structure at %q", left.text)
	}
	return root, nil
}

// yamlIndent counts leading whitespace, a tab weighing four spaces.
func yamlIndent(line string) int {
	indent := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			indent++
		case '\t':
			indent += 4
		default:
			return indent
		}
	}
	return indent
}

func (d *yamlDecoder) parseNode(indent int) (*value.Value, *Error) {
	line := d.lines[d.idx]
	if isSeqItem(line.text) {
		return d.parseSequence(indent)
	}
	return d.parseMapping(indent)
}

func (d *yamlDecoder) parseMapping(indent int) (*value.Value, *Error) {
	obj := value.Object()

	for d.idx < len(d.lines) {
		line := d.lines[d.idx]
		if line.indent < indent {
			break // dedent: belongs to an ancestor
		}
		if line.indent > indent {
			return nil, newError(CodeStructureMismatch, line.offset,
				"unexpected indentation at %q", line.text)
		}
		if isSeqItem(line.text) {
			return nil, newError(CodeStructureMismatch, line.offset,
				"sequence item in mapping context at %q", line.text)
		}

		key, rest, ok := splitYAMLKey(line.text)
		if !ok {
			return nil, newError(CodeStructureMismatch, line.offset,
				"expected \"key: value\" at %q", line.text)
		}
		d.idx++

		if rest != "" {
			obj.Set(key, yamlScalarOrFlow(rest))
			continue
		}

		// Block value: a deeper-indented node, a sequence at the same
		// indent, or null when neither follows.
		child := value.Null()
		if d.idx < len(d.lines) {
			next := d.lines[d.idx]
			if next.indent > indent {
				nested, err := d.parseNode(next.indent)
				if err != nil {
					return nil, err
				}
				child = nested
			} else if next.indent == indent && isSeqItem(next.text) {
				nested, err := d.parseSequence(indent)
				if err != nil {
					return nil, err
				}
				child = nested
			}
		}
		obj.Set(key, child)
	}
	return obj, nil
}

func (d *yamlDecoder) parseSequence(indent int) (*value.Value, *Error) {
	arr := value.Array()

	for d.idx < len(d.lines) {
		line := d.lines[d.idx]
		if line.indent != indent || !isSeqItem(line.text) {
			if line.indent > indent {
				return nil, newError(CodeStructureMismatch, line.offset,
					"unexpected indentation at %q", line.text)
			}
			break
		}

		rest := strings.TrimSpace(strings.TrimPrefix(line.text, "-"))
		switch {
		case rest == "":
			// The item is the following deeper-indented block.
			d.idx++
			if d.idx < len(d.lines) && d.lines[d.idx].indent > indent {
				item, err := d.parseNode(d.lines[d.idx].indent)
				if err != nil {
					return nil, err
				}
				arr.Append(item)
			} else {
				arr.Append(value.Null())
			}
		case hasYAMLKey(rest):
			// "- key: value" starts an inline mapping; continuation
			// entries sit at the rest's column.
			virtual := line.indent + (len(line.text) - len(rest))
			d.lines[d.idx] = yamlLine{indent: virtual, text: rest, offset: line.offset}
			item, err := d.parseMapping(virtual)
			if err != nil {
				return nil, err
			}
			arr.Append(item)
		default:
			d.idx++
			arr.Append(yamlScalarOrFlow(rest))
		}
	}
	return arr, nil
}

func isSeqItem(text string) bool {
	return text == "-" || strings.HasPrefix(text, "- ")
}

// splitYAMLKey splits "key: value" at the first colon outside quotes that is
// followed by a space or ends the line. The key is unquoted; the rest is
// trimmed, stripped of any trailing comment, and may be empty.
func splitYAMLKey(text string) (key, rest string, ok bool) {
	rawKey, rest, ok := splitYAMLKeyRaw(text)
	if !ok {
		return "", "", false
	}
	return unquoteYAML(rawKey), stripYAMLComment(rest), true
}

func splitYAMLKeyRaw(text string) (rawKey, rest string, ok bool) {
	inSingle, inDouble := false, false
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '\'' && !inDouble:
			inSingle = !inSingle
		case c == '"' && !inSingle:
			inDouble = !inDouble
		case c == ':' && !inSingle && !inDouble:
			if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\t' {
				rawKey = strings.TrimSpace(text[:i])
				rest = strings.TrimSpace(text[i+1:])
				if rawKey == "" {
					return "", "", false
				}
				return rawKey, rest, true
			}
		}
	}
	return "", "", false
}

func hasYAMLKey(text string) bool {
	_, _, ok := splitYAMLKey(text)
	return ok
}

// yamlScalarOrFlow types an inline value. Flow collections ({...}, [...])
// reuse the JSON scanner. YAML flow syntax is looser than JSON — unquoted
// keys and single quotes are legal — so a strict-scan failure is rewritten
// through the repair chain before the text falls back to a plain string.
func yamlScalarOrFlow(text string) *value.Value {
	text = stripYAMLComment(text)

	if text == "" {
		return value.Null()
	}
	if text[0] == '{' || text[0] == '[' {
		if v, _, err := decodeJSON(text); err == nil {
			return v
		}
		if v, ok := decodeYAMLFlow(text); ok {
			return v
		}
		return value.String(text)
	}
	return yamlScalar(text)
}

// decodeYAMLFlow normalizes a flow collection to strict JSON with the repair
// chain. This is not error recovery: unquoted keys are valid flow syntax,
// just not valid JSON, so no warning is recorded.
func decodeYAMLFlow(text string) (*value.Value, bool) {
	current := text
	for attempt := 0; attempt < DefaultMaxRecoveryAttempts; attempt++ {
		next, _, changed := repair.ApplyFirst(current)
		if !changed {
			return nil, false
		}
		current = next
		if v, _, err := decodeJSON(current); err == nil {
			return v, true
		}
	}
	return nil, false
}

func yamlScalar(text string) *value.Value {
	if len(text) >= 2 {
		if text[0] == '"' && text[len(text)-1] == '"' {
			if unquoted, err := strconv.Unquote(text); err == nil {
				return value.String(unquoted)
			}
			return value.String(text[1 : len(text)-1])
		}
		if text[0] == '\'' && text[len(text)-1] == '\'' {
			inner := text[1 : len(text)-1]
			return value.String(strings.ReplaceAll(inner, "''", "'"))
		}
	}

	switch text {
	case "null", "~":
		return value.Null()
	case "true", "yes", "on":
		return value.Bool(true)
	case "false", "no", "off":
		return value.Bool(false)
	}

	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return value.Int(i)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return value.Float(f)
	}
	return value.String(text)
}

// stripYAMLComment removes a trailing " # ..." comment from an unquoted
// scalar. Hash marks inside quotes are payload.
func stripYAMLComment(text string) string {
	inSingle, inDouble := false, false
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '\'' && !inDouble:
			inSingle = !inSingle
		case c == '"' && !inSingle:
			inDouble = !inDouble
		case c == '#' && !inSingle && !inDouble:
			if i == 0 || text[i-1] == ' ' || text[i-1] == '\t' {
				return strings.TrimSpace(text[:i])
			}
		}
	}
	return strings.TrimSpace(text)
}

func unquoteYAML(key string) string {
	if len(key) >= 2 {
		if key[0] == '"' && key[len(key)-1] == '"' {
			if unquoted, err := strconv.Unquote(key); err == nil {
				return unquoted
			}
			return key[1 : len(key)-1]
		}
		if key[0] == '\'' && key[len(key)-1] == '\'' {
			return strings.ReplaceAll(key[1:len(key)-1], "''", "'")
		}
	}
	return key
}
