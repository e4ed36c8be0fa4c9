// Package sanitize narrows raw LLM responses down to their structural
// payload. Models habitually wrap output in narrative prose ("Sure, here is
// the JSON you asked for:"), markdown code fences, or — when captured from a
// chat UI — HTML markup. The helpers here strip that framing without
// touching the payload itself.
package sanitize

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// knownPrefaces are framing lines models commonly emit before the payload.
// Matching is case-insensitive and only applies to the first line.
var knownPrefaces = []string{
	"sure, here you go:",
	"sure, here's the json:",
	"here is the json:",
	"here's the json:",
	"here is the result:",
	"here's the result:",
	"here is the output:",
	"certainly!",
	"of course!",
}

// Clean strips known prefaces, surrounding code fences, and outer whitespace
// from a raw LLM response. Interior payload content is never altered, so
// Clean is idempotent: Clean(Clean(x)) == Clean(x).
func Clean(text string) string {
	out := strings.TrimSpace(text)

	if nl := strings.IndexByte(out, '\n'); nl >= 0 {
		first := strings.ToLower(strings.TrimSpace(out[:nl]))
		for _, preface := range knownPrefaces {
			if first == preface {
				out = strings.TrimSpace(out[nl+1:])
				break
			}
		}
	}

	if block, ok := ExtractCodeBlock(out, ""); ok {
		out = block
	}

	return strings.TrimSpace(out)
}

// ExtractCodeBlock returns the content of the first fenced code block,
// optionally filtered by language tag. With an empty language every block
// matches. The boolean reports whether a block was found.
func ExtractCodeBlock(text, language string) (string, bool) {
	rest := text
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			return "", false
		}
		rest = rest[start+3:]

		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			return "", false
		}
		tag := strings.TrimSpace(rest[:nl])
		body := rest[nl+1:]

		end := strings.Index(body, "```")
		if end < 0 {
			return "", false
		}

		if language == "" || strings.EqualFold(tag, language) {
			return strings.TrimRight(body[:end], "\n"), true
		}
		rest = body[end+3:]
	}
}

// HasCodeBlock reports whether the text contains a complete fenced code
// block.
func HasCodeBlock(text string) bool {
	start := strings.Index(text, "```")
	if start < 0 {
		return false
	}
	return strings.Contains(text[start+3:], "```")
}

// FindJSONContent scans for the first balanced top-level {...} or [...]
// span, tracking string-literal and escape state so that braces inside
// string values do not confuse the depth count. It returns the original text
// when no balanced span exists.
func FindJSONContent(text string) (string, bool) {
	start := -1
	var open, close byte
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if start < 0 {
			if c == '{' {
				start, open, close = i, '{', '}'
				depth = 1
			} else if c == '[' {
				start, open, close = i, '[', ']'
				depth = 1
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return text, false
}

// CleanHTML converts an HTML-wrapped response to markdown and then applies
// [Clean]. Chat transcripts exported from web UIs wrap code blocks in
// <pre><code> markup; converting restores the fences Clean knows how to
// strip. Input that does not look like HTML passes straight to Clean.
func CleanHTML(text string) string {
	trimmed := strings.TrimSpace(text)
	if !looksLikeHTML(trimmed) {
		return Clean(trimmed)
	}
	md, err := htmltomarkdown.ConvertString(trimmed)
	if err != nil {
		return Clean(trimmed)
	}
	return Clean(md)
}

func looksLikeHTML(text string) bool {
	if !strings.HasPrefix(text, "<") {
		return false
	}
	for _, tag := range []string{"<p", "<div", "<pre", "<code", "<html", "<body", "<span", "<br"} {
		if strings.Contains(strings.ToLower(text), tag) {
			return true
		}
	}
	return false
}
