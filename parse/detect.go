package parse

import (
	"strings"

	"github.com/parsefix/parsefix/internal/sanitize"
)

// DetectFormat classifies text by lightweight structural signals, checked in
// fixed order: a fenced code block wins, then balanced {}/[] bounds, then
// <...> bounds, then a low-confidence "key: value" YAML heuristic, then
// plain text. The function is pure.
func DetectFormat(text string) Format {
	if sanitize.HasCodeBlock(text) {
		return FormatMarkdownCodeBlock
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return FormatPlainText
	}

	first, last := trimmed[0], trimmed[len(trimmed)-1]
	if (first == '{' && last == '}') || (first == '[' && last == ']') {
		return FormatJSON
	}
	if first == '<' && last == '>' {
		return FormatXML
	}
	if strings.Contains(trimmed, ": ") || strings.Contains(trimmed, ":\n") {
		return FormatYAML
	}
	return FormatPlainText
}

// CleanResponse strips LLM framing (prefaces, code fences, outer whitespace)
// from a raw response, optionally converting HTML to markdown first.
func CleanResponse(text string, convertHTML bool) string {
	if convertHTML {
		return sanitize.CleanHTML(text)
	}
	return sanitize.Clean(text)
}
