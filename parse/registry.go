package parse

// Parser converts sanitized text into a value tree. Implementations hold no
// mutable state during a parse call and are safe for concurrent use.
type Parser interface {
	// Parse converts input to a Result, applying recovery per opts.
	Parse(input string, opts Options) *Result

	// CanParse is a fast, non-allocating sniff used by registry dispatch.
	CanParse(input string) bool

	// Format returns the format this parser handles.
	Format() Format

	// Name returns a short human-readable parser name.
	Name() string
}

// Registry holds the registered parsers and dispatches between them. It is
// an explicit value rather than an ambient global: construct one at startup
// (see [NewRegistry]) and pass it to call sites. Registration is the only
// mutation; afterwards a Registry is safe for concurrent readers.
type Registry struct {
	parsers []Parser
}

// NewRegistry returns a registry holding the given parsers in registration
// order. Order matters: dispatch without a hint picks the first parser whose
// CanParse accepts the input.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers}
}

// Register appends a parser. Not safe to call concurrently with Parse.
func (r *Registry) Register(p Parser) {
	r.parsers = append(r.parsers, p)
}

// FindParser returns the parser for an explicit format hint when one is
// given. Without a hint, [DetectFormat] gets the first say: the parser for
// the detected format wins when it also accepts the input, so a YAML
// document with a flow-collection value is not hijacked by the JSON
// parser's embedded-span sniff. Only when detection is inconclusive does
// dispatch fall back to the first registered parser whose CanParse accepts
// the input. A markdown hint falls through to sniffing, since a fenced
// block can hold any format.
func (r *Registry) FindParser(input string, hint Format) (Parser, bool) {
	if hint != FormatUnknown && hint != FormatMarkdownCodeBlock && hint != FormatPlainText {
		for _, p := range r.parsers {
			if p.Format() == hint {
				return p, true
			}
		}
		return nil, false
	}
	if detected := DetectFormat(input); detected != FormatUnknown &&
		detected != FormatMarkdownCodeBlock && detected != FormatPlainText {
		for _, p := range r.parsers {
			if p.Format() == detected && p.CanParse(input) {
				return p, true
			}
		}
	}
	for _, p := range r.parsers {
		if p.CanParse(input) {
			return p, true
		}
	}
	return nil, false
}

// Parse dispatches to the matching parser and returns its result unchanged.
// The registry itself performs no recovery or schema logic. When no parser
// matches, it returns an invalid_format failure.
func (r *Registry) Parse(input string, opts Options) *Result {
	parser, ok := r.FindParser(input, opts.FormatHint)
	if !ok {
		return failure(FormatUnknown,
			newError(CodeInvalidFormat, -1, "no registered parser accepts the input (hint %q)", opts.FormatHint))
	}
	return parser.Parse(input, opts)
}

// Parsers returns the registered parsers in registration order.
func (r *Registry) Parsers() []Parser {
	return r.parsers
}
