package parse

import "github.com/parsefix/parsefix/schema"

// Format is the detected or hinted shape of an input blob.
type Format string

const (
	FormatUnknown           Format = ""
	FormatJSON              Format = "json"
	FormatYAML              Format = "yaml"
	FormatXML               Format = "xml"
	FormatMarkdownCodeBlock Format = "markdown_codeblock"
	FormatPlainText         Format = "plain_text"
)

// Options configures a single parse invocation. The zero value is a strict
// single-attempt parse with no recovery; use [DefaultOptions] for the
// recovery-enabled configuration most callers want.
type Options struct {
	// EnableRecovery turns on the repair strategy chain after a failed
	// strict parse.
	EnableRecovery bool

	// MaxRecoveryAttempts bounds the repair/re-parse loop. Each attempt
	// applies the first strategy that changes the content.
	MaxRecoveryAttempts uint

	// RepairFallback runs the jsonrepair library as a final whole-document
	// rewrite after the ordered strategies exhaust. Off by default because
	// it can guess more aggressively than the ordered chain.
	RepairFallback bool

	// AllowPartial salvages flat key/value fragments when recovery fails,
	// producing a degraded result (Success=false, RecoveryApplied=true,
	// non-nil Value).
	AllowPartial bool

	// Strict promotes schema validation findings from warnings to errors.
	Strict bool

	// Schema, when set, is validated against the parsed value.
	Schema *schema.Node

	// ExtractFields narrows the result to the listed dotted/indexed field
	// paths, assembled into a flat object keyed by path.
	ExtractFields []string

	// FormatHint bypasses sniffing during registry dispatch.
	FormatHint Format

	// UnwrapSchemaWrappers rewrites {"type": ..., "value": ...} envelopes —
	// emitted by models that echo a schema instead of data — down to the
	// wrapped value after a successful parse.
	UnwrapSchemaWrappers bool

	// ConvertHTML runs HTML-to-markdown normalization during sanitizing,
	// for responses captured from chat UIs.
	ConvertHTML bool

	// CoerceTypes lets extraction convert near-miss primitives (numeric
	// strings, truthy strings) to the schema's type, recording each
	// coercion.
	CoerceTypes bool

	// UseDefaults lets extraction synthesize schema-appropriate defaults
	// for missing required fields, recording each default.
	UseDefaults bool

	// MaxDepth bounds extraction recursion.
	MaxDepth int
}

// Default bounds applied by [DefaultOptions].
const (
	DefaultMaxRecoveryAttempts = 8
	DefaultMaxDepth            = 32
)

// DefaultOptions returns the recommended configuration: recovery on, partial
// salvage on, coercion and defaults on, lenient schema validation.
func DefaultOptions() Options {
	return Options{
		EnableRecovery:      true,
		MaxRecoveryAttempts: DefaultMaxRecoveryAttempts,
		AllowPartial:        true,
		CoerceTypes:         true,
		UseDefaults:         true,
		MaxDepth:            DefaultMaxDepth,
	}
}

// maxDepth returns the configured extraction depth bound, defaulting when
// unset so that a zero Options value stays safe.
func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// MaxDepthOrDefault exposes the effective depth bound.
func (o Options) MaxDepthOrDefault() int { return o.maxDepth() }

// attempts returns the effective recovery bound.
func (o Options) attempts() uint {
	if o.MaxRecoveryAttempts == 0 {
		return DefaultMaxRecoveryAttempts
	}
	return o.MaxRecoveryAttempts
}
