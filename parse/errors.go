package parse

import "fmt"

// Code classifies every error the pipeline can produce. Codes are stable
// strings so callers can switch on them without depending on message text.
type Code string

const (
	// Low-level syntax errors, candidates for recovery.
	CodeInvalidFormat      Code = "invalid_format"
	CodeUnexpectedToken    Code = "unexpected_token"
	CodeUnterminatedString Code = "unterminated_string"
	CodeInvalidEscape      Code = "invalid_escape"
	CodeInvalidNumber      Code = "invalid_number"
	CodeMissingDelimiter   Code = "missing_delimiter"

	// YAML indentation or container-type conflict.
	CodeStructureMismatch Code = "structure_mismatch"

	// Recovery exhausted every strategy without producing parseable text.
	CodeRecoveryFailed Code = "recovery_failed"

	// Schema validation findings (fatal only under Options.Strict).
	CodeSchemaValidationFailed Code = "schema_validation_failed"

	// Extraction-time errors; these always surface.
	CodeMissingRequiredField Code = "missing_required_field"
	CodeMaxDepthExceeded     Code = "max_depth_exceeded"
	CodeNoMatchingSchema     Code = "no_matching_schema"
	CodeMultipleMatches      Code = "multiple_matches"
	CodeTypeMismatch         Code = "type_mismatch"
)

// Error is a single pipeline error with a stable code and, where known, a
// byte offset into the parsed content or a field path into the value tree.
type Error struct {
	Code    Code
	Message string
	Offset  int    // byte offset into the parsed content, -1 when unknown
	Path    string // field path for extraction errors, empty otherwise
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Path != "":
		return fmt.Sprintf("%s at %q: %s", e.Code, e.Path, e.Message)
	case e.Offset >= 0:
		return fmt.Sprintf("%s at offset %d: %s", e.Code, e.Offset, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func newError(code Code, offset int, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	}
}

func pathError(code Code, path, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Offset:  -1,
		Path:    path,
	}
}

// PathError builds an extraction-time error located at a field path.
func PathError(code Code, path, format string, args ...any) *Error {
	return pathError(code, path, format, args...)
}
