package bcoskema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes. Structural codes are produced by Validate, build codes by the
// document builder, semantic codes by the domain constraint checks.
const (
	// Structural
	CodeRequired      = "required"       // MissingRequired
	CodeUnknownKey    = "unknown_key"    // UnexpectedProperty
	CodeInvalidType   = "invalid_type"   // TypeMismatch
	CodeInvalidEnum   = "invalid_enum"   // EnumViolation
	CodePattern       = "pattern"        // PatternViolation
	CodeInvalidFormat = "invalid_format" // strict format layer only
	// Decoding
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
	// Build
	CodeMalformedTimestamp = "malformed_timestamp"
	// Semantic
	CodeEmbargoOrdering         = "embargo_ordering"
	CodeEmptyContributors       = "empty_contributors"
	CodeNegativeStepNumber      = "negative_step_number"
	CodeMalformedObjectID       = "malformed_object_id"
	CodeStepOrdering            = "step_ordering"
	CodeUnknownStepReference    = "unknown_step_reference"
	CodeTemporalOrdering        = "temporal_ordering"
	CodeIncompatibleSpecVersion = "incompatible_spec_version"
	CodeETagMismatch            = "etag_mismatch"
)

// Class groups issue codes by the stage that produces them.
type Class int

const (
	ClassStructural Class = iota
	ClassDecode
	ClassBuild
	ClassSemantic
)

// ClassOf reports the stage class of an issue code. Unknown codes are treated
// as semantic, since custom checks are the only other producer.
func ClassOf(code string) Class {
	switch code {
	case CodeRequired, CodeUnknownKey, CodeInvalidType, CodeInvalidEnum, CodePattern, CodeInvalidFormat:
		return ClassStructural
	case CodeParseError, CodeDuplicateKey, CodeTruncated:
		return ClassDecode
	case CodeMalformedTimestamp:
		return ClassBuild
	default:
		return ClassSemantic
	}
}

// Issue is a single violation bound to a location in the candidate document.
type Issue struct {
	Path     string `json:"path" yaml:"path"` // JSON Pointer (for example: /provenance_domain/contributors/0/name).
	Segments Path   `json:"-" yaml:"-"`
	Code     string `json:"code" yaml:"code"`
	Message  string `json:"message" yaml:"message"`
	Hint     string `json:"hint,omitempty" yaml:"hint,omitempty"`
	// Params carries structured parameters (e.g., {"allowed": [...], "got": "x"})
	// for i18n and rendering.
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Cause  error          `json:"-" yaml:"-"`
}

// Issues is a collection of violations that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Codes returns the issue codes in order.
func (iss Issues) Codes() []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code
	}
	return out
}

// HasClass reports whether any issue belongs to the given class.
func (iss Issues) HasClass(c Class) bool {
	for _, it := range iss {
		if ClassOf(it.Code) == c {
			return true
		}
	}
	return false
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ToError returns nil for an empty collection so callers can return it
// directly as an error.
func (iss Issues) ToError() error {
	if len(iss) == 0 {
		return nil
	}
	return iss
}
