package bcoskema

// Severity expresses the severity level for issues. The zero value is Error,
// so zero-valued options are strict.
type Severity int

const (
	Error Severity = iota
	Warn
	Ignore
)

// DecodeOpt bundles raw JSON decoding options.
type DecodeOpt struct {
	// DuplicateKeys: Error rejects a repeated object key, Warn keeps the last
	// value and reports through OnWarning.
	DuplicateKeys Severity
	MaxDepth      int
	MaxBytes      int64
	// OnWarning receives non-fatal decode issues.
	OnWarning func(Issue)
}

// ValidateOpt bundles validation options.
type ValidateOpt struct {
	FailFast bool
	// Formats turns the advisory format annotations into checks.
	Formats FormatChecker
}

// FormatChecker validates string values carrying a format annotation
// ("date-time", "email", "uri"). Returning nil for an unknown format keeps
// it advisory.
type FormatChecker interface {
	CheckFormat(format, value string) error
}

// FormatCheckerFunc adapts a function to FormatChecker.
type FormatCheckerFunc func(format, value string) error

// CheckFormat implements FormatChecker.
func (f FormatCheckerFunc) CheckFormat(format, value string) error { return f(format, value) }
