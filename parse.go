package bcoskema

import (
	"errors"
	"fmt"
	"io"

	eng "github.com/biocompute-objects/bcoskema/internal/engine"
)

// DecodeJSON decodes raw JSON into a generic tree suitable for Validate.
// Numbers are kept as json.Number; duplicate keys are rejected unless
// DecodeOpt.DuplicateKeys relaxes it. Failures are returned as Issues
// with code parse_error, duplicate_key or truncated.
func DecodeJSON(data []byte, opts ...DecodeOpt) (any, error) {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	eopt := eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.DuplicateKeys),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
	}
	if opt.OnWarning != nil {
		eopt.IssueSink = func(si eng.SimpleIssue) { opt.OnWarning(fromSimple(si)) }
	}
	v, _, err := eng.Decode(data, eopt)
	if err != nil {
		return nil, toIssues(err)
	}
	return v, nil
}

// DecodeJSONReader is DecodeJSON over a reader. When MaxBytes is set, at most
// MaxBytes+1 bytes are read.
func DecodeJSONReader(r io.Reader, opts ...DecodeOpt) (any, error) {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: Message(CodeParseError, nil, err.Error()), Cause: err}}
	}
	return DecodeJSON(data, opts...)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Ignore:
		return eng.DupIgnore
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupError
	}
}

// toIssues maps decode errors onto Issues, keeping the original as Cause.
func toIssues(err error) error {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		it := fromSimple(ie.SimpleIssue)
		it.Cause = err
		return Issues{it}
	}
	code := CodeParseError
	if errors.Is(err, io.ErrUnexpectedEOF) {
		code = CodeTruncated
	}
	return Issues{Issue{Path: "/", Code: code, Message: fmt.Sprintf("%s: %v", Message(code, nil, ""), err), Cause: err}}
}
