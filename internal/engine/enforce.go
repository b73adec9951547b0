package engine

import "strconv"

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives non-fatal issues (duplicate keys under DupWarn).
	IssueSink func(SimpleIssue)
	// FailFast turns every reported issue into a decode error.
	FailFast bool
}

type enforceFrame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	path         []Seg
	pendingKey   string
	nextIndex    int
}

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth, and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []enforceFrame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	path := e.pathForToken(tok)

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		f := enforceFrame{object: tok.Kind == KindBeginObject, path: path}
		if f.object {
			f.keys = make(map[string]struct{})
			f.expectingKey = true
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, e.fatal(SimpleIssue{
				Code:    "parse_error",
				Path:    path,
				Message: "max depth exceeded",
				Params:  map[string]any{"max_depth": e.opt.MaxDepth},
			})
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
				si := SimpleIssue{
					Code:    "duplicate_key",
					Path:    path,
					Message: "key '" + tok.String + "' duplicated",
					Params:  map[string]any{"key": tok.String},
				}
				if e.opt.OnDuplicate == DupError || e.opt.FailFast {
					return Token{}, e.fatal(si)
				}
				if e.opt.IssueSink != nil {
					e.opt.IssueSink(si)
				}
			}
			top.keys[tok.String] = struct{}{}
			top.expectingKey = false
			top.pendingKey = tok.String
		}
	default:
		e.valueDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			return Token{}, e.fatal(SimpleIssue{
				Code:    "truncated",
				Path:    path,
				Message: "max bytes exceeded",
				Params:  map[string]any{"max_bytes": e.opt.MaxBytes},
			})
		}
	}
	return tok, nil
}

func (e *enforcingTokenSource) fatal(si SimpleIssue) error {
	return IssueError{si}
}

func (e *enforcingTokenSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

// pathForToken returns the location of the value a token opens or belongs to.
func (e *enforcingTokenSource) pathForToken(tok Token) []Seg {
	if len(e.stack) == 0 {
		return nil
	}
	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindKey:
		return appendSeg(top.path, Seg{Name: tok.String})
	case KindEndObject, KindEndArray:
		return top.path
	}
	if !top.object {
		p := appendSeg(top.path, Seg{Index: top.nextIndex, IsIndex: true})
		top.nextIndex++
		return p
	}
	if !top.expectingKey {
		return appendSeg(top.path, Seg{Name: top.pendingKey})
	}
	return top.path
}

func appendSeg(p []Seg, s Seg) []Seg {
	return append(clonePath(p), s)
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

// Decode reads one JSON value from data under opt. Non-fatal issues collected
// through DupWarn are returned alongside the value.
func Decode(data []byte, opt EnforceOptions) (any, []SimpleIssue, error) {
	var warnings []SimpleIssue
	sink := opt.IssueSink
	opt.IssueSink = func(si SimpleIssue) {
		warnings = append(warnings, si)
		if sink != nil {
			sink(si)
		}
	}
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, nil, IssueError{SimpleIssue{
			Code:    "truncated",
			Message: "input is " + strconv.Itoa(len(data)) + " bytes, limit " + strconv.FormatInt(opt.MaxBytes, 10),
			Params:  map[string]any{"max_bytes": opt.MaxBytes},
		}}
	}
	v, err := DecodeAnyFromSource(WrapWithEnforcement(NewBytes(data), opt))
	if err != nil {
		return nil, warnings, err
	}
	return v, warnings, nil
}
