package bcoskema

import (
	"context"
	"fmt"

	eng "github.com/biocompute-objects/bcoskema/internal/engine"
	"github.com/biocompute-objects/bcoskema/rules"
)

// Validate checks doc against the root of m. It returns nil when doc conforms
// and Issues otherwise. Issues come in pre-order: properties in the model's
// declaration order, remaining keys sorted, array elements by index.
func Validate(ctx context.Context, doc any, m *rules.Model, opts ...ValidateOpt) error {
	if m == nil {
		return singleIssue(CodeParseError, "nil rule model")
	}
	return ValidateAt(ctx, doc, m, m.Root(), Root(), opts...)
}

// ValidateAt checks a sub-document against one node of m. Reported paths are
// prefixed with base.
func ValidateAt(ctx context.Context, doc any, m *rules.Model, ref rules.Ref, base Path, opts ...ValidateOpt) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	eopt := eng.ValidateOptions{FailFast: opt.FailFast || IsFailFast(ctx)}
	if opt.Formats != nil {
		eopt.CheckFormat = opt.Formats.CheckFormat
	}
	sis, err := eng.ValidateAt(ctx, doc, m, ref, eopt)
	if err != nil {
		return err
	}
	if len(sis) == 0 {
		return nil
	}
	return Rebase(base, fromEngine(sis))
}

// Is returns true if doc conforms to m.
func Is(ctx context.Context, doc any, m *rules.Model) bool {
	return Validate(ctx, doc, m) == nil
}

type contextKey int

const _ctxKeyFailFast contextKey = iota

// WithFailFast returns a child context that marks fail-fast behavior for every
// stage that honours it.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current call should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}

func singleIssue(code, msg string) Issues {
	return Issues{Root().Issue(code, msg)}
}

func stringifyParams(p map[string]any) map[string]string {
	if len(p) == 0 {
		return nil
	}
	out := make(map[string]string, len(p))
	for k, v := range p {
		switch t := v.(type) {
		case string:
			out[k] = t
		case []string:
			out[k] = fmt.Sprint(t)
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}
