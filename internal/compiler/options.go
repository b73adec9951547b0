package compiler

import "fmt"

// Options controls compilation.
type Options struct {
	// Version is recorded on the compiled model.
	Version string
	// Formats lists the format names the runtime understands. Other names
	// compile as advisory annotations with a warning. Nil means DefaultFormats.
	Formats []string
}

// DefaultFormats are the format annotations used by the BCO contract.
var DefaultFormats = []string{"date-time", "email", "uri"}

// Error is a fatal compile failure anchored at a JSON Pointer into the schema.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("schema compile error at %s: %s", e.Path, e.Reason)
}

func errorf(path, f string, a ...any) *Error {
	if path == "" {
		path = "/"
	}
	return &Error{Path: path, Reason: fmt.Sprintf(f, a...)}
}

// Diag carries non-fatal warnings produced during compilation.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
