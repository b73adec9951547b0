// Package formats turns the advisory "format" annotations of the BCO contract
// into checks. Pass Strict() as bcoskema.ValidateOpt.Formats.
package formats

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"sync"

	bcoskema "github.com/biocompute-objects/bcoskema"
	"github.com/biocompute-objects/bcoskema/codec"
)

// Func checks one string value.
type Func func(value string) error

// Checker dispatches on the format name. Unknown formats pass.
type Checker struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

var _ bcoskema.FormatChecker = (*Checker)(nil)

// Strict returns a checker for date-time, email and uri.
func Strict() *Checker {
	return &Checker{funcs: map[string]Func{
		"date-time": DateTime,
		"email":     Email,
		"uri":       URI,
	}}
}

// Register adds or replaces the check for a format name.
func (c *Checker) Register(format string, fn Func) *Checker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.funcs == nil {
		c.funcs = map[string]Func{}
	}
	c.funcs[format] = fn
	return c
}

// CheckFormat implements bcoskema.FormatChecker.
func (c *Checker) CheckFormat(format, value string) error {
	c.mu.RLock()
	fn, ok := c.funcs[format]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	return fn(value)
}

// DateTime accepts the timestamp layouts the builder accepts.
func DateTime(v string) error {
	_, err := codec.ParseTimestamp(v)
	return err
}

// Email accepts a bare RFC 5322 address ("user@host"); display names are
// rejected.
func Email(v string) error {
	a, err := mail.ParseAddress(v)
	if err != nil {
		return err
	}
	if a.Name != "" || a.Address != v {
		return fmt.Errorf("%q is not a bare address", v)
	}
	return nil
}

var errRelative = errors.New("uri has no scheme")

// URI accepts an absolute URI.
func URI(v string) error {
	if strings.ContainsAny(v, " \t\r\n") {
		return fmt.Errorf("uri %q contains whitespace", v)
	}
	u, err := url.Parse(v)
	if err != nil {
		return err
	}
	if !u.IsAbs() {
		return errRelative
	}
	return nil
}
