// Package builder materializes a typed model.Document from a generic tree
// that has passed structural validation.
//
// The builder trusts the structure it was promised but never panics on a
// tree that breaks the promise: a missing or mistyped field becomes an issue
// at its path. Timestamp parse failures are collected across the whole
// document, so one call reports every malformed date-time.
package builder

import (
	"context"
	"fmt"
	"time"

	bcoskema "github.com/biocompute-objects/bcoskema"
	"github.com/biocompute-objects/bcoskema/codec"
	"github.com/biocompute-objects/bcoskema/internal/engine"
	"github.com/biocompute-objects/bcoskema/model"
)

// Build converts doc into a *model.Document. On failure it returns nil and
// bcoskema.Issues; no partially built document escapes.
func Build(ctx context.Context, doc any) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := &state{}
	root, ok := b.object(bcoskema.Root(), doc)
	if !ok {
		return nil, b.iss.ToError()
	}
	out := &model.Document{
		ObjectID:    b.str(bcoskema.Root(), root, "object_id"),
		SpecVersion: b.str(bcoskema.Root(), root, "spec_version"),
		ETag:        b.str(bcoskema.Root(), root, "etag"),
	}

	steps := []func(){
		func() { out.Provenance = b.provenance(bcoskema.Root().Field("provenance_domain"), root) },
		func() { out.Usability = b.strings(bcoskema.Root(), root, "usability_domain") },
		func() { out.Extensions = b.extensions(bcoskema.Root(), root) },
		func() { out.Description = b.description(bcoskema.Root().Field("description_domain"), root) },
		func() { out.Execution = b.execution(bcoskema.Root().Field("execution_domain"), root) },
		func() { out.Parametric = b.parametric(bcoskema.Root(), root) },
		func() { out.IO = b.io(bcoskema.Root().Field("io_domain"), root) },
		func() { out.Error = b.errorDomain(bcoskema.Root().Field("error_domain"), root) },
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step()
	}
	if len(b.iss) > 0 {
		return nil, b.iss
	}
	return out, nil
}

// state accumulates issues while the document is walked.
type state struct {
	iss bcoskema.Issues
}

func (b *state) fail(p bcoskema.Path, code string, params map[string]any, detail string) {
	b.iss = bcoskema.AppendIssues(b.iss, bcoskema.IssueAt(p, code, bcoskema.Message(code, params, detail), params))
}

func (b *state) mismatch(p bcoskema.Path, want string, v any) {
	got := engine.TypeName(v)
	b.fail(p, bcoskema.CodeInvalidType, map[string]any{"expected": want, "got": got}, fmt.Sprintf("expected %s, got %s", want, got))
}

func (b *state) missing(p bcoskema.Path, key string) {
	b.fail(p.Field(key), bcoskema.CodeRequired, map[string]any{"field": key}, "required field is missing")
}

func (b *state) object(p bcoskema.Path, v any) (map[string]any, bool) {
	m, ok := engine.AsObject(v)
	if !ok {
		b.mismatch(p, "object", v)
	}
	return m, ok
}

// field fetches a required key; absence is reported.
func (b *state) field(p bcoskema.Path, m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	if !ok {
		b.missing(p, key)
	}
	return v, ok
}

func (b *state) str(p bcoskema.Path, m map[string]any, key string) string {
	v, ok := b.field(p, m, key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		b.mismatch(p.Field(key), "string", v)
	}
	return s
}

func (b *state) optStr(p bcoskema.Path, m map[string]any, key string) *string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		b.mismatch(p.Field(key), "string", v)
		return nil
	}
	return &s
}

func (b *state) parseTime(p bcoskema.Path, v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		b.mismatch(p, "string", v)
		return time.Time{}, false
	}
	t, err := codec.ParseTimestamp(s)
	if err != nil {
		b.fail(p, bcoskema.CodeMalformedTimestamp, map[string]any{"got": s}, fmt.Sprintf("%q is not a valid date-time", s))
		return time.Time{}, false
	}
	return t, true
}

func (b *state) timestamp(p bcoskema.Path, m map[string]any, key string) time.Time {
	v, ok := b.field(p, m, key)
	if !ok {
		return time.Time{}
	}
	t, _ := b.parseTime(p.Field(key), v)
	return t
}

func (b *state) optTime(p bcoskema.Path, m map[string]any, key string) *time.Time {
	v, ok := m[key]
	if !ok {
		return nil
	}
	t, ok := b.parseTime(p.Field(key), v)
	if !ok {
		return nil
	}
	return &t
}

func (b *state) integer(p bcoskema.Path, m map[string]any, key string) int {
	v, ok := b.field(p, m, key)
	if !ok {
		return 0
	}
	n, err := codec.Normalize(v)
	i, isInt := n.(int64)
	if err != nil || !isInt {
		b.mismatch(p.Field(key), "integer", v)
		return 0
	}
	return int(i)
}

// list fetches a required array. The returned slice is non-nil when present.
func (b *state) list(p bcoskema.Path, m map[string]any, key string) []any {
	v, ok := b.field(p, m, key)
	if !ok {
		return nil
	}
	arr, ok := engine.AsArray(v)
	if !ok {
		b.mismatch(p.Field(key), "array", v)
		return nil
	}
	if arr == nil {
		arr = []any{}
	}
	return arr
}

func (b *state) optList(p bcoskema.Path, m map[string]any, key string) ([]any, bool) {
	if _, ok := m[key]; !ok {
		return nil, false
	}
	arr := b.list(p, m, key)
	return arr, arr != nil
}

func (b *state) strings(p bcoskema.Path, m map[string]any, key string) []string {
	arr := b.list(p, m, key)
	if arr == nil {
		return nil
	}
	return b.stringItems(p.Field(key), arr)
}

func (b *state) optStrings(p bcoskema.Path, m map[string]any, key string) []string {
	arr, ok := b.optList(p, m, key)
	if !ok {
		return nil
	}
	return b.stringItems(p.Field(key), arr)
}

func (b *state) stringItems(p bcoskema.Path, arr []any) []string {
	out := make([]string, len(arr))
	for i, v := range arr {
		s, ok := v.(string)
		if !ok {
			b.mismatch(p.Index(i), "string", v)
		}
		out[i] = s
	}
	return out
}

// free normalizes a free-form value into the canonical generic tree.
func (b *state) free(p bcoskema.Path, v any) any {
	n, err := codec.Normalize(v)
	if err != nil {
		b.fail(p, bcoskema.CodeInvalidType, map[string]any{"expected": "json value", "got": fmt.Sprintf("%T", v)}, err.Error())
		return nil
	}
	return n
}

// extra collects the keys of an open object beyond the declared ones. It
// returns nil when there are none.
func (b *state) extra(p bcoskema.Path, m map[string]any, declared ...string) map[string]any {
	var out map[string]any
	for _, k := range codec.SortedKeys(m) {
		if contains(declared, k) {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = b.free(p.Field(k), m[k])
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
