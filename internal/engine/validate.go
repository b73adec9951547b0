package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/biocompute-objects/bcoskema/rules"
)

// ValidateOptions tunes a walk.
type ValidateOptions struct {
	// FailFast stops at the first issue.
	FailFast bool
	// CheckFormat, when set, is consulted for string rules carrying a format.
	CheckFormat func(format, value string) error
}

type walker struct {
	ctx    context.Context
	m      *rules.Model
	opt    ValidateOptions
	path   []Seg
	issues []SimpleIssue
	err    error
}

// Validate walks doc against the model root. It returns the issues found in
// pre-order and a non-nil error only when ctx was cancelled.
func Validate(ctx context.Context, doc any, m *rules.Model, opt ValidateOptions) ([]SimpleIssue, error) {
	return ValidateAt(ctx, doc, m, m.Root(), opt)
}

// ValidateAt walks doc against an arbitrary node of the model.
func ValidateAt(ctx context.Context, doc any, m *rules.Model, ref rules.Ref, opt ValidateOptions) ([]SimpleIssue, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	w := &walker{ctx: ctx, m: m, opt: opt}
	w.walk(ref, doc, 0)
	return w.issues, w.err
}

func (w *walker) stopped() bool {
	return w.err != nil || (w.opt.FailFast && len(w.issues) > 0)
}

func (w *walker) report(code, msg string, params map[string]any) {
	w.issues = append(w.issues, SimpleIssue{Code: code, Path: clonePath(w.path), Message: msg, Params: params})
}

func (w *walker) push(s Seg) { w.path = append(w.path, s) }
func (w *walker) pop()       { w.path = w.path[:len(w.path)-1] }

func (w *walker) walk(ref rules.Ref, v any, depth int) {
	if w.stopped() {
		return
	}
	n := w.m.Node(ref)
	switch n.Kind {
	case rules.KindAny:
	case rules.KindObject:
		w.object(n.Object, v, depth)
	case rules.KindArray:
		w.array(n.Array, v, depth)
	case rules.KindString:
		w.str(n.String, v)
	case rules.KindInteger:
		if !IsInteger(v) {
			w.mismatch("integer", v)
		}
	}
}

func (w *walker) mismatch(want string, v any) {
	got := TypeName(v)
	w.report("invalid_type", fmt.Sprintf("expected %s, got %s", want, got), map[string]any{"expected": want, "got": got})
}

func (w *walker) object(o *rules.ObjectRule, v any, depth int) {
	obj, ok := AsObject(v)
	if !ok {
		w.mismatch("object", v)
		return
	}
	for _, name := range o.Required {
		if _, ok := obj[name]; ok {
			continue
		}
		w.push(Seg{Name: name})
		w.report("required", "required field missing", map[string]any{"field": name})
		w.pop()
		if w.stopped() {
			return
		}
	}
	for _, p := range o.Properties {
		// Top-level properties are the BCO domains; a caller may abandon a
		// long walk between them.
		if depth == 0 {
			if err := w.ctx.Err(); err != nil {
				w.err = err
				return
			}
		}
		pv, ok := obj[p.Name]
		if !ok {
			continue
		}
		w.push(Seg{Name: p.Name})
		w.walk(p.Rule, pv, depth+1)
		w.pop()
		if w.stopped() {
			return
		}
	}
	var rest []string
	for k := range obj {
		if _, declared := o.Property(k); !declared {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		w.push(Seg{Name: k})
		if r, ok := o.MatchPattern(k); ok {
			w.walk(r, obj[k], depth+1)
		} else if o.Closed {
			w.report("unknown_key", "unknown key '"+k+"'", map[string]any{"key": k})
		}
		w.pop()
		if w.stopped() {
			return
		}
	}
}

func (w *walker) array(a *rules.ArrayRule, v any, depth int) {
	items, ok := AsArray(v)
	if !ok {
		w.mismatch("array", v)
		return
	}
	for i, it := range items {
		w.push(Seg{Index: i, IsIndex: true})
		w.walk(a.Item, it, depth+1)
		w.pop()
		if w.stopped() {
			return
		}
	}
}

func (w *walker) str(s *rules.StringRule, v any) {
	str, ok := v.(string)
	if !ok {
		w.mismatch("string", v)
		return
	}
	if !s.Allows(str) {
		allowed := append([]string(nil), s.Enum...)
		w.issues = append(w.issues, SimpleIssue{
			Code:    "invalid_enum",
			Path:    clonePath(w.path),
			Message: fmt.Sprintf("value %q is not one of the allowed values", str),
			Hint:    "allowed: " + strings.Join(allowed, ", "),
			Params:  map[string]any{"allowed": allowed, "got": str},
		})
		return
	}
	if s.Pattern != nil && !s.Pattern.MatchString(str) {
		w.report("pattern", "value does not match pattern "+s.PatternSource, map[string]any{"pattern": s.PatternSource, "got": str})
		return
	}
	if s.Format != "" && w.opt.CheckFormat != nil {
		if err := w.opt.CheckFormat(s.Format, str); err != nil {
			w.report("invalid_format", fmt.Sprintf("value is not a valid %s: %v", s.Format, err), map[string]any{"format": s.Format, "got": str})
		}
	}
}

// AsObject returns v as a string-keyed map. map[string]any is returned as is;
// other maps with string keys (including map[any]any holding only strings,
// as produced by YAML and MessagePack decoders) are copied.
func AsObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		out[it.Key().String()] = it.Value().Interface()
	}
	return out, true
}

// AsArray returns v as a []any; other slice and array kinds are copied.
func AsArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// IsInteger reports whether v holds an integral number that fits in an
// int64. Larger integral values are rejected so the typed document can hold
// every accepted value.
func IsInteger(v any) bool {
	switch t := v.(type) {
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return true
		}
		f, err := t.Float64()
		return err == nil && integralInt64(f)
	case float64:
		return integralInt64(t)
	case float32:
		return integralInt64(float64(t))
	case uint:
		return uint64(t) <= math.MaxInt64
	case uint64:
		return t <= math.MaxInt64
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return true
	default:
		return false
	}
}

// integralInt64 reports whether f is a whole number in [-2^63, 2^63).
func integralInt64(f float64) bool {
	return !math.IsNaN(f) && math.Trunc(f) == f && f >= math.MinInt64 && f < math.MaxInt64
}

// TypeName names the JSON type of a generic value.
func TypeName(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		if IsInteger(t) {
			return "integer"
		}
		return "number"
	case float32, float64:
		if IsInteger(t) {
			return "integer"
		}
		return "number"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	}
	if _, ok := AsObject(v); ok {
		return "object"
	}
	if _, ok := AsArray(v); ok {
		return "array"
	}
	return fmt.Sprintf("%T", v)
}
