// Package compiler turns a raw schema into an immutable rules.Model.
//
// Compilation is depth-first and post-order: a node is added to the arena
// only after all of its children, and named definitions are compiled on
// first reference. Structurally identical nodes are interned, so the many
// inline copies of a shared shape collapse into one node.
package compiler

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/biocompute-objects/bcoskema/jsonschema"
	"github.com/biocompute-objects/bcoskema/rules"
)

const definitionsPrefix = "#/definitions/"

type compiler struct {
	b       *rules.Builder
	in      *interner
	d       *simpleDiag
	defs    jsonschema.Properties
	done    map[string]rules.Ref
	active  map[string]bool
	formats map[string]bool
}

// Compile compiles root into a Model. Every definition is compiled, referenced
// or not, so Model.Lookup can resolve all of them.
func Compile(root *jsonschema.Schema, opts Options) (*rules.Model, Diag, error) {
	m, d, _, err := CompileWithStats(root, opts)
	return m, d, err
}

// Stats reports how many nodes were produced and how many of them were
// satisfied by an existing structurally identical node.
type Stats struct {
	Interned int
	Reused   int
}

// CompileWithStats is Compile plus interning counters.
func CompileWithStats(root *jsonschema.Schema, opts Options) (*rules.Model, Diag, Stats, error) {
	d := &simpleDiag{}
	if root == nil {
		return nil, d, Stats{}, errors.New("compiler: nil schema")
	}
	fs := opts.Formats
	if fs == nil {
		fs = DefaultFormats
	}
	b := rules.NewBuilder(root.ID, opts.Version)
	c := &compiler{
		b:       b,
		in:      newInterner(b),
		d:       d,
		defs:    root.Definitions,
		done:    map[string]rules.Ref{},
		active:  map[string]bool{},
		formats: make(map[string]bool, len(fs)),
	}
	for _, f := range fs {
		c.formats[f] = true
	}
	for _, def := range root.Definitions {
		if _, err := c.definition(def.Name, "/definitions/"+escape(def.Name)); err != nil {
			return nil, d, Stats{}, err
		}
	}
	r, err := c.compile(root, "")
	if err != nil {
		return nil, d, Stats{}, err
	}
	return b.Build(r), d, Stats{Interned: c.in.total, Reused: c.in.hits}, nil
}

func (c *compiler) definition(name, path string) (rules.Ref, error) {
	if r, ok := c.done[name]; ok {
		return r, nil
	}
	if c.active[name] {
		return rules.NoRef, errorf(path, "cyclic $ref through definitions/%s", name)
	}
	s, ok := c.defs.Get(name)
	if !ok {
		return rules.NoRef, errorf(path, "$ref to unknown definition %q", name)
	}
	c.active[name] = true
	r, err := c.compile(s, "/definitions/"+escape(name))
	delete(c.active, name)
	if err != nil {
		return rules.NoRef, err
	}
	c.done[name] = r
	c.b.Name(name, r)
	return r, nil
}

func (c *compiler) compile(s *jsonschema.Schema, path string) (rules.Ref, error) {
	if s.Ref != "" {
		if !strings.HasPrefix(s.Ref, definitionsPrefix) {
			return rules.NoRef, errorf(path, "$ref %q is not a local definitions reference", s.Ref)
		}
		if s.Type != "" || s.HasObjectShape() || s.Items != nil {
			c.d.warnf("%s: keywords beside $ref are ignored", pointer(path))
		}
		return c.definition(unescape(strings.TrimPrefix(s.Ref, definitionsPrefix)), pointer(path)+"/$ref")
	}
	for _, k := range s.Ignored {
		c.d.warnf("%s: unsupported keyword %q ignored", pointer(path), k)
	}
	if s.AdditionalSchema != nil {
		return rules.NoRef, errorf(path+"/additionalProperties", "additionalProperties must be a boolean")
	}
	switch s.Type {
	case "object":
		return c.object(s, path)
	case "array":
		return c.array(s, path)
	case "string":
		return c.str(s, path)
	case "integer":
		return c.in.intern(rules.Node{Kind: rules.KindInteger})
	case "":
		switch {
		case s.HasObjectShape():
			return c.object(s, path)
		case s.Items != nil:
			return c.array(s, path)
		case len(s.Enum) > 0 || s.Pattern != "":
			c.d.warnf("%s: string keywords without type; compiled as string", pointer(path))
			return c.str(s, path)
		}
		return c.any()
	default:
		return rules.NoRef, errorf(path+"/type", "unsupported type %q", s.Type)
	}
}

func (c *compiler) any() (rules.Ref, error) {
	return c.in.intern(rules.Node{Kind: rules.KindAny})
}

func (c *compiler) object(s *jsonschema.Schema, path string) (rules.Ref, error) {
	o := &rules.ObjectRule{Closed: s.IsClosed()}
	for _, pp := range s.PatternProperties {
		ppath := path + "/patternProperties/" + escape(pp.Name)
		re, err := fullMatch(pp.Name)
		if err != nil {
			return rules.NoRef, errorf(ppath, "invalid pattern: %v", err)
		}
		child, err := c.compile(pp.Schema, ppath)
		if err != nil {
			return rules.NoRef, err
		}
		o.Patterns = append(o.Patterns, rules.PatternProperty{Source: pp.Name, Regexp: re, Rule: child})
	}
	for _, p := range s.Properties {
		ppath := path + "/properties/" + escape(p.Name)
		for _, pp := range o.Patterns {
			if pp.Regexp.MatchString(p.Name) {
				return rules.NoRef, errorf(ppath, "property %q also matches patternProperties %q", p.Name, pp.Source)
			}
		}
		child, err := c.compile(p.Schema, ppath)
		if err != nil {
			return rules.NoRef, err
		}
		o.Properties = append(o.Properties, rules.Property{Name: p.Name, Rule: child})
	}
	seen := make(map[string]bool, len(s.Required))
	for i, name := range s.Required {
		if seen[name] {
			c.d.warnf("%s/required/%d: duplicate required name %q", pointer(path), i, name)
			continue
		}
		seen[name] = true
		if _, ok := s.Properties.Get(name); !ok {
			if _, ok := o.MatchPattern(name); !ok {
				return rules.NoRef, errorf(path+"/required", "required name %q is not a declared property", name)
			}
		}
		o.Required = append(o.Required, name)
	}
	if len(o.Properties) == 0 && len(o.Patterns) == 0 && len(o.Required) == 0 && !o.Closed {
		return c.any()
	}
	return c.in.intern(rules.Node{Kind: rules.KindObject, Object: o})
}

func (c *compiler) array(s *jsonschema.Schema, path string) (rules.Ref, error) {
	var (
		item rules.Ref
		err  error
	)
	if s.Items == nil {
		item, err = c.any()
	} else {
		item, err = c.compile(s.Items, path+"/items")
	}
	if err != nil {
		return rules.NoRef, err
	}
	return c.in.intern(rules.Node{Kind: rules.KindArray, Array: &rules.ArrayRule{Item: item}})
}

func (c *compiler) str(s *jsonschema.Schema, path string) (rules.Ref, error) {
	sr := &rules.StringRule{Format: s.Format}
	if len(s.Enum) > 0 {
		sr.Enum = append([]string(nil), s.Enum...)
	}
	if s.Pattern != "" {
		re, err := fullMatch(s.Pattern)
		if err != nil {
			return rules.NoRef, errorf(path+"/pattern", "invalid pattern: %v", err)
		}
		sr.Pattern = re
		sr.PatternSource = s.Pattern
	}
	if s.Format != "" && !c.formats[s.Format] {
		c.d.warnf("%s: unknown format %q treated as annotation", pointer(path), s.Format)
	}
	return c.in.intern(rules.Node{Kind: rules.KindString, String: sr})
}

// fullMatch anchors a pattern so it must match the entire value.
func fullMatch(p string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + p + ")$")
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func pointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

func unescape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}
