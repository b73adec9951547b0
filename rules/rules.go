// Package rules defines the compiled Rule Model: an immutable arena of typed
// rule nodes addressed by Ref handles.
//
// Shared sub-schemas are compiled once and referenced from every parent, so
// the model is a directed acyclic graph rather than a tree of copies. A Model
// exposes no mutators after construction and is safe for concurrent readers.
package rules

import (
	"fmt"
	"regexp"
	"sort"
)

// Kind identifies a rule node type.
type Kind uint8

const (
	KindAny Kind = iota
	KindObject
	KindArray
	KindString
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	default:
		return "any"
	}
}

// Ref is a non-owning handle to a node in the Model that issued it.
type Ref int32

// NoRef is the zero handle returned by failed lookups.
const NoRef Ref = -1

// Node is a tagged variant; exactly one of Object/Array/String is set for the
// corresponding kinds, none for KindInteger and KindAny.
type Node struct {
	Kind   Kind
	Object *ObjectRule
	Array  *ArrayRule
	String *StringRule
}

// Property binds a declared property name to its rule.
type Property struct {
	Name string
	Rule Ref
}

// PatternProperty binds a key regex to the rule applied to matching keys.
type PatternProperty struct {
	Source string
	Regexp *regexp.Regexp
	Rule   Ref
}

// ObjectRule constrains a JSON object. Required and Properties keep schema
// declaration order, which drives violation order.
type ObjectRule struct {
	Required   []string
	Properties []Property
	Patterns   []PatternProperty
	// Closed rejects keys matched by neither Properties nor Patterns
	// (additionalProperties: false).
	Closed bool

	index map[string]int
}

// Property returns the rule for a declared property name.
func (o *ObjectRule) Property(name string) (Ref, bool) {
	if o.index == nil {
		for _, p := range o.Properties {
			if p.Name == name {
				return p.Rule, true
			}
		}
		return NoRef, false
	}
	i, ok := o.index[name]
	if !ok {
		return NoRef, false
	}
	return o.Properties[i].Rule, true
}

// MatchPattern returns the first pattern property whose regex matches the
// whole key.
func (o *ObjectRule) MatchPattern(key string) (Ref, bool) {
	for _, p := range o.Patterns {
		if p.Regexp.MatchString(key) {
			return p.Rule, true
		}
	}
	return NoRef, false
}

// IsRequired reports whether name is in the required set.
func (o *ObjectRule) IsRequired(name string) bool {
	for _, r := range o.Required {
		if r == name {
			return true
		}
	}
	return false
}

// ArrayRule constrains every element of a JSON array.
type ArrayRule struct {
	Item Ref
}

// StringRule constrains a JSON string. Pattern matches the full string.
// Format is an advisory annotation ("date-time", "email", "uri").
type StringRule struct {
	Enum          []string
	Pattern       *regexp.Regexp
	PatternSource string
	Format        string
}

// Allows reports enum membership; a rule without an enum allows everything.
func (s *StringRule) Allows(v string) bool {
	if len(s.Enum) == 0 {
		return true
	}
	for _, e := range s.Enum {
		if e == v {
			return true
		}
	}
	return false
}

// Model is the compiled, immutable rule set.
type Model struct {
	nodes   []Node
	root    Ref
	names   map[string]Ref
	id      string
	version string
}

// Root returns the document root rule.
func (m *Model) Root() Ref { return m.root }

// Node resolves a handle. It panics on a handle from another model, which is
// a programming error.
func (m *Model) Node(r Ref) *Node {
	if r < 0 || int(r) >= len(m.nodes) {
		panic(fmt.Sprintf("rules: ref %d out of range (model has %d nodes)", r, len(m.nodes)))
	}
	return &m.nodes[r]
}

// Len returns the number of distinct nodes.
func (m *Model) Len() int { return len(m.nodes) }

// Lookup resolves a named definition.
func (m *Model) Lookup(name string) (Ref, bool) {
	r, ok := m.names[name]
	if !ok {
		return NoRef, false
	}
	return r, true
}

// Definitions returns the named definitions in sorted order.
func (m *Model) Definitions() []string {
	out := make([]string, 0, len(m.names))
	for n := range m.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ID returns the schema $id the model was compiled from.
func (m *Model) ID() string { return m.id }

// Version returns the contract version recorded at compile time.
func (m *Model) Version() string { return m.version }

// Stats counts nodes per kind.
func (m *Model) Stats() map[Kind]int {
	out := make(map[Kind]int, 5)
	for i := range m.nodes {
		out[m.nodes[i].Kind]++
	}
	return out
}

// Resolve follows a sequence of property names from the root, descending
// through array items transparently. It is meant for tests and tooling.
func (m *Model) Resolve(names ...string) (Ref, bool) {
	cur := m.root
	for _, n := range names {
		node := m.Node(cur)
		for node.Kind == KindArray {
			cur = node.Array.Item
			node = m.Node(cur)
		}
		if node.Kind != KindObject {
			return NoRef, false
		}
		next, ok := node.Object.Property(n)
		if !ok {
			return NoRef, false
		}
		cur = next
	}
	return cur, true
}
