// Package jsonschema holds the raw, uncompiled form of a structural contract:
// the subset of JSON Schema draft-07 the BCO contract uses. Object keys keep
// their declaration order so the compiled model can report violations in the
// order the contract lists fields.
package jsonschema

// Schema is one (sub-)schema as written in the source.
type Schema struct {
	// Identification
	Schema string // $schema
	ID     string // $id
	Ref    string // $ref

	// Core
	Type    string
	Format  string
	Pattern string
	Enum    []string

	// Object
	Properties           Properties
	PatternProperties    Properties
	Required             []string
	AdditionalProperties *bool
	// AdditionalSchema is set when additionalProperties is itself a schema;
	// the compiler rejects it.
	AdditionalSchema *Schema

	// Array
	Items *Schema

	// Shared sub-schemas addressed by "#/definitions/<name>".
	Definitions Properties

	// Annotations (never affect validation)
	Title       string
	Description string
	Reference   string
	ReadOnly    bool
	Default     any
	Examples    []any

	// Ignored lists keywords outside the supported subset, for diagnostics.
	Ignored []string
}

// Named pairs a key with its schema.
type Named struct {
	Name   string
	Schema *Schema
}

// Properties is an ordered keyword map.
type Properties []Named

// Get returns the schema declared under name.
func (p Properties) Get(name string) (*Schema, bool) {
	for _, n := range p {
		if n.Name == name {
			return n.Schema, true
		}
	}
	return nil, false
}

// Names lists the keys in declaration order.
func (p Properties) Names() []string {
	out := make([]string, len(p))
	for i, n := range p {
		out[i] = n.Name
	}
	return out
}

// IsClosed reports additionalProperties: false.
func (s *Schema) IsClosed() bool {
	return s.AdditionalProperties != nil && !*s.AdditionalProperties
}

// HasObjectShape reports whether the schema carries any object keyword.
func (s *Schema) HasObjectShape() bool {
	return len(s.Properties) > 0 || len(s.PatternProperties) > 0 || len(s.Required) > 0 ||
		s.AdditionalProperties != nil || s.AdditionalSchema != nil
}
