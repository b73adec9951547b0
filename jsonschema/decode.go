package jsonschema

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DecodeError reports a malformed schema source with the JSON Pointer of the
// offending keyword.
type DecodeError struct {
	Path   string
	Line   int
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("jsonschema: %s (at %s, line %d)", e.Reason, e.Path, e.Line)
	}
	return fmt.Sprintf("jsonschema: %s (at %s)", e.Reason, e.Path)
}

// Parse decodes a schema from JSON, JSONC or YAML text. JSON input (first
// significant byte '{') is stripped of comments and trailing commas first.
func Parse(data []byte) (*Schema, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// ParseJSON decodes JSON or JSONC text preserving key order.
func ParseJSON(data []byte) (*Schema, error) {
	return ParseYAML(jsonc.ToJSON(data))
}

// ParseYAML decodes YAML text preserving key order. JSON is valid input, as
// YAML flow syntax is a superset of it.
func ParseYAML(data []byte) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("jsonschema: invalid source: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &DecodeError{Path: "/", Reason: "empty document"}
	}
	return decodeNode(doc.Content[0], "")
}

func decodeNode(n *yaml.Node, path string) (*Schema, error) {
	if n.Kind != yaml.MappingNode {
		return nil, &DecodeError{Path: pointer(path), Line: n.Line, Reason: "schema must be an object"}
	}
	s := &Schema{}
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		key := k.Value
		if seen[key] {
			return nil, &DecodeError{Path: pointer(path + "/" + escape(key)), Line: k.Line, Reason: "duplicate key"}
		}
		seen[key] = true
		if err := s.setKeyword(key, v, path+"/"+escape(key)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schema) setKeyword(key string, v *yaml.Node, path string) error {
	var err error
	switch key {
	case "$schema":
		s.Schema, err = scalarString(v, path)
	case "$id":
		s.ID, err = scalarString(v, path)
	case "$ref":
		s.Ref, err = scalarString(v, path)
	case "type":
		s.Type, err = scalarString(v, path)
	case "format":
		s.Format, err = scalarString(v, path)
	case "pattern":
		s.Pattern, err = scalarString(v, path)
	case "title":
		s.Title, err = scalarString(v, path)
	case "description":
		s.Description, err = scalarString(v, path)
	case "reference":
		s.Reference, err = scalarString(v, path)
	case "enum":
		s.Enum, err = stringList(v, path)
	case "required":
		s.Required, err = stringList(v, path)
	case "readOnly":
		s.ReadOnly, err = scalarBool(v, path)
	case "properties":
		s.Properties, err = namedSchemas(v, path)
	case "patternProperties":
		s.PatternProperties, err = namedSchemas(v, path)
	case "definitions":
		s.Definitions, err = namedSchemas(v, path)
	case "items":
		s.Items, err = decodeNode(v, path)
	case "additionalProperties":
		if v.Kind == yaml.MappingNode {
			s.AdditionalSchema, err = decodeNode(v, path)
			return err
		}
		var b bool
		b, err = scalarBool(v, path)
		s.AdditionalProperties = &b
	case "default":
		err = v.Decode(&s.Default)
	case "examples":
		err = v.Decode(&s.Examples)
	default:
		s.Ignored = append(s.Ignored, key)
	}
	return err
}

func namedSchemas(v *yaml.Node, path string) (Properties, error) {
	if v.Kind != yaml.MappingNode {
		return nil, &DecodeError{Path: pointer(path), Line: v.Line, Reason: "expected an object of schemas"}
	}
	out := make(Properties, 0, len(v.Content)/2)
	seen := make(map[string]bool, len(v.Content)/2)
	for i := 0; i+1 < len(v.Content); i += 2 {
		name := v.Content[i].Value
		if seen[name] {
			return nil, &DecodeError{Path: pointer(path + "/" + escape(name)), Line: v.Content[i].Line, Reason: "duplicate key"}
		}
		seen[name] = true
		sub, err := decodeNode(v.Content[i+1], path+"/"+escape(name))
		if err != nil {
			return nil, err
		}
		out = append(out, Named{Name: name, Schema: sub})
	}
	return out, nil
}

func scalarString(v *yaml.Node, path string) (string, error) {
	if v.Kind != yaml.ScalarNode {
		return "", &DecodeError{Path: pointer(path), Line: v.Line, Reason: "expected a string"}
	}
	return v.Value, nil
}

func scalarBool(v *yaml.Node, path string) (bool, error) {
	if v.Kind == yaml.ScalarNode {
		if b, err := strconv.ParseBool(v.Value); err == nil {
			return b, nil
		}
	}
	return false, &DecodeError{Path: pointer(path), Line: v.Line, Reason: "expected a boolean"}
}

func stringList(v *yaml.Node, path string) ([]string, error) {
	if v.Kind != yaml.SequenceNode {
		return nil, &DecodeError{Path: pointer(path), Line: v.Line, Reason: "expected an array of strings"}
	}
	out := make([]string, 0, len(v.Content))
	for i, c := range v.Content {
		if c.Kind != yaml.ScalarNode {
			return nil, &DecodeError{Path: pointer(path + "/" + strconv.Itoa(i)), Line: c.Line, Reason: "expected a string"}
		}
		out = append(out, c.Value)
	}
	return out, nil
}

// FromMap converts an already decoded generic schema. Go maps carry no order,
// so object keywords are taken in sorted key order.
func FromMap(m map[string]any) (*Schema, error) {
	var node yaml.Node
	if err := node.Encode(sortedValue(m)); err != nil {
		return nil, fmt.Errorf("jsonschema: cannot encode map: %w", err)
	}
	return decodeNode(&node, "")
}

// sortedValue rewrites maps as yaml.Nodes with sorted keys so Encode output
// is deterministic.
func sortedValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			var kv, vv yaml.Node
			kv.SetString(k)
			if err := vv.Encode(sortedValue(t[k])); err != nil {
				continue
			}
			n.Content = append(n.Content, &kv, &vv)
		}
		return n
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = sortedValue(t[i])
		}
		return out
	default:
		return v
	}
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
