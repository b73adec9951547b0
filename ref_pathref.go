package bcoskema

import (
	"fmt"
	"strconv"
	"strings"
)

// PathSegment is one step of a document path: an object field name or an
// array index.
type PathSegment struct {
	Name    string
	Index   int
	IsIndex bool
}

// String renders the segment as an unescaped token.
func (s PathSegment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Name
}

// Path is an ordered list of segments from the document root. Field and Index
// never alias the receiver's backing array, so a Path can be extended from
// many branches of a traversal.
type Path []PathSegment

// Root is the empty path.
func Root() Path { return nil }

// Field returns the path extended with an object field.
func (p Path) Field(name string) Path {
	return append(append(make(Path, 0, len(p)+1), p...), PathSegment{Name: name})
}

// Index returns the path extended with an array index.
func (p Path) Index(i int) Path {
	return append(append(make(Path, 0, len(p)+1), p...), PathSegment{Index: i, IsIndex: true})
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer renders the path as a JSON Pointer (RFC 6901). The root renders as
// "/" so that every issue carries a non-empty path.
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		if s.IsIndex {
			b.WriteString(strconv.Itoa(s.Index))
			continue
		}
		b.WriteString(pointerEscaper.Replace(s.Name))
	}
	return b.String()
}

// String implements fmt.Stringer.
func (p Path) String() string { return p.Pointer() }

// Issue creates an Issue at this path. kv is a flat list of key/value pairs
// stored in Params.
func (p Path) Issue(code, msg string, kv ...any) Issue {
	var m map[string]any
	if len(kv) > 1 {
		m = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			m[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return Issue{Path: p.Pointer(), Segments: p, Code: code, Message: msg, Params: m}
}

// ParsePointer splits a JSON Pointer into segments. Tokens made only of
// digits become index segments.
func ParsePointer(ptr string) Path {
	if ptr == "" || ptr == "/" {
		return nil
	}
	var out Path
	for _, tok := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		if i, err := strconv.Atoi(tok); err == nil && i >= 0 && tok == strconv.Itoa(i) {
			out = append(out, PathSegment{Index: i, IsIndex: true})
			continue
		}
		out = append(out, PathSegment{Name: tok})
	}
	return out
}
