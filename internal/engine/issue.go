package engine

import (
	"strconv"
	"strings"
)

// Seg is one path step: an object key or an array index.
type Seg struct {
	Name    string
	Index   int
	IsIndex bool
}

// SimpleIssue is the engine's lightweight issue; the root package converts it
// into its public Issue type.
type SimpleIssue struct {
	Code    string
	Path    []Seg
	Message string
	Hint    string
	Params  map[string]any
}

// Pointer renders segments as a JSON Pointer; the root is "/".
func Pointer(path []Seg) string {
	if len(path) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range path {
		b.WriteByte('/')
		if s.IsIndex {
			b.WriteString(strconv.Itoa(s.Index))
			continue
		}
		b.WriteString(pointerEscaper.Replace(s.Name))
	}
	return b.String()
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string {
	return e.SimpleIssue.Message + " at " + Pointer(e.SimpleIssue.Path)
}

func clonePath(p []Seg) []Seg {
	if len(p) == 0 {
		return nil
	}
	return append(make([]Seg, 0, len(p)), p...)
}
