package bcoskema

import (
	"github.com/biocompute-objects/bcoskema/i18n"
	eng "github.com/biocompute-objects/bcoskema/internal/engine"
)

func fromEngine(sis []eng.SimpleIssue) Issues {
	out := make(Issues, 0, len(sis))
	for _, si := range sis {
		out = append(out, fromSimple(si))
	}
	return out
}

func fromSimple(si eng.SimpleIssue) Issue {
	p := make(Path, len(si.Path))
	for i, s := range si.Path {
		p[i] = PathSegment{Name: s.Name, Index: s.Index, IsIndex: s.IsIndex}
	}
	it := IssueAt(p, si.Code, Message(si.Code, si.Params, si.Message), si.Params)
	it.Hint = si.Hint
	return it
}

// Message localizes an issue code through i18n, falling back to detail when
// the active translator has no entry for the code.
func Message(code string, params map[string]any, detail string) string {
	msg := i18n.T(code, stringifyParams(params))
	if msg == code && detail != "" {
		return detail
	}
	return msg
}
