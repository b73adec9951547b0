package bcoskema

// IssueAt creates an Issue at the given path with provided code, message and params map.
// This is a convenience helper to improve readability at call sites with many parameters.
func IssueAt(p Path, code, msg string, params map[string]any) Issue {
	return Issue{Path: p.Pointer(), Segments: p, Code: code, Message: msg, Params: params}
}

// Rebase prefixes every issue path with base. It is used when a component
// validates a sub-tree and reports paths relative to it.
func Rebase(base Path, iss Issues) Issues {
	if len(base) == 0 || len(iss) == 0 {
		return iss
	}
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		segs := append(append(make(Path, 0, len(base)+len(it.Segments)), base...), it.Segments...)
		it.Segments = segs
		it.Path = segs.Pointer()
		out = append(out, it)
	}
	return out
}
