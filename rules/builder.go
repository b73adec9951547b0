package rules

// Builder assembles a Model. Nodes are appended before their parents, so a
// parent only ever refers to handles that already exist; Build freezes the
// arena and hands it out read-only.
type Builder struct {
	m     *Model
	built bool
}

// NewBuilder starts an empty model.
func NewBuilder(id, version string) *Builder {
	return &Builder{m: &Model{root: NoRef, names: map[string]Ref{}, id: id, version: version}}
}

// Add appends a node and returns its handle.
func (b *Builder) Add(n Node) Ref {
	if b.built {
		panic("rules: Add after Build")
	}
	if n.Object != nil && len(n.Object.Properties) > 0 {
		n.Object.index = make(map[string]int, len(n.Object.Properties))
		for i, p := range n.Object.Properties {
			n.Object.index[p.Name] = i
		}
	}
	b.m.nodes = append(b.m.nodes, n)
	return Ref(len(b.m.nodes) - 1)
}

// Name registers a named definition.
func (b *Builder) Name(name string, r Ref) { b.m.names[name] = r }

// Build sets the root and returns the frozen model.
func (b *Builder) Build(root Ref) *Model {
	b.built = true
	b.m.root = root
	return b.m
}
