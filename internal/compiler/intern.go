package compiler

import (
	"strconv"
	"strings"

	"github.com/minio/highwayhash"

	"github.com/biocompute-objects/bcoskema/rules"
)

var fingerprintKey = []byte("bcoskema-structural-fingerprint!")

// fingerprint hashes a canonical structural key.
func fingerprint(key string) (uint64, error) {
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, err
	}
	_, err = h.Write([]byte(key))
	return h.Sum64(), err
}

type interned struct {
	key string
	ref rules.Ref
}

// interner reuses structurally identical nodes. Children are interned before
// their parents, so comparing child Refs is enough to compare whole subtrees.
type interner struct {
	b     *rules.Builder
	byFP  map[uint64][]interned
	hits  int
	total int
}

func newInterner(b *rules.Builder) *interner {
	return &interner{b: b, byFP: map[uint64][]interned{}}
}

func (in *interner) intern(n rules.Node) (rules.Ref, error) {
	in.total++
	key := canonicalKey(n)
	fp, err := fingerprint(key)
	if err != nil {
		return rules.NoRef, err
	}
	for _, c := range in.byFP[fp] {
		if c.key == key {
			in.hits++
			return c.ref, nil
		}
	}
	r := in.b.Add(n)
	in.byFP[fp] = append(in.byFP[fp], interned{key: key, ref: r})
	return r, nil
}

// canonicalKey renders every field that affects validation. Required and
// property names keep declaration order, which fixes the order issues are
// reported in. Annotations never reach a rules.Node, so they cannot split
// otherwise identical shapes.
func canonicalKey(n rules.Node) string {
	b := &strings.Builder{}
	b.WriteString(n.Kind.String())
	switch n.Kind {
	case rules.KindObject:
		o := n.Object
		b.WriteString("|req")
		for _, r := range o.Required {
			b.WriteByte(' ')
			b.WriteString(strconv.Quote(r))
		}
		b.WriteString("|props")
		for _, p := range o.Properties {
			b.WriteByte(' ')
			b.WriteString(strconv.Quote(p.Name))
			b.WriteByte('=')
			b.WriteString(strconv.Itoa(int(p.Rule)))
		}
		b.WriteString("|patterns")
		for _, p := range o.Patterns {
			b.WriteByte(' ')
			b.WriteString(strconv.Quote(p.Source))
			b.WriteByte('=')
			b.WriteString(strconv.Itoa(int(p.Rule)))
		}
		b.WriteString("|closed=")
		b.WriteString(strconv.FormatBool(o.Closed))
	case rules.KindArray:
		b.WriteString("|item=")
		b.WriteString(strconv.Itoa(int(n.Array.Item)))
	case rules.KindString:
		s := n.String
		b.WriteString("|enum")
		for _, e := range sortedCopy(s.Enum) {
			b.WriteByte(' ')
			b.WriteString(strconv.Quote(e))
		}
		b.WriteString("|pattern=")
		b.WriteString(strconv.Quote(s.PatternSource))
		b.WriteString("|format=")
		b.WriteString(strconv.Quote(s.Format))
	}
	return b.String()
}
