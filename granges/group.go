package granges

// Grouped is an ordered list of named groups of ranges, e.g. the exons of
// each transcript.  Groups keep the order in which their keys were first
// added.
type Grouped struct {
	keys   []string
	groups map[string][]AnnotatedRange
}

// NewGrouped returns an empty Grouped.
func NewGrouped() *Grouped {
	return &Grouped{groups: make(map[string][]AnnotatedRange)}
}

// GroupBy splits rs into groups named by keyFn.  Members keep their relative
// order within each group.
func GroupBy(rs []AnnotatedRange, keyFn func(AnnotatedRange) string) *Grouped {
	g := NewGrouped()
	for _, r := range rs {
		g.Add(keyFn(r), r)
	}
	return g
}

// GroupBySeqName groups rs by sequence name.
func GroupBySeqName(rs []AnnotatedRange) *Grouped {
	return GroupBy(rs, func(r AnnotatedRange) string { return r.SeqName })
}

// Add appends rs to the group named key, creating it if needed.  Adding no
// ranges still creates the group.
func (g *Grouped) Add(key string, rs ...AnnotatedRange) {
	group, ok := g.groups[key]
	if !ok {
		g.keys = append(g.keys, key)
	}
	g.groups[key] = append(group, rs...)
}

// Keys returns the group names in insertion order.  The caller must not
// modify the result.
func (g *Grouped) Keys() []string { return g.keys }

// Get returns the members of the named group.
func (g *Grouped) Get(key string) ([]AnnotatedRange, bool) {
	rs, ok := g.groups[key]
	return rs, ok
}

// Len returns the number of groups.
func (g *Grouped) Len() int { return len(g.keys) }

// Apply returns a new Grouped with fn applied to each group.  Keys and their
// order are preserved, even when fn returns no ranges.  The first error
// aborts the traversal.
func (g *Grouped) Apply(fn func(key string, rs []AnnotatedRange) ([]AnnotatedRange, error)) (*Grouped, error) {
	out := NewGrouped()
	for _, k := range g.keys {
		rs, err := fn(k, g.groups[k])
		if err != nil {
			return nil, err
		}
		out.Add(k, rs...)
	}
	return out, nil
}

// Flatten concatenates the groups in key order.  Each member records its
// group name under the "group" metadata key.
func (g *Grouped) Flatten() []AnnotatedRange {
	var out []AnnotatedRange
	for _, k := range g.keys {
		for _, r := range g.groups[k] {
			out = append(out, r.With(GroupMetaKey, k))
		}
	}
	return out
}

// GroupMetaKey is the metadata key under which Flatten records group names.
const GroupMetaKey = "group"

// Range returns, for each group, the span of its members per (SeqName,
// Strand).  Empty groups stay empty.
func (g *Grouped) Range(opts Opts) *Grouped {
	out, _ := g.Apply(func(_ string, rs []AnnotatedRange) ([]AnnotatedRange, error) {
		return Annotate(Range(Plain(rs), opts)), nil
	})
	return out
}

// Reduce reduces each group independently.
func (g *Grouped) Reduce(opts Opts) *Grouped {
	out, _ := g.Apply(func(_ string, rs []AnnotatedRange) ([]AnnotatedRange, error) {
		return Annotate(Reduce(Plain(rs), opts)), nil
	})
	return out
}
