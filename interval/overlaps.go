package interval

import (
	"fmt"
	"sort"

	biointerval "github.com/biogo/store/interval"
)

// OverlapType selects which query/subject pairs FindOverlaps reports.
type OverlapType int

const (
	// OverlapAny reports every pair sharing at least one position.
	OverlapAny OverlapType = iota
	// OverlapWithin reports pairs where the query lies entirely inside the
	// subject.
	OverlapWithin
	// OverlapEqual reports pairs with identical bounds.
	OverlapEqual
)

// ParseOverlapType parses "any", "within" or "equal".
func ParseOverlapType(s string) (OverlapType, error) {
	switch s {
	case "any", "":
		return OverlapAny, nil
	case "within":
		return OverlapWithin, nil
	case "equal":
		return OverlapEqual, nil
	}
	return OverlapAny, fmt.Errorf("interval.ParseOverlapType: unknown overlap type %q", s)
}

// Hit is one query/subject pair reported by FindOverlaps.  Both fields are
// indices into the slices passed by the caller.
type Hit struct {
	Query   int
	Subject int
}

// treeInterval adapts a closed Interval to the biogo half-open interval
// tree.
type treeInterval struct {
	start, limit int
	uid          uintptr
}

func (i treeInterval) Overlap(b biointerval.IntRange) bool {
	// Half-open interval indexing.
	return i.limit > b.Start && i.start < b.End
}

func (i treeInterval) ID() uintptr {
	return i.uid
}

func (i treeInterval) Range() biointerval.IntRange {
	return biointerval.IntRange{Start: i.start, End: i.limit}
}

func toTreeInterval(iv Interval, uid int) treeInterval {
	return treeInterval{start: int(iv.Start), limit: int(iv.End) + 1, uid: uintptr(uid)}
}

// Index answers overlap queries against a fixed subject Set.  It is
// thread-compatible.
type Index struct {
	subject Set
	tree    biointerval.IntTree
}

// NewIndex builds an Index over subject.  Zero-width subjects are never
// reported.
func NewIndex(subject Set) *Index {
	x := &Index{subject: subject}
	for i, iv := range subject {
		if iv.Empty() {
			continue
		}
		// The only Insert error is an inverted range, which Empty() excludes.
		if err := x.tree.Insert(toTreeInterval(iv, i), true); err != nil {
			panic(err)
		}
	}
	if x.tree.Len() != 0 {
		x.tree.AdjustRanges()
	}
	return x
}

// Overlapping returns the sorted indices of all subject members sharing at
// least one position with q.
func (x *Index) Overlapping(q Interval) []int {
	if q.Empty() || x.tree.Len() == 0 {
		return nil
	}
	matches := x.tree.Get(toTreeInterval(q, -1))
	r := make([]int, len(matches))
	for i, m := range matches {
		r[i] = int(m.ID())
	}
	sort.Ints(r)
	return r
}

// Match returns whether the (query, subject) pair satisfies typ, given that
// they overlap.
func (typ OverlapType) Match(query, subject Interval) bool {
	switch typ {
	case OverlapAny:
		return true
	case OverlapWithin:
		return query.Within(subject)
	case OverlapEqual:
		return query.EQ(subject)
	}
	panic(fmt.Sprintf("interval: invalid OverlapType %d", typ))
}

// FindOverlaps returns every (query, subject) pair that overlaps according to
// the inclusive test subject.Start <= query.End && subject.End >=
// query.Start, filtered by typ.  Hits are sorted by query index, then by
// subject index.
func FindOverlaps(query, subject Set, typ OverlapType) []Hit {
	x := NewIndex(subject)
	var hits []Hit
	for qi, q := range query {
		for _, si := range x.Overlapping(q) {
			if typ.Match(q, subject[si]) {
				hits = append(hits, Hit{Query: qi, Subject: si})
			}
		}
	}
	return hits
}

// CountOverlaps returns, for each query member, the number of subject
// members overlapping it.
func CountOverlaps(query, subject Set) []int {
	x := NewIndex(subject)
	counts := make([]int, len(query))
	for qi, q := range query {
		counts[qi] = len(x.Overlapping(q))
	}
	return counts
}

// NearestIndex returns the index of the member of subject closest to q, and
// its Distance.  Overlapping and adjacent members are at distance zero.  Ties
// are broken by lowest Start, and then by lowest index.  It returns (-1, -1)
// when subject is empty.
func NearestIndex(q Interval, subject Set) (int, int) {
	best, bestDist := -1, -1
	for i, s := range subject {
		d := Distance(q, s)
		if best == -1 || d < bestDist || (d == bestDist && s.Start < subject[best].Start) {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// Nearest returns, for each query member, the index of the nearest subject
// member as defined by NearestIndex, or -1 if subject is empty.
func Nearest(query, subject Set) []int {
	r := make([]int, len(query))
	for i, q := range query {
		r[i], _ = NearestIndex(q, subject)
	}
	return r
}

// DistanceToNearest returns, for each query member, the distance to the
// subject member reported by Nearest, or -1 if subject is empty.
func DistanceToNearest(query, subject Set) []int {
	r := make([]int, len(query))
	for i, q := range query {
		_, r[i] = NearestIndex(q, subject)
	}
	return r
}
