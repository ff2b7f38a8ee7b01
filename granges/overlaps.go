package granges

import "github.com/grailbio/granges/interval"

// OverlapOpts configures FindOverlaps and the functions built on it.
type OverlapOpts struct {
	Type interval.OverlapType
	// IgnoreStrand lets ranges on opposite strands overlap.
	IgnoreStrand bool
}

// DefaultOverlapOpts reports any overlap between strand-compatible ranges.
var DefaultOverlapOpts = OverlapOpts{Type: interval.OverlapAny}

// seqIndex is an interval.Index over the members of a collection that share a
// sequence name.
type seqIndex struct {
	ids   []int // ids[i] is the position in the collection of the ith member.
	index *interval.Index
}

// Index answers overlap queries against a fixed collection of ranges.
type Index struct {
	subject Ranges
	bySeq   map[string]*seqIndex
}

// NewIndex builds an Index over subject.
func NewIndex(subject Ranges) *Index {
	sets := make(map[string]interval.Set)
	x := &Index{subject: subject, bySeq: make(map[string]*seqIndex)}
	for i, r := range subject {
		si := x.bySeq[r.SeqName]
		if si == nil {
			si = &seqIndex{}
			x.bySeq[r.SeqName] = si
		}
		si.ids = append(si.ids, i)
		sets[r.SeqName] = append(sets[r.SeqName], r.Interval)
	}
	for name, si := range x.bySeq {
		si.index = interval.NewIndex(sets[name])
	}
	return x
}

// Overlapping returns the sorted indices of subject members overlapping q
// according to opts.
func (x *Index) Overlapping(q GenomicRange, opts OverlapOpts) []int {
	si := x.bySeq[q.SeqName]
	if si == nil {
		return nil
	}
	var r []int
	for _, local := range si.index.Overlapping(q.Interval) {
		id := si.ids[local]
		s := x.subject[id]
		if !opts.IgnoreStrand && !q.Strand.Compatible(s.Strand) {
			continue
		}
		if opts.Type.Match(q.Interval, s.Interval) {
			r = append(r, id)
		}
	}
	// ids are increasing within a sequence, so r is already sorted.
	return r
}

// FindOverlaps returns every (query, subject) pair of overlapping ranges.
// Ranges on different sequences never overlap.  Hits are sorted by query
// index, then by subject index.
func FindOverlaps(query, subject Ranges, opts OverlapOpts) []interval.Hit {
	x := NewIndex(subject)
	var hits []interval.Hit
	for qi, q := range query {
		for _, si := range x.Overlapping(q, opts) {
			hits = append(hits, interval.Hit{Query: qi, Subject: si})
		}
	}
	return hits
}

// CountOverlaps returns, for each member of query, the number of subject
// members it overlaps.
func CountOverlaps(query, subject Ranges, opts OverlapOpts) []int {
	x := NewIndex(subject)
	counts := make([]int, len(query))
	for qi, q := range query {
		counts[qi] = len(x.Overlapping(q, opts))
	}
	return counts
}

// SubsetByOverlaps returns the members of query that overlap at least one
// member of subject, in order.
func SubsetByOverlaps(query, subject Ranges, opts OverlapOpts) Ranges {
	x := NewIndex(subject)
	var out Ranges
	for _, q := range query {
		if len(x.Overlapping(q, opts)) > 0 {
			out = append(out, q)
		}
	}
	return out
}

// nearest returns the index in subject of the member nearest q, and its
// distance, or (-1, -1).  bySeq holds the subject indices on each sequence.
func nearest(q GenomicRange, subject Ranges, bySeq map[string][]int, ignoreStrand bool) (int, int) {
	var (
		ids  []int
		cand interval.Set
	)
	for _, i := range bySeq[q.SeqName] {
		s := subject[i]
		if !ignoreStrand && !q.Strand.Compatible(s.Strand) {
			continue
		}
		ids = append(ids, i)
		cand = append(cand, s.Interval)
	}
	local, dist := interval.NearestIndex(q.Interval, cand)
	if local < 0 {
		return -1, -1
	}
	return ids[local], dist
}

func indicesBySeq(rs Ranges) map[string][]int {
	m := make(map[string][]int)
	for i, r := range rs {
		m[r.SeqName] = append(m[r.SeqName], i)
	}
	return m
}

// Nearest returns, for each member of query, the index of the closest
// subject member on the same sequence with a compatible strand, or -1 when
// there is none.  Overlapping members are at distance zero.  Ties go to the
// lowest Start, then to the lowest index.
func Nearest(query, subject Ranges, opts Opts) []int {
	bySeq := indicesBySeq(subject)
	r := make([]int, len(query))
	for i, q := range query {
		r[i], _ = nearest(q, subject, bySeq, opts.IgnoreStrand)
	}
	return r
}

// DistanceToNearest returns, for each member of query, the distance to the
// subject member chosen by Nearest, or -1 when there is none.
func DistanceToNearest(query, subject Ranges, opts Opts) []int {
	bySeq := indicesBySeq(subject)
	r := make([]int, len(query))
	for i, q := range query {
		_, r[i] = nearest(q, subject, bySeq, opts.IgnoreStrand)
	}
	return r
}
