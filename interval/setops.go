package interval

import "sort"

// Range returns the smallest interval spanning every member of s, as a Set
// with one element.  An empty input yields an empty Set.
func Range(s Set) Set {
	if len(s) == 0 {
		return Set{}
	}
	span := s[0]
	for _, iv := range s[1:] {
		if iv.Start < span.Start {
			span.Start = iv.Start
		}
		if iv.End > span.End {
			span.End = iv.End
		}
	}
	return Set{span}
}

// Reduce merges overlapping and adjacent members of s into the minimal
// disjoint covering set, sorted by Start.  Zero-width members are dropped.
func Reduce(s Set) Set {
	return FromEndpoints(Endpoints(s))
}

// Gaps returns the positions of within that are not covered by s.
func Gaps(s Set, within Interval) Set {
	return FromEndpoints(combineEndpoints(Endpoints(Set{within}), Endpoints(s), func(inA, inB bool) bool { return inA && !inB }))
}

// Union returns Reduce(a ∪ b).
func Union(a, b Set) Set {
	all := make(Set, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	return Reduce(all)
}

// Intersect returns the normalized set of positions covered by both a and b.
func Intersect(a, b Set) Set {
	return FromEndpoints(combineEndpoints(Endpoints(a), Endpoints(b), func(inA, inB bool) bool { return inA && inB }))
}

// SetDiff returns the normalized set of positions covered by a but not b.
func SetDiff(a, b Set) Set {
	return FromEndpoints(combineEndpoints(Endpoints(a), Endpoints(b), func(inA, inB bool) bool { return inA && !inB }))
}

// coverageEvent marks a change in coverage depth at pos (half-open
// coordinates).
type coverageEvent struct {
	pos   PosType
	delta int
}

// Disjoin partitions the union of s into the minimal set of non-overlapping
// pieces such that every piece is either entirely inside or entirely outside
// each member of s.  For example, {[5,10], [20,30], [25,40]} disjoins into
// {[5,10], [20,24], [25,30], [31,40]}.  The result is sorted by Start.
func Disjoin(s Set) Set {
	events := make([]coverageEvent, 0, 2*len(s))
	for _, iv := range s {
		if iv.Empty() {
			continue
		}
		events = append(events, coverageEvent{iv.Start, 1}, coverageEvent{iv.End + 1, -1})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].pos < events[j].pos })
	var (
		result Set
		depth  int
	)
	for i := 0; i < len(events); {
		pos := events[i].pos
		for ; i < len(events) && events[i].pos == pos; i++ {
			depth += events[i].delta
		}
		if depth > 0 && i < len(events) {
			result = append(result, Interval{Start: pos, End: events[i].pos - 1})
		}
	}
	return result
}

// Coverage returns, for each piece of Disjoin(s), the number of members of s
// covering it.
func Coverage(s Set) (Set, []int) {
	pieces := Disjoin(s)
	depths := make([]int, len(pieces))
	for _, iv := range s {
		if iv.Empty() {
			continue
		}
		lo := sort.Search(len(pieces), func(i int) bool { return pieces[i].Start >= iv.Start })
		for i := lo; i < len(pieces) && pieces[i].End <= iv.End; i++ {
			depths[i]++
		}
	}
	return pieces, depths
}
