package interval

import (
	"math"
	"sort"
)

// This file includes support datatypes and functions for representing a
// normalized interval set as a []PosType containing a sorted sequence of
// half-open endpoints, and iterating over the intervals.
//
// A closed interval [Start, End] is stored as the pair {Start, End+1}.  For
// example, given the intervals
//   [5, 14]
//   [7, 16]
//   [17, 24]
// the reduced set would be
//   [5, 24]
// since [7, 16] and [17, 24] touch, so the endpoint sequence would be
//   {5, 25}.
// Likewise {5, 17, 20, 25} represents [5, 16] U [20, 24].
//
// An even number of endpoints is always present, the sequence is strictly
// increasing, and the parity of SearchPosTypes(endpoints, pos+1) tells
// whether pos is covered.
//
// UnionScanner iterates over the covered runs:
//   us := NewUnionScanner(endpoints)
//   var start, end PosType
//   for us.Scan(&start, &end, limit) {
//     // [start, end) is a covered run, clipped to limit.
//   }

// PosType is the type used to represent interval coordinates.  int32 should be
// wide enough for some time to come, since that's what BAM is limited to.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// PosTypeMin is the minimum value that can be represented by a PosType.
const PosTypeMin = math.MinInt32

// SearchPosTypes returns the index of x in a[], or the position where x would
// be inserted if x isn't in a (this could be len(a)).  It's exactly the same
// as sort.SearchInts(), except for PosType.
func SearchPosTypes(a []PosType, x PosType) EndpointIndex {
	return EndpointIndex(sort.Search(len(a), func(i int) bool { return a[i] >= x }))
}

// ExpsearchPosType performs "exponential search"
// (https://en.wikipedia.org/wiki/Exponential_search ), checking a[idx], then
// a[idx + 1], then a[idx + 3], then a[idx + 7], etc., and finishing with
// binary search once it's either found an element larger than the target or
// has hit the end of the slice.  It's usually a better choice than
// SearchPosTypes when iterating.
func ExpsearchPosType(a []PosType, x PosType, idx EndpointIndex) EndpointIndex {
	nextIncr := EndpointIndex(1)
	startIdx := idx
	endIdx := EndpointIndex(len(a))
	for idx < endIdx {
		if a[idx] >= x {
			endIdx = idx
			break
		}
		startIdx = idx + 1
		idx += nextIncr
		nextIncr *= 2
	}
	for startIdx < endIdx {
		midIdx := EndpointIndex((uint(startIdx) + uint(endIdx)) >> 1)
		if a[midIdx] >= x {
			endIdx = midIdx
		} else {
			startIdx = midIdx + 1
		}
	}
	return startIdx
}

// EndpointIndex is intended to represent the result of
// SearchPosTypes(endpoints, pos+1).
// NOTE THE "+1"!  This is necessary to get SearchPosTypes to line up with the
// half-open endpoint encoding.
type EndpointIndex uint32

// NewEndpointIndex returns an EndpointIndex initialized to
// SearchPosTypes(endpoints, pos+1).
func NewEndpointIndex(pos PosType, endpoints []PosType) EndpointIndex {
	return SearchPosTypes(endpoints, pos+1)
}

// Contained returns whether we're inside an interval.
func (ei EndpointIndex) Contained() bool {
	return ei&1 != 0
}

// Finished returns whether we're past all the intervals.
func (ei EndpointIndex) Finished(endpoints []PosType) bool {
	return ei >= EndpointIndex(len(endpoints))
}

// Begin returns:
// - the index for the beginning of the current interval, if we're inside an
//   interval
// - otherwise, the index for the beginning of the next interval
func (ei EndpointIndex) Begin() EndpointIndex {
	return ei & (^EndpointIndex(1))
}

// Update updates the EndpointIndex to refer to newPos, which cannot be smaller
// than the previous position referred to by this EndpointIndex.  It is
// substantially faster than NewEndpointIndex when the position is increasing
// slowly.
func (ei *EndpointIndex) Update(newPos PosType, endpoints []PosType) {
	*ei = ExpsearchPosType(endpoints, newPos+1, *ei)
}

// UnionScanner supports iteration over a normalized endpoint sequence.
// Invariants:
//   endpointIdx == SearchPosTypes(endpoints, pos+1)
//   pos is either contained in an interval, or is PosTypeMax
type UnionScanner struct {
	endpoints   []PosType
	pos         PosType
	endpointIdx EndpointIndex
}

// NewUnionScanner returns a UnionScanner initialized to the first interval.
func NewUnionScanner(endpoints []PosType) UnionScanner {
	startPos := PosType(PosTypeMax)
	startEndpointIdx := EndpointIndex(0)
	if len(endpoints) >= 1 {
		startPos = endpoints[0]
		startEndpointIdx = 1
	}
	return UnionScanner{
		endpoints:   endpoints,
		pos:         startPos,
		endpointIdx: startEndpointIdx,
	}
}

// Scan is written so that the following loop can be used to iterate over all
// within-interval positions up to (and not including) limit:
//   for us.Scan(&start, &end, limit) {
//     for pos := start; pos < end; pos++ {
//       // ...do stuff with pos...
//     }
//   }
func (us *UnionScanner) Scan(start *PosType, end *PosType, limit PosType) bool {
	if us.pos >= limit {
		return false
	}
	*start = us.pos
	intervalEnd := us.endpoints[us.endpointIdx]
	if intervalEnd > limit {
		us.pos = limit
		*end = limit
		return true
	}
	*end = intervalEnd
	us.endpointIdx++
	if us.endpointIdx.Finished(us.endpoints) {
		us.pos = PosTypeMax
	} else {
		us.pos = us.endpoints[us.endpointIdx]
		us.endpointIdx++
	}
	return true
}

// Endpoints returns the normalized endpoint sequence covering the union of s.
// Overlapping and adjacent members are merged; zero-width members are
// dropped.
func Endpoints(s Set) []PosType {
	sorted := make(Set, 0, len(s))
	for _, iv := range s {
		if !iv.Empty() {
			sorted = append(sorted, iv)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	endpoints := make([]PosType, 0, 2*len(sorted))
	for i, iv := range sorted {
		limit := iv.End + 1
		if i != 0 && iv.Start <= endpoints[len(endpoints)-1] {
			// Intervals overlap or touch, merge them.
			if limit > endpoints[len(endpoints)-1] {
				endpoints[len(endpoints)-1] = limit
			}
			continue
		}
		endpoints = append(endpoints, iv.Start, limit)
	}
	return endpoints
}

// FromEndpoints converts a normalized endpoint sequence back to a Set.
func FromEndpoints(endpoints []PosType) Set {
	s := make(Set, 0, len(endpoints)/2)
	us := NewUnionScanner(endpoints)
	var start, end PosType
	for us.Scan(&start, &end, PosTypeMax) {
		s = append(s, Interval{Start: start, End: end - 1})
	}
	return s
}

// Contains returns whether pos is covered by the endpoint sequence.
func Contains(endpoints []PosType, pos PosType) bool {
	return NewEndpointIndex(pos, endpoints).Contained()
}

// Complement returns the endpoint sequence covering [1, PosTypeMax-1] minus
// the given endpoints.
func Complement(endpoints []PosType) []PosType {
	return combineEndpoints([]PosType{1, PosTypeMax}, endpoints, func(inA, inB bool) bool { return inA && !inB })
}

// combineEndpoints merges two normalized endpoint sequences, keeping the
// positions for which keep(coveredByA, coveredByB) is true.  The result is
// normalized.
func combineEndpoints(a, b []PosType, keep func(inA, inB bool) bool) []PosType {
	var out []PosType
	ia, ib := 0, 0
	in := false
	for ia < len(a) || ib < len(b) {
		var pos PosType
		if ib == len(b) || (ia < len(a) && a[ia] < b[ib]) {
			pos = a[ia]
		} else {
			pos = b[ib]
		}
		if ia < len(a) && a[ia] == pos {
			ia++
		}
		if ib < len(b) && b[ib] == pos {
			ib++
		}
		if now := keep(ia&1 == 1, ib&1 == 1); now != in {
			out = append(out, pos)
			in = now
		}
	}
	return out
}
