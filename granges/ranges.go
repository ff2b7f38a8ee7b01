package granges

import (
	"sort"

	"github.com/grailbio/granges/interval"
)

// Ranges is an ordered collection of GenomicRanges.  Duplicates are allowed.
type Ranges []GenomicRange

// Opts controls how collection operators group their inputs.
type Opts struct {
	// IgnoreStrand treats every range as Unstranded.  Results are then
	// Unstranded.
	IgnoreStrand bool
}

// DefaultOpts groups ranges by sequence name and strand.
var DefaultOpts = Opts{}

// EQ returns true iff rs and rs1 have the same members in the same order.
func (rs Ranges) EQ(rs1 Ranges) bool {
	if len(rs) != len(rs1) {
		return false
	}
	for i := range rs {
		if !rs[i].EQ(rs1[i]) {
			return false
		}
	}
	return true
}

// Sort sorts rs in place by GenomicRange.Compare.  Equal members keep their
// relative order.
func (rs Ranges) Sort() {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Compare(rs[j]) < 0 })
}

// SeqNames returns the distinct sequence names of rs in order of first
// appearance.
func (rs Ranges) SeqNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range rs {
		if _, ok := seen[r.SeqName]; !ok {
			seen[r.SeqName] = struct{}{}
			names = append(names, r.SeqName)
		}
	}
	return names
}

// Intervals returns the bounds of rs, in order.
func (rs Ranges) Intervals() interval.Set {
	s := make(interval.Set, len(rs))
	for i, r := range rs {
		s[i] = r.Interval
	}
	return s
}

// Shift returns a copy of rs with every member shifted by n.
func (rs Ranges) Shift(n int) (Ranges, error) {
	out := make(Ranges, len(rs))
	for i, r := range rs {
		var err error
		if out[i], err = r.Shift(n); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Resize returns a copy of rs with every member resized; see
// GenomicRange.Resize.
func (rs Ranges) Resize(width int, fix interval.Fix) (Ranges, error) {
	out := make(Ranges, len(rs))
	for i, r := range rs {
		var err error
		if out[i], err = r.Resize(width, fix); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Flank returns a copy of rs with every member replaced by its flank; see
// GenomicRange.Flank.
func (rs Ranges) Flank(width int, upstream, both bool) (Ranges, error) {
	out := make(Ranges, len(rs))
	for i, r := range rs {
		var err error
		if out[i], err = r.Flank(width, upstream, both); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// groupKey identifies the members of a collection that set operators
// combine.
type groupKey struct {
	seqName string
	strand  Strand
}

func (k groupKey) less(k1 groupKey) bool {
	if k.seqName != k1.seqName {
		return k.seqName < k1.seqName
	}
	return k.strand < k1.strand
}

func keyOf(r GenomicRange, opts Opts) groupKey {
	if opts.IgnoreStrand {
		return groupKey{r.SeqName, Unstranded}
	}
	return groupKey{r.SeqName, r.Strand}
}

// groupSets splits rs into one interval.Set per group.  Members of each Set
// keep their input order.
func groupSets(rs Ranges, opts Opts) map[groupKey]interval.Set {
	groups := make(map[groupKey]interval.Set)
	for _, r := range rs {
		k := keyOf(r, opts)
		groups[k] = append(groups[k], r.Interval)
	}
	return groups
}

func sortedKeys(groups ...map[groupKey]interval.Set) []groupKey {
	seen := make(map[groupKey]struct{})
	var keys []groupKey
	for _, g := range groups {
		for k := range g {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

func appendSet(out Ranges, k groupKey, s interval.Set) Ranges {
	for _, iv := range s {
		out = append(out, GenomicRange{SeqName: k.seqName, Interval: iv, Strand: k.strand})
	}
	return out
}

// perGroup applies fn to each group of rs and concatenates the results in
// key order.
func perGroup(rs Ranges, opts Opts, fn func(groupKey, interval.Set) interval.Set) Ranges {
	groups := groupSets(rs, opts)
	var out Ranges
	for _, k := range sortedKeys(groups) {
		out = appendSet(out, k, fn(k, groups[k]))
	}
	return out
}

// Range returns, per (SeqName, Strand) group, the smallest range spanning all
// its members.
func Range(rs Ranges, opts Opts) Ranges {
	return perGroup(rs, opts, func(_ groupKey, s interval.Set) interval.Set { return interval.Range(s) })
}

// Reduce merges overlapping and adjacent ranges within each (SeqName, Strand)
// group.  The result is sorted.
func Reduce(rs Ranges, opts Opts) Ranges {
	return perGroup(rs, opts, func(_ groupKey, s interval.Set) interval.Set { return interval.Reduce(s) })
}

// Disjoin partitions each (SeqName, Strand) group into non-overlapping
// pieces; see interval.Disjoin.
func Disjoin(rs Ranges, opts Opts) Ranges {
	return perGroup(rs, opts, func(_ groupKey, s interval.Set) interval.Set { return interval.Disjoin(s) })
}

// Gaps returns, per group, the positions in [1, length] not covered by the
// group, where length comes from seqLengths.  Sequences missing from
// seqLengths use the largest End in the group.
func Gaps(rs Ranges, seqLengths map[string]PosType, opts Opts) Ranges {
	return perGroup(rs, opts, func(k groupKey, s interval.Set) interval.Set {
		length, ok := seqLengths[k.seqName]
		if !ok {
			length = interval.Range(s)[0].End
		}
		return interval.Gaps(s, interval.Interval{Start: 1, End: length})
	})
}

func combine(a, b Ranges, opts Opts, fn func(a, b interval.Set) interval.Set) Ranges {
	ga, gb := groupSets(a, opts), groupSets(b, opts)
	var out Ranges
	for _, k := range sortedKeys(ga, gb) {
		out = appendSet(out, k, fn(ga[k], gb[k]))
	}
	return out
}

// Union returns the reduced union of a and b.  Only ranges with identical
// SeqName and Strand are merged.
func Union(a, b Ranges, opts Opts) Ranges {
	return combine(a, b, opts, interval.Union)
}

// Intersect returns the positions covered by both a and b, per (SeqName,
// Strand) group.
func Intersect(a, b Ranges, opts Opts) Ranges {
	return combine(a, b, opts, interval.Intersect)
}

// SetDiff returns the positions covered by a but not by b, per (SeqName,
// Strand) group.
func SetDiff(a, b Ranges, opts Opts) Ranges {
	return combine(a, b, opts, interval.SetDiff)
}

// Coverage returns the disjoined pieces of rs together with the number of
// members covering each piece.
func Coverage(rs Ranges, opts Opts) (Ranges, []int) {
	groups := groupSets(rs, opts)
	var (
		out    Ranges
		depths []int
	)
	for _, k := range sortedKeys(groups) {
		pieces, d := interval.Coverage(groups[k])
		out = appendSet(out, k, pieces)
		depths = append(depths, d...)
	}
	return out, depths
}
