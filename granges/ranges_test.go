package granges

import (
	"math/rand"
	"testing"

	"github.com/grailbio/granges/interval"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func testRanges() Ranges {
	return Ranges{
		gr("chr2", 5, 10, Forward),
		gr("chr1", 20, 30, Forward),
		gr("chr1", 25, 40, Forward),
		gr("chr1", 5, 10, Forward),
		gr("chr1", 8, 12, Reverse),
	}
}

func TestReduceGrouped(t *testing.T) {
	rs := testRanges()
	expect.EQ(t, Reduce(rs, DefaultOpts), Ranges{
		gr("chr1", 5, 10, Forward),
		gr("chr1", 20, 40, Forward),
		gr("chr1", 8, 12, Reverse),
		gr("chr2", 5, 10, Forward),
	})
	expect.EQ(t, Reduce(rs, Opts{IgnoreStrand: true}), Ranges{
		gr("chr1", 5, 12, Unstranded),
		gr("chr1", 20, 40, Unstranded),
		gr("chr2", 5, 10, Unstranded),
	})
	expect.EQ(t, Range(rs, DefaultOpts), Ranges{
		gr("chr1", 5, 40, Forward),
		gr("chr1", 8, 12, Reverse),
		gr("chr2", 5, 10, Forward),
	})
	// The input is untouched.
	expect.True(t, rs.EQ(testRanges()))
}

func TestDisjoinGrouped(t *testing.T) {
	expect.EQ(t, Disjoin(testRanges(), DefaultOpts), Ranges{
		gr("chr1", 5, 10, Forward),
		gr("chr1", 20, 24, Forward),
		gr("chr1", 25, 30, Forward),
		gr("chr1", 31, 40, Forward),
		gr("chr1", 8, 12, Reverse),
		gr("chr2", 5, 10, Forward),
	})
	pieces, depths := Coverage(testRanges(), Opts{IgnoreStrand: true})
	expect.EQ(t, len(pieces), len(depths))
	expect.EQ(t, pieces[0], gr("chr1", 5, 7, Unstranded))
	expect.EQ(t, depths[:3], []int{1, 2, 1})
}

func TestGapsGrouped(t *testing.T) {
	got := Gaps(testRanges(), map[string]PosType{"chr1": 50}, Opts{IgnoreStrand: true})
	expect.EQ(t, got, Ranges{
		gr("chr1", 1, 4, Unstranded),
		gr("chr1", 13, 19, Unstranded),
		gr("chr1", 41, 50, Unstranded),
		gr("chr2", 1, 4, Unstranded),
	})
}

func TestSetOpsGrouped(t *testing.T) {
	a := Ranges{gr("chr1", 1, 10, Forward), gr("chr3", 1, 5, Forward)}
	b := Ranges{gr("chr1", 5, 15, Forward), gr("chr1", 5, 15, Reverse)}
	expect.EQ(t, Intersect(a, b, DefaultOpts), Ranges{gr("chr1", 5, 10, Forward)})
	expect.EQ(t, SetDiff(a, b, DefaultOpts), Ranges{gr("chr1", 1, 4, Forward), gr("chr3", 1, 5, Forward)})
	expect.EQ(t, Union(a, b, DefaultOpts), Ranges{
		gr("chr1", 1, 15, Forward),
		gr("chr1", 5, 15, Reverse),
		gr("chr3", 1, 5, Forward),
	})
	expect.EQ(t, Union(a, b, Opts{IgnoreStrand: true}), Ranges{
		gr("chr1", 1, 15, Unstranded),
		gr("chr3", 1, 5, Unstranded),
	})
	// Different sequences never interact.
	expect.EQ(t, len(Intersect(Ranges{gr("chr1", 1, 10, Forward)}, Ranges{gr("chr2", 1, 10, Forward)}, DefaultOpts)), 0)
}

func randomRanges(r *rand.Rand, n int) Ranges {
	names := []string{"chr1", "chr2"}
	rs := make(Ranges, n)
	for i := range rs {
		start := PosType(1 + r.Intn(100))
		rs[i] = gr(names[r.Intn(2)], start, start+PosType(r.Intn(20)), Strand(r.Intn(3)))
	}
	return rs
}

func TestSetOpsGroupedProperties(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for iter := 0; iter < 100; iter++ {
		a, b := randomRanges(r, r.Intn(10)), randomRanges(r, r.Intn(10))
		for _, opts := range []Opts{DefaultOpts, {IgnoreStrand: true}} {
			reduced := Reduce(a, opts)
			require.True(t, reduced.EQ(Reduce(reduced, opts)), "a: %v", a)
			require.True(t, Union(a, b, opts).EQ(Union(b, a, opts)))
			require.True(t, Intersect(a, b, opts).EQ(Intersect(b, a, opts)))
			span := Range(a, opts)
			gaps := SetDiff(span, a, opts)
			require.True(t, Union(gaps, a, opts).EQ(span), "a: %v", a)
		}
	}
}

func TestRangesHelpers(t *testing.T) {
	rs := testRanges()
	expect.EQ(t, rs.SeqNames(), []string{"chr2", "chr1"})
	rs.Sort()
	expect.EQ(t, rs[0], gr("chr1", 5, 10, Forward))
	expect.EQ(t, rs[len(rs)-1], gr("chr2", 5, 10, Forward))
	expect.EQ(t, rs.Intervals()[0], interval.Interval{5, 10})
	shifted, err := rs.Shift(1)
	assert.NoError(t, err)
	expect.EQ(t, shifted[0], gr("chr1", 6, 11, Forward))
	resized, err := rs.Resize(2, interval.FixStart)
	assert.NoError(t, err)
	expect.EQ(t, resized[3], gr("chr1", 11, 12, Reverse))
	flanks, err := rs.Flank(2, true, false)
	assert.NoError(t, err)
	expect.EQ(t, flanks[3], gr("chr1", 13, 14, Reverse))

	_, err = rs.Shift(interval.PosTypeMax)
	expect.EQ(t, errors.Cause(err), interval.ErrInvalidWidth)
	_, err = rs.Resize(1<<32+5, interval.FixStart)
	expect.EQ(t, errors.Cause(err), interval.ErrInvalidWidth)
	_, err = rs.Flank(-(1 << 40), true, false)
	expect.EQ(t, errors.Cause(err), interval.ErrInvalidWidth)
}
