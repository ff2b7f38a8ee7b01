package interval

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
)

func mustSet(t *testing.T, starts, ends []PosType) Set {
	s, err := NewSet(starts, ends)
	assert.NoError(t, err)
	return s
}

func randomSet(r *rand.Rand, n int) Set {
	s := make(Set, n)
	for i := range s {
		start := PosType(1 + r.Intn(200))
		s[i] = Interval{Start: start, End: start + PosType(r.Intn(30))}
	}
	return s
}

func TestNewSet(t *testing.T) {
	s, err := NewSet([]PosType{1, 5, 7}, []PosType{3, 4, 20})
	assert.NoError(t, err)
	expect.EQ(t, s.Widths(), []int{3, 0, 14})
	expect.True(t, s[1].Empty())

	s, err = NewSetFromWidths([]PosType{10, 20}, []int{1, 5})
	assert.NoError(t, err)
	expect.EQ(t, s.Ends(), []PosType{10, 24})

	_, err = NewSet([]PosType{5}, []PosType{3})
	expect.EQ(t, errors.Cause(err), ErrInvalidWidth)
	_, err = NewSet([]PosType{5}, nil)
	expect.EQ(t, errors.Cause(err), ErrInvalidWidth)
	_, err = NewSetFromWidths([]PosType{5}, []int{-1})
	expect.EQ(t, errors.Cause(err), ErrInvalidWidth)
	_, err = NewSetFromWidths([]PosType{5}, []int{1<<32 + 5})
	expect.EQ(t, errors.Cause(err), ErrInvalidWidth)
	_, err = FromWidth(1, 1<<31)
	expect.EQ(t, errors.Cause(err), ErrInvalidWidth)
	iv, err := FromWidth(PosTypeMax-10, 10)
	assert.NoError(t, err)
	expect.EQ(t, iv, Interval{PosTypeMax - 10, PosTypeMax - 1})
}

func TestShift(t *testing.T) {
	iv := Interval{Start: 10, End: 20}
	got, err := iv.Shift(-15)
	assert.NoError(t, err)
	expect.EQ(t, got, Interval{-5, 5})
	for _, n := range []int{PosTypeMax - 20, PosTypeMax, 1<<32 + 5, -(1 << 33)} {
		_, err = iv.Shift(n)
		expect.EQ(t, errors.Cause(err), ErrInvalidWidth, "shift %d", n)
	}
	got, err = iv.Shift(PosTypeMax - 21)
	assert.NoError(t, err)
	expect.EQ(t, got.End, PosType(PosTypeMax-1))
}

func TestReduceAndDisjoin(t *testing.T) {
	s := mustSet(t, []PosType{5, 20, 25}, []PosType{10, 30, 40})
	expect.EQ(t, Reduce(s), Set{{5, 10}, {20, 40}})
	expect.EQ(t, Disjoin(s), Set{{5, 10}, {20, 24}, {25, 30}, {31, 40}})
	expect.EQ(t, Range(s), Set{{5, 40}})

	// Adjacent intervals merge, zero-width ones vanish.
	s = mustSet(t, []PosType{1, 6, 50}, []PosType{5, 9, 49})
	expect.EQ(t, Reduce(s), Set{{1, 9}})

	pieces, depths := Coverage(mustSet(t, []PosType{5, 20, 25}, []PosType{10, 30, 40}))
	expect.EQ(t, pieces, Set{{5, 10}, {20, 24}, {25, 30}, {31, 40}})
	expect.EQ(t, depths, []int{1, 1, 2, 1})
}

func TestReduceIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for iter := 0; iter < 200; iter++ {
		s := randomSet(r, r.Intn(20))
		once := Reduce(s)
		expect.True(t, once.EQ(Reduce(once)), "set: %v", s)
		for i := 1; i < len(once); i++ {
			// Disjoint and not touching.
			expect.True(t, once[i].Start > once[i-1].End+1, "reduced: %v", once)
		}
	}
}

func TestSetOpsCommutative(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		a := randomSet(r, r.Intn(10))
		b := randomSet(r, r.Intn(10))
		expect.True(t, Union(a, b).EQ(Union(b, a)), "a: %v b: %v", a, b)
		expect.True(t, Intersect(a, b).EQ(Intersect(b, a)), "a: %v b: %v", a, b)
	}
}

// covered returns a per-position coverage bitmap of s over [0, 300).
func covered(s Set) []bool {
	c := make([]bool, 300)
	for _, iv := range s {
		for p := iv.Start; p <= iv.End; p++ {
			c[p] = true
		}
	}
	return c
}

func TestSetOpsAgainstBitmaps(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for iter := 0; iter < 200; iter++ {
		a := randomSet(r, r.Intn(10))
		b := randomSet(r, r.Intn(10))
		ca, cb := covered(a), covered(b)
		ci, cd := covered(Intersect(a, b)), covered(SetDiff(a, b))
		cu := covered(Union(a, b))
		for p := range ca {
			expect.EQ(t, ci[p], ca[p] && cb[p], "pos %d a: %v b: %v", p, a, b)
			expect.EQ(t, cd[p], ca[p] && !cb[p], "pos %d a: %v b: %v", p, a, b)
			expect.EQ(t, cu[p], ca[p] || cb[p], "pos %d a: %v b: %v", p, a, b)
		}
	}
}

func TestSetDiffOfRangeCovers(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for iter := 0; iter < 200; iter++ {
		a := randomSet(r, 1+r.Intn(10))
		span := Range(a)
		gaps := SetDiff(span, a)
		expect.True(t, Union(gaps, a).EQ(span), "a: %v gaps: %v", a, gaps)
		expect.EQ(t, len(Intersect(gaps, a)), 0)
		expect.True(t, gaps.EQ(Gaps(a, span[0])))
	}
}

func TestResize(t *testing.T) {
	iv := Interval{Start: 1, End: 10}
	tests := []struct {
		width int
		fix   Fix
		want  Interval
	}{
		{4, FixStart, Interval{1, 4}},
		{4, FixEnd, Interval{7, 10}},
		{4, FixCenter, Interval{4, 7}},
		{5, FixCenter, Interval{3, 7}},
		{0, FixStart, Interval{1, 0}},
		{15, FixCenter, Interval{-2, 12}},
	}
	for _, tt := range tests {
		got, err := Resize(iv, tt.width, tt.fix)
		assert.NoError(t, err)
		expect.EQ(t, got, tt.want, "width %d fix %v", tt.width, tt.fix)
		expect.EQ(t, got.Width(), tt.width)
	}
	for _, width := range []int{-1, 1<<32 + 5, -(1 << 40)} {
		for _, fix := range []Fix{FixStart, FixEnd, FixCenter} {
			_, err := Resize(iv, width, fix)
			expect.EQ(t, errors.Cause(err), ErrInvalidWidth, "width %d fix %v", width, fix)
		}
	}
	// End would pass PosTypeMax-1.
	for _, width := range []int{1 << 31, PosTypeMax} {
		_, err := Resize(iv, width, FixStart)
		expect.EQ(t, errors.Cause(err), ErrInvalidWidth, "width %d", width)
	}
	_, err := Resize(Interval{Start: PosTypeMin + 10, End: PosTypeMin + 20}, 100, FixEnd)
	expect.EQ(t, errors.Cause(err), ErrInvalidWidth)

	r := rand.New(rand.NewSource(4))
	for _, iv := range randomSet(r, 100) {
		w := r.Intn(50)
		got, err := Resize(iv, w, FixStart)
		assert.NoError(t, err)
		expect.EQ(t, got.Start, iv.Start)
		expect.EQ(t, got.Width(), w)
	}
}

func TestFlank(t *testing.T) {
	iv := Interval{Start: 10, End: 20}
	tests := []struct {
		width       int
		start, both bool
		want        Interval
	}{
		{3, true, false, Interval{7, 9}},
		{3, false, false, Interval{21, 23}},
		{-3, true, false, Interval{10, 12}},
		{-3, false, false, Interval{18, 20}},
		{3, true, true, Interval{7, 12}},
		{3, false, true, Interval{18, 23}},
	}
	for _, tt := range tests {
		got, err := Flank(iv, tt.width, tt.start, tt.both)
		assert.NoError(t, err)
		expect.EQ(t, got, tt.want, "%+v", tt)
	}
	for _, width := range []int{PosTypeMax, 1<<32 + 5, -(1 << 32) - 5} {
		for _, start := range []bool{true, false} {
			_, err := Flank(iv, width, start, true)
			expect.EQ(t, errors.Cause(err), ErrInvalidWidth, "width %d start %v", width, start)
		}
	}
	_, err := Flank(iv, PosTypeMax, false, false)
	expect.EQ(t, errors.Cause(err), ErrInvalidWidth)
}

func TestNarrow(t *testing.T) {
	iv := Interval{Start: 10, End: 20}
	got, err := Narrow(iv, 2, 4)
	assert.NoError(t, err)
	expect.EQ(t, got, Interval{11, 13})
	got, err = Narrow(iv, 1, 11)
	assert.NoError(t, err)
	expect.EQ(t, got, iv)
	got, err = Narrow(iv, 3, 2)
	assert.NoError(t, err)
	expect.True(t, got.Empty())
	for _, bad := range [][2]int{{0, 3}, {5, 3}, {2, 12}} {
		_, err = Narrow(iv, bad[0], bad[1])
		expect.EQ(t, errors.Cause(err), ErrInvalidWidth, "%v", bad)
	}
}

func TestFindOverlaps(t *testing.T) {
	query := Set{{1, 5}, {10, 12}, {13, 12}, {12, 15}}
	subject := Set{{3, 4}, {5, 9}, {11, 20}, {30, 40}, {6, 9}}
	expect.EQ(t, FindOverlaps(query, subject, OverlapAny), []Hit{
		{0, 0}, {0, 1}, {1, 2}, {3, 2}})
	expect.EQ(t, FindOverlaps(query, subject, OverlapWithin), []Hit{{3, 2}})
	expect.EQ(t, len(FindOverlaps(query, subject, OverlapEqual)), 0)
	expect.EQ(t, CountOverlaps(query, subject), []int{2, 1, 0, 1})
	expect.EQ(t, len(FindOverlaps(query, Set{}, OverlapAny)), 0)
}

func TestFindOverlapsBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for iter := 0; iter < 50; iter++ {
		query := randomSet(r, r.Intn(15))
		subject := randomSet(r, r.Intn(15))
		var want []Hit
		for qi, q := range query {
			for si, s := range subject {
				if s.Start <= q.End && s.End >= q.Start {
					want = append(want, Hit{qi, si})
				}
			}
		}
		got := FindOverlaps(query, subject, OverlapAny)
		expect.EQ(t, len(got), len(want))
		for i := range want {
			expect.EQ(t, got[i], want[i])
		}
	}
}

func TestNearest(t *testing.T) {
	query := Set{{10, 10}, {3, 4}, {100, 120}}
	// Equidistant subjects: the lowest Start wins regardless of order.
	expect.EQ(t, Nearest(query, Set{{15, 20}, {1, 5}}), []int{1, 1, 0})
	expect.EQ(t, Nearest(query, Set{{1, 5}, {15, 20}}), []int{0, 0, 1})
	// Identical subjects: the lowest index wins.
	expect.EQ(t, Nearest(query, Set{{1, 5}, {1, 5}}), []int{0, 0, 0})
	expect.EQ(t, Nearest(query, Set{}), []int{-1, -1, -1})
	expect.EQ(t, DistanceToNearest(query, Set{{15, 20}, {1, 5}}), []int{4, 0, 79})
}

func TestEndpoints(t *testing.T) {
	s := Set{{5, 14}, {7, 16}, {20, 24}}
	endpoints := Endpoints(s)
	expect.EQ(t, endpoints, []PosType{5, 17, 20, 25})
	expect.True(t, Contains(endpoints, 5))
	expect.True(t, Contains(endpoints, 16))
	expect.False(t, Contains(endpoints, 17))
	expect.True(t, Contains(endpoints, 24))
	expect.False(t, Contains(endpoints, 25))

	us := NewUnionScanner(endpoints)
	var start, end PosType
	var got []PosType
	for us.Scan(&start, &end, 22) {
		for pos := start; pos < end; pos++ {
			got = append(got, pos)
		}
	}
	expect.EQ(t, got, []PosType{5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 20, 21})
	got = got[:0]
	for us.Scan(&start, &end, 30) {
		for pos := start; pos < end; pos++ {
			got = append(got, pos)
		}
	}
	expect.EQ(t, got, []PosType{22, 23, 24})

	expect.EQ(t, Complement(endpoints), []PosType{1, 5, 17, 20, 25, PosTypeMax})
	expect.EQ(t, FromEndpoints(Complement([]PosType{1, 5})), Set{{5, PosTypeMax - 1}})

	ei := NewEndpointIndex(3, endpoints)
	expect.False(t, ei.Contained())
	expect.EQ(t, ei.Begin(), EndpointIndex(0))
	ei.Update(6, endpoints)
	expect.True(t, ei.Contained())
	expect.EQ(t, ei.Begin(), EndpointIndex(0))
	ei.Update(19, endpoints)
	expect.False(t, ei.Contained())
	expect.EQ(t, endpoints[ei.Begin()], PosType(20))
	ei.Update(22, endpoints)
	expect.EQ(t, endpoints[ei.Begin()], PosType(20))
	ei.Update(40, endpoints)
	expect.True(t, ei.Finished(endpoints))
}
