package granges

import (
	"testing"

	"github.com/grailbio/granges/interval"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
)

func gr(seqName string, start, end PosType, strand Strand) GenomicRange {
	return GenomicRange{SeqName: seqName, Interval: interval.Interval{Start: start, End: end}, Strand: strand}
}

func TestStrand(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want Strand
	}{{"+", Forward}, {"-", Reverse}, {"*", Unstranded}, {".", Unstranded}} {
		s, err := ParseStrand(tt.in)
		assert.NoError(t, err)
		expect.EQ(t, s, tt.want)
	}
	_, err := ParseStrand("x")
	expect.EQ(t, errors.Cause(err), ErrInvalidStrand)
	expect.EQ(t, Forward.String(), "+")
	expect.EQ(t, Reverse.Flip(), Forward)
	expect.EQ(t, Unstranded.Flip(), Unstranded)
	expect.True(t, Unstranded.Compatible(Reverse))
	expect.False(t, Forward.Compatible(Reverse))
	expect.False(t, Strand(7).Valid())
}

func TestNew(t *testing.T) {
	r, err := New("chr1", 10, 20, Forward)
	assert.NoError(t, err)
	expect.EQ(t, r.Width(), 11)
	expect.EQ(t, r.String(), "chr1:10-20:+")
	_, err = New("chr1", 10, 5, Forward)
	expect.EQ(t, errors.Cause(err), interval.ErrInvalidWidth)
	_, err = New("chr1", 10, 20, Strand(3))
	expect.EQ(t, errors.Cause(err), ErrInvalidStrand)

	expect.True(t, r.EQ(gr("chr1", 10, 20, Forward)))
	expect.False(t, r.EQ(gr("chr1", 10, 20, Reverse)))
	expect.True(t, gr("chr1", 5, 6, Reverse).Compare(gr("chr2", 1, 2, Forward)) < 0)
	expect.True(t, gr("chr1", 5, 6, Forward).Compare(gr("chr1", 1, 2, Reverse)) < 0)
	expect.True(t, gr("chr1", 5, 6, Forward).Overlaps(gr("chr1", 6, 9, Unstranded)))
	expect.False(t, gr("chr1", 5, 6, Forward).Overlaps(gr("chr1", 6, 9, Reverse)))
	expect.False(t, gr("chr1", 5, 6, Forward).Overlaps(gr("chr2", 6, 9, Forward)))
}

func TestResizeStrand(t *testing.T) {
	tests := []struct {
		strand Strand
		fix    interval.Fix
		want   interval.Interval
	}{
		{Forward, interval.FixStart, interval.Interval{10, 14}},
		{Unstranded, interval.FixStart, interval.Interval{10, 14}},
		{Reverse, interval.FixStart, interval.Interval{16, 20}},
		{Forward, interval.FixEnd, interval.Interval{16, 20}},
		{Reverse, interval.FixEnd, interval.Interval{10, 14}},
		{Reverse, interval.FixCenter, interval.Interval{13, 17}},
	}
	for _, tt := range tests {
		got, err := gr("chr1", 10, 20, tt.strand).Resize(5, tt.fix)
		assert.NoError(t, err)
		expect.EQ(t, got.Interval, tt.want, "strand %v fix %v", tt.strand, tt.fix)
		expect.EQ(t, got.Strand, tt.strand)
	}
	_, err := gr("chr1", 10, 20, Forward).Resize(-2, interval.FixStart)
	expect.EQ(t, errors.Cause(err), interval.ErrInvalidWidth)
}

func TestFlankAndPromoters(t *testing.T) {
	fwd, rev := gr("chr1", 10, 20, Forward), gr("chr1", 10, 20, Reverse)
	for _, tt := range []struct {
		r        GenomicRange
		width    int
		upstream bool
		want     interval.Interval
	}{
		{fwd, 3, true, interval.Interval{7, 9}},
		{rev, 3, true, interval.Interval{21, 23}},
		{rev, 3, false, interval.Interval{7, 9}},
		{rev, -3, true, interval.Interval{18, 20}},
	} {
		got, err := tt.r.Flank(tt.width, tt.upstream, false)
		assert.NoError(t, err)
		expect.EQ(t, got.Interval, tt.want, "%v width %d upstream %v", tt.r, tt.width, tt.upstream)
	}
	_, err := rev.Flank(interval.PosTypeMax, true, false)
	expect.EQ(t, errors.Cause(err), interval.ErrInvalidWidth)

	p, err := fwd.Promoters(2, 3)
	assert.NoError(t, err)
	expect.EQ(t, p.Interval, interval.Interval{8, 12})
	p, err = rev.Promoters(2, 3)
	assert.NoError(t, err)
	expect.EQ(t, p.Interval, interval.Interval{18, 22})
	p, err = fwd.Promoters(0, 0)
	assert.NoError(t, err)
	expect.EQ(t, p.Interval, interval.Interval{10, 9})
	_, err = fwd.Promoters(-1, 0)
	expect.EQ(t, errors.Cause(err), interval.ErrInvalidWidth)
	// Results must stay within the PosType range.
	_, err = fwd.Promoters(1<<32+5, 0)
	expect.EQ(t, errors.Cause(err), interval.ErrInvalidWidth)
	_, err = rev.Promoters(interval.PosTypeMax, 3)
	expect.EQ(t, errors.Cause(err), interval.ErrInvalidWidth)
	_, err = fwd.Promoters(0, 1<<31)
	expect.EQ(t, errors.Cause(err), interval.ErrInvalidWidth)

	shifted, err := rev.Shift(-4)
	assert.NoError(t, err)
	expect.EQ(t, shifted.Interval, interval.Interval{6, 16})
	_, err = rev.Shift(interval.PosTypeMax - 15)
	expect.EQ(t, errors.Cause(err), interval.ErrInvalidWidth)
	_, err = rev.Shift(-(1 << 33))
	expect.EQ(t, errors.Cause(err), interval.ErrInvalidWidth)
}

func TestPairwise(t *testing.T) {
	a, b := gr("chr1", 1, 10, Forward), gr("chr1", 5, 20, Reverse)
	d, err := Distance(gr("chr1", 1, 5, Forward), gr("chr1", 10, 12, Forward))
	assert.NoError(t, err)
	expect.EQ(t, d, 4)

	r, err := PIntersect(a, b)
	assert.NoError(t, err)
	expect.EQ(t, r, gr("chr1", 5, 10, Unstranded))
	r, err = PIntersect(gr("chr1", 1, 3, Forward), gr("chr1", 10, 12, Forward))
	assert.NoError(t, err)
	expect.EQ(t, r, gr("chr1", 10, 9, Forward))
	expect.True(t, r.Empty())

	r, err = PUnion(gr("chr1", 1, 3, Forward), gr("chr1", 10, 12, Forward))
	assert.NoError(t, err)
	expect.EQ(t, r, gr("chr1", 1, 12, Forward))

	other := gr("chr2", 1, 10, Forward)
	_, err = Distance(a, other)
	expect.EQ(t, errors.Cause(err), ErrSeqNameMismatch)
	_, err = PIntersect(a, other)
	expect.EQ(t, errors.Cause(err), ErrSeqNameMismatch)
	_, err = PUnion(a, other)
	expect.EQ(t, errors.Cause(err), ErrSeqNameMismatch)
}

func TestAnnotatedRange(t *testing.T) {
	a := AnnotatedRange{GenomicRange: gr("chr1", 1, 10, Forward), Name: "x"}
	b := a.With("score", 3.0)
	_, ok := a.Get("score")
	expect.False(t, ok)
	v, ok := b.Get("score")
	expect.True(t, ok)
	expect.EQ(t, v, 3.0)
	c := b.With("score", 4.0)
	v, _ = b.Get("score")
	expect.EQ(t, v, 3.0)
	v, _ = c.Get("score")
	expect.EQ(t, v, 4.0)

	rs := Ranges{gr("chr1", 1, 2, Forward), gr("chr2", 3, 4, Reverse)}
	expect.True(t, Plain(Annotate(rs)).EQ(rs))
}
