package granges

import (
	"testing"

	"github.com/grailbio/granges/interval"
	"github.com/grailbio/testutil/expect"
)

var (
	overlapQuery = Ranges{
		gr("chr1", 1, 5, Forward),
		gr("chr1", 10, 12, Unstranded),
		gr("chr2", 1, 100, Forward),
		gr("chr1", 11, 11, Reverse),
	}
	overlapSubject = Ranges{
		gr("chr1", 3, 4, Reverse),
		gr("chr1", 5, 9, Forward),
		gr("chr1", 11, 20, Forward),
		gr("chr2", 50, 60, Reverse),
		gr("chr1", 11, 11, Unstranded),
	}
)

func TestFindOverlapsStrand(t *testing.T) {
	expect.EQ(t, FindOverlaps(overlapQuery, overlapSubject, DefaultOverlapOpts), []interval.Hit{
		{0, 1}, {1, 2}, {1, 4}, {3, 4}})
	expect.EQ(t, FindOverlaps(overlapQuery, overlapSubject, OverlapOpts{IgnoreStrand: true}), []interval.Hit{
		{0, 0}, {0, 1}, {1, 2}, {1, 4}, {2, 3}, {3, 2}, {3, 4}})
	expect.EQ(t, FindOverlaps(overlapQuery, overlapSubject, OverlapOpts{Type: interval.OverlapWithin, IgnoreStrand: true}), []interval.Hit{
		{3, 2}, {3, 4}})
	expect.EQ(t, FindOverlaps(overlapQuery, overlapSubject, OverlapOpts{Type: interval.OverlapEqual}), []interval.Hit{
		{3, 4}})
	expect.EQ(t, len(FindOverlaps(overlapQuery, nil, DefaultOverlapOpts)), 0)

	expect.EQ(t, CountOverlaps(overlapQuery, overlapSubject, DefaultOverlapOpts), []int{1, 2, 0, 1})
	expect.EQ(t, SubsetByOverlaps(overlapQuery, overlapSubject, DefaultOverlapOpts), Ranges{
		overlapQuery[0], overlapQuery[1], overlapQuery[3]})
}

func TestFindOverlapsZeroWidth(t *testing.T) {
	query := Ranges{gr("chr1", 5, 4, Forward)}
	subject := Ranges{gr("chr1", 1, 10, Forward), gr("chr1", 5, 4, Forward)}
	expect.EQ(t, len(FindOverlaps(query, subject, DefaultOverlapOpts)), 0)
	expect.EQ(t, len(FindOverlaps(subject, subject, DefaultOverlapOpts)), 1)
}

func TestNearestStrand(t *testing.T) {
	expect.EQ(t, Nearest(overlapQuery, overlapSubject, DefaultOpts), []int{1, 1, -1, 4})
	expect.EQ(t, DistanceToNearest(overlapQuery, overlapSubject, DefaultOpts), []int{0, 0, -1, 0})
	expect.EQ(t, Nearest(overlapQuery, overlapSubject, Opts{IgnoreStrand: true}), []int{0, 1, 3, 2})
	expect.EQ(t, DistanceToNearest(overlapQuery, overlapSubject, Opts{IgnoreStrand: true}), []int{0, 0, 49, 0})
	expect.EQ(t, Nearest(overlapQuery, nil, DefaultOpts), []int{-1, -1, -1, -1})
}
