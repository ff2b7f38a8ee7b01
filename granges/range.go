package granges

import (
	"fmt"
	"strings"

	"github.com/grailbio/granges/interval"
	"github.com/pkg/errors"
)

// ErrSeqNameMismatch is returned by pairwise operations given ranges on
// different sequences.
var ErrSeqNameMismatch = errors.New("sequence name mismatch")

// PosType is the coordinate type shared with package interval.
type PosType = interval.PosType

// GenomicRange is a closed 1-based interval on a named sequence.
type GenomicRange struct {
	SeqName string
	interval.Interval
	Strand Strand
}

// New returns the range [start, end] on seqName.  It fails like
// interval.New, or with ErrInvalidStrand.
func New(seqName string, start, end PosType, strand Strand) (GenomicRange, error) {
	if !strand.Valid() {
		return GenomicRange{}, errors.Wrapf(ErrInvalidStrand, "granges.New: strand %d", strand)
	}
	iv, err := interval.New(start, end)
	if err != nil {
		return GenomicRange{}, err
	}
	return GenomicRange{SeqName: seqName, Interval: iv, Strand: strand}, nil
}

// EQ returns true iff r and r1 agree on bounds, sequence name and strand.
func (r GenomicRange) EQ(r1 GenomicRange) bool {
	return r.SeqName == r1.SeqName && r.Interval.EQ(r1.Interval) && r.Strand == r1.Strand
}

// Compare orders ranges by (SeqName, Strand, Start, End).
func (r GenomicRange) Compare(r1 GenomicRange) int {
	if c := strings.Compare(r.SeqName, r1.SeqName); c != 0 {
		return c
	}
	if r.Strand != r1.Strand {
		return int(r.Strand) - int(r1.Strand)
	}
	return r.Interval.Compare(r1.Interval)
}

// Overlaps returns true iff r and r1 are on the same sequence, have
// compatible strands, and share at least one position.
func (r GenomicRange) Overlaps(r1 GenomicRange) bool {
	return r.SeqName == r1.SeqName && r.Strand.Compatible(r1.Strand) && r.Interval.Overlaps(r1.Interval)
}

// String returns "seqname:start-end:strand".
func (r GenomicRange) String() string {
	return fmt.Sprintf("%s:%d-%d:%v", r.SeqName, r.Start, r.End, r.Strand)
}

// Resize returns a range of the given width holding the fix anchor in place.
// FixStart anchors the 5' end, which is End on the reverse strand.  It fails
// with interval.ErrInvalidWidth if width < 0 or the result leaves the PosType
// range.
func (r GenomicRange) Resize(width int, fix interval.Fix) (GenomicRange, error) {
	switch r.Strand {
	case Forward, Unstranded:
	case Reverse:
		switch fix {
		case interval.FixStart:
			fix = interval.FixEnd
		case interval.FixEnd:
			fix = interval.FixStart
		}
	default:
		panic(fmt.Sprintf("granges.Resize: invalid strand %d", r.Strand))
	}
	iv, err := interval.Resize(r.Interval, width, fix)
	if err != nil {
		return GenomicRange{}, errors.Wrapf(err, "granges.Resize %v", r)
	}
	r.Interval = iv
	return r, nil
}

// Flank returns the range of the given width adjacent to r, outside it.
// upstream selects the 5' side, which is the high-coordinate side on the
// reverse strand.  See interval.Flank for the meaning of negative widths and
// both.
func (r GenomicRange) Flank(width int, upstream, both bool) (GenomicRange, error) {
	start := upstream
	switch r.Strand {
	case Forward, Unstranded:
	case Reverse:
		start = !upstream
	default:
		panic(fmt.Sprintf("granges.Flank: invalid strand %d", r.Strand))
	}
	iv, err := interval.Flank(r.Interval, width, start, both)
	if err != nil {
		return GenomicRange{}, errors.Wrapf(err, "granges.Flank %v", r)
	}
	r.Interval = iv
	return r, nil
}

// Promoters returns the range extending upstream positions 5' of r's 5' end
// and downstream positions from it (including it).  It fails with
// interval.ErrInvalidWidth if either argument is negative, or if the result
// doesn't fit in the PosType range.
func (r GenomicRange) Promoters(upstream, downstream int) (GenomicRange, error) {
	if upstream < 0 || downstream < 0 {
		return GenomicRange{}, errors.Wrapf(interval.ErrInvalidWidth, "granges.Promoters: upstream %d, downstream %d", upstream, downstream)
	}
	var (
		anchor interval.Interval
		shift  = -upstream
		fix    = interval.FixStart
	)
	switch r.Strand {
	case Forward, Unstranded:
		anchor = interval.Interval{Start: r.Start, End: r.Start}
	case Reverse:
		anchor = interval.Interval{Start: r.End, End: r.End}
		shift, fix = upstream, interval.FixEnd
	default:
		panic(fmt.Sprintf("granges.Promoters: invalid strand %d", r.Strand))
	}
	anchor, err := anchor.Shift(shift)
	if err != nil {
		return GenomicRange{}, errors.Wrapf(err, "granges.Promoters %v", r)
	}
	iv, err := interval.Resize(anchor, upstream+downstream, fix)
	if err != nil {
		return GenomicRange{}, errors.Wrapf(err, "granges.Promoters %v", r)
	}
	r.Interval = iv
	return r, nil
}

// Shift returns r moved n positions toward higher coordinates.  Shift does
// not depend on strand.  It fails with interval.ErrInvalidWidth if a bound
// would leave the PosType range.
func (r GenomicRange) Shift(n int) (GenomicRange, error) {
	iv, err := r.Interval.Shift(n)
	if err != nil {
		return GenomicRange{}, errors.Wrapf(err, "granges.Shift %v", r)
	}
	r.Interval = iv
	return r, nil
}

func checkSeqNames(op string, r, r1 GenomicRange) error {
	if r.SeqName != r1.SeqName {
		return errors.Wrapf(ErrSeqNameMismatch, "%s: %s vs %s", op, r.SeqName, r1.SeqName)
	}
	return nil
}

// Distance returns the number of positions strictly between r and r1; see
// interval.Distance.  It fails with ErrSeqNameMismatch if the ranges are on
// different sequences.
func Distance(r, r1 GenomicRange) (int, error) {
	if err := checkSeqNames("granges.Distance", r, r1); err != nil {
		return -1, err
	}
	return interval.Distance(r.Interval, r1.Interval), nil
}

// mergeStrand returns the strand of a range derived from r and r1.
func mergeStrand(s, s1 Strand) Strand {
	if s == s1 {
		return s
	}
	return Unstranded
}

// PIntersect returns the intersection of r and r1.  Disjoint ranges yield a
// zero-width range positioned just before the later Start.  It fails with
// ErrSeqNameMismatch if the ranges are on different sequences.
func PIntersect(r, r1 GenomicRange) (GenomicRange, error) {
	if err := checkSeqNames("granges.PIntersect", r, r1); err != nil {
		return GenomicRange{}, err
	}
	start, end := r.Start, r.End
	if r1.Start > start {
		start = r1.Start
	}
	if r1.End < end {
		end = r1.End
	}
	if end < start-1 {
		end = start - 1
	}
	return GenomicRange{SeqName: r.SeqName, Interval: interval.Interval{Start: start, End: end}, Strand: mergeStrand(r.Strand, r1.Strand)}, nil
}

// PUnion returns the smallest range covering both r and r1, including any
// gap between them.  It fails with ErrSeqNameMismatch if the ranges are on
// different sequences.
func PUnion(r, r1 GenomicRange) (GenomicRange, error) {
	if err := checkSeqNames("granges.PUnion", r, r1); err != nil {
		return GenomicRange{}, err
	}
	span := interval.Range(interval.Set{r.Interval, r1.Interval})[0]
	return GenomicRange{SeqName: r.SeqName, Interval: span, Strand: mergeStrand(r.Strand, r1.Strand)}, nil
}

// AnnotatedRange is a GenomicRange with an optional name and arbitrary
// metadata.
type AnnotatedRange struct {
	GenomicRange
	Name string
	Meta map[string]interface{}
}

// Annotate wraps every member of rs in an AnnotatedRange with no metadata.
func Annotate(rs Ranges) []AnnotatedRange {
	r := make([]AnnotatedRange, len(rs))
	for i := range rs {
		r[i].GenomicRange = rs[i]
	}
	return r
}

// Plain strips the annotations from rs.
func Plain(rs []AnnotatedRange) Ranges {
	r := make(Ranges, len(rs))
	for i := range rs {
		r[i] = rs[i].GenomicRange
	}
	return r
}

// Get returns the metadata value stored under key.
func (a AnnotatedRange) Get(key string) (interface{}, bool) {
	v, ok := a.Meta[key]
	return v, ok
}

// With returns a copy of a with key set to value.  a itself is unchanged.
func (a AnnotatedRange) With(key string, value interface{}) AnnotatedRange {
	meta := make(map[string]interface{}, len(a.Meta)+1)
	for k, v := range a.Meta {
		meta[k] = v
	}
	meta[key] = value
	a.Meta = meta
	return a
}
