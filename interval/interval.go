package interval

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// ErrInvalidWidth is returned when an interval would end up with a negative
// width, or when parallel coordinate slices disagree in length.
var ErrInvalidWidth = errors.New("invalid interval width")

// Interval is a closed 1-based range [Start, End].  End == Start-1 denotes a
// zero-width interval.  Intervals are values; operations never modify their
// receiver.
type Interval struct {
	Start PosType
	End   PosType
}

// New returns the interval [start, end].  It fails with ErrInvalidWidth if
// end < start-1, or if end+1 doesn't fit in a PosType.
func New(start, end PosType) (Interval, error) {
	if end < start-1 {
		return Interval{}, errors.Wrapf(ErrInvalidWidth, "interval.New: [%d, %d]", start, end)
	}
	if end >= PosTypeMax {
		return Interval{}, errors.Wrapf(ErrInvalidWidth, "interval.New: end %d exceeds %d", end, PosTypeMax-1)
	}
	return Interval{Start: start, End: end}, nil
}

// FromWidth returns the interval starting at start and covering width
// positions.
func FromWidth(start PosType, width int) (Interval, error) {
	if width < 0 {
		return Interval{}, errors.Wrapf(ErrInvalidWidth, "interval.FromWidth: width %d", width)
	}
	if err := checkSpan("interval.FromWidth", width); err != nil {
		return Interval{}, err
	}
	return fromBounds("interval.FromWidth", int64(start), int64(start)+int64(width)-1)
}

// maxSpan bounds widths and shifts, so that coordinate arithmetic in int64
// can't overflow.
const maxSpan = int64(PosTypeMax) - int64(PosTypeMin)

// checkSpan fails with ErrInvalidWidth if |n| exceeds maxSpan.
func checkSpan(op string, n int) error {
	if int64(n) > maxSpan || int64(n) < -maxSpan {
		return errors.Wrapf(ErrInvalidWidth, "%s: %d out of range", op, n)
	}
	return nil
}

// fromBounds returns [start, end].  It fails with ErrInvalidWidth unless End
// lies in [PosTypeMin, PosTypeMax-1] and Start in [PosTypeMin+1, PosTypeMax],
// so that the result is representable and End+1 doesn't overflow.
func fromBounds(op string, start, end int64) (Interval, error) {
	if start <= PosTypeMin || start > PosTypeMax || end < PosTypeMin || end >= PosTypeMax {
		return Interval{}, errors.Wrapf(ErrInvalidWidth, "%s: [%d, %d] out of range", op, start, end)
	}
	if end < start-1 {
		return Interval{}, errors.Wrapf(ErrInvalidWidth, "%s: [%d, %d]", op, start, end)
	}
	return Interval{Start: PosType(start), End: PosType(end)}, nil
}

// Width returns End - Start + 1.
func (iv Interval) Width() int {
	return int(iv.End-iv.Start) + 1
}

// Empty returns whether the interval has zero width.
func (iv Interval) Empty() bool {
	return iv.End < iv.Start
}

// EQ returns true iff iv and iv1 have the same bounds.
func (iv Interval) EQ(iv1 Interval) bool {
	return iv.Start == iv1.Start && iv.End == iv1.End
}

// Compare returns (negative int, 0, positive int) if (iv<iv1, iv=iv1, iv>iv1)
// respectively, ordering by Start and then End.
func (iv Interval) Compare(iv1 Interval) int {
	if iv.Start != iv1.Start {
		return int(iv.Start) - int(iv1.Start)
	}
	return int(iv.End) - int(iv1.End)
}

// Overlaps returns true iff iv and iv1 share at least one position.
func (iv Interval) Overlaps(iv1 Interval) bool {
	if iv.Empty() || iv1.Empty() {
		return false
	}
	return iv.Start <= iv1.End && iv.End >= iv1.Start
}

// Within returns true iff every position of iv is inside iv1.
func (iv Interval) Within(iv1 Interval) bool {
	return iv.Start >= iv1.Start && iv.End <= iv1.End
}

// Shift returns iv moved by n positions.  It fails with ErrInvalidWidth if a
// bound would leave the PosType range.
func (iv Interval) Shift(n int) (Interval, error) {
	if err := checkSpan("interval.Shift", n); err != nil {
		return Interval{}, err
	}
	return fromBounds("interval.Shift", int64(iv.Start)+int64(n), int64(iv.End)+int64(n))
}

// Distance returns the number of positions strictly between iv and iv1.
// Overlapping and adjacent intervals are at distance zero.
func Distance(iv, iv1 Interval) int {
	var d int
	if iv.End < iv1.Start {
		d = int(iv1.Start) - int(iv.End) - 1
	} else {
		d = int(iv.Start) - int(iv1.End) - 1
	}
	if d < 0 {
		return 0
	}
	return d
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d]", iv.Start, iv.End)
}

// Set is an ordered collection of intervals.  Order may be significant (e.g.
// it lines up with an external index), and duplicates are allowed.  The
// normalizing operators in this package return sets sorted by Start with no
// two members overlapping or touching.
type Set []Interval

// NewSet constructs a Set from parallel start and end slices.
func NewSet(starts, ends []PosType) (Set, error) {
	if len(starts) != len(ends) {
		return nil, errors.Wrapf(ErrInvalidWidth, "interval.NewSet: %d starts, %d ends", len(starts), len(ends))
	}
	s := make(Set, len(starts))
	for i := range starts {
		iv, err := New(starts[i], ends[i])
		if err != nil {
			return nil, err
		}
		s[i] = iv
	}
	return s, nil
}

// NewSetFromWidths constructs a Set from parallel start and width slices.
func NewSetFromWidths(starts []PosType, widths []int) (Set, error) {
	if len(starts) != len(widths) {
		return nil, errors.Wrapf(ErrInvalidWidth, "interval.NewSetFromWidths: %d starts, %d widths", len(starts), len(widths))
	}
	s := make(Set, len(starts))
	for i := range starts {
		iv, err := FromWidth(starts[i], widths[i])
		if err != nil {
			return nil, err
		}
		s[i] = iv
	}
	return s, nil
}

// Starts returns the Start of every member.
func (s Set) Starts() []PosType {
	r := make([]PosType, len(s))
	for i, iv := range s {
		r[i] = iv.Start
	}
	return r
}

// Ends returns the End of every member.
func (s Set) Ends() []PosType {
	r := make([]PosType, len(s))
	for i, iv := range s {
		r[i] = iv.End
	}
	return r
}

// Widths returns the Width of every member.
func (s Set) Widths() []int {
	r := make([]int, len(s))
	for i, iv := range s {
		r[i] = iv.Width()
	}
	return r
}

// EQ returns true iff s and s1 have identical members in identical order.
func (s Set) EQ(s1 Set) bool {
	if len(s) != len(s1) {
		return false
	}
	for i := range s {
		if !s[i].EQ(s1[i]) {
			return false
		}
	}
	return true
}

// Sorted returns a copy of s ordered by (Start, End).  Ties keep their
// original relative order.
func (s Set) Sorted() Set {
	r := append(Set(nil), s...)
	sort.SliceStable(r, func(i, j int) bool { return r[i].Compare(r[j]) < 0 })
	return r
}
