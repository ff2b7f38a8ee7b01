package interval

import (
	"fmt"

	"github.com/pkg/errors"
)

// Fix names the anchor that Resize holds in place.
type Fix int

const (
	// FixStart keeps Start.
	FixStart Fix = iota
	// FixEnd keeps End.
	FixEnd
	// FixCenter keeps the midpoint; when the width change is odd, the new
	// Start is rounded down.
	FixCenter
)

// ParseFix parses "start", "end" or "center".
func ParseFix(s string) (Fix, error) {
	switch s {
	case "start":
		return FixStart, nil
	case "end":
		return FixEnd, nil
	case "center":
		return FixCenter, nil
	}
	return FixStart, fmt.Errorf("interval.ParseFix: unknown anchor %q", s)
}

func (f Fix) String() string {
	switch f {
	case FixStart:
		return "start"
	case FixEnd:
		return "end"
	case FixCenter:
		return "center"
	}
	return fmt.Sprintf("Fix(%d)", int(f))
}

// floorDiv2 rounds toward negative infinity.
func floorDiv2(x int64) int64 {
	if x < 0 {
		return -((-x + 1) / 2)
	}
	return x / 2
}

// Resize returns an interval of the given width, holding the fix anchor of iv
// in place.  It fails with ErrInvalidWidth if width < 0, or if the result
// doesn't fit in the PosType range.
func Resize(iv Interval, width int, fix Fix) (Interval, error) {
	if width < 0 {
		return Interval{}, errors.Wrapf(ErrInvalidWidth, "interval.Resize: width %d", width)
	}
	if err := checkSpan("interval.Resize", width); err != nil {
		return Interval{}, err
	}
	w := int64(width)
	var start int64
	switch fix {
	case FixStart:
		start = int64(iv.Start)
	case FixEnd:
		start = int64(iv.End) - w + 1
	case FixCenter:
		start = int64(iv.Start) + floorDiv2(int64(iv.Width())-w)
	default:
		panic(fmt.Sprintf("interval.Resize: invalid anchor %d", fix))
	}
	return fromBounds("interval.Resize", start, start+w-1)
}

// Flank returns the interval of the given width adjacent to iv, outside it.
// If start is true the flank sits before Start, otherwise after End.  A
// negative width selects |width| positions just inside iv instead.  If both
// is true, the result straddles the anchor, extending |width| positions on
// each side of it.  It fails with ErrInvalidWidth if the result doesn't fit
// in the PosType range.
func Flank(iv Interval, width int, start, both bool) (Interval, error) {
	if err := checkSpan("interval.Flank", width); err != nil {
		return Interval{}, err
	}
	var (
		w      = int64(width)
		s, e   = int64(iv.Start), int64(iv.End)
		lo, hi int64
	)
	switch {
	case both:
		if w < 0 {
			w = -w
		}
		if start {
			lo, hi = s-w, s+w-1
		} else {
			lo, hi = e-w+1, e+w
		}
	case start && w >= 0:
		lo, hi = s-w, s-1
	case start:
		lo, hi = s, s-w-1
	case w >= 0:
		lo, hi = e+1, e+w
	default:
		lo, hi = e+w+1, e
	}
	return fromBounds("interval.Flank", lo, hi)
}

// Narrow returns the sub-interval of iv covering its relative positions
// [start, end], where 1 is iv.Start.  It fails with ErrInvalidWidth unless
// 1 <= start <= end+1 <= iv.Width()+1.
func Narrow(iv Interval, start, end int) (Interval, error) {
	if start < 1 || end < start-1 || end > iv.Width() {
		return Interval{}, errors.Wrapf(ErrInvalidWidth, "interval.Narrow: [%d, %d] in %v", start, end, iv)
	}
	return Interval{Start: iv.Start + PosType(start-1), End: iv.Start + PosType(end-1)}, nil
}
