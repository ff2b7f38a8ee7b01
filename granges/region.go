package granges

import (
	"strconv"
	"strings"

	"github.com/grailbio/granges/interval"
	"github.com/pkg/errors"
)

// ParseRegion parses a region string of one of the forms
//   [seqname]:[1-based first pos]-[last pos]
//   [seqname]:[1-based pos]
//   [seqname]
// optionally followed by ":+", ":-" or ":*".  A bare seqname covers
// [1, PosTypeMax - 1].  ParseRegion accepts the output of
// GenomicRange.String.
func ParseRegion(region string) (GenomicRange, error) {
	var result GenomicRange
	if len(region) == 0 {
		return result, errors.New("granges.ParseRegion: empty region string")
	}
	if colonPos := strings.LastIndexByte(region, ':'); colonPos != -1 {
		if strand, err := ParseStrand(region[colonPos+1:]); err == nil && colonPos+1 < len(region) {
			result.Strand = strand
			region = region[:colonPos]
		}
	}
	colonPos := strings.LastIndexByte(region, ':')
	if colonPos == -1 {
		result.SeqName = region
		result.Interval = interval.Interval{Start: 1, End: interval.PosTypeMax - 1}
		return result, nil
	}
	if colonPos == 0 {
		return result, errors.Errorf("granges.ParseRegion: empty seqname in %q", region)
	}
	result.SeqName = region[:colonPos]
	rangeStr := region[colonPos+1:]
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		pos, err := parsePos(rangeStr, 1)
		if err != nil {
			return result, err
		}
		result.Interval = interval.Interval{Start: pos, End: pos}
		return result, nil
	}
	start, err := parsePos(rangeStr[:dashPos], 1)
	if err != nil {
		return result, err
	}
	// end may be start-1, which is 0 for a zero-width range at 1.
	end, err := parsePos(rangeStr[dashPos+1:], 0)
	if err != nil {
		return result, err
	}
	if end < start-1 {
		return result, errors.Wrapf(interval.ErrInvalidWidth, "granges.ParseRegion: invalid range %q", rangeStr)
	}
	result.Interval = interval.Interval{Start: start, End: end}
	return result, nil
}

// parsePos parses a position in [min, PosTypeMax).
func parsePos(s string, min int64) (PosType, error) {
	pos, err := strconv.ParseInt(strings.Replace(s, ",", "", -1), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "granges.ParseRegion: position %q", s)
	}
	if pos < min || pos >= int64(interval.PosTypeMax) {
		return 0, errors.Errorf("granges.ParseRegion: position %v out of range", s)
	}
	return PosType(pos), nil
}
