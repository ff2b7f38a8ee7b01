package granges

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidStrand is returned when a strand string can't be parsed.
var ErrInvalidStrand = errors.New("invalid strand")

// Strand describes the orientation of a range.
type Strand uint8

const (
	// Unstranded means no orientation; it is compatible with both strands.
	Unstranded Strand = iota
	// Forward means the 5' end is at Start.
	Forward
	// Reverse means the 5' end is at End.
	Reverse
)

// strandToASCIITable is the Strand -> ASCII mapping.
var strandToASCIITable = [...]byte{'*', '+', '-'}

// ParseStrand parses "+", "-", "*" or ".".  The empty string is treated as
// Unstranded.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return Forward, nil
	case "-":
		return Reverse, nil
	case "*", ".", "":
		return Unstranded, nil
	}
	return Unstranded, errors.Wrapf(ErrInvalidStrand, "granges.ParseStrand: %q", s)
}

// Valid returns whether s is one of the three defined strands.
func (s Strand) Valid() bool {
	return s <= Reverse
}

// Byte returns the single-character representation of s.
func (s Strand) Byte() byte {
	if !s.Valid() {
		panic(fmt.Sprintf("granges: invalid strand %d", s))
	}
	return strandToASCIITable[s]
}

func (s Strand) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Strand(%d)", uint8(s))
	}
	return string(strandToASCIITable[s])
}

// Compatible returns whether ranges on s and s1 may interact in overlap and
// nearest-neighbor queries.  Unstranded is compatible with everything.
func (s Strand) Compatible(s1 Strand) bool {
	return s == Unstranded || s1 == Unstranded || s == s1
}

// Flip returns the opposite strand.  Unstranded stays Unstranded.
func (s Strand) Flip() Strand {
	switch s {
	case Unstranded:
		return Unstranded
	case Forward:
		return Reverse
	case Reverse:
		return Forward
	}
	panic(fmt.Sprintf("granges: invalid strand %d", s))
}
