// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dna

import (
	"github.com/pkg/errors"
)

// ErrInvalidK is returned by KmerFrequency for k outside [1, MaxK].
var ErrInvalidK = errors.New("invalid k-mer length")

// MaxK is the longest k-mer KmerFrequency can count, since k-mers are packed
// two bits per base into a uint64.
const MaxK = 32

// FrequencyTable maps a symbol or k-mer to its number of occurrences.
type FrequencyTable map[string]int

// Frequency counts the symbols of seq.  Lowercase letters are counted as
// their uppercase form.
func Frequency(seq []byte) FrequencyTable {
	var counts [256]int
	for _, c := range seq {
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		counts[c]++
	}
	t := make(FrequencyTable)
	for c, n := range counts {
		if n > 0 {
			t[string([]byte{byte(c)})] = n
		}
	}
	return t
}

const invalidKmerBits = uint8(255)

var asciiToKmerBits [256]uint8

func init() {
	for i := range asciiToKmerBits {
		asciiToKmerBits[i] = invalidKmerBits
	}
	for i, c := range []byte("ACGT") {
		asciiToKmerBits[c] = uint8(i)
		asciiToKmerBits[c|0x20] = uint8(i)
	}
}

// Kmer is a compact encoding of a sequence of ACGT, up to 32 bases, with the
// first base in the most significant bits.
type Kmer uint64

// String decodes the k-mer given its length.
func (km Kmer) String(k int) string {
	buf := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		buf[i] = "ACGT"[km&3]
		km >>= 2
	}
	return string(buf)
}

// KmerCounts counts the k-mers of seq in their packed form.  Windows
// containing a symbol other than ACGT (either case) are skipped.
func KmerCounts(seq []byte, k int) (map[Kmer]int, error) {
	if k < 1 || k > MaxK {
		return nil, errors.Wrapf(ErrInvalidK, "dna.KmerCounts: k=%d", k)
	}
	var (
		counts = make(map[Kmer]int)
		mask   = ^(^Kmer(0) << uint(2*k))
		km     Kmer
		run    int // number of consecutive valid bases ending at the current one
	)
	if k == MaxK {
		mask = ^Kmer(0)
	}
	for _, c := range seq {
		bits := asciiToKmerBits[c]
		if bits == invalidKmerBits {
			run = 0
			km = 0
			continue
		}
		km = ((km << 2) | Kmer(bits)) & mask
		if run++; run >= k {
			counts[km]++
		}
	}
	return counts, nil
}

// KmerFrequency counts the k-mers of seq, keyed by their uppercase spelling.
// Windows containing a symbol other than ACGT are skipped.  It fails with
// ErrInvalidK unless 1 <= k <= MaxK.
func KmerFrequency(seq []byte, k int) (FrequencyTable, error) {
	counts, err := KmerCounts(seq, k)
	if err != nil {
		return nil, err
	}
	t := make(FrequencyTable, len(counts))
	for km, n := range counts {
		t[km.String(k)] = n
	}
	return t, nil
}
