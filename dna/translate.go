// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dna

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrPartialCodon is returned by Translate when StrictLength is set and the
// sequence length is not a multiple of three.
var ErrPartialCodon = errors.New("sequence length is not a multiple of 3")

// StopCodon is the amino acid symbol emitted for stop codons.
const StopCodon = '*'

// AmbiguousAminoAcid is emitted for codons whose IUPAC resolutions
// translate to more than one amino acid.
const AmbiguousAminoAcid = 'X'

// TranslateOpts controls Translate.
type TranslateOpts struct {
	// StrictLength makes a trailing partial codon an error instead of being
	// dropped.
	StrictLength bool
}

// DefaultTranslateOpts drops trailing partial codons.
var DefaultTranslateOpts = TranslateOpts{}

// standardCode lists the amino acids of the standard genetic code, with codons
// ordered by base T, C, A, G at each position.
const standardCode = "FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG"

// baseBits maps each IUPAC symbol to the set of bases it stands for, as a
// bitmask over T=1, C=2, A=4, G=8.  U is read as T.  Zero marks an invalid
// symbol.
var baseBits [256]uint8

func init() {
	for sym, bases := range map[byte]string{
		'A': "A", 'C': "C", 'G': "G", 'T': "T", 'U': "T",
		'R': "AG", 'Y': "CT", 'S': "CG", 'W': "AT", 'K': "GT", 'M': "AC",
		'B': "CGT", 'D': "AGT", 'H': "ACT", 'V': "ACG", 'N': "ACGT",
	} {
		var bits uint8
		for i := 0; i < len(bases); i++ {
			bits |= 1 << uint(strings.IndexByte("TCAG", bases[i]))
		}
		baseBits[sym] = bits
		baseBits[sym|0x20] = bits
	}
}

// translateCodon returns the amino acid for the three symbols at codon.
func translateCodon(codon []byte) byte {
	var aa byte
	for b0 := uint(0); b0 < 4; b0++ {
		if baseBits[codon[0]]&(1<<b0) == 0 {
			continue
		}
		for b1 := uint(0); b1 < 4; b1++ {
			if baseBits[codon[1]]&(1<<b1) == 0 {
				continue
			}
			for b2 := uint(0); b2 < 4; b2++ {
				if baseBits[codon[2]]&(1<<b2) == 0 {
					continue
				}
				cur := standardCode[b0*16+b1*4+b2]
				if aa == 0 {
					aa = cur
				} else if aa != cur {
					return AmbiguousAminoAcid
				}
			}
		}
	}
	return aa
}

// Translate translates seq with the standard genetic code, reading codons
// from the first base.  Stop codons become '*'.  Codons containing IUPAC
// ambiguity codes translate to the common amino acid of all their
// resolutions, or 'X' if the resolutions disagree.  A trailing partial codon
// is dropped unless opts.StrictLength is set.
func Translate(seq []byte, opts TranslateOpts) (string, error) {
	for i, c := range seq {
		if baseBits[c] == 0 {
			return "", errors.Wrapf(ErrInvalidSymbol, "dna.Translate: %q at position %d", c, i)
		}
	}
	if rem := len(seq) % 3; rem != 0 && opts.StrictLength {
		return "", errors.Wrapf(ErrPartialCodon, "dna.Translate: length %d", len(seq))
	}
	nCodon := len(seq) / 3
	out := make([]byte, nCodon)
	for i := range out {
		out[i] = translateCodon(seq[3*i : 3*i+3])
	}
	return string(out), nil
}

// TranslateString is the string version of Translate.
func TranslateString(seq string, opts TranslateOpts) (string, error) {
	return Translate([]byte(seq), opts)
}
