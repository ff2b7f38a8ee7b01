// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dna

import (
	"github.com/grailbio/base/simd"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/pkg/errors"
)

// ErrInvalidSymbol is returned when a sequence contains a byte outside the
// accepted alphabet.
var ErrInvalidSymbol = errors.New("invalid nucleotide symbol")

// complementTable maps each IUPAC symbol (either case) and the gap character
// to its complement, and everything else to 0.
var complementTable [256]byte

func init() {
	for _, pair := range []string{"AT", "CG", "RY", "KM", "BV", "DH", "SS", "WW", "NN"} {
		a, b := pair[0], pair[1]
		complementTable[a], complementTable[b] = b, a
		complementTable[a|0x20], complementTable[b|0x20] = b|0x20, a|0x20
	}
	complementTable['-'] = '-'
}

// validateComplement returns a wrapped ErrInvalidSymbol naming the first byte
// of seq without a complement.
func validateComplement(seq []byte) error {
	for i, c := range seq {
		if complementTable[c] == 0 {
			return errors.Wrapf(ErrInvalidSymbol, "dna: %q at position %d", c, i)
		}
	}
	return nil
}

// ComplementInplace complements every symbol of seq, preserving case.  On
// error seq is left unchanged.
func ComplementInplace(seq []byte) error {
	if err := validateComplement(seq); err != nil {
		return err
	}
	for i, c := range seq {
		seq[i] = complementTable[c]
	}
	return nil
}

// ReverseComplementInplace reverse-complements seq, preserving case.  It
// accepts the IUPAC nucleotide codes and '-'.  On error seq is left
// unchanged.
func ReverseComplementInplace(seq []byte) error {
	if err := validateComplement(seq); err != nil {
		return err
	}
	simd.Reverse8Inplace(seq)
	for i, c := range seq {
		seq[i] = complementTable[c]
	}
	return nil
}

// ReverseComplement returns the reverse complement of seq in a new slice.
func ReverseComplement(seq []byte) ([]byte, error) {
	out := append([]byte(nil), seq...)
	if err := ReverseComplementInplace(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Complement returns the complement of seq in a new slice.
func Complement(seq []byte) ([]byte, error) {
	out := append([]byte(nil), seq...)
	if err := ComplementInplace(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReverseComplementString is the string version of ReverseComplement.
func ReverseComplementString(seq string) (string, error) {
	out, err := ReverseComplement(gunsafe.StringToBytes(seq))
	if err != nil {
		return "", err
	}
	return gunsafe.BytesToString(out), nil
}
