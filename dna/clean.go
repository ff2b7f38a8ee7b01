// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dna

var cleanTable [256]byte

func init() {
	for i := range cleanTable {
		cleanTable[i] = 'N'
	}
	for _, c := range []byte("ACGT") {
		cleanTable[c] = c
		cleanTable[c|0x20] = c
	}
}

// CleanInplace capitalizes 'a'/'c'/'g'/'t', and replaces everything non-ACGT
// with 'N'.
func CleanInplace(seq []byte) {
	for pos, c := range seq {
		seq[pos] = cleanTable[c]
	}
}

// HardMaskInplace replaces every byte of seq with 'N'.
func HardMaskInplace(seq []byte) {
	for pos := range seq {
		seq[pos] = 'N'
	}
}
