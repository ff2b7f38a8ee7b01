// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dna_test

import (
	"math/rand"
	"testing"

	"github.com/grailbio/granges/dna"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
)

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"ACG", "CGT"},
		{"acgT", "Acgt"},
		{"ACGTRYKMBVDHSWN-", "-NWSDHBVKMRYACGT"},
	}
	for _, tt := range tests {
		got, err := dna.ReverseComplementString(tt.in)
		assert.NoError(t, err, tt.in)
		expect.EQ(t, got, tt.want, tt.in)
		orig, err := dna.ReverseComplementString(got)
		assert.NoError(t, err, tt.in)
		expect.EQ(t, orig, tt.in)
	}

	comp, err := dna.Complement([]byte("AcGt"))
	assert.NoError(t, err)
	expect.EQ(t, string(comp), "TgCa")

	seq := []byte("ACXG")
	err = dna.ReverseComplementInplace(seq)
	expect.True(t, errors.Cause(err) == dna.ErrInvalidSymbol, err)
	expect.EQ(t, string(seq), "ACXG")
	_, err = dna.ReverseComplementString("AC GT")
	expect.True(t, errors.Cause(err) == dna.ErrInvalidSymbol, err)
}

func TestReverseComplementRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for iter := 0; iter < 200; iter++ {
		seq := make([]byte, r.Intn(300))
		for i := range seq {
			seq[i] = "ACGT"[r.Intn(4)]
		}
		rc, err := dna.ReverseComplement(seq)
		assert.NoError(t, err)
		back, err := dna.ReverseComplement(rc)
		assert.NoError(t, err)
		expect.EQ(t, string(back), string(seq))
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"ATGAAATAG", "MK*"},
		{"atgaaatag", "MK*"},
		{"AUGUUU", "MF"},
		{"ATGA", "M"},
		{"ATGAA", "M"},
		{"GCN", "A"},
		{"TTR", "L"},
		{"RAY", "X"},
		{"NNN", "X"},
		{"TGGTAATGA", "W**"},
	}
	for _, tt := range tests {
		got, err := dna.TranslateString(tt.in, dna.DefaultTranslateOpts)
		assert.NoError(t, err, tt.in)
		expect.EQ(t, got, tt.want, tt.in)
	}

	_, err := dna.TranslateString("ATGA", dna.TranslateOpts{StrictLength: true})
	expect.True(t, errors.Cause(err) == dna.ErrPartialCodon, err)
	got, err := dna.TranslateString("ATGAAA", dna.TranslateOpts{StrictLength: true})
	assert.NoError(t, err)
	expect.EQ(t, got, "MK")

	for _, bad := range []string{"AT-", "ATX", "AT G"} {
		_, err = dna.TranslateString(bad, dna.DefaultTranslateOpts)
		expect.True(t, errors.Cause(err) == dna.ErrInvalidSymbol, bad, err)
	}
}

func TestFrequency(t *testing.T) {
	expect.EQ(t, dna.Frequency([]byte("ACgtNaa")), dna.FrequencyTable{"A": 3, "C": 1, "G": 1, "T": 1, "N": 1})
	expect.EQ(t, dna.Frequency(nil), dna.FrequencyTable{})
}

func TestKmerFrequency(t *testing.T) {
	got, err := dna.KmerFrequency([]byte("ACGTNACG"), 2)
	assert.NoError(t, err)
	expect.EQ(t, got, dna.FrequencyTable{"AC": 2, "CG": 2, "GT": 1})

	got, err = dna.KmerFrequency([]byte("acgtacgt"), 4)
	assert.NoError(t, err)
	expect.EQ(t, got, dna.FrequencyTable{"ACGT": 2, "CGTA": 1, "GTAC": 1, "TACG": 1})

	got, err = dna.KmerFrequency([]byte("ACG"), 4)
	assert.NoError(t, err)
	expect.EQ(t, len(got), 0)

	long := make([]byte, 40)
	for i := range long {
		long[i] = "ACGT"[i%4]
	}
	got, err = dna.KmerFrequency(long, dna.MaxK)
	assert.NoError(t, err)
	expect.EQ(t, got[string(long[:32])], 3)
	expect.EQ(t, got[string(long[1:33])], 2)

	for _, k := range []int{0, -1, dna.MaxK + 1} {
		_, err = dna.KmerFrequency([]byte("ACGT"), k)
		expect.True(t, errors.Cause(err) == dna.ErrInvalidK, k)
	}
}

func TestClean(t *testing.T) {
	seq := []byte("acgtNnxR-T")
	dna.CleanInplace(seq)
	expect.EQ(t, string(seq), "ACGTNNNNNT")
	dna.HardMaskInplace(seq[2:5])
	expect.EQ(t, string(seq), "ACNNNNNNNT")
}
