// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package dna implements operations on ASCII nucleotide sequences:
// IUPAC-aware reverse complement, translation with the standard genetic
// code, symbol and k-mer frequency tables, and sequence cleaning.
//
// Functions with an "Inplace" suffix modify their argument.  All other
// functions leave their inputs untouched.
package dna
