// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/granges/dna"
	"github.com/grailbio/granges/genome"
	"github.com/grailbio/granges/granges"
)

type seqOpts struct {
	in       inputOpts
	clean    bool
	noCache  bool
	maskPath string
	policy   string
	out      string
}

// fetch opens fapath and returns the sequence of every range of rs that
// could be read, paired with its range.  With the perentry policy, bad
// ranges are logged and skipped.  If whole is set, rs is ignored and every
// sequence of the file is read.
func fetch(ctx context.Context, fapath string, opts seqOpts, rs []granges.AnnotatedRange, whole bool) ([]granges.AnnotatedRange, [][]byte, error) {
	policy, err := genome.ParseBatchPolicy(opts.policy)
	if err != nil {
		return nil, nil, err
	}
	var mask *granges.Mask
	if opts.maskPath != "" {
		maskRanges, err := granges.ReadBEDFromPath(ctx, opts.maskPath, granges.DefaultBEDOpts)
		if err != nil {
			return nil, nil, err
		}
		mask = granges.NewMask(granges.Plain(maskRanges), granges.MaskOpts{})
	}
	var (
		kept []granges.AnnotatedRange
		seqs [][]byte
	)
	gOpts := genome.Opts{CacheSequences: !opts.noCache, Clean: opts.clean}
	err = genome.With(ctx, fapath, gOpts, func(a *genome.Accessor) error {
		if mask != nil {
			a.SetMask(mask)
		}
		if whole {
			ws, err := a.WholeSequences()
			if err != nil {
				return err
			}
			rs = granges.Annotate(ws)
		}
		results, err := a.GetSeq(granges.Plain(rs), policy)
		if err != nil {
			return err
		}
		for i, result := range results {
			if result.Err != nil {
				log.Error.Printf("%s: %v", rangeName(rs[i]), result.Err)
				continue
			}
			kept = append(kept, rs[i])
			seqs = append(seqs, result.Seq)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return kept, seqs, nil
}

// getSeq writes the sequence of each selected range as a FASTA record named
// after the range.
func getSeq(ctx context.Context, fapath string, opts seqOpts) error {
	rs, err := opts.in.load(ctx)
	if err != nil {
		return err
	}
	rs, seqs, err := fetch(ctx, fapath, opts, rs, false)
	if err != nil {
		return err
	}
	return withOutput(ctx, opts.out, func(w io.Writer) error {
		for i, seq := range seqs {
			if _, err := fmt.Fprintf(w, ">%s\n%s\n", rangeName(rs[i]), seq); err != nil {
				return err
			}
		}
		return nil
	})
}

type translateOpts struct {
	seqOpts
	strict bool
}

// translate writes one "name<TAB>protein" line per selected range.
func translate(ctx context.Context, fapath string, opts translateOpts) error {
	rs, err := opts.in.load(ctx)
	if err != nil {
		return err
	}
	rs, seqs, err := fetch(ctx, fapath, opts.seqOpts, rs, false)
	if err != nil {
		return err
	}
	tOpts := dna.TranslateOpts{StrictLength: opts.strict}
	return withOutput(ctx, opts.out, func(out io.Writer) error {
		w := tsv.NewWriter(out)
		for i, seq := range seqs {
			protein, err := dna.Translate(seq, tOpts)
			if err != nil {
				return fmt.Errorf("%s: %v", rangeName(rs[i]), err)
			}
			w.WriteString(rangeName(rs[i]))
			w.WriteString(protein)
			if err := w.EndLine(); err != nil {
				return err
			}
		}
		return w.Flush()
	})
}

type kmerOpts struct {
	seqOpts
	k int
}

// kmers writes one "kmer<TAB>count" line per k-mer seen in the selected
// ranges (or whole sequences), sorted by k-mer.
func kmers(ctx context.Context, fapath string, opts kmerOpts) error {
	if opts.k < 1 || opts.k > dna.MaxK {
		return fmt.Errorf("-k must be in [1, %d], but got %d", dna.MaxK, opts.k)
	}
	var rs []granges.AnnotatedRange
	whole := opts.in.bedPath == "" && opts.in.regions == ""
	if !whole {
		var err error
		if rs, err = opts.in.load(ctx); err != nil {
			return err
		}
	}
	_, seqs, err := fetch(ctx, fapath, opts.seqOpts, rs, whole)
	if err != nil {
		return err
	}
	total := make(map[dna.Kmer]int)
	for _, seq := range seqs {
		counts, err := dna.KmerCounts(seq, opts.k)
		if err != nil {
			return err
		}
		for km, n := range counts {
			total[km] += n
		}
	}
	keys := make([]dna.Kmer, 0, len(total))
	for km := range total {
		keys = append(keys, km)
	}
	// The packed encoding orders k-mers alphabetically.
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return withOutput(ctx, opts.out, func(out io.Writer) error {
		w := tsv.NewWriter(out)
		for _, km := range keys {
			w.WriteString(km.String(opts.k))
			w.WriteInt64(int64(total[km]))
			if err := w.EndLine(); err != nil {
				return err
			}
		}
		return w.Flush()
	})
}

type seqInfoOpts struct {
	clean bool
	out   string
}

// seqInfo writes one "name<TAB>length<TAB>checksum" line per sequence of
// fapath, with the checksum in hex.
func seqInfo(ctx context.Context, fapath string, opts seqInfoOpts) error {
	var infos []genome.SeqInfo
	gOpts := genome.Opts{Clean: opts.clean}
	err := genome.With(ctx, fapath, gOpts, func(a *genome.Accessor) error {
		var err error
		infos, err = a.InfoAll()
		return err
	})
	if err != nil {
		return err
	}
	return withOutput(ctx, opts.out, func(out io.Writer) error {
		w := tsv.NewWriter(out)
		for _, info := range infos {
			w.WriteString(info.Name)
			w.WriteInt64(int64(info.Length))
			w.WriteString(fmt.Sprintf("%016x", info.Checksum))
			if err := w.EndLine(); err != nil {
				return err
			}
		}
		return w.Flush()
	})
}
