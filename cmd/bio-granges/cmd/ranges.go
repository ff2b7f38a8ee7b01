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

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/granges/granges"
	"github.com/grailbio/granges/interval"
	"golang.org/x/sync/errgroup"
)

type setOpOpts struct {
	in           inputOpts
	ignoreStrand bool
	out          string
	op           func(granges.Ranges, granges.Opts) granges.Ranges
}

// setOp applies opts.op to the input ranges and writes the result as BED.
func setOp(ctx context.Context, opts setOpOpts) error {
	rs, err := opts.in.load(ctx)
	if err != nil {
		return err
	}
	result := opts.op(granges.Plain(rs), granges.Opts{IgnoreStrand: opts.ignoreStrand})
	log.Debug.Printf("setOp: %d range(s) in, %d out", len(rs), len(result))
	return withOutput(ctx, opts.out, func(w io.Writer) error {
		return granges.WriteBED(w, granges.Annotate(result))
	})
}

type overlapsOpts struct {
	mode         string
	typ          interval.OverlapType
	ignoreStrand bool
	oneBased     bool
	out          string
}

// overlaps relates the ranges of queryPath to those of subjectPath.  See
// newCmdOverlaps for the output formats.
func overlaps(ctx context.Context, queryPath, subjectPath string, opts overlapsOpts) error {
	var (
		bedOpts        = granges.BEDOpts{OneBasedInput: opts.oneBased}
		query, subject []granges.AnnotatedRange
		eg             errgroup.Group
	)
	eg.Go(func() (err error) {
		query, err = granges.ReadBEDFromPath(ctx, queryPath, bedOpts)
		return
	})
	eg.Go(func() (err error) {
		subject, err = granges.ReadBEDFromPath(ctx, subjectPath, bedOpts)
		return
	})
	if err := eg.Wait(); err != nil {
		return err
	}
	q, s := granges.Plain(query), granges.Plain(subject)
	ovOpts := granges.OverlapOpts{Type: opts.typ, IgnoreStrand: opts.ignoreStrand}

	var write func(w *tsv.Writer) error
	switch opts.mode {
	case "pairs":
		write = func(w *tsv.Writer) error {
			for _, hit := range granges.FindOverlaps(q, s, ovOpts) {
				w.WriteString(rangeName(query[hit.Query]))
				w.WriteString(rangeName(subject[hit.Subject]))
				if err := w.EndLine(); err != nil {
					return err
				}
			}
			return nil
		}
	case "count":
		write = func(w *tsv.Writer) error {
			for i, n := range granges.CountOverlaps(q, s, ovOpts) {
				w.WriteString(rangeName(query[i]))
				w.WriteInt64(int64(n))
				if err := w.EndLine(); err != nil {
					return err
				}
			}
			return nil
		}
	case "nearest":
		write = func(w *tsv.Writer) error {
			gOpts := granges.Opts{IgnoreStrand: opts.ignoreStrand}
			nearest := granges.Nearest(q, s, gOpts)
			dists := granges.DistanceToNearest(q, s, gOpts)
			for i, j := range nearest {
				w.WriteString(rangeName(query[i]))
				if j < 0 {
					w.WriteByte('.')
					w.WriteByte('.')
				} else {
					w.WriteString(rangeName(subject[j]))
					w.WriteInt64(int64(dists[i]))
				}
				if err := w.EndLine(); err != nil {
					return err
				}
			}
			return nil
		}
	default:
		return fmt.Errorf("unknown overlaps mode %q", opts.mode)
	}
	return withOutput(ctx, opts.out, func(out io.Writer) error {
		w := tsv.NewWriter(out)
		if err := write(w); err != nil {
			return err
		}
		return w.Flush()
	})
}

// rangeName is the name of r if it has one, and its region string otherwise.
func rangeName(r granges.AnnotatedRange) string {
	if r.Name != "" {
		return r.Name
	}
	return r.GenomicRange.String()
}
