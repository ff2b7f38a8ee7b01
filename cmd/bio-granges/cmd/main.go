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
	"os"
	"strings"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/granges/dna"
	"github.com/grailbio/granges/genome"
	"github.com/grailbio/granges/granges"
	"github.com/grailbio/granges/interval"
	"v.io/x/lib/cmdline"
)

const rangesHelp = `Ranges are read from the BED file given by -bed, or from the comma-separated
list of regions given by -regions.  Each region is 'chr:begin-end[:strand]'
with [begin, end] 1-based and closed, or just 'chr'.`

// inputOpts selects the ranges a subcommand operates on.
type inputOpts struct {
	bedPath  string
	regions  string
	oneBased bool
}

func (o *inputOpts) register(cmd *cmdline.Command) {
	cmd.Flags.StringVar(&o.bedPath, "bed", "", "Input BED path")
	cmd.Flags.StringVar(&o.regions, "regions", "", "Comma-separated list of regions, used when -bed is empty")
	cmd.Flags.BoolVar(&o.oneBased, "one-based", granges.DefaultBEDOpts.OneBasedInput, "Interpret BED coordinates as 1-based closed intervals")
}

// load returns the selected ranges.  Regions get their region string as name.
func (o inputOpts) load(ctx context.Context) ([]granges.AnnotatedRange, error) {
	if o.bedPath != "" {
		return granges.ReadBEDFromPath(ctx, o.bedPath, granges.BEDOpts{OneBasedInput: o.oneBased})
	}
	if o.regions == "" {
		return nil, fmt.Errorf("one of -bed or -regions is required")
	}
	var rs []granges.AnnotatedRange
	for _, region := range strings.Split(o.regions, ",") {
		r, err := granges.ParseRegion(region)
		if err != nil {
			return nil, err
		}
		rs = append(rs, granges.AnnotatedRange{GenomicRange: r, Name: region})
	}
	return rs, nil
}

// withOutput calls fn with a writer for path.  An empty path or "-" selects
// stdout.
func withOutput(ctx context.Context, path string, fn func(w io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return fn(os.Stdout)
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	return fn(out.Writer(ctx))
}

func newCmdSetOp(name, short string, fn func(granges.Ranges, granges.Opts) granges.Ranges) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  name,
		Short: short,
		Long:  rangesHelp,
	}
	opts := setOpOpts{op: fn}
	opts.in.register(cmd)
	cmd.Flags.BoolVar(&opts.ignoreStrand, "ignore-strand", granges.DefaultOpts.IgnoreStrand, "Combine ranges regardless of strand")
	cmd.Flags.StringVar(&opts.out, "out", "", "Output BED path; stdout if empty")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("%s takes no positional arguments, but got %v", name, argv)
		}
		return setOp(vcontext.Background(), opts)
	})
	return cmd
}

func newCmdOverlaps() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "overlaps",
		Short:    "Relate query ranges to subject ranges",
		ArgsName: "querybed subjectbed",
		Long: `Output depends on -mode:
  pairs:   one line per overlapping (query, subject) pair
  count:   one line per query, with its number of overlapping subjects
  nearest: one line per query, with its nearest subject and their distance`,
	}
	opts := overlapsOpts{}
	typeFlag := cmd.Flags.String("type", "any", "Overlap type: 'any', 'within' (query inside subject) or 'equal'")
	cmd.Flags.StringVar(&opts.mode, "mode", "pairs", "One of 'pairs', 'count' or 'nearest'")
	cmd.Flags.BoolVar(&opts.ignoreStrand, "ignore-strand", false, "Let ranges on opposite strands overlap")
	cmd.Flags.BoolVar(&opts.oneBased, "one-based", false, "Interpret BED coordinates as 1-based closed intervals")
	cmd.Flags.StringVar(&opts.out, "out", "", "Output TSV path; stdout if empty")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("overlaps takes querybed subjectbed, but got %v", argv)
		}
		typ, err := interval.ParseOverlapType(*typeFlag)
		if err != nil {
			return err
		}
		opts.typ = typ
		return overlaps(vcontext.Background(), argv[0], argv[1], opts)
	})
	return cmd
}

func registerSeqFlags(cmd *cmdline.Command, opts *seqOpts) {
	opts.in.register(cmd)
	cmd.Flags.BoolVar(&opts.clean, "clean", genome.DefaultOpts.Clean, "Capitalize acgt and replace other symbols with N")
	cmd.Flags.BoolVar(&opts.noCache, "no-cache", !genome.DefaultOpts.CacheSequences, "Read only the requested bases instead of caching whole sequences")
	cmd.Flags.StringVar(&opts.maskPath, "mask", "", "BED of positions to replace with N")
	cmd.Flags.StringVar(&opts.policy, "policy", genome.FailFast.String(), "'failfast' aborts on the first bad range; 'perentry' logs and skips it")
	cmd.Flags.StringVar(&opts.out, "out", "", "Output path; stdout if empty")
}

func newCmdGetSeq() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "getseq",
		Short:    "Extract range sequences as FASTA",
		ArgsName: "fapath",
		Long:     rangesHelp + "\nReverse-strand ranges are reverse-complemented.",
	}
	opts := seqOpts{}
	registerSeqFlags(cmd, &opts)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("getseq takes one fapath argument, but got %v", argv)
		}
		return getSeq(vcontext.Background(), argv[0], opts)
	})
	return cmd
}

func newCmdTranslate() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "translate",
		Short:    "Translate range sequences with the standard genetic code",
		ArgsName: "fapath",
		Long:     rangesHelp,
	}
	opts := translateOpts{}
	registerSeqFlags(cmd, &opts.seqOpts)
	cmd.Flags.BoolVar(&opts.strict, "strict", dna.DefaultTranslateOpts.StrictLength, "Fail on ranges whose width is not a multiple of 3")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("translate takes one fapath argument, but got %v", argv)
		}
		return translate(vcontext.Background(), argv[0], opts)
	})
	return cmd
}

func newCmdKmers() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "kmers",
		Short:    "Count k-mers",
		ArgsName: "fapath",
		Long:     "Counts k-mers over the given ranges, or over every sequence if neither -bed nor -regions is set.",
	}
	opts := kmerOpts{}
	registerSeqFlags(cmd, &opts.seqOpts)
	cmd.Flags.IntVar(&opts.k, "k", 3, "k-mer length, at most 32")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("kmers takes one fapath argument, but got %v", argv)
		}
		return kmers(vcontext.Background(), argv[0], opts)
	})
	return cmd
}

func newCmdSeqInfo() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "seqinfo",
		Short:    "List sequence names, lengths and checksums",
		ArgsName: "fapath",
	}
	opts := seqInfoOpts{}
	cmd.Flags.BoolVar(&opts.clean, "clean", genome.DefaultOpts.Clean, "Checksum the cleaned sequences")
	cmd.Flags.StringVar(&opts.out, "out", "", "Output TSV path; stdout if empty")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("seqinfo takes one fapath argument, but got %v", argv)
		}
		return seqInfo(vcontext.Background(), argv[0], opts)
	})
	return cmd
}

// Run executes the command line.
func Run() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-granges",
			Short:    "Genomic range arithmetic and reference sequence extraction",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdSetOp("reduce", "Merge overlapping and adjacent ranges", granges.Reduce),
				newCmdSetOp("disjoin", "Split ranges at every boundary", granges.Disjoin),
				newCmdSetOp("range", "Print the span of the ranges on each sequence and strand", granges.Range),
				newCmdOverlaps(),
				newCmdGetSeq(),
				newCmdTranslate(),
				newCmdKmers(),
				newCmdSeqInfo(),
			},
		})
}
