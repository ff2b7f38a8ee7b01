package granges

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/granges/interval"
	"github.com/klauspost/compress/gzip"
)

// ScoreMetaKey is the AnnotatedRange metadata key holding the BED score
// column, as a float64.
const ScoreMetaKey = "score"

// BEDOpts defines behavior of ReadBED.
type BEDOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

// DefaultBEDOpts reads standard zero-based BED.
var DefaultBEDOpts = BEDOpts{}

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

var (
	trackPrefix   = []byte("track")
	browserPrefix = []byte("browser")
)

func isHeaderLine(line []byte) bool {
	return line[0] == '#' || bytes.HasPrefix(line, trackPrefix) || bytes.HasPrefix(line, browserPrefix)
}

// ReadBED reads a BED file with 3 to 6 columns (chrom, start, end, name,
// score, strand).  Columns past the sixth are ignored, as are blank,
// comment, "track" and "browser" lines.  Input need not be sorted.
func ReadBED(r io.Reader, opts BEDOpts) ([]AnnotatedRange, error) {
	var startAdd int64 = 1
	if opts.OneBasedInput {
		startAdd = 0
	}
	var (
		tokens   [6][]byte
		result   []AnnotatedRange
		totBases int
		lineIdx  int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 || isHeaderLine(tokens[0]) {
			continue
		}
		if nToken < 3 {
			return nil, errors.E(fmt.Sprintf("granges.ReadBED: line %d has fewer than 3 columns", lineIdx))
		}
		start0, err := strconv.ParseInt(gunsafe.BytesToString(tokens[1]), 10, 64)
		if err != nil {
			return nil, errors.E(err, fmt.Sprintf("granges.ReadBED: line %d", lineIdx))
		}
		end, err := strconv.ParseInt(gunsafe.BytesToString(tokens[2]), 10, 64)
		if err != nil {
			return nil, errors.E(err, fmt.Sprintf("granges.ReadBED: line %d", lineIdx))
		}
		start := start0 + startAdd
		if start < 1 || end < start-1 || end >= int64(interval.PosTypeMax) {
			return nil, errors.E(fmt.Sprintf("granges.ReadBED: invalid coordinate pair on line %d", lineIdx))
		}
		// Copy the name, since tokens refer to the scanner's buffer.
		ar := AnnotatedRange{GenomicRange: GenomicRange{
			SeqName:  string(tokens[0]),
			Interval: interval.Interval{Start: PosType(start), End: PosType(end)},
		}}
		if nToken > 3 && !isDot(tokens[3]) {
			ar.Name = string(tokens[3])
		}
		if nToken > 4 && !isDot(tokens[4]) {
			score, err := strconv.ParseFloat(gunsafe.BytesToString(tokens[4]), 64)
			if err != nil {
				return nil, errors.E(err, fmt.Sprintf("granges.ReadBED: score on line %d", lineIdx))
			}
			ar = ar.With(ScoreMetaKey, score)
		}
		if nToken > 5 {
			if ar.Strand, err = ParseStrand(gunsafe.BytesToString(tokens[5])); err != nil {
				return nil, errors.E(err, fmt.Sprintf("granges.ReadBED: line %d", lineIdx))
			}
		}
		totBases += ar.Width()
		result = append(result, ar)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "granges.ReadBED")
	}
	log.Printf("BED loaded, %d range(s), %d base(s) total.", len(result), totBases)
	return result, nil
}

func isDot(token []byte) bool {
	return len(token) == 1 && token[0] == '.'
}

// ReadBEDFromPath is a wrapper for ReadBED that takes a path instead of an
// io.Reader.  Paths ending in .gz are decompressed.
func ReadBEDFromPath(ctx context.Context, path string, opts BEDOpts) (rs []AnnotatedRange, err error) {
	infile, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return nil, err
		}
	}
	return ReadBED(reader, opts)
}

// WriteBED writes rs as six-column zero-based BED.  Missing names are written
// as ".", missing scores as 0.
func WriteBED(w io.Writer, rs []AnnotatedRange) error {
	tsvw := tsv.NewWriter(w)
	for _, r := range rs {
		tsvw.WriteString(r.SeqName)
		tsvw.WriteInt64(int64(r.Start) - 1)
		tsvw.WriteInt64(int64(r.End))
		if r.Name == "" {
			tsvw.WriteByte('.')
		} else {
			tsvw.WriteString(r.Name)
		}
		score := 0.0
		if v, ok := r.Get(ScoreMetaKey); ok {
			if f, ok := v.(float64); ok {
				score = f
			}
		}
		tsvw.WriteString(strconv.FormatFloat(score, 'g', -1, 64))
		tsvw.WriteByte(bedStrandByte(r.Strand))
		if err := tsvw.EndLine(); err != nil {
			return err
		}
	}
	return tsvw.Flush()
}

func bedStrandByte(s Strand) byte {
	if s == Unstranded {
		return '.'
	}
	return s.Byte()
}

// WriteBEDToPath is a wrapper for WriteBED that takes a path.
func WriteBEDToPath(ctx context.Context, path string, rs []AnnotatedRange) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return WriteBED(out.Writer(ctx), rs)
}
