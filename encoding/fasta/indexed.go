package fasta

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/grailbio/base/errors"
)

// indexEntry is one line of a .fai file.
type indexEntry struct {
	name      string
	length    uint64
	offset    uint64
	lineBase  uint64
	lineWidth uint64
}

// Index files consist of one tab-separated line per sequence in the associated
// FASTA file.  The format is: "<sequence name>\t<length>\t<byte
// offset>\t<bases per line>\t<bytes per line>".
// For example: "chr3\t12345\t9000\t80\t81".
func parseIndex(index io.Reader) ([]indexEntry, error) {
	var entries []indexEntry
	scanner := bufio.NewScanner(index)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			return nil, errors.E(fmt.Sprintf("invalid index line %d: %s", lineIdx, line))
		}
		ent := indexEntry{name: fields[0]}
		for i, dst := range []*uint64{&ent.length, &ent.offset, &ent.lineBase, &ent.lineWidth} {
			v, err := strconv.ParseUint(fields[i+1], 10, 64)
			if err != nil {
				return nil, errors.E(err, fmt.Sprintf("invalid index line %d: %s", lineIdx, line))
			}
			*dst = v
		}
		if ent.length > 0 && (ent.lineBase == 0 || ent.lineWidth < ent.lineBase) {
			return nil, errors.E(fmt.Sprintf("invalid line geometry on index line %d: %s", lineIdx, line))
		}
		entries = append(entries, ent)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "reading FASTA index")
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].offset < entries[j].offset })
	return entries, nil
}

type indexedFasta struct {
	seqs      map[string]indexEntry
	seqNames  []string // returned by SeqNames()
	reader    io.ReadSeeker
	bufOff    int64
	buf       []byte // caches file contents starting at bufOff.
	resultBuf []byte // temp for concatenating multi-line sequences.
	mutex     sync.Mutex
}

// NewIndexed creates a new Fasta that can perform efficient random lookups
// using the provided index, without reading the data into memory.
func NewIndexed(fasta io.ReadSeeker, index io.Reader) (Fasta, error) {
	entries, err := parseIndex(index)
	if err != nil {
		return nil, err
	}
	f := &indexedFasta{seqs: make(map[string]indexEntry, len(entries)), reader: fasta}
	for _, ent := range entries {
		if _, ok := f.seqs[ent.name]; ok {
			return nil, errors.E(fmt.Sprintf("duplicate sequence name %s in index", ent.name))
		}
		f.seqs[ent.name] = ent
		f.seqNames = append(f.seqNames, ent.name)
	}
	return f, nil
}

// FaiToReferenceLengths reads in a fasta fai file and returns a map of
// reference name to reference length. This doesn't require reading in the fasta
// itself.
func FaiToReferenceLengths(index io.Reader) (map[string]uint64, error) {
	entries, err := parseIndex(index)
	if err != nil {
		return nil, err
	}
	lengths := make(map[string]uint64, len(entries))
	for _, ent := range entries {
		lengths[ent.name] = ent.length
	}
	return lengths, nil
}

// Len implements Fasta.Len().
func (f *indexedFasta) Len(seqName string) (uint64, error) {
	ent, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.E(errors.NotExist, "sequence not found in index: "+seqName)
	}
	return ent.length, nil
}

// SeqNames implements Fasta.SeqNames().
func (f *indexedFasta) SeqNames() []string {
	return f.seqNames
}

// read returns range [off, off+n) from the underlying fasta file.  The result
// aliases f.buf.
func (f *indexedFasta) read(off int64, n int) ([]byte, error) {
	limit := off + int64(n)
	if off < f.bufOff || limit > f.bufOff+int64(len(f.buf)) {
		newOffset, err := f.reader.Seek(off, io.SeekStart)
		if err != nil {
			return nil, errors.E(err, fmt.Sprintf("failed to seek to offset %d", off))
		}
		if newOffset != off {
			return nil, errors.E(fmt.Sprintf("failed to seek to offset %d: landed at %d", off, newOffset))
		}
		bufSize := 8192
		if bufSize < n {
			bufSize = n
		}
		resizeBuf(&f.buf, bufSize)
		bytesRead, err := io.ReadFull(f.reader, f.buf)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return nil, errors.E(err, "reading FASTA data")
		}
		if bytesRead < n {
			return nil, errors.E("encountered unexpected end of file (bad index? file doesn't end in newline?)")
		}
		f.bufOff = off
		f.buf = f.buf[:bytesRead]
	}
	return f.buf[off-f.bufOff : limit-f.bufOff], nil
}

func resizeBuf(buf *[]byte, n int) {
	if cap(*buf) < n {
		*buf = make([]byte, n)
	} else {
		*buf = (*buf)[0:n]
	}
}

// Get implements Fasta.Get().
func (f *indexedFasta) Get(seqName string, start uint64, end uint64) (string, error) {
	ent, ok := f.seqs[seqName]
	if !ok {
		return "", errors.E(errors.NotExist, "sequence not found in index: "+seqName)
	}
	if err := checkRange(seqName, start, end, ent.length); err != nil {
		return "", err
	}
	if start == end {
		return "", nil
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	// Start the read at a byte offset allowing for the presence of newline
	// characters.
	charsPerNewline := ent.lineWidth - ent.lineBase
	offset := ent.offset + start + charsPerNewline*(start/ent.lineBase)

	// Figure out how many characters (including newlines) we should read,
	// and read them.
	firstLineBases := ent.lineBase - (start % ent.lineBase)
	newlinesToRead := uint64(0)
	if end-start > firstLineBases {
		newlinesToRead = 1 + (end-start-firstLineBases)/ent.lineBase
	}
	capacity := end - start + newlinesToRead*charsPerNewline
	// The last line of a sequence may lack its terminator.
	if seqEnd := ent.offset + ent.length + charsPerNewline*((ent.length-1)/ent.lineBase); offset+capacity > seqEnd {
		capacity = seqEnd - offset
	}

	buffer, err := f.read(int64(offset), int(capacity))
	if err != nil {
		return "", err
	}

	// Copy the non-newline characters to the result.
	resizeBuf(&f.resultBuf, int(end-start))
	linePos := (offset - ent.offset) % ent.lineWidth
	resultPos := 0
	for i := range buffer {
		if linePos < ent.lineBase {
			f.resultBuf[resultPos] = buffer[i]
			resultPos++
		}
		linePos++
		if linePos == ent.lineWidth {
			linePos = 0
		}
	}
	return string(f.resultBuf[:resultPos]), nil
}
