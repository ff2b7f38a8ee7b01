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
package genome

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/log"
	"github.com/grailbio/granges/dna"
	"github.com/grailbio/granges/encoding/fasta"
	"github.com/grailbio/granges/granges"
	"github.com/grailbio/granges/interval"
	"github.com/pkg/errors"
)

var (
	// ErrUnknownSequence is returned for ranges whose SeqName is absent from
	// the store.
	ErrUnknownSequence = errors.New("unknown sequence")
	// ErrOutOfBounds is returned for ranges starting before position 1 or
	// ending past the end of their sequence.
	ErrOutOfBounds = errors.New("range out of bounds")
)

// Store is a source of named reference sequences.  Coordinates passed to Get
// are 0-based half-open.  fasta.Fasta satisfies Store.
type Store interface {
	Get(seqName string, start, end uint64) (string, error)
	Len(seqName string) (uint64, error)
	SeqNames() []string
}

// Opts controls an Accessor.
type Opts struct {
	// CacheSequences makes the Accessor decode each sequence in full on first
	// access and serve later requests from memory.  Otherwise every request
	// reads just the requested bases from the store.
	CacheSequences bool
	// Clean capitalizes acgt and replaces all other symbols with N, like
	// dna.CleanInplace.
	Clean bool
}

// DefaultOpts caches decoded sequences and returns the store's symbols
// unchanged.
var DefaultOpts = Opts{CacheSequences: true}

// Accessor slices subsequences out of a Store.  It is safe for concurrent
// use.
type Accessor struct {
	store Store
	opts  Opts
	// file is set when the Accessor owns the store, see Open.
	file *fasta.File

	mu          sync.Mutex
	cache       map[string][]byte
	mask        *granges.Mask
	fingerprint uint64
}

// NewAccessor returns an Accessor reading from store.  The caller keeps
// ownership of store.
func NewAccessor(store Store, opts Opts) *Accessor {
	return &Accessor{
		store:       store,
		opts:        opts,
		cache:       make(map[string][]byte),
		fingerprint: fingerprint(store),
	}
}

// Open opens the FASTA file at path (using path+".fai" when present) and
// returns an Accessor over it.  The Accessor must be closed after use.
func Open(ctx context.Context, path string, opts Opts) (*Accessor, error) {
	f, err := fasta.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	a := NewAccessor(f, opts)
	a.file = f
	return a, nil
}

// With opens the FASTA file at path, calls fn with an Accessor over it, and
// closes the file afterwards, even if fn fails.
func With(ctx context.Context, path string, opts Opts, fn func(*Accessor) error) (err error) {
	a, err := Open(ctx, path, opts)
	if err != nil {
		return err
	}
	defer func() {
		if e := a.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	return fn(a)
}

// Close drops all cached sequences and, if the Accessor was created by Open,
// closes the underlying file.
func (a *Accessor) Close(ctx context.Context) error {
	a.InvalidateAll()
	if a.file == nil {
		return nil
	}
	return a.file.Close(ctx)
}

// SeqNames returns the names of the store's sequences.
func (a *Accessor) SeqNames() []string {
	return a.store.SeqNames()
}

// Len returns the length of the named sequence.
func (a *Accessor) Len(seqName string) (int, error) {
	n, err := a.store.Len(seqName)
	if err != nil {
		return 0, errors.Wrapf(ErrUnknownSequence, "%s: %v", seqName, err)
	}
	return int(n), nil
}

// Validate checks that r names a sequence of the store and lies within it.
// Zero-width ranges may sit just past either end of the sequence.
func (a *Accessor) Validate(r granges.GenomicRange) error {
	n, err := a.Len(r.SeqName)
	if err != nil {
		return err
	}
	if r.Start < 1 || int(r.End) > n || r.End < r.Start-1 {
		return errors.Wrapf(ErrOutOfBounds, "%v (length %d)", r, n)
	}
	return nil
}

// wholeSequence returns a Forward range covering a sequence of length n.
func wholeSequence(seqName string, n int) granges.GenomicRange {
	return granges.GenomicRange{
		SeqName:  seqName,
		Interval: interval.Interval{Start: 1, End: interval.PosType(n)},
		Strand:   granges.Forward,
	}
}

// WholeSequences returns a Forward range spanning each sequence of the store,
// in store order.
func (a *Accessor) WholeSequences() (granges.Ranges, error) {
	names := a.store.SeqNames()
	rs := make(granges.Ranges, len(names))
	for i, name := range names {
		n, err := a.Len(name)
		if err != nil {
			return nil, err
		}
		rs[i] = wholeSequence(name, n)
	}
	return rs, nil
}

// ValidateAll returns the first Validate error among rs, if any.
func (a *Accessor) ValidateAll(rs granges.Ranges) error {
	for i, r := range rs {
		if err := a.Validate(r); err != nil {
			return errors.Wrapf(err, "range %d", i)
		}
	}
	return nil
}

// Seq returns the bases covered by r in a new slice, reverse-complemented
// when r is on the Reverse strand.
func (a *Accessor) Seq(r granges.GenomicRange) ([]byte, error) {
	if err := a.Validate(r); err != nil {
		return nil, err
	}
	if r.Empty() {
		return []byte{}, nil
	}
	var seq []byte
	if a.opts.CacheSequences {
		buf, err := a.seqBytes(r.SeqName)
		if err != nil {
			return nil, err
		}
		seq = append([]byte(nil), buf[r.Start-1:r.End]...)
	} else {
		s, err := a.store.Get(r.SeqName, uint64(r.Start-1), uint64(r.End))
		if err != nil {
			return nil, errors.Wrapf(err, "genome.Seq %v", r)
		}
		seq = []byte(s)
		a.mu.Lock()
		mask := a.mask
		a.mu.Unlock()
		a.decode(seq, r.SeqName, r.Start, mask)
	}
	if r.Strand == granges.Reverse {
		if err := dna.ReverseComplementInplace(seq); err != nil {
			return nil, errors.Wrapf(err, "genome.Seq %v", r)
		}
	}
	return seq, nil
}

// decode applies the Clean option and the hard mask to seq, which holds the
// bases of seqName starting at 1-based position start.
func (a *Accessor) decode(seq []byte, seqName string, start interval.PosType, mask *granges.Mask) {
	if a.opts.Clean {
		dna.CleanInplace(seq)
	}
	if mask != nil {
		hardMask(seq, start, mask.Endpoints(seqName))
	}
}

// hardMask replaces the bases of seq covered by endpoints with 'N'.  seq
// holds the bases starting at 1-based position seqStart.
func hardMask(seq []byte, seqStart interval.PosType, endpoints []interval.PosType) {
	limit := seqStart + interval.PosType(len(seq))
	// Skip the intervals that end before seqStart.
	first := interval.NewEndpointIndex(seqStart, endpoints).Begin()
	us := interval.NewUnionScanner(endpoints[first:])
	var start, end interval.PosType
	for us.Scan(&start, &end, limit) {
		if end <= seqStart {
			continue
		}
		if start < seqStart {
			start = seqStart
		}
		dna.HardMaskInplace(seq[start-seqStart : end-seqStart])
	}
}

// seqBytes returns the decoded bases of the whole named sequence, reading
// them from the store on first use.  The caller must not modify the result.
func (a *Accessor) seqBytes(seqName string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if buf, ok := a.cache[seqName]; ok {
		return buf, nil
	}
	n, err := a.store.Len(seqName)
	if err != nil {
		return nil, errors.Wrapf(ErrUnknownSequence, "%s: %v", seqName, err)
	}
	s, err := a.store.Get(seqName, 0, n)
	if err != nil {
		return nil, errors.Wrapf(err, "genome: reading %s", seqName)
	}
	buf := []byte(s)
	a.decode(buf, seqName, 1, a.mask)
	a.cache[seqName] = buf
	log.Debug.Printf("genome: cached %s (%d bases, %d sequence(s) cached)", seqName, n, len(a.cache))
	return buf, nil
}

// BatchPolicy selects how GetSeq handles failing entries.
type BatchPolicy int

const (
	// FailFast makes GetSeq stop at the first failing range and return its
	// error.
	FailFast BatchPolicy = iota
	// PerEntry makes GetSeq process every range, reporting failures in the
	// corresponding Result.
	PerEntry
)

// String implements fmt.Stringer.
func (p BatchPolicy) String() string {
	switch p {
	case FailFast:
		return "failfast"
	case PerEntry:
		return "perentry"
	}
	return fmt.Sprintf("BatchPolicy(%d)", int(p))
}

// ParseBatchPolicy parses the String form of a BatchPolicy.
func ParseBatchPolicy(s string) (BatchPolicy, error) {
	switch s {
	case "failfast":
		return FailFast, nil
	case "perentry":
		return PerEntry, nil
	}
	return FailFast, errors.Errorf("unknown batch policy %q", s)
}

// Result is the outcome of one range of a GetSeq call.
type Result struct {
	Range granges.GenomicRange
	Seq   []byte
	Err   error
}

// GetSeq returns the sequence of each range of rs, in order.  See Seq.
//
// With FailFast, the first failure is returned as the error, and the results
// are nil.  With PerEntry, the error is always nil and each Result carries its
// own Err.
func (a *Accessor) GetSeq(rs granges.Ranges, policy BatchPolicy) ([]Result, error) {
	results := make([]Result, len(rs))
	for i, r := range rs {
		seq, err := a.Seq(r)
		if err != nil {
			switch policy {
			case FailFast:
				return nil, errors.Wrapf(err, "range %d", i)
			case PerEntry:
			default:
				log.Panicf("genome.GetSeq: invalid policy %v", policy)
			}
		}
		results[i] = Result{Range: r, Seq: seq, Err: err}
	}
	return results, nil
}

// SetMask makes the Accessor replace every base covered by m with 'N'.  A nil
// m disables masking.  Cached sequences are dropped.
func (a *Accessor) SetMask(m *granges.Mask) {
	a.mu.Lock()
	a.mask = m
	a.cache = make(map[string][]byte)
	a.mu.Unlock()
}

// Invalidate drops the cached bases of the named sequence, if any.
func (a *Accessor) Invalidate(seqName string) {
	a.mu.Lock()
	delete(a.cache, seqName)
	a.mu.Unlock()
	log.Debug.Printf("genome: invalidated %s", seqName)
}

// InvalidateAll drops all cached bases.
func (a *Accessor) InvalidateAll() {
	a.mu.Lock()
	n := len(a.cache)
	a.cache = make(map[string][]byte)
	a.mu.Unlock()
	if n > 0 {
		log.Debug.Printf("genome: invalidated %d sequence(s)", n)
	}
}

// Refresh compares the store's current sequence listing against the one seen
// when the Accessor was created (or last refreshed), and drops the whole
// cache if they differ.  It returns whether the cache was dropped.
func (a *Accessor) Refresh() bool {
	fp := fingerprint(a.store)
	a.mu.Lock()
	changed := fp != a.fingerprint
	a.fingerprint = fp
	a.mu.Unlock()
	if changed {
		log.Printf("genome: sequence store changed, dropping cache")
		a.InvalidateAll()
	}
	return changed
}

// fingerprint hashes the names and lengths of the store's sequences.
func fingerprint(store Store) uint64 {
	var buf []byte
	var lenBuf [binary.MaxVarintLen64]byte
	for _, name := range store.SeqNames() {
		n, err := store.Len(name)
		if err != nil {
			n = ^uint64(0)
		}
		buf = append(buf, name...)
		buf = append(buf, 0)
		buf = append(buf, lenBuf[:binary.PutUvarint(lenBuf[:], n)]...)
	}
	return farm.Fingerprint64(buf)
}
