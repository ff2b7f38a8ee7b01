package granges

import (
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/granges/interval"
	"github.com/grailbio/hts/sam"
)

// MaskOpts defines behavior of NewMask.
type MaskOpts struct {
	// SAMHeader enables ID-based lookup.
	SAMHeader *sam.Header
	// Invert causes the complement of the range union to be used.  The
	// complement covers [1, PosTypeMax - 1] on each sequence.  If SAMHeader is
	// provided, any sequence in the header but absent from the ranges is fully
	// included.  Otherwise, only the sequences mentioned by the ranges are
	// included.  (A single zero-width range qualifies as a "mention" for the
	// latter purpose.)
	Invert bool
}

// Mask is a position-containment index over the union of a range
// collection, ignoring strand.  Queries are fastest when made in
// nondecreasing position order per sequence.
//
// A Mask carries search state, so it is not safe for concurrent use; use
// Clone to give each goroutine its own.
type Mask struct {
	// nameMap is a sequence-keyed map with normalized endpoint-sequence
	// values.  Always initialized.
	nameMap map[string][]PosType
	// idMap is indexed by sam.Header reference ID.  It is only initialized if
	// NewMask was called with SAMHeader set.
	idMap [][]PosType
	// lastEndpoints is the endpoint sequence of the most recently queried
	// sequence.
	lastEndpoints []PosType
	// lastName is the name of the last queried-by-name sequence.  If it's
	// nonempty, it must be in sync with lastEndpoints.
	lastName string
	// lastID is the ID of the last queried-by-ID sequence.  If it's
	// nonnegative, it must be in sync with lastEndpoints.
	lastID int
	// lastPos is the last position queried.
	lastPos PosType
	// lastIdx is NewEndpointIndex(lastPos, lastEndpoints).  Cached to
	// accelerate sequential queries.
	lastIdx interval.EndpointIndex
	// isSequential is true if all queries since the last sequence change have
	// been in order of nondecreasing position.
	isSequential bool
}

// NewMask builds a Mask from the union of rs.
func NewMask(rs Ranges, opts MaskOpts) *Mask {
	sets := make(map[string]interval.Set)
	for _, r := range rs {
		sets[r.SeqName] = append(sets[r.SeqName], r.Interval)
	}
	m := &Mask{nameMap: make(map[string][]PosType, len(sets)), lastID: -1}
	totBases := 0
	for name, s := range sets {
		endpoints := interval.Endpoints(s)
		for i := 0; i < len(endpoints); i += 2 {
			totBases += int(endpoints[i+1] - endpoints[i])
		}
		if opts.Invert {
			endpoints = interval.Complement(endpoints)
		}
		m.nameMap[name] = endpoints
	}
	log.Printf("granges.NewMask: %d sequence(s), %d base(s) covered before inversion.", len(sets), totBases)
	if opts.SAMHeader != nil {
		m.initIDMap(opts.SAMHeader, opts.Invert)
	}
	return m
}

func (m *Mask) initIDMap(header *sam.Header, invert bool) {
	refs := header.Refs()
	m.idMap = make([][]PosType, len(refs))
	for refID, ref := range refs {
		if refID != ref.ID() {
			log.Panicf("granges.NewMask: sam.Header ref.ID %d != array position %d", ref.ID(), refID)
		}
		if endpoints, ok := m.nameMap[ref.Name()]; ok {
			m.idMap[refID] = endpoints
		} else if invert {
			m.idMap[refID] = []PosType{1, interval.PosTypeMax}
		}
	}
}

// contains answers a query against lastEndpoints, updating the search state.
func (m *Mask) contains(pos PosType, newSeq bool) bool {
	if newSeq {
		if m.lastEndpoints == nil {
			return false
		}
		m.lastIdx = interval.NewEndpointIndex(pos, m.lastEndpoints)
		m.lastPos = pos
		m.isSequential = true
		return m.lastIdx.Contained()
	}
	if m.lastEndpoints == nil {
		return false
	}
	if m.isSequential {
		if pos >= m.lastPos {
			m.lastIdx.Update(pos, m.lastEndpoints)
			m.lastPos = pos
			return m.lastIdx.Contained()
		}
		m.isSequential = false
	}
	return interval.Contains(m.lastEndpoints, pos)
}

// ContainsByName returns whether the 1-based position pos on the named
// sequence is covered.
func (m *Mask) ContainsByName(seqName string, pos PosType) bool {
	newSeq := seqName != m.lastName || m.lastID >= 0 || m.lastEndpoints == nil
	if newSeq {
		m.lastName = seqName
		m.lastID = -1
		m.lastEndpoints = m.nameMap[seqName]
	}
	return m.contains(pos, newSeq)
}

// ContainsByID returns whether the 1-based position pos on the sequence with
// the given sam.Header reference ID is covered.  It panics if the Mask was
// built without a SAMHeader.
func (m *Mask) ContainsByID(refID int, pos PosType) bool {
	newSeq := refID != m.lastID || m.lastEndpoints == nil
	if newSeq {
		m.lastID = refID
		// The name cache must not survive an ID lookup.
		m.lastName = ""
		m.lastEndpoints = m.idMap[refID]
	}
	return m.contains(pos, newSeq)
}

// Intersects returns whether any position of iv on the named sequence is
// covered.
func (m *Mask) Intersects(seqName string, iv interval.Interval) bool {
	endpoints := m.nameMap[seqName]
	if iv.Empty() || len(endpoints) == 0 {
		return false
	}
	idx := interval.NewEndpointIndex(iv.Start, endpoints)
	if idx.Contained() {
		return true
	}
	return !idx.Finished(endpoints) && endpoints[idx] <= iv.End
}

// Endpoints returns the normalized endpoint sequence of the named sequence;
// see package interval.  The caller must not modify the result.
func (m *Mask) Endpoints(seqName string) []PosType {
	return m.nameMap[seqName]
}

// Ranges returns the covered positions as sorted Unstranded ranges.
func (m *Mask) Ranges() Ranges {
	names := make([]string, 0, len(m.nameMap))
	for name := range m.nameMap {
		names = append(names, name)
	}
	sort.Strings(names)
	var out Ranges
	for _, name := range names {
		for _, iv := range interval.FromEndpoints(m.nameMap[name]) {
			out = append(out, GenomicRange{SeqName: name, Interval: iv})
		}
	}
	return out
}

// Clone returns a new Mask which shares the position sets, but has its own
// search state.
func (m *Mask) Clone() *Mask {
	return &Mask{nameMap: m.nameMap, idMap: m.idMap, lastID: -1}
}
