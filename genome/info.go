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
	"blainsmith.com/go/seahash"
)

// SeqInfo summarizes one sequence of a store.
type SeqInfo struct {
	Name   string
	Length int
	// Checksum is the seahash of the decoded bases, so it reflects the Clean
	// option and any mask.
	Checksum uint64
}

// Info returns the SeqInfo of the named sequence.  The whole sequence is
// decoded, and cached if the Accessor caches sequences.
func (a *Accessor) Info(seqName string) (SeqInfo, error) {
	n, err := a.Len(seqName)
	if err != nil {
		return SeqInfo{}, err
	}
	var seq []byte
	if a.opts.CacheSequences {
		seq, err = a.seqBytes(seqName)
	} else {
		seq, err = a.Seq(wholeSequence(seqName, n))
	}
	if err != nil {
		return SeqInfo{}, err
	}
	return SeqInfo{Name: seqName, Length: n, Checksum: seahash.Sum64(seq)}, nil
}

// InfoAll returns the SeqInfo of every sequence, in store order.
func (a *Accessor) InfoAll() ([]SeqInfo, error) {
	names := a.store.SeqNames()
	infos := make([]SeqInfo, len(names))
	for i, name := range names {
		info, err := a.Info(name)
		if err != nil {
			return nil, err
		}
		infos[i] = info
	}
	return infos, nil
}
