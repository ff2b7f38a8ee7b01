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
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

// CheckHeader verifies that every reference of header which is present in
// the store has the same length there.  References missing from either side
// are only logged.
func (a *Accessor) CheckHeader(header *sam.Header) error {
	refs := header.Refs()
	nMissingFromStore := 0
	for _, ref := range refs {
		n, err := a.store.Len(ref.Name())
		if err != nil {
			nMissingFromStore++
			continue
		}
		if n != uint64(ref.Len()) {
			return errors.Errorf("genome.CheckHeader: inconsistent lengths for contig %s (%d in SAM header, %d in store)", ref.Name(), ref.Len(), n)
		}
	}
	if nMissingFromStore != 0 {
		log.Printf("genome.CheckHeader: warning: %d reference(s) present in SAM header but missing from store", nMissingFromStore)
	}
	if nMissingFromHeader := len(a.store.SeqNames()) + nMissingFromStore - len(refs); nMissingFromHeader != 0 {
		log.Printf("genome.CheckHeader: warning: %d reference(s) present in store but missing from SAM header", nMissingFromHeader)
	}
	return nil
}

// Header returns a SAM header listing the store's sequences, in store order.
func (a *Accessor) Header() (*sam.Header, error) {
	names := a.store.SeqNames()
	refs := make([]*sam.Reference, len(names))
	for i, name := range names {
		n, err := a.Len(name)
		if err != nil {
			return nil, err
		}
		if refs[i], err = sam.NewReference(name, "", "", n, nil, nil); err != nil {
			return nil, errors.Wrapf(err, "genome.Header: %s", name)
		}
	}
	return sam.NewHeader(nil, refs)
}
