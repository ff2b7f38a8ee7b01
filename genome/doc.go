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

// Package genome retrieves subsequences of a reference sequence store for
// genomic ranges.  Reverse-strand ranges come back reverse-complemented.
//
// An Accessor decodes each requested sequence once and keeps it until it is
// invalidated:
//
//   acc, err := genome.Open(ctx, "hg19.fa", genome.DefaultOpts)
//   ...
//   defer acc.Close(ctx)
//   results, err := acc.GetSeq(ranges, genome.FailFast)
package genome
