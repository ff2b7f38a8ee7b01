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
package main

/*
bio-granges is a command-line front end for the granges interval algebra and
reference sequence accessor.  Ranges are read from BED files or region
strings, and reference sequences from (optionally .fai-indexed) FASTA.

Sample usage:
bio-granges reduce -bed exons.bed -out merged.bed
bio-granges getseq -regions chr1:100-200:- hg19.fa
bio-granges kmers -k 4 -bed exons.bed hg19.fa
*/

import (
	"github.com/grailbio/base/grail"
	"github.com/grailbio/granges/cmd/bio-granges/cmd"
)

func main() {
	shutdown := grail.Init()
	defer shutdown()
	cmd.Run()
}
