/*Package granges extends package interval with sequence names and strands.

  A GenomicRange is a closed 1-based interval on a named reference sequence,
  with a strand drawn from the closed set {Unstranded, Forward, Reverse}.
  Ranges on different sequences never interact: collection operators group
  their inputs by sequence name (and strand, unless told to ignore it), run
  the corresponding interval operator on each group, and concatenate the
  results in sorted order.  Directional operators (Resize, Flank, Promoters)
  interpret "start" as the 5' end, so on the reverse strand it is the
  high-coordinate end.

  The package also provides grouped ranges (e.g. exons grouped by
  transcript), region-string parsing, BED input/output, and Mask, a
  position-containment index built from a range collection.
*/
package granges
