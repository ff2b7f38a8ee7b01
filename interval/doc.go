/*Package interval implements interval algebra over 1-based, closed integer
  ranges: spanning ranges, reduction of overlapping/adjacent intervals,
  disjoining, set union/intersection/difference, overlap queries and
  nearest-neighbor search.

  An Interval [Start, End] covers positions Start..End inclusive.  End may be
  Start-1, which denotes a zero-width interval sitting just before Start; such
  intervals never overlap anything and are dropped by the normalizing
  operators.

  Normalized interval sets are internally represented as sorted half-open
  endpoint sequences (see endpoint_index.go), which makes most set operations
  a single merge pass.  It assumes every position fits in a PosType, which is
  currently defined as int32 since that's what BAM files are limited to.
*/
package interval
