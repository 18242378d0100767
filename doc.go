// Package bimap implements an ordered bidirectional map. A Bimap holds
// unique (Left, Right) pairs: no two pairs share a Left value and no
// two pairs share a Right value. Both sides are kept in order by their
// own comparison function, so lookups, bounds and ordered traversal are
// available from either side in expected logarithmic time.
//
// Every pair is stored once. The left and right orderings are two
// treaps threaded through the same slots, which is what makes Flip, the
// move from a position on one side to the same pair on the other side,
// a constant time operation.
//
// A Bimap is a mutable structure and is not safe for concurrent use.
// Lookups reorganize internal links, so even concurrent readers need
// external locking.
package bimap // import "jsouthworth.net/go/bimap"
