package bimap

import (
	"jsouthworth.net/go/bimap/internal/slot"
	"jsouthworth.net/go/bimap/internal/treap"
)

// LeftIterator is a position in the left ordering of a Bimap.
// Iterators are plain values and may be compared with ==; two
// iterators are equal when they reference the same pair, or are both
// the end of the same map. Erasing a pair invalidates the iterators
// referencing it, from either side.
//
// Stepping past the last pair yields the end iterator, and stepping
// from the end iterator wraps around: Prev gives the last pair and Next
// gives the first.
type LeftIterator[L, R any] struct {
	c   *core[L, R]
	n   treap.Index
	gen uint32
}

// IsEnd reports whether it is the end iterator of its map.
func (it LeftIterator[L, R]) IsEnd() bool {
	return it.c != nil && it.n == treap.Nil
}

// Valid reports whether it references a pair that is still present.
func (it LeftIterator[L, R]) Valid() bool {
	return it.c != nil && it.c.live(it.n, it.gen)
}

// Value returns the left value at it. It panics with
// ErrInvalidIterator if it is not Valid.
func (it LeftIterator[L, R]) Value() L {
	return it.record().Left
}

// Right returns the right value paired with the left value at it. It
// is shorthand for it.Flip().Value().
func (it LeftIterator[L, R]) Right() R {
	return it.record().Right
}

// Pair returns both values of the pair at it.
func (it LeftIterator[L, R]) Pair() (L, R) {
	s := it.record()
	return s.Left, s.Right
}

// Next returns the iterator to the following left value.
func (it LeftIterator[L, R]) Next() LeftIterator[L, R] {
	it.mustStep()
	return it.c.leftIter(it.c.next(slot.Left, it.n))
}

// Prev returns the iterator to the preceding left value.
func (it LeftIterator[L, R]) Prev() LeftIterator[L, R] {
	it.mustStep()
	return it.c.leftIter(it.c.prev(slot.Left, it.n))
}

// Flip returns the iterator to the same pair in the right ordering.
// The end iterator flips to the right end iterator.
func (it LeftIterator[L, R]) Flip() RightIterator[L, R] {
	return RightIterator[L, R](it)
}

func (it LeftIterator[L, R]) record() *slot.Slot[L, R] {
	if !it.Valid() {
		panic(ErrInvalidIterator)
	}
	return it.c.arena.At(it.n)
}

func (it LeftIterator[L, R]) mustStep() {
	if !it.IsEnd() && !it.Valid() {
		panic(ErrInvalidIterator)
	}
}

// RightIterator is a position in the right ordering of a Bimap. It
// behaves like LeftIterator with the roles of the sides exchanged.
type RightIterator[L, R any] struct {
	c   *core[L, R]
	n   treap.Index
	gen uint32
}

// IsEnd reports whether it is the end iterator of its map.
func (it RightIterator[L, R]) IsEnd() bool {
	return it.c != nil && it.n == treap.Nil
}

// Valid reports whether it references a pair that is still present.
func (it RightIterator[L, R]) Valid() bool {
	return it.c != nil && it.c.live(it.n, it.gen)
}

// Value returns the right value at it. It panics with
// ErrInvalidIterator if it is not Valid.
func (it RightIterator[L, R]) Value() R {
	return it.record().Right
}

// Left returns the left value paired with the right value at it.
func (it RightIterator[L, R]) Left() L {
	return it.record().Left
}

// Pair returns both values of the pair at it.
func (it RightIterator[L, R]) Pair() (L, R) {
	s := it.record()
	return s.Left, s.Right
}

// Next returns the iterator to the following right value.
func (it RightIterator[L, R]) Next() RightIterator[L, R] {
	it.mustStep()
	return it.c.rightIter(it.c.next(slot.Right, it.n))
}

// Prev returns the iterator to the preceding right value.
func (it RightIterator[L, R]) Prev() RightIterator[L, R] {
	it.mustStep()
	return it.c.rightIter(it.c.prev(slot.Right, it.n))
}

// Flip returns the iterator to the same pair in the left ordering.
func (it RightIterator[L, R]) Flip() LeftIterator[L, R] {
	return LeftIterator[L, R](it)
}

func (it RightIterator[L, R]) record() *slot.Slot[L, R] {
	if !it.Valid() {
		panic(ErrInvalidIterator)
	}
	return it.c.arena.At(it.n)
}

func (it RightIterator[L, R]) mustStep() {
	if !it.IsEnd() && !it.Valid() {
		panic(ErrInvalidIterator)
	}
}
