// Package slot implements the node store shared by both sides of a
// bimap. Each slot holds one pair and the two linkage triples that
// thread it into the left and right trees.
package slot // import "jsouthworth.net/go/bimap/internal/slot"

import (
	"math"

	"jsouthworth.net/go/bimap/internal/treap"
)

// Side selects one of the two linkage triples of a slot.
type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "invalid"
	}
}

// Slot is a single pair record.
type Slot[L, R any] struct {
	Left  L
	Right R
	Links [2]treap.Link

	gen  uint32
	live bool
}

// Gen returns the generation of the slot. It changes every time the
// slot is released.
func (s *Slot[L, R]) Gen() uint32 {
	return s.gen
}

// Arena owns every slot. Released slots are kept on a free list and
// handed out again by Alloc.
type Arena[L, R any] struct {
	slots []Slot[L, R]
	free  []treap.Index
	live  int
}

// Alloc stores a new pair and returns its index. The links start
// detached with the given priorities.
func (a *Arena[L, R]) Alloc(left L, right R, leftPri, rightPri uint64) treap.Index {
	var n treap.Index
	if k := len(a.free); k > 0 {
		n = a.free[k-1]
		a.free = a.free[:k-1]
	} else {
		n = indexOf(len(a.slots))
		a.slots = append(a.slots, Slot[L, R]{})
	}
	s := &a.slots[n]
	s.Left = left
	s.Right = right
	s.Links[Left] = treap.Link{
		Parent: treap.Nil, Left: treap.Nil, Right: treap.Nil,
		Priority: leftPri,
	}
	s.Links[Right] = treap.Link{
		Parent: treap.Nil, Left: treap.Nil, Right: treap.Nil,
		Priority: rightPri,
	}
	s.live = true
	a.live++
	return n
}

// indexOf converts a slot position to an Index, panicking once the
// position no longer fits.
func indexOf(pos int) treap.Index {
	if pos < 0 || pos > math.MaxInt32 {
		panic("slot: arena exceeds the index range")
	}
	return treap.Index(pos)
}

// Release returns the slot to the free list. The stored values are
// zeroed so the arena does not keep them reachable. A slot whose
// generation wraps around is retired instead of reused.
func (a *Arena[L, R]) Release(n treap.Index) {
	s := &a.slots[n]
	if !s.live {
		panic("slot: release of free slot")
	}
	var (
		zl L
		zr R
	)
	s.Left, s.Right = zl, zr
	s.Links[Left].Reset()
	s.Links[Right].Reset()
	s.live = false
	s.gen++
	a.live--
	if s.gen == 0 {
		return
	}
	a.free = append(a.free, n)
}

// At returns the slot at n. The pointer is only valid until the next
// Alloc.
func (a *Arena[L, R]) At(n treap.Index) *Slot[L, R] {
	return &a.slots[n]
}

// Link returns the linkage triple of n for the given side.
func (a *Arena[L, R]) Link(n treap.Index, side Side) *treap.Link {
	return &a.slots[n].Links[side]
}

// Live reports whether n currently holds a pair of generation gen.
func (a *Arena[L, R]) Live(n treap.Index, gen uint32) bool {
	if n < 0 || int(n) >= len(a.slots) {
		return false
	}
	s := &a.slots[n]
	return s.live && s.gen == gen
}

// Len returns the number of live slots.
func (a *Arena[L, R]) Len() int {
	return a.live
}

// Cap returns the number of slots ever allocated, live or free.
func (a *Arena[L, R]) Cap() int {
	return len(a.slots)
}

// Each calls fn for every live slot in index order.
func (a *Arena[L, R]) Each(fn func(n treap.Index, s *Slot[L, R])) {
	for i := range a.slots {
		if a.slots[i].live {
			fn(treap.Index(i), &a.slots[i])
		}
	}
}
