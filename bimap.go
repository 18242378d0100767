package bimap

import (
	"cmp"
	"fmt"
	"iter"
	"math/rand/v2"
	"strings"

	"jsouthworth.net/go/bimap/internal/slot"
	"jsouthworth.net/go/bimap/internal/treap"
)

type leftNodes[L, R any] struct {
	arena *slot.Arena[L, R]
}

func (s leftNodes[L, R]) Link(n treap.Index) *treap.Link {
	return s.arena.Link(n, slot.Left)
}

func (s leftNodes[L, R]) Key(n treap.Index) L {
	return s.arena.At(n).Left
}

type rightNodes[L, R any] struct {
	arena *slot.Arena[L, R]
}

func (s rightNodes[L, R]) Link(n treap.Index) *treap.Link {
	return s.arena.Link(n, slot.Right)
}

func (s rightNodes[L, R]) Key(n treap.Index) R {
	return s.arena.At(n).Right
}

// core is the storage of a Bimap. Iterators point at the core rather
// than the Bimap, so swapping or moving a map carries its iterators
// along with its pairs.
type core[L, R any] struct {
	arena slot.Arena[L, R]
	left  treap.Tree[L, leftNodes[L, R]]
	right treap.Tree[R, rightNodes[L, R]]
	rng   *rand.Rand
	opts  options
}

func newCore[L, R any](cmpLeft func(l1, l2 L) int, cmpRight func(r1, r2 R) int, opts options) *core[L, R] {
	c := &core[L, R]{
		rng:  opts.generator(),
		opts: opts,
	}
	c.left = treap.New[L](leftNodes[L, R]{&c.arena}, cmpLeft)
	c.right = treap.New[R](rightNodes[L, R]{&c.arena}, cmpRight)
	return c
}

// emptyLike returns a new core with the same configuration.
func (c *core[L, R]) emptyLike() *core[L, R] {
	return newCore(c.left.CompareFunc(), c.right.CompareFunc(), c.opts)
}

func (c *core[L, R]) insert(left L, right R) (treap.Index, bool) {
	if c.left.Find(left) != treap.Nil || c.right.Find(right) != treap.Nil {
		return treap.Nil, false
	}
	n := c.arena.Alloc(left, right, c.rng.Uint64(), c.rng.Uint64())
	if _, ok := c.left.Insert(n); !ok {
		panic(fmt.Sprintf("bimap: left value %v appeared during insert", left))
	}
	if _, ok := c.right.Insert(n); !ok {
		panic(fmt.Sprintf("bimap: right value %v appeared during insert", right))
	}
	c.check()
	return n, true
}

func (c *core[L, R]) erase(n treap.Index) {
	c.left.Erase(n)
	c.right.Erase(n)
	c.arena.Release(n)
	c.check()
}

func (c *core[L, R]) next(side slot.Side, n treap.Index) treap.Index {
	if side == slot.Left {
		return c.left.Next(n)
	}
	return c.right.Next(n)
}

func (c *core[L, R]) prev(side slot.Side, n treap.Index) treap.Index {
	if side == slot.Left {
		return c.left.Prev(n)
	}
	return c.right.Prev(n)
}

// live reports whether n names a pair currently held by c.
func (c *core[L, R]) live(n treap.Index, gen uint32) bool {
	return n != treap.Nil && c.arena.Live(n, gen)
}

// eraseRange removes [first, last) in side order. The range is walked
// once before anything is removed so a bad range leaves c untouched.
func (c *core[L, R]) eraseRange(side slot.Side, first, last treap.Index) error {
	for n := first; n != last; n = c.next(side, n) {
		if n == treap.Nil {
			return fmt.Errorf("%w: end of range not reachable from its start",
				ErrInvalidIterator)
		}
	}
	for n := first; n != last; {
		next := c.next(side, n)
		c.erase(n)
		n = next
	}
	return nil
}

// discard releases every pair of c so that iterators still pointing at
// it stop being valid.
func (c *core[L, R]) discard() {
	c.arena.Each(func(n treap.Index, _ *slot.Slot[L, R]) {
		c.arena.Release(n)
	})
	c.left.Reset()
	c.right.Reset()
}

func (c *core[L, R]) check() {
	if !c.opts.checked {
		return
	}
	if err := c.verify(); err != nil {
		log.Criticalf("Invariant check failed: %v", err)
		panic(err)
	}
}

func (c *core[L, R]) leftIter(n treap.Index) LeftIterator[L, R] {
	it := LeftIterator[L, R]{c: c, n: n}
	if n != treap.Nil {
		it.gen = c.arena.At(n).Gen()
	}
	return it
}

func (c *core[L, R]) rightIter(n treap.Index) RightIterator[L, R] {
	it := RightIterator[L, R]{c: c, n: n}
	if n != treap.Nil {
		it.gen = c.arena.At(n).Gen()
	}
	return it
}

// Bimap is an ordered bidirectional map between unique Left and unique
// Right values. The zero value is not usable; construct one with New
// or NewFunc.
type Bimap[L, R any] struct {
	c *core[L, R]
}

// New returns an empty Bimap ordering both sides by their natural
// order.
func New[L, R cmp.Ordered](opts ...Option) *Bimap[L, R] {
	return NewFunc(cmp.Compare[L], cmp.Compare[R], opts...)
}

// NewFunc returns an empty Bimap ordering the left side by cmpLeft and
// the right side by cmpRight. The comparison functions must describe a
// strict weak order and must not change behavior while the map is in
// use.
func NewFunc[L, R any](cmpLeft func(l1, l2 L) int, cmpRight func(r1, r2 R) int, opts ...Option) *Bimap[L, R] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Bimap[L, R]{
		c: newCore(cmpLeft, cmpRight, o),
	}
}

// Insert adds the pair (left, right) if neither value is present on its
// side. It returns an iterator to the new pair in left order and true.
// If either value is already present nothing changes and EndLeft, false
// is returned.
func (b *Bimap[L, R]) Insert(left L, right R) (LeftIterator[L, R], bool) {
	n, ok := b.c.insert(left, right)
	if !ok {
		log.Tracef("Rejected pair (%v, %v): value already present", left, right)
		return b.EndLeft(), false
	}
	return b.c.leftIter(n), true
}

// EraseLeft removes the pair referenced by it and returns an iterator
// to the following pair in left order. It returns ErrInvalidIterator,
// leaving the map unchanged, if it is an end iterator or does not
// reference a pair of this map.
func (b *Bimap[L, R]) EraseLeft(it LeftIterator[L, R]) (LeftIterator[L, R], error) {
	if it.c != b.c || !b.c.live(it.n, it.gen) {
		log.Tracef("Refused erase through invalid left iterator %d", it.n)
		return b.EndLeft(), ErrInvalidIterator
	}
	next := b.c.left.Next(it.n)
	b.c.erase(it.n)
	return b.c.leftIter(next), nil
}

// EraseRight removes the pair referenced by it and returns an iterator
// to the following pair in right order. The error cases are those of
// EraseLeft.
func (b *Bimap[L, R]) EraseRight(it RightIterator[L, R]) (RightIterator[L, R], error) {
	if it.c != b.c || !b.c.live(it.n, it.gen) {
		log.Tracef("Refused erase through invalid right iterator %d", it.n)
		return b.EndRight(), ErrInvalidIterator
	}
	next := b.c.right.Next(it.n)
	b.c.erase(it.n)
	return b.c.rightIter(next), nil
}

// EraseLeftKey removes the pair whose left value is left. It reports
// whether a pair was removed.
func (b *Bimap[L, R]) EraseLeftKey(left L) bool {
	n := b.c.left.Find(left)
	if n == treap.Nil {
		return false
	}
	b.c.erase(n)
	return true
}

// EraseRightKey removes the pair whose right value is right. It reports
// whether a pair was removed.
func (b *Bimap[L, R]) EraseRightKey(right R) bool {
	n := b.c.right.Find(right)
	if n == treap.Nil {
		return false
	}
	b.c.erase(n)
	return true
}

func (b *Bimap[L, R]) validRangeEnd(n treap.Index, gen uint32) bool {
	return n == treap.Nil || b.c.live(n, gen)
}

// EraseLeftRange removes the pairs in [first, last) in left order and
// returns last. Both iterators must belong to this map and last must be
// reachable from first; otherwise ErrInvalidIterator is returned and
// nothing is removed.
func (b *Bimap[L, R]) EraseLeftRange(first, last LeftIterator[L, R]) (LeftIterator[L, R], error) {
	if first.c != b.c || last.c != b.c ||
		!b.validRangeEnd(first.n, first.gen) || !b.validRangeEnd(last.n, last.gen) {
		return last, ErrInvalidIterator
	}
	return last, b.c.eraseRange(slot.Left, first.n, last.n)
}

// EraseRightRange removes the pairs in [first, last) in right order and
// returns last. The error cases are those of EraseLeftRange.
func (b *Bimap[L, R]) EraseRightRange(first, last RightIterator[L, R]) (RightIterator[L, R], error) {
	if first.c != b.c || last.c != b.c ||
		!b.validRangeEnd(first.n, first.gen) || !b.validRangeEnd(last.n, last.gen) {
		return last, ErrInvalidIterator
	}
	return last, b.c.eraseRange(slot.Right, first.n, last.n)
}

// FindLeft returns an iterator to the pair whose left value is left,
// or EndLeft.
func (b *Bimap[L, R]) FindLeft(left L) LeftIterator[L, R] {
	return b.c.leftIter(b.c.left.Find(left))
}

// FindRight returns an iterator to the pair whose right value is right,
// or EndRight.
func (b *Bimap[L, R]) FindRight(right R) RightIterator[L, R] {
	return b.c.rightIter(b.c.right.Find(right))
}

// AtLeft returns the right value paired with left. If left is absent
// the returned error wraps ErrNotFound.
func (b *Bimap[L, R]) AtLeft(left L) (R, error) {
	n := b.c.left.Find(left)
	if n == treap.Nil {
		var zero R
		return zero, fmt.Errorf("%w: left %v", ErrNotFound, left)
	}
	return b.c.arena.At(n).Right, nil
}

// AtRight returns the left value paired with right. If right is absent
// the returned error wraps ErrNotFound.
func (b *Bimap[L, R]) AtRight(right R) (L, error) {
	n := b.c.right.Find(right)
	if n == treap.Nil {
		var zero L
		return zero, fmt.Errorf("%w: right %v", ErrNotFound, right)
	}
	return b.c.arena.At(n).Left, nil
}

// AtLeftOrDefault returns the right value paired with left. If left is
// absent the pair (left, zero R) is inserted and the zero value is
// returned. Any existing pair holding the zero R is erased first to
// make room, so this may evict an unrelated pair.
func (b *Bimap[L, R]) AtLeftOrDefault(left L) R {
	if n := b.c.left.Find(left); n != treap.Nil {
		return b.c.arena.At(n).Right
	}
	var zero R
	if n := b.c.right.Find(zero); n != treap.Nil {
		log.Debugf("Evicting (%v, %v) to pair %v with the zero value",
			b.c.arena.At(n).Left, zero, left)
		b.c.erase(n)
	}
	b.EraseLeftKey(left)
	it, ok := b.Insert(left, zero)
	if !ok {
		panic(fmt.Sprintf("bimap: insert of (%v, %v) failed after eviction", left, zero))
	}
	return it.Right()
}

// AtRightOrDefault returns the left value paired with right. If right
// is absent the pair (zero L, right) is inserted and the zero value is
// returned. Any existing pair holding the zero L is erased first.
func (b *Bimap[L, R]) AtRightOrDefault(right R) L {
	if n := b.c.right.Find(right); n != treap.Nil {
		return b.c.arena.At(n).Left
	}
	var zero L
	if n := b.c.left.Find(zero); n != treap.Nil {
		log.Debugf("Evicting (%v, %v) to pair %v with the zero value",
			zero, b.c.arena.At(n).Right, right)
		b.c.erase(n)
	}
	b.EraseRightKey(right)
	it, ok := b.Insert(zero, right)
	if !ok {
		panic(fmt.Sprintf("bimap: insert of (%v, %v) failed after eviction", zero, right))
	}
	return it.Value()
}

// LowerBoundLeft returns an iterator to the first pair whose left value
// is not less than left.
func (b *Bimap[L, R]) LowerBoundLeft(left L) LeftIterator[L, R] {
	return b.c.leftIter(b.c.left.LowerBound(left))
}

// UpperBoundLeft returns an iterator to the first pair whose left value
// is greater than left.
func (b *Bimap[L, R]) UpperBoundLeft(left L) LeftIterator[L, R] {
	return b.c.leftIter(b.c.left.UpperBound(left))
}

// LowerBoundRight returns an iterator to the first pair whose right
// value is not less than right.
func (b *Bimap[L, R]) LowerBoundRight(right R) RightIterator[L, R] {
	return b.c.rightIter(b.c.right.LowerBound(right))
}

// UpperBoundRight returns an iterator to the first pair whose right
// value is greater than right.
func (b *Bimap[L, R]) UpperBoundRight(right R) RightIterator[L, R] {
	return b.c.rightIter(b.c.right.UpperBound(right))
}

// BeginLeft returns an iterator to the smallest left value.
func (b *Bimap[L, R]) BeginLeft() LeftIterator[L, R] {
	return b.c.leftIter(b.c.left.Min())
}

// EndLeft returns the iterator one past the largest left value.
func (b *Bimap[L, R]) EndLeft() LeftIterator[L, R] {
	return b.c.leftIter(treap.Nil)
}

// BeginRight returns an iterator to the smallest right value.
func (b *Bimap[L, R]) BeginRight() RightIterator[L, R] {
	return b.c.rightIter(b.c.right.Min())
}

// EndRight returns the iterator one past the largest right value.
func (b *Bimap[L, R]) EndRight() RightIterator[L, R] {
	return b.c.rightIter(treap.Nil)
}

// Len returns the number of pairs.
func (b *Bimap[L, R]) Len() int {
	return b.c.arena.Len()
}

// Empty reports whether the map holds no pairs.
func (b *Bimap[L, R]) Empty() bool {
	return b.Len() == 0
}

// Clear removes every pair. Outstanding iterators become invalid.
func (b *Bimap[L, R]) Clear() {
	old := b.c
	b.c = old.emptyLike()
	old.discard()
}

// Equal reports whether both maps hold equivalent pairs under the
// comparison functions of b: walking both maps in left order, each left
// value and the right value paired with it must compare as zero. Maps
// whose sides match only as sets are not equal. Use the package level
// Equal or EqualFunc when equivalence is coarser than equality.
func (b *Bimap[L, R]) Equal(other *Bimap[L, R]) bool {
	if b == nil || other == nil {
		return b == other
	}
	cl, cr := b.c.left.CompareFunc(), b.c.right.CompareFunc()
	return b.EqualFunc(other,
		func(l1, l2 L) bool { return cl(l1, l2) == 0 },
		func(r1, r2 R) bool { return cr(r1, r2) == 0 })
}

// EqualFunc is like Equal but compares the values of corresponding
// pairs with eqLeft and eqRight.
func (b *Bimap[L, R]) EqualFunc(other *Bimap[L, R], eqLeft func(l1, l2 L) bool, eqRight func(r1, r2 R) bool) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b == other || b.c == other.c {
		return true
	}
	if b.Len() != other.Len() {
		return false
	}
	bi, oi := b.c.left.Min(), other.c.left.Min()
	for bi != treap.Nil && oi != treap.Nil {
		bs, os := b.c.arena.At(bi), other.c.arena.At(oi)
		if !eqLeft(bs.Left, os.Left) || !eqRight(bs.Right, os.Right) {
			return false
		}
		bi, oi = b.c.left.Next(bi), other.c.left.Next(oi)
	}
	return bi == oi
}

// Equal reports whether a and b hold the same pairs, comparing values
// with ==.
func Equal[L, R comparable](a, b *Bimap[L, R]) bool {
	return a.EqualFunc(b,
		func(l1, l2 L) bool { return l1 == l2 },
		func(r1, r2 R) bool { return r1 == r2 })
}

// Clone returns a deep copy of the map built by inserting every pair in
// left order into a new map with the same comparison functions and
// options.
func (b *Bimap[L, R]) Clone() *Bimap[L, R] {
	out := &Bimap[L, R]{c: b.c.emptyLike()}
	for n := b.c.left.Min(); n != treap.Nil; n = b.c.left.Next(n) {
		s := b.c.arena.At(n)
		out.c.insert(s.Left, s.Right)
	}
	return out
}

// Assign replaces the contents of b with a deep copy of other.
func (b *Bimap[L, R]) Assign(other *Bimap[L, R]) {
	if b == other {
		return
	}
	old := b.c
	b.c = other.Clone().c
	old.discard()
}

// Move returns a new Bimap that takes over the pairs of b in constant
// time. Afterwards b is empty. Iterators into b follow the pairs.
func (b *Bimap[L, R]) Move() *Bimap[L, R] {
	out := &Bimap[L, R]{c: b.c}
	b.c = b.c.emptyLike()
	return out
}

// MoveFrom replaces the contents of b with the pairs of other in
// constant time, leaving other empty.
func (b *Bimap[L, R]) MoveFrom(other *Bimap[L, R]) {
	if b == other {
		return
	}
	old := b.c
	b.c = other.c
	other.c = other.c.emptyLike()
	old.discard()
}

// Swap exchanges the contents of two maps in constant time.
func (b *Bimap[L, R]) Swap(other *Bimap[L, R]) {
	b.c, other.c = other.c, b.c
}

// All returns an iterator over the pairs in left order.
func (b *Bimap[L, R]) All() iter.Seq2[L, R] {
	return func(yield func(L, R) bool) {
		c := b.c
		for n := c.left.Min(); n != treap.Nil; {
			s := c.arena.At(n)
			next := c.left.Next(n)
			if !yield(s.Left, s.Right) {
				return
			}
			n = next
		}
	}
}

// AllRight returns an iterator over the pairs in right order, right
// value first.
func (b *Bimap[L, R]) AllRight() iter.Seq2[R, L] {
	return func(yield func(R, L) bool) {
		c := b.c
		for n := c.right.Min(); n != treap.Nil; {
			s := c.arena.At(n)
			next := c.right.Next(n)
			if !yield(s.Right, s.Left) {
				return
			}
			n = next
		}
	}
}

// Backward returns an iterator over the pairs in reverse left order.
func (b *Bimap[L, R]) Backward() iter.Seq2[L, R] {
	return func(yield func(L, R) bool) {
		c := b.c
		for n := c.left.Max(); n != treap.Nil; {
			s := c.arena.At(n)
			prev := c.left.Prev(n)
			if !yield(s.Left, s.Right) {
				return
			}
			n = prev
		}
	}
}

// String returns a string representation of the map in left order.
func (b *Bimap[L, R]) String() string {
	var sb strings.Builder
	fmt.Fprint(&sb, "{ ")
	for l, r := range b.All() {
		fmt.Fprintf(&sb, "[%v %v] ", l, r)
	}
	fmt.Fprint(&sb, "}")
	return sb.String()
}
