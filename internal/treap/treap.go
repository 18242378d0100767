// Package treap implements an intrusive treap over externally owned
// nodes. Nodes are addressed by Index and their linkage lives wherever
// the Nodes accessor says it does, so several trees may thread through
// the same node storage. The tree never allocates or frees nodes.
package treap // import "jsouthworth.net/go/bimap/internal/treap"

// Index addresses a node in the caller's storage.
type Index int32

// Nil is the absent node. It doubles as the end position of a tree.
const Nil Index = -1

// Link is one linkage triple plus the heap priority of a node for a
// single tree.
type Link struct {
	Parent   Index
	Left     Index
	Right    Index
	Priority uint64
}

// Reset detaches the link while keeping its priority.
func (l *Link) Reset() {
	l.Parent, l.Left, l.Right = Nil, Nil, Nil
}

// Nodes gives the tree access to the link and key of a node.
type Nodes[K any] interface {
	Link(n Index) *Link
	Key(n Index) K
}

// Tree is an ordered index over nodes provided by N.
type Tree[K any, N Nodes[K]] struct {
	root  Index
	nodes N
	cmp   func(k1, k2 K) int
}

// New returns an empty tree ordered by cmp.
func New[K any, N Nodes[K]](nodes N, cmp func(k1, k2 K) int) Tree[K, N] {
	return Tree[K, N]{
		root:  Nil,
		nodes: nodes,
		cmp:   cmp,
	}
}

// Root returns the root node or Nil.
func (t *Tree[K, N]) Root() Index {
	return t.root
}

// Empty reports whether the tree has no nodes.
func (t *Tree[K, N]) Empty() bool {
	return t.root == Nil
}

// Reset forgets every node without touching their links.
func (t *Tree[K, N]) Reset() {
	t.root = Nil
}

// Compare exposes the ordering of the tree.
func (t *Tree[K, N]) Compare(k1, k2 K) int {
	return t.cmp(k1, k2)
}

// CompareFunc returns the comparison function the tree was built with.
func (t *Tree[K, N]) CompareFunc() func(k1, k2 K) int {
	return t.cmp
}

// Swap exchanges the contents of two trees over the same kind of
// storage.
func (t *Tree[K, N]) Swap(o *Tree[K, N]) {
	*t, *o = *o, *t
}

func (t *Tree[K, N]) link(n Index) *Link {
	return t.nodes.Link(n)
}

func (t *Tree[K, N]) key(n Index) K {
	return t.nodes.Key(n)
}

// before orders nodes by priority; ties fall back to the index so the
// order is total.
func (t *Tree[K, N]) before(a, b Index) bool {
	pa, pb := t.link(a).Priority, t.link(b).Priority
	if pa != pb {
		return pa < pb
	}
	return a < b
}

func (t *Tree[K, N]) setLeft(n, child Index) {
	t.link(n).Left = child
	if child != Nil {
		t.link(child).Parent = n
	}
}

func (t *Tree[K, N]) setRight(n, child Index) {
	t.link(n).Right = child
	if child != Nil {
		t.link(child).Parent = n
	}
}

func (t *Tree[K, N]) setRoot(n Index) {
	t.root = n
	if n != Nil {
		t.link(n).Parent = Nil
	}
}

// split partitions the subtree rooted at n into keys below key and the
// rest. With inclusive set, keys equal to key go to lo as well.
func (t *Tree[K, N]) split(n Index, key K, inclusive bool) (lo, hi Index) {
	lo, hi = Nil, Nil
	loTail, hiTail := Nil, Nil
	for n != Nil {
		c := t.cmp(t.key(n), key)
		if c < 0 || (inclusive && c == 0) {
			next := t.link(n).Right
			if loTail == Nil {
				lo = n
				t.link(n).Parent = Nil
			} else {
				t.setRight(loTail, n)
			}
			loTail = n
			n = next
		} else {
			next := t.link(n).Left
			if hiTail == Nil {
				hi = n
				t.link(n).Parent = Nil
			} else {
				t.setLeft(hiTail, n)
			}
			hiTail = n
			n = next
		}
	}
	if loTail != Nil {
		t.link(loTail).Right = Nil
	}
	if hiTail != Nil {
		t.link(hiTail).Left = Nil
	}
	return lo, hi
}

// merge joins two subtrees where every key of lo orders before every
// key of hi. The returned root has no parent.
func (t *Tree[K, N]) merge(lo, hi Index) Index {
	root, tail := Nil, Nil
	tailRight := false
	attach := func(n Index) {
		switch {
		case tail == Nil:
			root = n
			if n != Nil {
				t.link(n).Parent = Nil
			}
		case tailRight:
			t.setRight(tail, n)
		default:
			t.setLeft(tail, n)
		}
	}
	for lo != Nil && hi != Nil {
		if t.before(lo, hi) {
			attach(lo)
			tail, tailRight = lo, true
			lo = t.link(lo).Right
		} else {
			attach(hi)
			tail, tailRight = hi, false
			hi = t.link(hi).Left
		}
	}
	if lo != Nil {
		attach(lo)
	} else {
		attach(hi)
	}
	return root
}

// Insert links n into the tree. If a node with an equal key is already
// present n is left untouched and the existing node is returned along
// with false.
func (t *Tree[K, N]) Insert(n Index) (Index, bool) {
	key := t.key(n)
	lo, rest := t.split(t.root, key, false)
	mid, hi := t.split(rest, key, true)
	if mid != Nil {
		t.setRoot(t.merge(t.merge(lo, mid), hi))
		return mid, false
	}
	t.link(n).Reset()
	t.setRoot(t.merge(t.merge(lo, n), hi))
	return n, true
}

// Erase unlinks n, which must be in the tree.
func (t *Tree[K, N]) Erase(n Index) {
	l := t.link(n)
	parent := l.Parent
	merged := t.merge(l.Left, l.Right)
	switch {
	case parent == Nil:
		t.setRoot(merged)
	case t.link(parent).Left == n:
		t.setLeft(parent, merged)
	default:
		t.setRight(parent, merged)
	}
	l.Reset()
}

// LowerBound returns the first node whose key is not less than key, or
// Nil.
func (t *Tree[K, N]) LowerBound(key K) Index {
	lo, hi := t.split(t.root, key, false)
	found := leftmost(t, hi)
	t.setRoot(t.merge(lo, hi))
	return found
}

// UpperBound returns the first node whose key is greater than key, or
// Nil.
func (t *Tree[K, N]) UpperBound(key K) Index {
	n := t.LowerBound(key)
	if n != Nil && t.cmp(t.key(n), key) == 0 {
		return t.Next(n)
	}
	return n
}

// Find returns the node with a key equal to key, or Nil.
func (t *Tree[K, N]) Find(key K) Index {
	n := t.LowerBound(key)
	if n != Nil && t.cmp(t.key(n), key) == 0 {
		return n
	}
	return Nil
}

// Min returns the first node in order, or Nil.
func (t *Tree[K, N]) Min() Index {
	return leftmost(t, t.root)
}

// Max returns the last node in order, or Nil.
func (t *Tree[K, N]) Max() Index {
	return rightmost(t, t.root)
}

func leftmost[K any, N Nodes[K]](t *Tree[K, N], n Index) Index {
	if n == Nil {
		return Nil
	}
	for l := t.link(n).Left; l != Nil; l = t.link(n).Left {
		n = l
	}
	return n
}

func rightmost[K any, N Nodes[K]](t *Tree[K, N], n Index) Index {
	if n == Nil {
		return Nil
	}
	for r := t.link(n).Right; r != Nil; r = t.link(n).Right {
		n = r
	}
	return n
}

// Next returns the in-order successor of n. The successor of the last
// node is Nil and the successor of Nil is the first node.
func (t *Tree[K, N]) Next(n Index) Index {
	if n == Nil {
		return t.Min()
	}
	if r := t.link(n).Right; r != Nil {
		return leftmost(t, r)
	}
	for {
		p := t.link(n).Parent
		if p == Nil || t.link(p).Left == n {
			return p
		}
		n = p
	}
}

// Prev returns the in-order predecessor of n. The predecessor of Nil is
// the last node, which makes the end position one past the last node.
func (t *Tree[K, N]) Prev(n Index) Index {
	if n == Nil {
		return t.Max()
	}
	if l := t.link(n).Left; l != Nil {
		return rightmost(t, l)
	}
	for {
		p := t.link(n).Parent
		if p == Nil || t.link(p).Right == n {
			return p
		}
		n = p
	}
}
