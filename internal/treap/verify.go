package treap

import "fmt"

// Error is the error type returned when a tree fails verification.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrParentLink = Error("treap: parent link does not match child")
	ErrOrder      = Error("treap: keys out of order")
	ErrHeap       = Error("treap: heap property violated")
	ErrRootParent = Error("treap: root has a parent")
)

type frame struct {
	n      Index
	lo, hi Index // nearest ancestors bounding n, Nil when unbounded
}

// Verify walks the whole tree and checks parent links, key order and
// the heap property. It returns the number of nodes reached.
func (t *Tree[K, N]) Verify() (int, error) {
	if t.root == Nil {
		return 0, nil
	}
	if p := t.link(t.root).Parent; p != Nil {
		return 0, fmt.Errorf("%w: root %d parent %d", ErrRootParent, t.root, p)
	}
	count := 0
	stack := []frame{{n: t.root, lo: Nil, hi: Nil}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++

		key := t.key(f.n)
		if f.lo != Nil && t.cmp(t.key(f.lo), key) >= 0 {
			return count, fmt.Errorf("%w: node %d not above %d", ErrOrder, f.n, f.lo)
		}
		if f.hi != Nil && t.cmp(key, t.key(f.hi)) >= 0 {
			return count, fmt.Errorf("%w: node %d not below %d", ErrOrder, f.n, f.hi)
		}

		l := t.link(f.n)
		for _, child := range [2]Index{l.Left, l.Right} {
			if child == Nil {
				continue
			}
			if p := t.link(child).Parent; p != f.n {
				return count, fmt.Errorf("%w: node %d has parent %d, want %d",
					ErrParentLink, child, p, f.n)
			}
			if !t.before(f.n, child) {
				return count, fmt.Errorf("%w: node %d (%d) over %d (%d)",
					ErrHeap, f.n, l.Priority, child, t.link(child).Priority)
			}
		}
		if l.Left != Nil {
			stack = append(stack, frame{n: l.Left, lo: f.lo, hi: f.n})
		}
		if l.Right != Nil {
			stack = append(stack, frame{n: l.Right, lo: f.n, hi: f.hi})
		}
	}
	return count, nil
}

// Height returns the number of nodes on the longest root to leaf path.
func (t *Tree[K, N]) Height() int {
	type level struct {
		n     Index
		depth int
	}
	height := 0
	if t.root == Nil {
		return height
	}
	stack := []level{{t.root, 1}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.depth > height {
			height = cur.depth
		}
		l := t.link(cur.n)
		if l.Left != Nil {
			stack = append(stack, level{l.Left, cur.depth + 1})
		}
		if l.Right != Nil {
			stack = append(stack, level{l.Right, cur.depth + 1})
		}
	}
	return height
}
