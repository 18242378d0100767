package bimap

import (
	"fmt"

	"jsouthworth.net/go/bimap/internal/slot"
	"jsouthworth.net/go/bimap/internal/treap"
)

// Verify checks the internal structure of the map: both orderings are
// valid treaps, they hold exactly the stored pairs and the pair count
// matches. A nil result means the map is consistent.
func (b *Bimap[L, R]) Verify() error {
	return b.c.verify()
}

func (c *core[L, R]) verify() error {
	nl, err := c.left.Verify()
	if err != nil {
		return fmt.Errorf("%w: left: %w", ErrCorrupt, err)
	}
	nr, err := c.right.Verify()
	if err != nil {
		return fmt.Errorf("%w: right: %w", ErrCorrupt, err)
	}
	live := c.arena.Len()
	if nl != live || nr != live {
		return fmt.Errorf("%w: %d pairs stored, %d ordered left, %d ordered right",
			ErrCorrupt, live, nl, nr)
	}
	// Every node reached must be a live slot; with equal counts both
	// orderings then cover exactly the stored pairs.
	for _, side := range [...]slot.Side{slot.Left, slot.Right} {
		for n := c.next(side, treap.Nil); n != treap.Nil; n = c.next(side, n) {
			if !c.arena.Live(n, c.arena.At(n).Gen()) {
				return fmt.Errorf("%w: %s ordering reaches released slot %d",
					ErrCorrupt, side, n)
			}
		}
	}
	return nil
}
