package treap

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// intNodes is a minimal node store for exercising the tree directly.
type intNodes struct {
	keys  []int
	links []Link
}

func (s *intNodes) Link(n Index) *Link {
	return &s.links[n]
}

func (s *intNodes) Key(n Index) int {
	return s.keys[n]
}

func (s *intNodes) add(key int, pri uint64) Index {
	s.keys = append(s.keys, key)
	s.links = append(s.links, Link{Parent: Nil, Left: Nil, Right: Nil, Priority: pri})
	return Index(len(s.keys) - 1)
}

type intset struct {
	input   []int
	entries []int
	nodes   *intNodes
	t       Tree[int, *intNodes]
}

func (s *intset) String() string {
	return fmt.Sprintf("%v", s.entries)
}

func (s *intset) insert(key int, rng *rand.Rand) bool {
	n := s.nodes.add(key, rng.Uint64())
	_, added := s.t.Insert(n)
	if added {
		s.entries = append(s.entries, key)
	}
	return added
}

func (s *intset) keys() []int {
	var out []int
	for n := s.t.Min(); n != Nil; n = s.t.Next(n) {
		out = append(out, s.nodes.Key(n))
	}
	return out
}

func (s *intset) sorted() []int {
	out := slices.Clone(s.entries)
	slices.Sort(out)
	return out
}

func makeIntSet(entries []int) *intset {
	nodes := &intNodes{}
	s := &intset{
		input: entries,
		nodes: nodes,
		t:     New[int](nodes, cmp.Compare[int]),
	}
	rng := rand.New(rand.NewSource(int64(len(entries))))
	for _, e := range entries {
		s.insert(e, rng)
	}
	return s
}

func unmakeIntSet(s *intset) []int {
	return s.input
}

var genIntSet = gopter.DeriveGen(makeIntSet, unmakeIntSet,
	gen.SliceOfN(100, gen.IntRange(-500, 500)))

func TestIntSetRoundTrip(t *testing.T) {
	in := []int{4, 1, 4, 2, 1}
	s := makeIntSet(in)
	if !slices.Equal(unmakeIntSet(s), in) {
		t.Fatalf("unmake lost input: %v", unmakeIntSet(s))
	}
	if !slices.Equal(s.keys(), []int{1, 2, 4}) {
		t.Fatalf("unexpected keys %v", s.keys())
	}
}

func propValid(s *intset) bool {
	n, err := s.t.Verify()
	return err == nil && n == len(s.entries)
}

func TestTreeValid(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)
	properties.Property("Verify passes after inserts", prop.ForAll(
		propValid,
		genIntSet,
	))
	properties.Property("in-order walk is sorted and unique", prop.ForAll(
		func(s *intset) bool {
			return slices.Equal(s.keys(), s.sorted())
		},
		genIntSet,
	))
	properties.Property("reverse walk mirrors forward walk", prop.ForAll(
		func(s *intset) bool {
			var back []int
			for n := s.t.Max(); n != Nil; n = s.t.Prev(n) {
				back = append(back, s.nodes.Key(n))
			}
			slices.Reverse(back)
			return slices.Equal(back, s.keys())
		},
		genIntSet,
	))
	properties.TestingRun(t)
}

func TestInsert(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)
	properties.Property("s.Insert(k) -> s.Find(k) != Nil", prop.ForAll(
		func(s *intset, k int) bool {
			s.insert(k, rand.New(rand.NewSource(1)))
			n := s.t.Find(k)
			return n != Nil && s.nodes.Key(n) == k && propValid(s)
		},
		genIntSet,
		gen.IntRange(-600, 600),
	))
	properties.Property("duplicate insert returns the existing node", prop.ForAll(
		func(s *intset, k int) bool {
			s.insert(k, rand.New(rand.NewSource(2)))
			existing := s.t.Find(k)
			dup := s.nodes.add(k, 0)
			got, added := s.t.Insert(dup)
			return !added && got == existing &&
				s.nodes.Link(dup).Parent == Nil &&
				propValid(s)
		},
		genIntSet,
		gen.IntRange(-600, 600),
	))
	properties.Property("Insert doesn't add more than the expected item", prop.ForAll(
		func(s *intset, x, y int) bool {
			before := s.t.Find(x) != Nil
			s.insert(y, rand.New(rand.NewSource(3)))
			after := s.t.Find(x) != Nil
			return after == (before || x == y)
		},
		genIntSet,
		gen.IntRange(-600, 600),
		gen.IntRange(-600, 600),
	))
	properties.TestingRun(t)
}

func TestErase(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)
	properties.Property("Erase removes member and keeps tree valid", prop.ForAll(
		func(s *intset, k int) bool {
			n := s.t.Find(k)
			if n == Nil {
				return true
			}
			s.t.Erase(n)
			s.entries = slices.DeleteFunc(s.entries, func(e int) bool { return e == k })
			l := s.nodes.Link(n)
			return s.t.Find(k) == Nil &&
				l.Parent == Nil && l.Left == Nil && l.Right == Nil &&
				propValid(s)
		},
		genIntSet,
		gen.IntRange(-500, 500),
	))
	properties.Property("Erase all leaves an empty tree", prop.ForAll(
		func(s *intset) bool {
			for _, e := range s.entries {
				s.t.Erase(s.t.Find(e))
				if _, err := s.t.Verify(); err != nil {
					return false
				}
			}
			return s.t.Empty() && s.t.Min() == Nil
		},
		genIntSet,
	))
	properties.TestingRun(t)
}

func TestBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)
	properties.Property("LowerBound agrees with sorted slice", prop.ForAll(
		func(s *intset, k int) bool {
			sorted := s.sorted()
			i, _ := slices.BinarySearch(sorted, k)
			n := s.t.LowerBound(k)
			if i == len(sorted) {
				return n == Nil
			}
			return n != Nil && s.nodes.Key(n) == sorted[i]
		},
		genIntSet,
		gen.IntRange(-600, 600),
	))
	properties.Property("UpperBound agrees with sorted slice", prop.ForAll(
		func(s *intset, k int) bool {
			sorted := s.sorted()
			i, found := slices.BinarySearch(sorted, k)
			if found {
				i++
			}
			n := s.t.UpperBound(k)
			if i == len(sorted) {
				return n == Nil
			}
			return n != Nil && s.nodes.Key(n) == sorted[i]
		},
		genIntSet,
		gen.IntRange(-600, 600),
	))
	properties.Property("searching restores the exact shape", prop.ForAll(
		func(s *intset, k int) bool {
			before := slices.Clone(s.nodes.links)
			root := s.t.Root()
			s.t.Find(k)
			s.t.LowerBound(k)
			s.t.UpperBound(k)
			return root == s.t.Root() && slices.Equal(before, s.nodes.links)
		},
		genIntSet,
		gen.IntRange(-600, 600),
	))
	properties.TestingRun(t)
}

func TestSplitMerge(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)
	properties.Property("split partitions around the key", prop.ForAll(
		func(s *intset, k int, inclusive bool) bool {
			lo, hi := s.t.split(s.t.Root(), k, inclusive)
			for _, side := range []struct {
				root Index
				ok   func(int) bool
			}{
				{lo, func(v int) bool { return v < k || (inclusive && v == k) }},
				{hi, func(v int) bool { return v > k || (!inclusive && v == k) }},
			} {
				sub := Tree[int, *intNodes]{root: side.root, nodes: s.nodes, cmp: cmp.Compare[int]}
				if _, err := sub.Verify(); err != nil {
					return false
				}
				for n := sub.Min(); n != Nil; n = sub.Next(n) {
					if !side.ok(s.nodes.Key(n)) {
						return false
					}
				}
			}
			s.t.setRoot(s.t.merge(lo, hi))
			return propValid(s) && slices.Equal(s.keys(), s.sorted())
		},
		genIntSet,
		gen.IntRange(-600, 600),
		gen.Bool(),
	))
	properties.TestingRun(t)
}

func TestNextPrevBoundaries(t *testing.T) {
	s := makeIntSet([]int{5, 1, 3})
	first, last := s.t.Min(), s.t.Max()
	if s.nodes.Key(first) != 1 || s.nodes.Key(last) != 5 {
		t.Fatalf("unexpected bounds %d %d\n%s", s.nodes.Key(first), s.nodes.Key(last),
			spew.Sdump(s.nodes.links))
	}
	if s.t.Next(last) != Nil {
		t.Fatal("Next of last node must be Nil")
	}
	if s.t.Prev(first) != Nil {
		t.Fatal("Prev of first node must be Nil")
	}
	if s.t.Prev(Nil) != last {
		t.Fatal("Prev of Nil must be the last node")
	}
	if s.t.Next(Nil) != first {
		t.Fatal("Next of Nil must be the first node")
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	s := makeIntSet([]int{1, 2, 3, 4, 5, 6, 7, 8})
	root := s.t.Root()
	l := s.nodes.Link(root)
	child := l.Left
	if child == Nil {
		child = l.Right
	}
	// Swap priorities between the root and a child.
	cl := s.nodes.Link(child)
	l.Priority, cl.Priority = cl.Priority, l.Priority
	if l.Priority == cl.Priority {
		t.Skip("equal priorities drawn")
	}
	if _, err := s.t.Verify(); err == nil {
		t.Fatalf("expected heap violation\n%s", spew.Sdump(s.nodes.links))
	}
}

func TestHeightIsLogarithmic(t *testing.T) {
	s := makeIntSet(nil)
	rng := rand.New(rand.NewSource(777))
	// Sorted insertion order is the worst case for an unbalanced tree.
	for i := 0; i < 10000; i++ {
		s.insert(i, rng)
	}
	if n, err := s.t.Verify(); err != nil || n != 10000 {
		t.Fatalf("verify: %d %v", n, err)
	}
	if h := s.t.Height(); h > 60 {
		t.Fatalf("height %d too large for 10000 nodes", h)
	}
}

func BenchmarkInsert(b *testing.B) {
	b.ReportAllocs()
	s := makeIntSet(nil)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < b.N; i++ {
		s.insert(i, rng)
	}
}
