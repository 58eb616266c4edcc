package viewstack

import (
	"testing"

	"pgregory.net/rapid"
)

// tagged is a minimal Tagged implementation used only by tests.
type tagged struct {
	id   int
	tags uint32
}

func (t *tagged) CurrentTags() uint32          { return t.tags }
func (t *tagged) PendingTagsOrCurrent() uint32 { return t.tags }

func collect(seq func(yield func(*Node[*tagged]) bool)) []int {
	var out []int
	seq(func(n *Node[*tagged]) bool {
		out = append(out, n.Value.id)
		return true
	})
	return out
}

func reversed(xs []int) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = x
	}
	return out
}

func TestForwardReverseAreMirrors(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := &Stack[*tagged]{}
		var nodes []*Node[*tagged]
		n := rapid.IntRange(0, 20).Draw(rt, "n")
		for i := 0; i < n; i++ {
			v := &tagged{id: i, tags: 1}
			op := rapid.SampledFrom([]string{"push", "append", "remove"}).Draw(rt, "op")
			if op == "remove" && len(nodes) > 0 {
				idx := rapid.IntRange(0, len(nodes)-1).Draw(rt, "idx")
				s.Remove(nodes[idx])
				nodes = append(nodes[:idx], nodes[idx+1:]...)
				continue
			}
			var node *Node[*tagged]
			if op == "push" {
				node = s.Push(v)
			} else {
				node = s.Append(v)
			}
			nodes = append(nodes, node)
		}

		fwd := collect(s.Iterator(nil, 1))
		rev := collect(s.ReverseIterator(nil, 1))
		if len(fwd) != len(rev) {
			rt.Fatalf("length mismatch: %v vs %v", fwd, rev)
		}
		got := reversed(rev)
		for i := range fwd {
			if fwd[i] != got[i] {
				rt.Fatalf("forward %v is not the reverse of reverse %v", fwd, rev)
			}
		}
	})
}

func TestIteratorFiltersByTagIntersection(t *testing.T) {
	s := &Stack[*tagged]{}
	s.Append(&tagged{id: 1, tags: 0b001})
	s.Append(&tagged{id: 2, tags: 0b010})
	s.Append(&tagged{id: 3, tags: 0b011})
	s.Append(&tagged{id: 4, tags: 0b100})

	got := collect(s.Iterator(nil, 0b011))
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestZeroTagsYieldsNothing(t *testing.T) {
	s := &Stack[*tagged]{}
	s.Append(&tagged{id: 1, tags: 0b001})
	got := collect(s.Iterator(nil, 0))
	if len(got) != 0 {
		t.Fatalf("expected no results, got %v", got)
	}
}

func TestAllOnesYieldsEverything(t *testing.T) {
	s := &Stack[*tagged]{}
	s.Append(&tagged{id: 1, tags: 0b001})
	s.Append(&tagged{id: 2, tags: 0b100})
	got := collect(s.Iterator(nil, 0xFFFFFFFF))
	if len(got) != 2 {
		t.Fatalf("expected all 2 elements, got %v", got)
	}
}

func TestSwapTwiceIsIdentity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := &Stack[*tagged]{}
		n := rapid.IntRange(2, 15).Draw(rt, "n")
		var nodes []*Node[*tagged]
		for i := 0; i < n; i++ {
			nodes = append(nodes, s.Append(&tagged{id: i, tags: 1}))
		}
		before := collect(s.Iterator(nil, 1))

		ai := rapid.IntRange(0, n-1).Draw(rt, "a")
		bi := rapid.IntRange(0, n-1).Draw(rt, "b")
		a, b := nodes[ai], nodes[bi]

		s.Swap(a, b)
		s.Swap(a, b)

		after := collect(s.Iterator(nil, 1))
		if len(before) != len(after) {
			rt.Fatalf("length changed")
		}
		for i := range before {
			if before[i] != after[i] {
				rt.Fatalf("double swap not identity: before=%v after=%v", before, after)
			}
		}
	})
}

func TestSelfSwapIsNoop(t *testing.T) {
	s := &Stack[*tagged]{}
	a := s.Append(&tagged{id: 1, tags: 1})
	s.Append(&tagged{id: 2, tags: 1})
	before := collect(s.Iterator(nil, 1))
	s.Swap(a, a)
	after := collect(s.Iterator(nil, 1))
	if len(before) != len(after) || before[0] != after[0] || before[1] != after[1] {
		t.Fatalf("self swap mutated order: before=%v after=%v", before, after)
	}
}

func TestSwapAdjacentNodes(t *testing.T) {
	s := &Stack[*tagged]{}
	a := s.Append(&tagged{id: 1, tags: 1})
	b := s.Append(&tagged{id: 2, tags: 1})
	s.Append(&tagged{id: 3, tags: 1})

	s.Swap(a, b)
	got := collect(s.Iterator(nil, 1))
	want := []int{2, 1, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if s.First().Value.id != 2 {
		t.Fatalf("stack.first not updated after swap")
	}
}
