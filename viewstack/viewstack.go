// Package viewstack implements the ordered, doubly-linked collection that
// every Output keeps its views in. It is intentionally generic over the
// stored value so it carries no dependency on the view package; a View
// satisfies Tagged without importing viewstack.
package viewstack

import "iter"

// Tagged is the capability a stack element must provide so that filtered
// iteration can test it against a 32-bit tag bitmask.
type Tagged interface {
	// CurrentTags returns the tag set iterator and reverseIterator filter
	// against.
	CurrentTags() uint32
	// PendingTagsOrCurrent returns the tag set pendingIterator filters
	// against: the pending tag set if one is in flight, else the current
	// one.
	PendingTagsOrCurrent() uint32
}

// AttachMode selects which end of the stack a newly mapped view is attached
// to.
type AttachMode int

const (
	AttachTop AttachMode = iota
	AttachBottom
)

// Node is one element of a Stack. Its identity (pointer) is what callers
// hold onto across Remove/Swap; the zero Node is not valid.
type Node[T Tagged] struct {
	Value T

	next, prev *Node[T]
	owner      *Stack[T]
}

// Stack is a doubly-linked, order-preserving collection of T.
type Stack[T Tagged] struct {
	first, last *Node[T]
	length      int
}

// Len returns the number of elements currently in the stack.
func (s *Stack[T]) Len() int { return s.length }

// First returns the topmost node, or nil if the stack is empty.
func (s *Stack[T]) First() *Node[T] { return s.first }

// Last returns the bottommost node, or nil if the stack is empty.
func (s *Stack[T]) Last() *Node[T] { return s.last }

// Next returns the node after n in list order, or nil at the end.
func (n *Node[T]) Next() *Node[T] { return n.next }

// Prev returns the node before n in list order, or nil at the start.
func (n *Node[T]) Prev() *Node[T] { return n.prev }

// Push prepends value and returns its node. Equivalent to Attach(AttachTop, value).
func (s *Stack[T]) Push(value T) *Node[T] {
	n := &Node[T]{Value: value, owner: s}
	n.next = s.first
	if s.first != nil {
		s.first.prev = n
	}
	s.first = n
	if s.last == nil {
		s.last = n
	}
	s.length++
	return n
}

// Append adds value at the end of the stack and returns its node.
func (s *Stack[T]) Append(value T) *Node[T] {
	n := &Node[T]{Value: value, owner: s}
	n.prev = s.last
	if s.last != nil {
		s.last.next = n
	}
	s.last = n
	if s.first == nil {
		s.first = n
	}
	s.length++
	return n
}

// Attach inserts value at the end named by mode.
func (s *Stack[T]) Attach(mode AttachMode, value T) *Node[T] {
	if mode == AttachBottom {
		return s.Append(value)
	}
	return s.Push(value)
}

// Remove detaches n from its stack in O(1). n must belong to this stack;
// removing an already-detached or foreign node is a programmer error and
// panics, matching the spec's "node is in this list by precondition".
func (s *Stack[T]) Remove(n *Node[T]) {
	if n.owner != s {
		panic("viewstack: Remove called with a node not owned by this stack")
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.first = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.last = n.prev
	}
	n.next, n.prev, n.owner = nil, nil, nil
	s.length--
}

// Swap exchanges the positions of a and b in the list. Swapping a node with
// itself is a no-op.
func (s *Stack[T]) Swap(a, b *Node[T]) {
	if a == b {
		return
	}
	if a.owner != s || b.owner != s {
		panic("viewstack: Swap called with a node not owned by this stack")
	}

	aPrev, aNext := a.prev, a.next
	bPrev, bNext := b.prev, b.next

	if aNext == b {
		// adjacent, a immediately before b
		a.prev, a.next = b, bNext
		b.prev, b.next = aPrev, a
	} else if bNext == a {
		// adjacent, b immediately before a
		b.prev, b.next = a, aNext
		a.prev, a.next = bPrev, b
	} else {
		a.prev, a.next = bPrev, bNext
		b.prev, b.next = aPrev, aNext
	}

	relink(s, a)
	relink(s, b)
}

// relink repairs the neighbors' and stack's pointers after a node n has had
// its own prev/next rewritten by Swap.
func relink[T Tagged](s *Stack[T], n *Node[T]) {
	if n.prev != nil {
		n.prev.next = n
	} else {
		s.first = n
	}
	if n.next != nil {
		n.next.prev = n
	} else {
		s.last = n
	}
}

// Iterator yields nodes forward from start (inclusive) whose current tags
// intersect tags. A nil start begins at the top of the stack.
func (s *Stack[T]) Iterator(start *Node[T], tags uint32) iter.Seq[*Node[T]] {
	if start == nil {
		start = s.first
	}
	return func(yield func(*Node[T]) bool) {
		for n := start; n != nil; n = n.next {
			if n.Value.CurrentTags()&tags == 0 {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// ReverseIterator yields nodes backward from start (inclusive) whose
// current tags intersect tags. A nil start begins at the bottom of the
// stack.
func (s *Stack[T]) ReverseIterator(start *Node[T], tags uint32) iter.Seq[*Node[T]] {
	if start == nil {
		start = s.last
	}
	return func(yield func(*Node[T]) bool) {
		for n := start; n != nil; n = n.prev {
			if n.Value.CurrentTags()&tags == 0 {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// PendingIterator yields nodes forward from start whose pending-or-current
// tags intersect tags.
func (s *Stack[T]) PendingIterator(start *Node[T], tags uint32) iter.Seq[*Node[T]] {
	if start == nil {
		start = s.first
	}
	return func(yield func(*Node[T]) bool) {
		for n := start; n != nil; n = n.next {
			if n.Value.PendingTagsOrCurrent()&tags == 0 {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}
