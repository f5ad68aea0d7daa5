// Package nodeset is a small ordered set of ordered keys, used by the
// simplify sweep to collect the output parent ids that have children in
// the current tree, visited later in ascending id order.
//
// It is a randomized binary search tree (treap) without any interval
// augmentation: there is nothing to augment here, just a key and
// left/right children balanced by a random priority.
package nodeset

import "math/rand"

type node[T Ordered] struct {
	left, right *node[T]
	prio        float64
	item        T
}

// Ordered is the constraint for set keys: anything with a natural total
// order via <.
type Ordered interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// Set is an insertion-order-agnostic set of T, iterable in ascending key
// order. The zero value is an empty, usable set.
type Set[T Ordered] struct {
	root *node[T]
	size int
}

// Reset empties the set, discarding all nodes, so the same Set can be
// reused across sweep steps without reallocating.
func (s *Set[T]) Reset() {
	s.root = nil
	s.size = 0
}

// Len returns the number of items currently in the set.
func (s *Set[T]) Len() int { return s.size }

// Insert adds item to the set if not already present.
func (s *Set[T]) Insert(item T) {
	var inserted bool
	s.root, inserted = insert(s.root, item)
	if inserted {
		s.size++
	}
}

// Contains reports whether item is in the set.
func (s *Set[T]) Contains(item T) bool {
	n := s.root
	for n != nil {
		switch {
		case item < n.item:
			n = n.left
		case item > n.item:
			n = n.right
		default:
			return true
		}
	}
	return false
}

// Each calls visit for every item in the set, in ascending key order.
func (s *Set[T]) Each(visit func(T)) {
	s.root.inorder(visit)
}

func (n *node[T]) inorder(visit func(T)) {
	if n == nil {
		return
	}
	n.left.inorder(visit)
	visit(n.item)
	n.right.inorder(visit)
}

func insert[T Ordered](n *node[T], item T) (*node[T], bool) {
	if n == nil {
		return &node[T]{item: item, prio: rand.Float64()}, true
	}

	switch {
	case item < n.item:
		left, inserted := insert(n.left, item)
		n.left = left
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
		return n, inserted
	case item > n.item:
		right, inserted := insert(n.right, item)
		n.right = right
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
		return n, inserted
	default:
		return n, false
	}
}

// rotateRight, n.left becomes the new subtree root.
//
//	    n                l
//	   / \              / \
//	  l   r    ==>     ll   n
//	 / \                   / \
//	ll  lr                lr  r
func rotateRight[T Ordered](n *node[T]) *node[T] {
	l := n.left
	n.left = l.right
	l.right = n
	return l
}

// rotateLeft, n.right becomes the new subtree root.
func rotateLeft[T Ordered](n *node[T]) *node[T] {
	r := n.right
	n.right = r.left
	r.left = n
	return r
}
