package memo

import (
	"github.com/emirpasic/gods/maps/treemap"
)

// TreeStore is a Store backed by a red-black tree ordered by a CompareFunc.
// Lookups and insertions are O(log n).
type TreeStore[K, V any] struct {
	tree *treemap.Map
}

// NewTreeStore returns an empty TreeStore ordered by compare.
func NewTreeStore[K, V any](compare CompareFunc[K]) *TreeStore[K, V] {
	return &TreeStore[K, V]{
		tree: treemap.NewWith(func(a, b interface{}) int {
			ka, _ := a.(K)
			kb, _ := b.(K)
			return compare(ka, kb)
		}),
	}
}

func (s *TreeStore[K, V]) Get(key K) (V, bool) {
	raw, found := s.tree.Get(key)
	if !found {
		var zero V
		return zero, false
	}
	// raw is a nil interface when V is an interface type and nil was stored.
	v, _ := raw.(V)
	return v, true
}

func (s *TreeStore[K, V]) Insert(key K, value V) {
	s.tree.Put(key, value)
}

// Len returns the number of stored entries.
func (s *TreeStore[K, V]) Len() int {
	return s.tree.Size()
}

// Keys returns the stored keys in ascending order.
func (s *TreeStore[K, V]) Keys() []K {
	raw := s.tree.Keys()
	keys := make([]K, len(raw))
	for i, k := range raw {
		keys[i], _ = k.(K)
	}
	return keys
}

var _ Store[string, int] = (*TreeStore[string, int])(nil)
