package memo

import (
	"slices"
)

type sortedEntry[K, V any] struct {
	key   K
	value V
}

// SortedStore is a Store backed by a slice kept sorted by a CompareFunc.
// Lookups are O(log n); insertions of new keys shift the tail and are O(n).
// It suits small, read-heavy tables.
type SortedStore[K, V any] struct {
	entries []sortedEntry[K, V]
	compare CompareFunc[K]
}

// NewSortedStore returns an empty SortedStore ordered by compare.
func NewSortedStore[K, V any](compare CompareFunc[K]) *SortedStore[K, V] {
	return &SortedStore[K, V]{compare: compare}
}

func (s *SortedStore[K, V]) search(key K) (int, bool) {
	return slices.BinarySearchFunc(s.entries, key, func(e sortedEntry[K, V], k K) int {
		return s.compare(e.key, k)
	})
}

func (s *SortedStore[K, V]) Get(key K) (V, bool) {
	idx, found := s.search(key)
	if !found {
		var zero V
		return zero, false
	}
	return s.entries[idx].value, true
}

func (s *SortedStore[K, V]) Insert(key K, value V) {
	idx, found := s.search(key)
	if found {
		s.entries[idx].value = value
		return
	}
	s.entries = slices.Insert(s.entries, idx, sortedEntry[K, V]{key: key, value: value})
}

// Len returns the number of stored entries.
func (s *SortedStore[K, V]) Len() int {
	return len(s.entries)
}

// Keys returns the stored keys in ascending order.
func (s *SortedStore[K, V]) Keys() []K {
	keys := make([]K, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.key
	}
	return keys
}

var _ Store[string, int] = (*SortedStore[string, int])(nil)
