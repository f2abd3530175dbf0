package memo

// Store is the associative capability a Cache is built on.
//
// Contract:
// - Concurrency: implementations need not be safe for concurrent use; Cache serializes access.
// - Get returns (zero, false) on a miss and never panics.
// - Insert replaces any value already stored under an equal key.
type Store[K, V any] interface {
	Get(key K) (V, bool)
	Insert(key K, value V)
}

// CompareFunc orders keys for the ordered stores. It returns a negative number
// when a < b, zero when a == b and a positive number when a > b.
type CompareFunc[T any] func(a, b T) int

// HashStore is a Store backed by a built-in map. The zero value is ready to use.
type HashStore[K comparable, V any] struct {
	entries map[K]V
}

// NewHashStore returns an empty HashStore.
func NewHashStore[K comparable, V any]() *HashStore[K, V] {
	return &HashStore[K, V]{entries: make(map[K]V)}
}

func (s *HashStore[K, V]) Get(key K) (V, bool) {
	v, ok := s.entries[key]
	return v, ok
}

func (s *HashStore[K, V]) Insert(key K, value V) {
	if s.entries == nil {
		s.entries = make(map[K]V)
	}
	s.entries[key] = value
}

// Len returns the number of stored entries.
func (s *HashStore[K, V]) Len() int {
	return len(s.entries)
}

var _ Store[string, int] = (*HashStore[string, int])(nil)
