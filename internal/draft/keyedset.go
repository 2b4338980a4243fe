package draft

// Entry is one record of a KeyedSet.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// KeyedSet is an ordered set with at most one value per key. Putting an
// existing key replaces its value in place.
type KeyedSet[K comparable, V any] struct {
	entries []Entry[K, V]
}

// Put upserts key with value.
func (s *KeyedSet[K, V]) Put(key K, value V) {
	if idx := s.index(key); idx >= 0 {
		s.entries[idx].Value = value
		return
	}
	s.entries = append(s.entries, Entry[K, V]{Key: key, Value: value})
}

// Remove deletes key and reports whether it was present.
func (s *KeyedSet[K, V]) Remove(key K) bool {
	idx := s.index(key)
	if idx < 0 {
		return false
	}
	s.entries = append(s.entries[:idx:idx], s.entries[idx+1:]...)
	return true
}

// Get returns the value stored for key.
func (s *KeyedSet[K, V]) Get(key K) (V, bool) {
	if idx := s.index(key); idx >= 0 {
		return s.entries[idx].Value, true
	}
	var zero V
	return zero, false
}

// Len returns the number of keys.
func (s *KeyedSet[K, V]) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the records in insertion order.
func (s *KeyedSet[K, V]) Entries() []Entry[K, V] {
	if len(s.entries) == 0 {
		return nil
	}
	out := make([]Entry[K, V], len(s.entries))
	copy(out, s.entries)
	return out
}

// Reset drops every record.
func (s *KeyedSet[K, V]) Reset() {
	s.entries = nil
}

func (s *KeyedSet[K, V]) clone() KeyedSet[K, V] {
	return KeyedSet[K, V]{entries: s.Entries()}
}

func (s *KeyedSet[K, V]) index(key K) int {
	for i, e := range s.entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}
