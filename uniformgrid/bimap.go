package uniformgrid

import "fmt"

// BidirectionalMap keeps two one-directional lookups in lockstep so every
// forward key has exactly one reverse key and vice versa.
type BidirectionalMap[K1 comparable, K2 comparable] struct {
	forward map[K1]K2
	reverse map[K2]K1
}

// NewBidirectionalMap creates an empty map with room for size pairs
func NewBidirectionalMap[K1 comparable, K2 comparable](size int) *BidirectionalMap[K1, K2] {
	return &BidirectionalMap[K1, K2]{
		forward: make(map[K1]K2, size),
		reverse: make(map[K2]K1, size),
	}
}

// Add inserts the pair (k1, k2). It fails if either key is already present
// on its side.
func (m *BidirectionalMap[K1, K2]) Add(k1 K1, k2 K2) error {
	if _, exists := m.forward[k1]; exists {
		return fmt.Errorf("forward key %v: %w", k1, ErrDuplicateKey)
	}
	if _, exists := m.reverse[k2]; exists {
		return fmt.Errorf("reverse key %v: %w", k2, ErrDuplicateKey)
	}
	m.forward[k1] = k2
	m.reverse[k2] = k1
	return nil
}

// Remove deletes the pair keyed by k1. If the reverse side does not hold the
// matching entry the forward entry is restored and ErrMapInconsistency is
// returned, so the two sides never diverge.
func (m *BidirectionalMap[K1, K2]) Remove(k1 K1) error {
	k2, ok := m.forward[k1]
	if !ok {
		return fmt.Errorf("forward key %v: %w", k1, ErrKeyNotFound)
	}
	delete(m.forward, k1)

	back, ok := m.reverse[k2]
	if !ok || back != k1 {
		m.forward[k1] = k2
		return fmt.Errorf("reverse key %v: %w", k2, ErrMapInconsistency)
	}
	delete(m.reverse, k2)
	return nil
}

// Forward looks up the value paired with k1
func (m *BidirectionalMap[K1, K2]) Forward(k1 K1) (K2, bool) {
	k2, ok := m.forward[k1]
	return k2, ok
}

// Reverse looks up the key paired with k2
func (m *BidirectionalMap[K1, K2]) Reverse(k2 K2) (K1, bool) {
	k1, ok := m.reverse[k2]
	return k1, ok
}

// Len returns the number of pairs
func (m *BidirectionalMap[K1, K2]) Len() int {
	return len(m.forward)
}
