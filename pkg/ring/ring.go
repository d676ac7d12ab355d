// Package ring implements the fixed-width circular delta buffer used by a
// Tier-3 entry's address-delta history.
package ring

// Buffer is a fixed-length sequence of signed 16-bit deltas, addressed by
// Euclidean-modular index: any integer index wraps into [0, N) regardless
// of sign or magnitude. This is what lets the correlation algorithm walk
// backward across the ring seam without special-casing negative offsets.
type Buffer struct {
	slots []int16
}

// New creates a Buffer with n slots, all zeroed.
func New(n int) *Buffer {
	return &Buffer{slots: make([]int16, n)}
}

// Len returns the number of slots in the buffer.
func (b *Buffer) Len() int {
	return len(b.slots)
}

// index folds i into [0, N) using Euclidean modulo, not Go's truncated %.
func (b *Buffer) index(i int) int {
	n := len(b.slots)
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}

// Get returns the delta at index i, wrapping i as needed.
func (b *Buffer) Get(i int) int16 {
	return b.slots[b.index(i)]
}

// Set writes d at index i, wrapping i as needed.
func (b *Buffer) Set(i int, d int16) {
	b.slots[b.index(i)] = d
}

// Zero resets every slot to 0.
func (b *Buffer) Zero() {
	for i := range b.slots {
		b.slots[i] = 0
	}
}
