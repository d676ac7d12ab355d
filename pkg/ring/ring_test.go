package ring

import "testing"

func TestZeroInitialized(t *testing.T) {
	b := New(23)
	for i := 0; i < 23; i++ {
		if got := b.Get(i); got != 0 {
			t.Fatalf("Get(%d) = %d, want 0", i, got)
		}
	}
}

func TestWrapForward(t *testing.T) {
	b := New(4)
	b.Set(0, 10)
	if got := b.Get(4); got != 10 {
		t.Fatalf("Get(4) = %d, want 10 (wraps to slot 0)", got)
	}
	if got := b.Get(8); got != 10 {
		t.Fatalf("Get(8) = %d, want 10", got)
	}
}

func TestWrapNegative(t *testing.T) {
	b := New(4)
	b.Set(3, 7)
	tests := []struct {
		name string
		idx  int
	}{
		{"direct", 3},
		{"one period back", -1},
		{"two periods back", -5},
	}
	for _, tt := range tests {
		if got := b.Get(tt.idx); got != 7 {
			t.Errorf("%s: Get(%d) = %d, want 7", tt.name, tt.idx, got)
		}
	}
}

func TestCongruentIndicesAgree(t *testing.T) {
	b := New(23)
	for i := 0; i < 23; i++ {
		b.Set(i, int16(i*3-11))
	}
	for i := -50; i < 50; i++ {
		for j := -50; j < 50; j++ {
			if ((i-j)%23+23)%23 != 0 {
				continue
			}
			if b.Get(i) != b.Get(j) {
				t.Fatalf("Get(%d)=%d != Get(%d)=%d though i≡j (mod 23)", i, b.Get(i), j, b.Get(j))
			}
		}
	}
}

func TestZero(t *testing.T) {
	b := New(5)
	for i := 0; i < 5; i++ {
		b.Set(i, int16(i+1))
	}
	b.Zero()
	for i := 0; i < 5; i++ {
		if got := b.Get(i); got != 0 {
			t.Fatalf("after Zero, Get(%d) = %d, want 0", i, got)
		}
	}
}

func TestLen(t *testing.T) {
	b := New(23)
	if b.Len() != 23 {
		t.Fatalf("Len() = %d, want 23", b.Len())
	}
}
