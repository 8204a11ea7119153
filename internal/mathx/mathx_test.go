package mathx

import "testing"

func TestWrap(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 4, 0},
		{3, 4, 3},
		{4, 4, 0},
		{-1, 4, 3},
		{-5, 4, 3},
		{9, 4, 1},
		{2, 0, 0},
		{2, -3, 0},
	}
	for _, tt := range tests {
		if got := Wrap(tt.i, tt.n); got != tt.want {
			t.Errorf("Wrap(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(120.0, 0, 100); got != 100 {
		t.Errorf("Clamp high: got %v", got)
	}
	if got := Clamp(-3.5, 0, 100); got != 0 {
		t.Errorf("Clamp low: got %v", got)
	}
	if got := Clamp(42, 100, 0); got != 42 {
		t.Errorf("Clamp swapped bounds: got %v", got)
	}
}
