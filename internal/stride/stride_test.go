package stride

import "testing"

func TestStaticAlwaysReturnsStep(t *testing.T) {
	s := Static{Step: 42}
	for i := 0; i < 3; i++ {
		if got := s.Next(); got != 42 {
			t.Errorf("Next() = %d, want 42", got)
		}
	}
}

func TestRandomStaysInRange(t *testing.T) {
	r := NewRandom(10, 20, 7)
	for i := 0; i < 50; i++ {
		got := r.Next()
		if got < 10 || got > 20 {
			t.Fatalf("Next() = %d, want in [10,20]", got)
		}
	}
}

func TestRandomDegenerateRangeReturnsMin(t *testing.T) {
	r := NewRandom(5, 5, 1)
	if got := r.Next(); got != 5 {
		t.Errorf("Next() = %d, want 5", got)
	}
}

func TestIncrementalAlwaysZero(t *testing.T) {
	var i Incremental
	if got := i.Next(); got != 0 {
		t.Errorf("Next() = %d, want 0", got)
	}
}

func TestToFramesFloorsAndHasMinimumOne(t *testing.T) {
	cases := []struct {
		step, hop, want int
	}{
		{8192, 64, 128},
		{0, 64, 1},
		{10, 64, 1},
		{128, 0, 1},
	}
	for _, c := range cases {
		if got := ToFrames(c.step, c.hop); got != c.want {
			t.Errorf("ToFrames(%d, %d) = %d, want %d", c.step, c.hop, got, c.want)
		}
	}
}
