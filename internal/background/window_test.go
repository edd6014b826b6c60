package background

import (
	"errors"
	"math/rand"
	"testing"

	"storycast/internal/services"
)

func TestSelectWindowDegeneratesToWholeSource(t *testing.T) {
	window, err := SelectWindow(20, 10, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if window.Start != 0 || window.End != 10 {
		t.Fatalf("window = %+v, want (0, 10)", window)
	}
}

func TestSelectWindowZeroSourceIsFatal(t *testing.T) {
	_, err := SelectWindow(20, 0, nil)
	if err == nil {
		t.Fatalf("expected error for zero-duration source")
	}
	if !errors.Is(err, services.ErrMediaTooShort) {
		t.Fatalf("expected media-too-short marker, got %v", err)
	}
}

func TestSelectWindowHonorsMarginAndBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		window, err := SelectWindow(30, 100, rng)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		// margin = min(2, 100/10) = 2, so start is in [0, 68].
		if window.Start < 0 || window.Start > 68 {
			t.Fatalf("start %d outside [0, 68]", window.Start)
		}
		if window.Duration() != 30 {
			t.Fatalf("duration = %d, want 30", window.Duration())
		}
		if window.End > 100 {
			t.Fatalf("end %d beyond source", window.End)
		}
	}
}

func TestSelectWindowSmallSourceUsesSmallMargin(t *testing.T) {
	// total=15, need=10: margin = min(2, 1) = 1, max start = 4.
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		window, err := SelectWindow(10, 15, rng)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if window.Start > 4 {
			t.Fatalf("start %d exceeds margin-adjusted bound 4", window.Start)
		}
		if window.Duration() != 10 {
			t.Fatalf("duration = %d, want 10", window.Duration())
		}
	}
}

func TestSelectWindowClampsNonPositiveNeed(t *testing.T) {
	window, err := SelectWindow(0, 50, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if window.Duration() != 1 {
		t.Fatalf("duration = %d, want clamped 1", window.Duration())
	}
}

func TestSelectWindowExactFitPlusOne(t *testing.T) {
	// total=11, need=10: margin = min(2, 1) = 1, max start = 0.
	window, err := SelectWindow(10, 11, nil)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if window.Start != 0 || window.End != 10 {
		t.Fatalf("window = %+v, want (0, 10)", window)
	}
}
