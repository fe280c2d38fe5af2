package anomaly

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func pushSeq(r *Ring, values ...float64) {
	for i, v := range values {
		r.Push(v, v, int64(i))
	}
}

func filteredValues(window []Reading) []float64 {
	out := make([]float64, len(window))
	for i, rd := range window {
		out[i] = rd.Filtered
	}
	return out
}

func TestRing_WindowBeforeFill(t *testing.T) {
	r := NewRing(4)
	pushSeq(r, 1, 2)

	got := filteredValues(r.Window(4))
	if len(got) != 2 {
		t.Fatalf("expected 2 readings before fill, got %d", len(got))
	}
	if got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected oldest-first [1 2], got %v", got)
	}
}

func TestRing_WindowAfterWrap(t *testing.T) {
	r := NewRing(4)
	pushSeq(r, 1, 2, 3, 4, 5, 6)

	got := filteredValues(r.Window(4))
	want := []float64{3, 4, 5, 6}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}
}

func TestRing_WindowSubset(t *testing.T) {
	r := NewRing(4)
	pushSeq(r, 1, 2, 3, 4, 5, 6)

	got := filteredValues(r.Window(2))
	if len(got) != 2 || got[0] != 5 || got[1] != 6 {
		t.Fatalf("expected [5 6] got %v", got)
	}
}

func TestRing_WindowLargerThanCapacityClamps(t *testing.T) {
	r := NewRing(4)
	pushSeq(r, 1, 2, 3, 4)

	if got := r.Window(100); len(got) != 4 {
		t.Fatalf("expected capacity-sized window, got %d readings", len(got))
	}
}

func TestRing_EmptyWindow(t *testing.T) {
	r := NewRing(4)
	if got := r.Window(4); len(got) != 0 {
		t.Fatalf("expected empty window, got %d readings", len(got))
	}
}

func TestRing_TotalGrowsMonotonically(t *testing.T) {
	r := NewRing(2)
	pushSeq(r, 1, 2, 3, 4, 5)
	if r.Total() != 5 {
		t.Fatalf("expected total 5 got %d", r.Total())
	}
	if r.Capacity() != 2 {
		t.Fatalf("expected capacity 2 got %d", r.Capacity())
	}
}
