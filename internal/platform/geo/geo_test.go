package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_SamePoint(t *testing.T) {
	for _, p := range [][2]float64{{0, 0}, {28.6139, 77.2090}, {-33.8688, 151.2093}} {
		if d := DistanceKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("expected zero distance for identical point %v, got %f", p, d)
		}
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	// Delhi <-> Mumbai.
	d1 := DistanceKm(28.6139, 77.2090, 19.0760, 72.8777)
	d2 := DistanceKm(19.0760, 72.8777, 28.6139, 77.2090)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", d1, d2)
	}
	// Known distance is roughly 1150 km.
	if d1 < 1100 || d1 > 1200 {
		t.Errorf("Delhi-Mumbai distance out of expected range: %f", d1)
	}
}

func TestTravelHours(t *testing.T) {
	if h := TravelHours(120, 60); h != 2 {
		t.Errorf("expected 2 hours, got %f", h)
	}
	if h := TravelHours(120, 0); h != 2 {
		t.Errorf("expected default speed fallback, got %f", h)
	}
}

func TestReachable_StrictComparison(t *testing.T) {
	if !Reachable(3.9, 4.0) {
		t.Error("expected 3.9h travel to be reachable within 4h")
	}
	if Reachable(4.0, 4.0) {
		t.Error("arriving exactly at the deadline must not be reachable")
	}
	if Reachable(4.1, 4.0) {
		t.Error("expected 4.1h travel to be unreachable within 4h")
	}
}
