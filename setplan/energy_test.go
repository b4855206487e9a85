package setplan

import (
	"math"
	"testing"
)

func tracksWithEnergies(energies ...float64) []Track {
	out := make([]Track, len(energies))
	for i, e := range energies {
		out[i] = Track{Energy: e}
	}
	return out
}

func TestBuildEnergyTargetsShape(t *testing.T) {
	// Pool energies 3,5,7,9,6: min 3, max 9, median 6.
	// Peak 0.65 over 5 positions puts the peak at index 3.
	targets := BuildEnergyTargets(tracksWithEnergies(3, 5, 7, 9, 6), 0.65)

	want := []float64{3, 5, 7, 9, 6}
	if len(targets) != len(want) {
		t.Fatalf("len = %d, want %d", len(targets), len(want))
	}
	for i := range want {
		if math.Abs(targets[i]-want[i]) > 1e-9 {
			t.Errorf("targets[%d] = %v, want %v", i, targets[i], want[i])
		}
	}
}

func TestBuildEnergyTargetsStartsAtPoolMinimum(t *testing.T) {
	targets := BuildEnergyTargets(tracksWithEnergies(8, 4, 6, 2, 9, 5), 0.5)
	if targets[0] != 2 {
		t.Errorf("opening target = %v, want pool minimum 2", targets[0])
	}
	if len(targets) != 6 {
		t.Errorf("len = %d, want 6", len(targets))
	}
}

func TestBuildEnergyTargetsDegeneratePools(t *testing.T) {
	if got := BuildEnergyTargets(nil, 0.65); len(got) != 0 {
		t.Errorf("empty pool: got %v", got)
	}

	single := BuildEnergyTargets(tracksWithEnergies(7), 0.65)
	if len(single) != 1 || single[0] != 7 {
		t.Errorf("single pool: got %v, want [7]", single)
	}
}

func TestBuildEnergyTargetsPeakIndexClamped(t *testing.T) {
	// Two tracks: peakIndex must clamp into [1, n-1] = 1 for any position.
	for _, peak := range []float64{0.01, 0.5, 0.99} {
		targets := BuildEnergyTargets(tracksWithEnergies(3, 9), peak)
		if len(targets) != 2 {
			t.Fatalf("peak %v: len = %d", peak, len(targets))
		}
		if targets[0] != 3 || targets[1] != 9 {
			t.Errorf("peak %v: targets = %v, want [3 9]", peak, targets)
		}
	}
}

func TestBuildEnergyTargetsBogusPeakPositionDefaults(t *testing.T) {
	got := BuildEnergyTargets(tracksWithEnergies(3, 5, 7, 9, 6), 0)
	want := BuildEnergyTargets(tracksWithEnergies(3, 5, 7, 9, 6), 0.65)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("peak 0 should fall back to default: %v vs %v", got, want)
		}
	}
}
