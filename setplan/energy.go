package setplan

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BuildEnergyTargets produces one desired energy value per set position,
// shaping a build-then-partial-release arc: a linear ramp from the pool's
// lowest energy up to its highest at the peak position, then back down to the
// pool median. peakPosition is a fraction of the set in (0,1).
func BuildEnergyTargets(tracks []Track, peakPosition float64) []float64 {
	n := len(tracks)
	if n == 0 {
		return []float64{}
	}

	energies := make([]float64, n)
	for i, t := range tracks {
		energies[i] = t.Energy
	}
	sort.Float64s(energies)

	minEnergy := floats.Min(energies)
	maxEnergy := floats.Max(energies)
	midEnergy := stat.Quantile(0.5, stat.Empirical, energies, nil)

	if n == 1 {
		return []float64{minEnergy}
	}

	if peakPosition <= 0 || peakPosition >= 1 {
		peakPosition = 0.65
	}
	peakIndex := int(math.Round(peakPosition * float64(n-1)))
	if peakIndex < 1 {
		peakIndex = 1
	}
	if peakIndex > n-1 {
		peakIndex = n - 1
	}

	targets := make([]float64, n)
	for i := 0; i <= peakIndex; i++ {
		t := float64(i) / float64(peakIndex)
		targets[i] = minEnergy + (maxEnergy-minEnergy)*t
	}
	for i := peakIndex + 1; i < n; i++ {
		t := float64(i-peakIndex) / float64(n-1-peakIndex)
		targets[i] = maxEnergy - (maxEnergy-midEnergy)*t
	}
	return targets
}
