package setplan

import (
	"fmt"
	"math"

	"github.com/hexbeat/setforge/setplan/config"
)

// TransitionScore is the set-planner's weighted compatibility verdict for
// playing `to` immediately after `from`.
type TransitionScore struct {
	Total            float64  `json:"total"` // 0-1
	KeyScore         float64  `json:"keyScore"`
	BPMScore         float64  `json:"bpmScore"`
	EnergyDeltaScore float64  `json:"energyDeltaScore"`
	TargetScore      float64  `json:"targetScore"`
	EnergyDelta      float64  `json:"energyDelta"`
	BPMDiff          float64  `json:"bpmDiff"`
	Reasons          []string `json:"reasons"`
}

// ScoreTransition scores a candidate transition against the default planner
// profile. targetEnergy is the desired energy at the destination's set
// position. Pure; call fresh for every candidate pair since the target
// changes per position.
func ScoreTransition(from, to Track, targetEnergy float64) TransitionScore {
	return scoreTransition(from, to, targetEnergy, config.DefaultTransitionWeights())
}

func scoreTransition(from, to Track, targetEnergy float64, w config.TransitionWeights) TransitionScore {
	s := TransitionScore{
		EnergyDelta: to.Energy - from.Energy,
		BPMDiff:     math.Abs(to.BPM - from.BPM),
	}

	s.KeyScore = plannerKeyScore(from, to)
	s.BPMScore = plannerBPMScore(from.BPM, to.BPM)
	s.EnergyDeltaScore = 1 - clamp(math.Abs(s.EnergyDelta)/5, 0, 1)
	s.TargetScore = 1 - clamp(math.Abs(to.Energy-targetEnergy)/5, 0, 1)

	total := s.KeyScore*w.Key +
		s.TargetScore*w.Target +
		s.EnergyDeltaScore*w.EnergyDelta +
		s.BPMScore*w.BPM
	if s.KeyScore < w.ClashThreshold {
		total -= w.ClashPenalty
	}
	s.Total = clamp(total, 0, 1)

	s.Reasons = []string{
		keyReason(from, to, s.KeyScore),
		fmt.Sprintf("BPM %.1f → %.1f (Δ%.1f)", from.BPM, to.BPM, s.BPMDiff),
		fmt.Sprintf("Energy %.0f → %.0f toward target %.1f", from.Energy, to.Energy, targetEnergy),
	}
	return s
}

// plannerKeyScore prefers the analyzer's precomputed compatibility list over
// wheel arithmetic: an identical key is perfect, a listed key uses its stated
// compatibility (0.8 when listed without one), anything else is a key-change
// risk at 0.25.
func plannerKeyScore(from, to Track) float64 {
	if from.HasKey() && to.HasKey() && from.Key == to.Key {
		return 1.0
	}
	if comp, ok := from.source.CompatibilityFor(to.Key); ok {
		if comp <= 0 {
			return 0.8
		}
		return clamp(comp, 0, 1)
	}
	return 0.25
}

// plannerBPMScore steps on the absolute BPM difference. A missing BPM on
// either side scores a neutral 0.6 rather than failing the candidate.
func plannerBPMScore(fromBPM, toBPM float64) float64 {
	if fromBPM <= 0 || toBPM <= 0 {
		return 0.6
	}
	diff := math.Abs(toBPM - fromBPM)
	switch {
	case diff <= 2:
		return 1.0
	case diff <= 4:
		return 0.85
	case diff <= 8:
		return 0.65
	case diff <= 12:
		return 0.45
	default:
		return 0.2
	}
}

func keyReason(from, to Track, keyScore float64) string {
	switch {
	case from.HasKey() && from.Key == to.Key:
		return fmt.Sprintf("Same key (%s)", from.Key)
	case keyScore > 0.25:
		return fmt.Sprintf("Compatible keys %s → %s", from.Key, to.Key)
	default:
		return fmt.Sprintf("Key change risk %s → %s", from.Key, to.Key)
	}
}
