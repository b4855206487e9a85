package setplan

import (
	"math"
	"testing"

	"github.com/hexbeat/setforge/analysis"
)

func TestScoreTransitionGoodPairing(t *testing.T) {
	// Same key, BPM 128 vs 128.5, energy 5 -> 6 with target 6: everything in
	// the smooth range.
	from := Normalize(analyzed("8A", 128, 300, 5), 0)
	to := Normalize(analyzed("8A", 128.5, 300, 6), 1)

	s := ScoreTransition(from, to, 6)

	if s.Total <= 0.85 {
		t.Errorf("smooth pairing total = %v, want > 0.85", s.Total)
	}
	if s.KeyScore != 1.0 {
		t.Errorf("same key score = %v, want 1.0", s.KeyScore)
	}
	if s.BPMScore != 1.0 {
		t.Errorf("bpm score for Δ0.5 = %v, want 1.0", s.BPMScore)
	}
	if math.Abs(s.EnergyDelta-1) > 1e-9 {
		t.Errorf("energy delta = %v, want 1", s.EnergyDelta)
	}
	if math.Abs(s.BPMDiff-0.5) > 1e-9 {
		t.Errorf("bpm diff = %v, want 0.5", s.BPMDiff)
	}
}

func TestScoreTransitionUsesAnalyzerCompatibility(t *testing.T) {
	in := analyzed("8A", 128, 300, 5)
	in.Analysis.HarmonicMixing = &analysis.HarmonicMixing{
		CompatibleKeys: []analysis.CompatibleKey{
			{Key: "9A", Compatibility: 0.9},
			{Key: "8B"}, // listed without a stated compatibility
		},
	}
	from := Normalize(in, 0)

	if got := ScoreTransition(from, Normalize(analyzed("9A", 128, 300, 5), 1), 5).KeyScore; got != 0.9 {
		t.Errorf("stated compatibility: key score = %v, want 0.9", got)
	}
	if got := ScoreTransition(from, Normalize(analyzed("8B", 128, 300, 5), 1), 5).KeyScore; got != 0.8 {
		t.Errorf("listed without compatibility: key score = %v, want 0.8", got)
	}
	if got := ScoreTransition(from, Normalize(analyzed("3B", 128, 300, 5), 1), 5).KeyScore; got != 0.25 {
		t.Errorf("unlisted key: key score = %v, want 0.25", got)
	}
}

func TestScoreTransitionClashPenalty(t *testing.T) {
	from := Normalize(analyzed("8A", 128, 300, 5), 0)
	to := Normalize(analyzed("3B", 128, 300, 5), 1)

	s := ScoreTransition(from, to, 5)

	// key 0.25*0.55 + target 1*0.20 + delta 1*0.15 + bpm 1*0.10 - 0.1 penalty
	want := 0.25*0.55 + 0.20 + 0.15 + 0.10 - 0.1
	if math.Abs(s.Total-want) > 1e-9 {
		t.Errorf("clash total = %v, want %v", s.Total, want)
	}
}

func TestScoreTransitionBPMLadder(t *testing.T) {
	cases := []struct {
		fromBPM, toBPM float64
		want           float64
	}{
		{128, 128, 1.0},
		{128, 130, 1.0},
		{128, 132, 0.85},
		{128, 136, 0.65},
		{128, 140, 0.45},
		{128, 150, 0.2},
		{0, 128, 0.6},
		{128, 0, 0.6},
	}

	for _, tc := range cases {
		if got := plannerBPMScore(tc.fromBPM, tc.toBPM); got != tc.want {
			t.Errorf("plannerBPMScore(%v, %v) = %v, want %v", tc.fromBPM, tc.toBPM, got, tc.want)
		}
	}
}

func TestScoreTransitionAlwaysInUnitRange(t *testing.T) {
	pairs := [][2]analysis.AnalyzedTrack{
		{analyzed("8A", 128, 300, 1), analyzed("2B", 180, 300, 10)},
		{analyzed("8A", 0, 300, 10), analyzed("8A", 0, 300, 1)},
		{analyzed("5B", 90, 300, 5), analyzed("6B", 91, 300, 5)},
	}
	for _, targetEnergy := range []float64{1, 5, 10} {
		for _, p := range pairs {
			s := ScoreTransition(Normalize(p[0], 0), Normalize(p[1], 1), targetEnergy)
			if s.Total < 0 || s.Total > 1 {
				t.Errorf("total %v out of [0,1] for target %v", s.Total, targetEnergy)
			}
		}
	}
}

func TestScoreTransitionReasonsAlwaysPresent(t *testing.T) {
	s := ScoreTransition(
		Normalize(analyzed("8A", 128, 300, 5), 0),
		Normalize(analyzed("3B", 150, 300, 9), 1),
		2,
	)
	if len(s.Reasons) != 3 {
		t.Fatalf("want exactly 3 reasons (key, bpm, energy), got %d: %v", len(s.Reasons), s.Reasons)
	}
}
