package setplan

import (
	"math"
	"testing"

	"github.com/hexbeat/setforge/analysis"
)

func analyzed(key string, bpm, duration, energy float64, cues ...analysis.CuePoint) analysis.AnalyzedTrack {
	return analysis.AnalyzedTrack{
		File: analysis.FileRef{Path: "/music/" + key + ".mp3", Name: key + ".mp3"},
		Analysis: analysis.TrackAnalysis{
			Key:           key,
			BPM:           bpm,
			Duration:      duration,
			OverallEnergy: energy,
			CuePoints:     cues,
		},
	}
}

func TestNormalizeResolvesKeyAndDefaults(t *testing.T) {
	tr := Normalize(analyzed("A minor", 128, 300, 0), 3)

	if tr.ID != "track-003" {
		t.Errorf("ID = %s", tr.ID)
	}
	if tr.Key != "8A" || !tr.HasKey() {
		t.Errorf("key = %q hasKey=%v, want 8A", tr.Key, tr.HasKey())
	}
	if tr.Energy != 5 {
		t.Errorf("missing energy should default to midpoint 5, got %v", tr.Energy)
	}
}

func TestNormalizeClampsEnergy(t *testing.T) {
	if got := Normalize(analyzed("8A", 128, 300, 14), 0).Energy; got != 10 {
		t.Errorf("energy clamp high: got %v, want 10", got)
	}
	if got := Normalize(analyzed("8A", 128, 300, 0.5), 0).Energy; got != 1 {
		t.Errorf("energy clamp low: got %v, want 1", got)
	}
}

func TestNormalizeUnresolvableKey(t *testing.T) {
	tr := Normalize(analyzed("H potato", 128, 300, 5), 0)
	if tr.HasKey() || tr.Key != "" {
		t.Errorf("expected unresolved key, got %q", tr.Key)
	}
}

func TestMixPointsFromCues(t *testing.T) {
	tr := Normalize(analyzed("8A", 120, 360, 6,
		analysis.CuePoint{Time: 30, Type: "intro"},
		analysis.CuePoint{Time: 15, Type: "intro"},
		analysis.CuePoint{Time: 300, Type: "outro"},
		analysis.CuePoint{Time: 330, Type: "outro"},
	), 0)

	if tr.MixInTime != 15 {
		t.Errorf("mix-in should be the earliest intro cue, got %v", tr.MixInTime)
	}
	if tr.MixOutTime != 330 {
		t.Errorf("mix-out should be the latest outro cue, got %v", tr.MixOutTime)
	}
	// 15s run-up at 120 BPM is 7.5 bars.
	if math.Abs(tr.MixInBars-7.5) > 1e-9 {
		t.Errorf("MixInBars = %v, want 7.5", tr.MixInBars)
	}
	// 30s tail at 120 BPM is 15 bars.
	if math.Abs(tr.MixOutBars-15) > 1e-9 {
		t.Errorf("MixOutBars = %v, want 15", tr.MixOutBars)
	}
}

func TestMixOutFallsBackToSixteenBars(t *testing.T) {
	tr := Normalize(analyzed("8A", 128, 300, 5), 0)

	// 16 bars at 128 BPM is exactly 30 seconds.
	if math.Abs(tr.MixOutTime-270) > 1e-9 {
		t.Errorf("MixOutTime = %v, want 270", tr.MixOutTime)
	}
	if math.Abs(tr.MixOutBars-16) > 1e-9 {
		t.Errorf("MixOutBars = %v, want 16", tr.MixOutBars)
	}
	if tr.MixInTime != 0 || tr.MixInBars != 0 {
		t.Errorf("no intro cue: MixInTime=%v MixInBars=%v, want 0/0", tr.MixInTime, tr.MixInBars)
	}
}

func TestMixOutWithoutBPMUsesThirtySeconds(t *testing.T) {
	tr := Normalize(analyzed("8A", 0, 200, 5), 0)
	if tr.MixOutTime != 170 {
		t.Errorf("MixOutTime = %v, want 170", tr.MixOutTime)
	}
	if tr.MixOutBars != 0 {
		t.Errorf("MixOutBars should be unknown without BPM, got %v", tr.MixOutBars)
	}
}

func TestMixOutNeverNegative(t *testing.T) {
	tr := Normalize(analyzed("8A", 0, 20, 5), 0)
	if tr.MixOutTime < 0 {
		t.Errorf("MixOutTime = %v, must not be negative", tr.MixOutTime)
	}
}

func TestCueTimeMatchesNameWhenTypeMissing(t *testing.T) {
	at, ok := cueTime([]analysis.CuePoint{
		{Time: 12, Name: "Intro"},
		{Time: 50, Name: "Drop"},
	}, introCueTypes, false)
	if !ok || at != 12 {
		t.Errorf("cueTime by name: got %v ok=%v, want 12", at, ok)
	}

	if _, ok := cueTime(nil, introCueTypes, false); ok {
		t.Error("cueTime on empty cues should report no match")
	}
}

func TestSecondsToBars(t *testing.T) {
	if bars, ok := secondsToBars(30, 128); !ok || math.Abs(bars-16) > 1e-9 {
		t.Errorf("secondsToBars(30, 128) = %v ok=%v, want 16", bars, ok)
	}
	if _, ok := secondsToBars(30, 0); ok {
		t.Error("secondsToBars without BPM should not be ok")
	}
	if _, ok := secondsToBars(0, 128); ok {
		t.Error("secondsToBars with zero span should not be ok")
	}
}
