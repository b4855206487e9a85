package suggest

import (
	"math"
	"testing"

	"github.com/hexbeat/setforge/analysis"
	"github.com/hexbeat/setforge/setplan"
)

func deck(key string, bpm, duration, energy float64, cues ...analysis.CuePoint) setplan.Track {
	return setplan.Normalize(analysis.AnalyzedTrack{
		File: analysis.FileRef{Path: "/music/deck.mp3", Name: "deck.mp3"},
		Analysis: analysis.TrackAnalysis{
			Key:           key,
			BPM:           bpm,
			Duration:      duration,
			OverallEnergy: energy,
			CuePoints:     cues,
		},
	}, 0)
}

func TestRecommendMixPointSmoothBlend(t *testing.T) {
	// 16-bar tail at 128 BPM lands the mix-out exactly on a phrase boundary.
	current := deck("8A", 128, 300, 6)
	next := deck("9A", 128, 300, 7)

	r := RecommendMixPoint(current, next)

	if r.Score < 80 || r.Score > 100 {
		t.Errorf("smooth blend score = %d, want high", r.Score)
	}
	if r.PhraseScore != 100 {
		t.Errorf("phrase score = %v, want 100 on the boundary", r.PhraseScore)
	}
	if r.KeyScore != 85 {
		t.Errorf("adjacent-key score = %v, want 85", r.KeyScore)
	}
	if r.MixOutTime != current.MixOutTime || r.MixInTime != next.MixInTime {
		t.Error("recommendation must carry the decks' derived mix points")
	}
	if r.OverlapBars < 8 || r.OverlapBars > 16 {
		t.Errorf("overlap %d out of [8,16]", r.OverlapBars)
	}
}

func TestPhraseAlignment(t *testing.T) {
	// 60 s at 128 BPM is beat 128, a multiple of 32.
	if got := phraseAlignment(60, 128); got != 100 {
		t.Errorf("on-boundary alignment = %v, want 100", got)
	}
	// 30 s at 120 BPM is beat 60, four beats from the nearest boundary.
	if got := phraseAlignment(30, 120); math.Abs(got-75) > 1e-9 {
		t.Errorf("near-boundary alignment = %v, want 75", got)
	}
	// Half a phrase away is the worst case.
	if got := phraseAlignment(8, 120); got != 0 {
		t.Errorf("mid-phrase alignment = %v, want 0", got)
	}
	if got := phraseAlignment(60, 0); got != 50 {
		t.Errorf("no BPM should be neutral 50, got %v", got)
	}
}

func TestDeckKeyScoreStrictOnMissingKeys(t *testing.T) {
	withKey := deck("8A", 128, 300, 6)
	noKey := deck("", 128, 300, 6)

	if got := deckKeyScore(withKey, noKey); got != 0 {
		t.Errorf("missing key on a live deck must score 0, got %v", got)
	}

	cases := []struct {
		key  string
		want float64
	}{
		{"8A", 100},
		{"8B", 90},
		{"9A", 85},
		{"3B", 20},
	}
	for _, tc := range cases {
		if got := deckKeyScore(withKey, deck(tc.key, 128, 300, 6)); got != tc.want {
			t.Errorf("deckKeyScore(8A, %s) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestCueCoverage(t *testing.T) {
	outroCued := deck("8A", 128, 300, 6, analysis.CuePoint{Time: 270, Type: "outro"})
	introCued := deck("9A", 128, 300, 6, analysis.CuePoint{Time: 16, Type: "intro"})
	uncued := deck("9A", 128, 300, 6)

	if got := cueCoverage(outroCued, introCued); got != 100 {
		t.Errorf("both decks cued = %v, want 100", got)
	}
	if got := cueCoverage(outroCued, uncued); got != 70 {
		t.Errorf("one deck cued = %v, want 70", got)
	}
	if got := cueCoverage(uncued, uncued); got != 40 {
		t.Errorf("no cues = %v, want 40", got)
	}
}

func TestRecommendMixPointReasons(t *testing.T) {
	current := deck("8A", 128, 300, 6, analysis.CuePoint{Time: 270, Type: "outro"})
	next := deck("8A", 128, 300, 6, analysis.CuePoint{Time: 30, Type: "intro"})

	r := RecommendMixPoint(current, next)

	want := map[string]bool{
		"Harmonically safe blend":      false,
		"Tempo locked":                 false,
		"Cue points set on both decks": false,
	}
	for _, reason := range r.Reasons {
		if _, ok := want[reason]; ok {
			want[reason] = true
		}
	}
	for label, seen := range want {
		if !seen {
			t.Errorf("missing reason %q in %v", label, r.Reasons)
		}
	}
}
