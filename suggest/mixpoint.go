package suggest

import (
	"math"
	"strings"

	"github.com/hexbeat/setforge/camelot"
	"github.com/hexbeat/setforge/setplan"
)

// Recommendation is a concrete mix-point proposal for the two loaded decks:
// when to start fading the current track, when to drop the next one in, and
// how long to overlap.
type Recommendation struct {
	Score       int     `json:"score"` // 0-100
	MixOutTime  float64 `json:"mixOutTime"`
	MixInTime   float64 `json:"mixInTime"`
	OverlapBars int     `json:"overlapBars"`

	PhraseScore float64 `json:"phraseScore"`
	KeyScore    float64 `json:"keyScore"`
	EnergyScore float64 `json:"energyScore"`
	CueScore    float64 `json:"cueScore"`
	BPMScore    float64 `json:"bpmScore"`

	Reasons []string `json:"reasons,omitempty"`
}

// Live mix-point profile: phrase alignment dominates because a transition on
// an uneven phrase boundary is audible no matter how compatible the keys
// are. Tuned independently of both the planner and the ranker profiles.
const (
	mixWeightPhrase = 0.30
	mixWeightKey    = 0.25
	mixWeightEnergy = 0.20
	mixWeightCue    = 0.15
	mixWeightBPM    = 0.10

	phraseBeats = 32 // 8 bars
)

// RecommendMixPoint scores blending from the current deck into the next one
// at their derived mix points. Pure over its inputs.
func RecommendMixPoint(current, next setplan.Track) Recommendation {
	r := Recommendation{
		MixOutTime:  current.MixOutTime,
		MixInTime:   next.MixInTime,
		OverlapBars: setplan.OverlapBars(current, next),
	}

	r.PhraseScore = (phraseAlignment(current.MixOutTime, current.BPM) +
		phraseAlignment(next.MixInTime, next.BPM)) / 2
	r.KeyScore = deckKeyScore(current, next)
	r.EnergyScore = (1 - math.Min(math.Abs(next.Energy-current.Energy)/5, 1)) * 100
	r.CueScore = cueCoverage(current, next)
	r.BPMScore = deckBPMScore(current.BPM, next.BPM)

	total := r.PhraseScore*mixWeightPhrase +
		r.KeyScore*mixWeightKey +
		r.EnergyScore*mixWeightEnergy +
		r.CueScore*mixWeightCue +
		r.BPMScore*mixWeightBPM
	r.Score = int(math.Round(math.Min(math.Max(total, 0), 100)))

	r.Reasons = mixReasons(r)
	return r
}

// phraseAlignment scores how close a timestamp lands to a 32-beat phrase
// boundary, 100 on the boundary falling linearly to 0 half a phrase away.
// Without a BPM the grid is unknown and the score is neutral.
func phraseAlignment(at, bpm float64) float64 {
	if bpm <= 0 || at < 0 {
		return 50
	}

	beats := at * bpm / 60
	intoPhrase := math.Mod(beats, phraseBeats)
	dist := math.Min(intoPhrase, phraseBeats-intoPhrase)
	return (1 - dist/(phraseBeats/2)) * 100
}

// deckKeyScore is the live-deck harmonic variant: strict on missing keys
// (score 0), since recommending a blend with unknown harmony on air is worse
// than recommending nothing.
func deckKeyScore(current, next setplan.Track) float64 {
	if !current.HasKey() || !next.HasKey() {
		return 0
	}
	a, b := current.CamelotKey(), next.CamelotKey()

	switch {
	case a == b:
		return 100
	case camelot.IsRelative(a, b):
		return 90
	case camelot.IsAdjacent(a, b):
		return 85
	default:
		return 20
	}
}

func deckBPMScore(currentBPM, nextBPM float64) float64 {
	if currentBPM <= 0 || nextBPM <= 0 {
		return 60
	}
	diff := math.Abs(nextBPM - currentBPM)
	switch {
	case diff <= 2:
		return 100
	case diff <= 4:
		return 85
	case diff <= 8:
		return 65
	case diff <= 12:
		return 45
	default:
		return 20
	}
}

// cueCoverage checks whether the decks carry explicit outro/intro cues for
// their mix points: both cued is ideal, one cued is workable, neither means
// the points are BPM-derived estimates.
func cueCoverage(current, next setplan.Track) float64 {
	cued := 0
	if hasCue(current, false) {
		cued++
	}
	if hasCue(next, true) {
		cued++
	}
	switch cued {
	case 2:
		return 100
	case 1:
		return 70
	default:
		return 40
	}
}

func hasCue(t setplan.Track, intro bool) bool {
	tags := []string{"outro", "mix_out", "mix-out"}
	if intro {
		tags = []string{"intro", "mix_in", "mix-in"}
	}
	for _, cue := range t.Cues {
		label := cue.Type
		if label == "" {
			label = cue.Name
		}
		for _, tag := range tags {
			if strings.EqualFold(label, tag) {
				return true
			}
		}
	}
	return false
}

func mixReasons(r Recommendation) []string {
	var out []string
	if r.PhraseScore >= 85 {
		out = append(out, "Phrase-aligned mix point")
	}
	if r.KeyScore >= 85 {
		out = append(out, "Harmonically safe blend")
	}
	if r.BPMScore >= 85 {
		out = append(out, "Tempo locked")
	}
	if r.CueScore == 100 {
		out = append(out, "Cue points set on both decks")
	}
	return out
}
