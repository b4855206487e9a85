package suggest

import (
	"math"
	"sort"

	"github.com/hexbeat/setforge/camelot"
	"github.com/hexbeat/setforge/setplan"
)

// TransitionType selects which energy trajectory the ranker rewards.
type TransitionType string

const (
	TransitionSimilar TransitionType = "similar"
	TransitionBuild   TransitionType = "build"
	TransitionDrop    TransitionType = "drop"
)

// Options configures a suggestion query.
type Options struct {
	// Limit truncates the result list; <= 0 means unlimited.
	Limit int `json:"limit"`

	// MinScore filters out candidates below this total, 0-100 scale.
	MinScore float64 `json:"min_score"`

	TransitionType TransitionType `json:"transition_type"`

	// ExcludeSource drops the reference track itself, matched by file path.
	ExcludeSource bool `json:"exclude_source"`
}

// DefaultOptions returns the ranker defaults used by the "what to play next"
// panel.
func DefaultOptions() *Options {
	return &Options{
		Limit:          5,
		MinScore:       40,
		TransitionType: TransitionSimilar,
		ExcludeSource:  true,
	}
}

// Score breaks down one candidate's ranking, all components on a 0-100
// scale. Recency is a fixed neutral 50 until play-history data exists.
type Score struct {
	Total    float64  `json:"total"`
	Harmonic float64  `json:"harmonic"`
	BPM      float64  `json:"bpm"`
	Energy   float64  `json:"energy"`
	Recency  float64  `json:"recency"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Suggestion pairs a candidate track with its score against the reference.
type Suggestion struct {
	Track setplan.Track `json:"track"`
	Score Score         `json:"score"`
}

// Ranker profile weights. Tuned independently of the set planner's profile;
// do not share constants between the two.
const (
	weightHarmonic = 0.40
	weightBPM      = 0.30
	weightEnergy   = 0.20
	weightRecency  = 0.10

	neutralRecency = 50.0
)

// SuggestedTracks scores every candidate in the pool against the source
// track and returns them best-first, filtered to opts.MinScore and truncated
// to opts.Limit. Ties keep pool order.
func SuggestedTracks(source setplan.Track, pool []setplan.Track, opts *Options) []Suggestion {
	if opts == nil {
		opts = DefaultOptions()
	}

	suggestions := make([]Suggestion, 0, len(pool))
	for _, cand := range pool {
		if opts.ExcludeSource && cand.FilePath == source.FilePath {
			continue
		}

		score := scoreCandidate(source, cand, opts.TransitionType)
		if score.Total < opts.MinScore {
			continue
		}
		suggestions = append(suggestions, Suggestion{Track: cand, Score: score})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score.Total > suggestions[j].Score.Total
	})

	if opts.Limit > 0 && len(suggestions) > opts.Limit {
		suggestions = suggestions[:opts.Limit]
	}
	return suggestions
}

func scoreCandidate(source, cand setplan.Track, mode TransitionType) Score {
	s := Score{
		Harmonic: harmonicScore(source, cand),
		BPM:      bpmScore(source.BPM, cand.BPM),
		Energy:   energyScore(source.Energy, cand.Energy, mode),
		Recency:  neutralRecency,
	}
	s.Total = s.Harmonic*weightHarmonic +
		s.BPM*weightBPM +
		s.Energy*weightEnergy +
		s.Recency*weightRecency
	s.Reasons = reasons(s, mode)
	return s
}

// harmonicScore is the ranker's Camelot ladder. Unlike the planner's stricter
// path this site treats an unresolvable key as neutral (50): missing metadata
// should not bury a candidate in a browsing panel.
func harmonicScore(source, cand setplan.Track) float64 {
	if !source.HasKey() || !cand.HasKey() {
		return 50
	}
	a, b := source.CamelotKey(), cand.CamelotKey()

	switch {
	case a == b:
		return 100
	case camelot.IsRelative(a, b):
		return 85
	case camelot.IsAdjacent(a, b):
		return 85
	case camelot.Distance(a, b) == 1: // adjacent position, other ring
		return 60
	case camelot.Distance(a, b) == 2 && a.Mode == b.Mode:
		return 40
	case camelot.Distance(a, b) == 6:
		return 0
	default:
		return 20
	}
}

// bpmScore uses percentage-difference breakpoints plus half/double-time
// detection: a 120 and a 240 BPM track blend fine at doubled feel even
// though the raw difference is huge.
func bpmScore(sourceBPM, candBPM float64) float64 {
	if sourceBPM <= 0 || candBPM <= 0 {
		return 50
	}

	diff := math.Abs(candBPM - sourceBPM)
	if diff <= 1 {
		return 100
	}

	pct := diff / sourceBPM * 100
	switch {
	case pct <= 3:
		return 90
	case pct <= 6:
		return 70
	case pct <= 10:
		return 50
	}

	ratio := candBPM / sourceBPM
	if math.Abs(ratio-2.0) <= 0.08 || math.Abs(ratio-0.5) <= 0.04 {
		return 60
	}
	return 20
}

// energyScore rewards the trajectory the DJ asked for: staying level,
// building by one or two, or dropping by one or two.
func energyScore(sourceEnergy, candEnergy float64, mode TransitionType) float64 {
	delta := candEnergy - sourceEnergy

	switch mode {
	case TransitionBuild:
		switch {
		case delta >= 1 && delta <= 2:
			return 100
		case delta > 2 && delta <= 3:
			return 60
		case delta > 3:
			return 40
		case delta >= 0:
			return 70
		default:
			return 30
		}
	case TransitionDrop:
		switch {
		case delta <= -1 && delta >= -2:
			return 100
		case delta < -2 && delta >= -3:
			return 60
		case delta < -3:
			return 40
		case delta <= 0:
			return 70
		default:
			return 30
		}
	default: // similar
		abs := math.Abs(delta)
		switch {
		case abs <= 0.5:
			return 100
		case abs <= 1:
			return 85
		case abs <= 2:
			return 65
		case abs <= 3:
			return 45
		default:
			return 25
		}
	}
}

// reasons emits short human labels only when a component clears its
// threshold; no reason at all is a valid outcome.
func reasons(s Score, mode TransitionType) []string {
	var out []string

	if s.Harmonic >= 85 {
		out = append(out, "Perfect harmonic match")
	} else if s.Harmonic >= 60 {
		out = append(out, "Compatible key")
	}

	if s.BPM >= 90 {
		out = append(out, "Seamless tempo match")
	} else if s.BPM == 60 {
		out = append(out, "Half/double-time blend")
	}

	if s.Energy >= 85 {
		switch mode {
		case TransitionBuild:
			out = append(out, "Energy builder")
		case TransitionDrop:
			out = append(out, "Energy release")
		default:
			out = append(out, "Matching energy")
		}
	}
	return out
}
