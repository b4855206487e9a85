package setplan

import (
	"math"

	"github.com/hexbeat/setforge/analysis"
	"github.com/hexbeat/setforge/logging"
	"github.com/hexbeat/setforge/setplan/config"
)

// Transition describes the seam between two adjacent tracks of a finalized
// plan. Instances are regenerated wholesale whenever the plan is rebuilt.
type Transition struct {
	FromID      string   `json:"fromId"`
	ToID        string   `json:"toId"`
	Score       int      `json:"score"` // 0-100
	Reasons     []string `json:"reasons"`
	BPMDiff     float64  `json:"bpmDiff"`
	EnergyDelta float64  `json:"energyDelta"`
	MixOutTime  float64  `json:"mixOutTime"`
	MixInTime   float64  `json:"mixInTime"`
	OverlapBars int      `json:"overlapBars"`
}

// SetPlan is the planner's output aggregate. When Error is set the plan was
// rejected whole: no ordering or transitions are computed, because scoring
// is undefined without valid keys on every track.
type SetPlan struct {
	Tracks      []Track      `json:"tracks"` // in play order
	Transitions []Transition `json:"transitions"`
	Targets     []float64    `json:"targets"` // per-position energy targets
	Error       string       `json:"error,omitempty"`
	MissingKeys []string     `json:"missingKeys,omitempty"`
}

// ErrInvalidKeys is the user-facing validation message carried by rejected
// plans.
const ErrInvalidKeys = "all tracks must resolve to valid Camelot keys"

// Planner turns analyzed tracks into an ordered set plan. It holds no state
// across invocations; every Plan call is a pure function of its inputs.
type Planner struct {
	config *config.PlannerConfig
	logger logging.Logger
}

// NewPlanner creates a planner with the given configuration, defaulting when
// nil.
func NewPlanner(cfg *config.PlannerConfig) *Planner {
	if cfg == nil {
		cfg = config.DefaultPlannerConfig()
	}
	return &Planner{
		config: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "set_planner",
		}),
	}
}

// BuildSetPlan plans a set with default configuration. Convenience wrapper
// around NewPlanner(...).Plan(...).
func BuildSetPlan(inputs []analysis.AnalyzedTrack) *SetPlan {
	return NewPlanner(nil).Plan(inputs)
}

// Plan normalizes the inputs, rejects the run if any key is unresolvable,
// then greedily orders the pool along the energy target curve and scores one
// transition per adjacent pair.
//
// Ordering is deterministic for a fixed input order: ties keep the first
// candidate encountered, and the remaining pool is scanned in insertion
// order, never re-sorted.
func (p *Planner) Plan(inputs []analysis.AnalyzedTrack) *SetPlan {
	tracks := make([]Track, len(inputs))
	var missing []string
	for i, in := range inputs {
		tracks[i] = Normalize(in, i)
		if !tracks[i].HasKey() {
			missing = append(missing, tracks[i].FileName)
		}
	}

	if len(missing) > 0 {
		p.logger.Warn("rejecting plan, unresolvable keys", logging.Fields{
			"missing": missing,
		})
		return &SetPlan{
			Tracks:      []Track{},
			Transitions: []Transition{},
			Targets:     []float64{},
			Error:       ErrInvalidKeys,
			MissingKeys: missing,
		}
	}

	targets := BuildEnergyTargets(tracks, p.config.PeakPosition)

	ordered := p.sequence(tracks, targets)
	transitions := p.transitions(ordered, targets)

	p.logger.Debug("plan built", logging.Fields{
		"tracks":      len(ordered),
		"transitions": len(transitions),
		"curve":       p.config.EnergyCurve,
	})

	return &SetPlan{
		Tracks:      ordered,
		Transitions: transitions,
		Targets:     targets,
	}
}

// sequence performs greedy nearest-best ordering: the opener is the track
// closest to the opening energy target, then each position takes the
// remaining track with the best transition score against the last pick.
// Every track is used exactly once.
func (p *Planner) sequence(tracks []Track, targets []float64) []Track {
	remaining := make([]Track, len(tracks))
	copy(remaining, tracks)

	ordered := make([]Track, 0, len(tracks))
	for position := range tracks {
		bestIdx := -1
		bestScore := math.Inf(-1)

		for i, cand := range remaining {
			var score float64
			if position == 0 {
				score = 1 - clamp(math.Abs(cand.Energy-targets[0])/5, 0, 1)
			} else {
				score = scoreTransition(ordered[len(ordered)-1], cand, targets[position], p.config.Weights).Total
			}
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		// Defensive: the pool is non-empty here, so a best candidate always
		// exists; fall back to the first remaining track regardless.
		if bestIdx < 0 {
			bestIdx = 0
		}

		ordered = append(ordered, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return ordered
}

// transitions rescores each adjacent pair of the fixed order, scaling totals
// to 0-100 integers and deriving the overlap window in bars.
func (p *Planner) transitions(ordered []Track, targets []float64) []Transition {
	if len(ordered) < 2 {
		return []Transition{}
	}

	out := make([]Transition, 0, len(ordered)-1)
	for i := 1; i < len(ordered); i++ {
		from, to := ordered[i-1], ordered[i]
		s := scoreTransition(from, to, targets[i], p.config.Weights)

		out = append(out, Transition{
			FromID:      from.ID,
			ToID:        to.ID,
			Score:       int(math.Round(s.Total * 100)),
			Reasons:     s.Reasons,
			BPMDiff:     s.BPMDiff,
			EnergyDelta: s.EnergyDelta,
			MixOutTime:  from.MixOutTime,
			MixInTime:   to.MixInTime,
			OverlapBars: OverlapBars(from, to),
		})
	}
	return out
}

// OverlapBars derives how many bars the outgoing and incoming tracks should
// play together: the shorter of the outgoing tail and the incoming run-up,
// defaulting to 16 bars where a length is unknown, clamped to 8-16.
func OverlapBars(from, to Track) int {
	outBars := from.MixOutBars
	if outBars == 0 {
		outBars = 16
	}
	inBars := to.MixInBars
	if inBars == 0 {
		inBars = 16
	}

	bars := int(math.Round(math.Min(outBars, inBars)))
	if bars < 8 {
		bars = 8
	}
	if bars > 16 {
		bars = 16
	}
	return bars
}
