package config

// Curve names for the energy target builder. One shape is implemented today;
// the label travels through the config so UIs can persist a selection.
const (
	CurveWarmupPeakReset = "warmup-peak-reset"
)

// TransitionWeights is the set-planner scoring profile. The planner,
// suggestion ranker and live mix-point recommender each carry their own
// independently tuned profile; these numbers are not interchangeable between
// them.
type TransitionWeights struct {
	Key         float64 `json:"key"`
	Target      float64 `json:"target"`
	EnergyDelta float64 `json:"energy_delta"`
	BPM         float64 `json:"bpm"`

	// ClashPenalty is subtracted from the total when the key score falls
	// below ClashThreshold, so a clashing key cannot be bought back by
	// favorable tempo and energy.
	ClashThreshold float64 `json:"clash_threshold"`
	ClashPenalty   float64 `json:"clash_penalty"`
}

// DefaultTransitionWeights returns the tuned set-planner profile.
func DefaultTransitionWeights() TransitionWeights {
	return TransitionWeights{
		Key:            0.55,
		Target:         0.20,
		EnergyDelta:    0.15,
		BPM:            0.10,
		ClashThreshold: 0.4,
		ClashPenalty:   0.1,
	}
}

// PlannerConfig configures a set-planning run.
type PlannerConfig struct {
	// EnergyCurve names the target arc shape.
	EnergyCurve string `json:"energy_curve"`

	// PeakPosition places the energy peak as a fraction of the set, (0,1).
	PeakPosition float64 `json:"peak_position"`

	Weights TransitionWeights `json:"weights"`
}

// DefaultPlannerConfig returns sensible planning defaults: the
// warmup-peak-reset arc peaking about two thirds of the way through the set.
func DefaultPlannerConfig() *PlannerConfig {
	return &PlannerConfig{
		EnergyCurve:  CurveWarmupPeakReset,
		PeakPosition: 0.65,
		Weights:      DefaultTransitionWeights(),
	}
}
