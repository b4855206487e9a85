// Package analysis defines the contract with the external track analyzer.
// The planner consumes these records read-only; nothing here is derived or
// recomputed by this library.
package analysis

// FileRef identifies the audio file an analysis belongs to.
type FileRef struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// CuePoint is a named timestamp within a track.
type CuePoint struct {
	Time float64 `json:"time"`
	Name string  `json:"name,omitempty"`
	Type string  `json:"type,omitempty"`
}

// CompatibleKey is one entry of an analyzer-precomputed harmonic
// compatibility list.
type CompatibleKey struct {
	Key           string  `json:"key"`
	Compatibility float64 `json:"compatibility"`
	Description   string  `json:"description,omitempty"`
}

// HarmonicMixing carries the analyzer's precomputed key compatibility data.
type HarmonicMixing struct {
	CompatibleKeys []CompatibleKey `json:"compatible_keys"`
}

// EnergyAnalysis carries the analyzer's perceived-intensity estimate on a
// 1-10 scale. Different analyzer versions populate different fields.
type EnergyAnalysis struct {
	EnergyLevel   float64 `json:"energy_level,omitempty"`
	OverallEnergy float64 `json:"overall_energy,omitempty"`
}

// TrackAnalysis is the per-track metadata produced by the analyzer.
type TrackAnalysis struct {
	Key            string          `json:"key"`
	BPM            float64         `json:"bpm"`
	Duration       float64         `json:"duration"`
	EnergyAnalysis *EnergyAnalysis `json:"energy_analysis,omitempty"`
	OverallEnergy  float64         `json:"overall_energy,omitempty"`
	CuePoints      []CuePoint      `json:"cue_points,omitempty"`
	Cues           []CuePoint      `json:"cues,omitempty"`
	HarmonicMixing *HarmonicMixing `json:"harmonic_mixing,omitempty"`
}

// AnalyzedTrack pairs a file reference with its analysis; this is the unit of
// input for set planning.
type AnalyzedTrack struct {
	File     FileRef       `json:"file"`
	Analysis TrackAnalysis `json:"analysis"`
}

// Energy resolves the analyzer's energy estimate, preferring
// energy_analysis.energy_level, then energy_analysis.overall_energy, then the
// top-level overall_energy. Returns 0 when no estimate is present.
func (ta TrackAnalysis) Energy() float64 {
	if ea := ta.EnergyAnalysis; ea != nil {
		if ea.EnergyLevel > 0 {
			return ea.EnergyLevel
		}
		if ea.OverallEnergy > 0 {
			return ea.OverallEnergy
		}
	}
	return ta.OverallEnergy
}

// CueList returns whichever cue field the analyzer populated; cue_points wins
// when both are present.
func (ta TrackAnalysis) CueList() []CuePoint {
	if len(ta.CuePoints) > 0 {
		return ta.CuePoints
	}
	return ta.Cues
}

// CompatibilityFor looks up the analyzer-precomputed compatibility for a
// target key. The second return is false when no harmonic mixing data covers
// that key.
func (ta TrackAnalysis) CompatibilityFor(key string) (float64, bool) {
	if ta.HarmonicMixing == nil {
		return 0, false
	}
	for _, ck := range ta.HarmonicMixing.CompatibleKeys {
		if ck.Key == key {
			return ck.Compatibility, true
		}
	}
	return 0, false
}
