package setplan

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hexbeat/setforge/analysis"
	"github.com/hexbeat/setforge/camelot"
)

// Cue type tags the normalizer recognizes when deriving mix points.
// Analyzers differ in spelling; matching is case-insensitive.
var (
	introCueTypes = []string{"intro", "mix_in", "mix-in"}
	outroCueTypes = []string{"outro", "mix_out", "mix-out"}
)

// Track is the canonical planning record derived from one analyzer result.
// It is built once per planning run and never mutated afterward.
type Track struct {
	ID       string  `json:"id"`
	FilePath string  `json:"filePath"`
	FileName string  `json:"fileName"`
	Key      string  `json:"key"` // Camelot notation, empty when unresolvable
	BPM      float64 `json:"bpm"` // 0 when the analyzer had none
	Energy   float64 `json:"energy"`
	Duration float64 `json:"duration"`

	Cues []analysis.CuePoint `json:"cues,omitempty"`

	// Mix points in seconds from track start.
	MixInTime  float64 `json:"mixInTime"`
	MixOutTime float64 `json:"mixOutTime"`

	// Bar lengths usable for overlap planning: MixInBars is the intro run-up
	// before the mix-in point, MixOutBars the tail after the mix-out point.
	// 0 means the conversion was not possible; callers fall back to 16.
	MixInBars  float64 `json:"mixInBars"`
	MixOutBars float64 `json:"mixOutBars"`

	camelotKey camelot.Key
	source     analysis.TrackAnalysis
}

// HasKey reports whether the track's key resolved to a wheel position.
func (t Track) HasKey() bool {
	return t.camelotKey.Valid()
}

// CamelotKey returns the resolved wheel position; the zero Key when none.
func (t Track) CamelotKey() camelot.Key {
	return t.camelotKey
}

// Normalize converts one analyzer result into a planning Track. It is total:
// missing BPM or energy never error, they carry documented defaults instead
// (energy midpoint 5, BPM left at 0 for the scorers' neutral handling). Only
// the key can invalidate a track, and that is surfaced via HasKey rather
// than here.
func Normalize(in analysis.AnalyzedTrack, index int) Track {
	ta := in.Analysis

	t := Track{
		ID:       fmt.Sprintf("track-%03d", index),
		FilePath: in.File.Path,
		FileName: in.File.Name,
		BPM:      ta.BPM,
		Duration: ta.Duration,
		Cues:     ta.CueList(),
		source:   ta,
	}
	if t.FileName == "" && t.FilePath != "" {
		t.FileName = t.FilePath
	}

	if key, ok := camelot.Normalize(ta.Key); ok {
		t.camelotKey = key
		t.Key = key.String()
	}

	energy := ta.Energy()
	if energy == 0 {
		energy = 5
	}
	t.Energy = clamp(energy, 1, 10)

	t.MixInTime, t.MixOutTime = derivedMixPoints(t)

	// Only an explicit intro cue defines a usable run-up length.
	if _, ok := cueTime(t.Cues, introCueTypes, false); ok {
		if bars, ok := secondsToBars(t.MixInTime, t.BPM); ok {
			t.MixInBars = bars
		}
	}
	if bars, ok := secondsToBars(t.Duration-t.MixOutTime, t.BPM); ok {
		t.MixOutBars = bars
	}

	return t
}

// derivedMixPoints picks mix-in/mix-out timestamps from cue tags, falling
// back to a 16-bar tail (or 30 s without a BPM) for the mix-out.
func derivedMixPoints(t Track) (mixIn, mixOut float64) {
	if at, ok := cueTime(t.Cues, introCueTypes, false); ok {
		mixIn = at
	}

	if at, ok := cueTime(t.Cues, outroCueTypes, true); ok {
		return mixIn, at
	}
	if sec, ok := barsToSeconds(16, t.BPM); ok {
		return mixIn, math.Max(0, t.Duration-sec)
	}
	return mixIn, math.Max(0, t.Duration-30)
}

// cueTime returns the first (or last, with pickLast) cue whose type matches
// one of the given tags, in ascending time order. Cues without a type fall
// back to matching on name.
func cueTime(cues []analysis.CuePoint, tags []string, pickLast bool) (float64, bool) {
	var matched []analysis.CuePoint
	for _, cue := range cues {
		label := cue.Type
		if label == "" {
			label = cue.Name
		}
		for _, tag := range tags {
			if strings.EqualFold(label, tag) {
				matched = append(matched, cue)
				break
			}
		}
	}
	if len(matched) == 0 {
		return 0, false
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Time < matched[j].Time })
	if pickLast {
		return matched[len(matched)-1].Time, true
	}
	return matched[0].Time, true
}

// secondsToBars converts a span of seconds to 4/4 bars. Both the span and a
// BPM are required; without them the conversion is reported as unavailable.
func secondsToBars(seconds, bpm float64) (float64, bool) {
	if seconds <= 0 || bpm <= 0 {
		return 0, false
	}
	return seconds * bpm / 240, true
}

func barsToSeconds(bars, bpm float64) (float64, bool) {
	if bars <= 0 || bpm <= 0 {
		return 0, false
	}
	return bars * 240 / bpm, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
