// Package tagload builds planner input from audio file tags for users
// without a JSON analyzer. Key and energy come from the Mixed In Key style
// comment ("8A - Energy 6"); BPM from the format's tempo frame.
package tagload

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/dhowden/tag"

	"github.com/hexbeat/setforge/analysis"
	"github.com/hexbeat/setforge/logging"
)

var (
	keyCommentRegex    = regexp.MustCompile(`(\d{1,2}[ABab])\s*-\s*Energy`)
	energyCommentRegex = regexp.MustCompile(`Energy\s+(\d+)`)
)

// FromFile reads one audio file's tags into an AnalyzedTrack. Duration is
// not recoverable from tags alone and stays 0; the planner's mix-point
// derivation degrades gracefully without it.
func FromFile(path string) (analysis.AnalyzedTrack, error) {
	file, err := os.Open(path)
	if err != nil {
		return analysis.AnalyzedTrack{}, fmt.Errorf("tagload: open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return analysis.AnalyzedTrack{}, fmt.Errorf("tagload: read tags from %s: %w", path, err)
	}

	name := metadata.Title()
	if name == "" {
		name = filepath.Base(path)
	}

	comment := metadata.Comment()
	at := analysis.AnalyzedTrack{
		File: analysis.FileRef{Path: path, Name: name},
		Analysis: analysis.TrackAnalysis{
			Key:           extractKey(comment),
			BPM:           extractBPM(metadata),
			OverallEnergy: float64(extractEnergy(comment)),
		},
	}
	return at, nil
}

// FromFiles reads tags for every path, skipping unreadable files with a
// warning so one broken download does not kill a whole planning run.
func FromFiles(paths []string) []analysis.AnalyzedTrack {
	logger := logging.WithFields(logging.Fields{"component": "tagload"})

	tracks := make([]analysis.AnalyzedTrack, 0, len(paths))
	for _, path := range paths {
		at, err := FromFile(path)
		if err != nil {
			logger.Warn("skipping file", logging.Fields{
				"file":  path,
				"error": err.Error(),
			})
			continue
		}
		tracks = append(tracks, at)
	}
	return tracks
}

// extractKey pulls the Camelot key out of a "8A - Energy 6" comment.
func extractKey(comment string) string {
	matches := keyCommentRegex.FindStringSubmatch(comment)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// extractEnergy pulls the energy level out of a "8A - Energy 6" comment,
// 0 when absent.
func extractEnergy(comment string) int {
	matches := energyCommentRegex.FindStringSubmatch(comment)
	if len(matches) > 1 {
		if energy, err := strconv.Atoi(matches[1]); err == nil {
			return energy
		}
	}
	return 0
}

// extractBPM checks the common tempo frame names across tag formats.
func extractBPM(metadata tag.Metadata) float64 {
	raw := metadata.Raw()
	if raw == nil {
		return 0
	}
	for _, frame := range []string{"BPM", "TBPM", "bpm", "tempo"} {
		val, exists := raw[frame]
		if !exists {
			continue
		}
		var bpm float64
		switch v := val.(type) {
		case string:
			bpm, _ = strconv.ParseFloat(v, 64)
		case int:
			bpm = float64(v)
		case float64:
			bpm = v
		}
		if bpm > 0 {
			return bpm
		}
	}
	return 0
}
