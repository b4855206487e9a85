package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hexbeat/setforge/logging"
)

// ErrNoAnalyses is returned by LoadDir when a directory holds no usable
// analysis files.
var ErrNoAnalyses = errors.New("analysis: no analysis files found")

// LoadFile reads one analyzer JSON file. Files may contain either a full
// {file, analysis} pair or a bare TrackAnalysis object; in the bare case the
// file reference is derived from the JSON filename.
func LoadFile(path string) (AnalyzedTrack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AnalyzedTrack{}, fmt.Errorf("analysis: read %s: %w", path, err)
	}

	var at AnalyzedTrack
	if err := json.Unmarshal(data, &at); err != nil {
		return AnalyzedTrack{}, fmt.Errorf("analysis: parse %s: %w", path, err)
	}

	if at.File.Path == "" && at.Analysis.Duration == 0 && at.Analysis.Key == "" {
		// Bare TrackAnalysis object without the wrapper.
		var ta TrackAnalysis
		if err := json.Unmarshal(data, &ta); err != nil {
			return AnalyzedTrack{}, fmt.Errorf("analysis: parse %s: %w", path, err)
		}
		at = AnalyzedTrack{Analysis: ta}
	}

	if at.File.Path == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		at.File = FileRef{Path: path, Name: base}
	}
	if at.File.Name == "" {
		at.File.Name = filepath.Base(at.File.Path)
	}

	return at, nil
}

// LoadDir reads every .json file in dir, sorted by filename so planning input
// order is stable across runs. Unparseable files are skipped with a warning.
func LoadDir(dir string) ([]AnalyzedTrack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("analysis: read dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	logger := logging.WithFields(logging.Fields{"component": "analysis_loader", "dir": dir})

	var tracks []AnalyzedTrack
	for _, name := range names {
		at, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping unreadable analysis file", logging.Fields{
				"file":  name,
				"error": err.Error(),
			})
			continue
		}
		tracks = append(tracks, at)
	}

	if len(tracks) == 0 {
		return nil, ErrNoAnalyses
	}

	logger.Debug("loaded analysis files", logging.Fields{"count": len(tracks)})
	return tracks, nil
}
