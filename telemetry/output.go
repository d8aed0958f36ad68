// Package telemetry writes structured run output: a per-generation
// training history and per-episode results, both as CSV.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// OutputManager handles structured run output with CSV logging.
// A nil OutputManager is valid and discards everything, so callers can
// leave output disabled without guarding each write.
type OutputManager struct {
	dir          string
	trainingFile *os.File
	episodeFile  *os.File

	trainingHeaderWritten bool
	episodeHeaderWritten  bool
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "training_history.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating training_history.csv: %w", err)
	}
	om.trainingFile = f

	f, err = os.Create(filepath.Join(dir, "episodes.csv"))
	if err != nil {
		om.trainingFile.Close()
		return nil, fmt.Errorf("creating episodes.csv: %w", err)
	}
	om.episodeFile = f

	return om, nil
}

// Dir returns the output directory, empty when output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteGeneration appends one training history row.
func (om *OutputManager) WriteGeneration(rec GenerationRecord) error {
	if om == nil {
		return nil
	}
	records := []GenerationRecord{rec}
	if !om.trainingHeaderWritten {
		om.trainingHeaderWritten = true
		if err := gocsv.Marshal(records, om.trainingFile); err != nil {
			return fmt.Errorf("writing training history: %w", err)
		}
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.trainingFile); err != nil {
		return fmt.Errorf("writing training history: %w", err)
	}
	return nil
}

// WriteEpisode appends one episode results row.
func (om *OutputManager) WriteEpisode(rec EpisodeRecord) error {
	if om == nil {
		return nil
	}
	records := []EpisodeRecord{rec}
	if !om.episodeHeaderWritten {
		om.episodeHeaderWritten = true
		if err := gocsv.Marshal(records, om.episodeFile); err != nil {
			return fmt.Errorf("writing episodes: %w", err)
		}
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.episodeFile); err != nil {
		return fmt.Errorf("writing episodes: %w", err)
	}
	return nil
}

// Close flushes and closes the CSV files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{om.trainingFile, om.episodeFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
