// Package store persists the session's state as JSON files in a local
// data directory: the append-only candidate collection, the
// job-description records and the scoring-criteria settings. It is the
// durable analog of a browser session's local storage; there is no
// server-side database in this system.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ricki2828/cv-parsing/internal/models"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInvalidCriteria is returned when a scoring-criteria save is
// rejected at the validation gate.
var ErrInvalidCriteria = errors.New("invalid scoring criteria")

const (
	candidatesFile = "candidates.json"
	jobsFile       = "job_descriptions.json"
	criteriaFile   = "scoring_criteria.json"
)

// Store holds the session state and mirrors every mutation to disk.
// A failed write surfaces as an error while the in-memory state keeps
// the mutation; callers must not report such a mutation as durable.
type Store struct {
	dataDir string

	mu         sync.Mutex
	candidates []models.Candidate
	jobs       []models.JobDescription
	criteria   models.ScoringCriteria
}

// Open loads existing state from dataDir, creating the directory and
// defaults as needed.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		dataDir:    dataDir,
		candidates: []models.Candidate{},
		jobs:       []models.JobDescription{},
		criteria:   models.DefaultScoringCriteria(),
	}

	if err := s.loadFile(candidatesFile, &s.candidates); err != nil {
		return nil, err
	}
	if err := s.loadFile(jobsFile, &s.jobs); err != nil {
		return nil, err
	}
	if err := s.loadFile(criteriaFile, &s.criteria); err != nil {
		return nil, err
	}

	return s, nil
}

// loadFile reads one state file if it exists.
func (s *Store) loadFile(name string, target any) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// saveFile writes one state file atomically: a temp file in the same
// directory is renamed over the previous version, so a failed write
// never truncates existing state.
func (s *Store) saveFile(name string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dataDir, name)
	tmp, err := os.CreateTemp(s.dataDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
