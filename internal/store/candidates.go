package store

import (
	"fmt"

	"github.com/ricki2828/cv-parsing/internal/models"
)

// AppendCandidates adds a processed batch to the collection. Existing
// entries are never replaced; new batches only append. A write failure
// is returned to the caller while the in-memory collection keeps the
// batch.
func (s *Store) AppendCandidates(batch []models.Candidate) error {
	if len(batch) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.candidates = append(s.candidates, batch...)
	if err := s.saveFile(candidatesFile, s.candidates); err != nil {
		return fmt.Errorf("candidate store write failed: %w", err)
	}
	return nil
}

// ListCandidates returns a copy of the full candidate collection in
// insertion order.
func (s *Store) ListCandidates() []models.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// GetCandidate returns the candidate with the given id.
func (s *Store) GetCandidate(id string) (models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.candidates {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Candidate{}, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
}

// UpdateCandidateStatus moves a candidate to a new pipeline stage. This
// is the only mutation a candidate supports after assembly; any stage
// may be set from any other stage.
func (s *Store) UpdateCandidateStatus(id string, status models.CandidateStatus) (models.Candidate, error) {
	if !status.IsValid() {
		return models.Candidate{}, fmt.Errorf("unknown status %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.candidates {
		if s.candidates[i].ID != id {
			continue
		}
		s.candidates[i].Status = status
		if err := s.saveFile(candidatesFile, s.candidates); err != nil {
			return models.Candidate{}, fmt.Errorf("candidate store write failed: %w", err)
		}
		return s.candidates[i], nil
	}
	return models.Candidate{}, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
}
