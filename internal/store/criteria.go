package store

import (
	"fmt"

	"github.com/ricki2828/cv-parsing/internal/models"
)

// ScoringCriteria returns the current scoring-weight configuration.
func (s *Store) ScoringCriteria() models.ScoringCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// SaveScoringCriteria validates and persists a new weight
// configuration. An invalid configuration blocks the save and leaves
// the stored configuration untouched.
func (s *Store) SaveScoringCriteria(criteria models.ScoringCriteria) error {
	if err := criteria.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCriteria, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.criteria
	s.criteria = criteria
	if err := s.saveFile(criteriaFile, s.criteria); err != nil {
		s.criteria = previous
		return fmt.Errorf("scoring criteria store write failed: %w", err)
	}
	return nil
}
