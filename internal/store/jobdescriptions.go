package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ricki2828/cv-parsing/internal/models"
)

// JobDescriptionInput carries the editable fields of a job description.
type JobDescriptionInput struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Requirements     []string `json:"requirements"`
	Responsibilities []string `json:"responsibilities"`
}

// CreateJobDescription adds a new job description with a generated id
// and matching created/updated timestamps.
func (s *Store) CreateJobDescription(input JobDescriptionInput) (models.JobDescription, error) {
	now := time.Now()
	jd := models.JobDescription{
		ID:               uuid.NewString(),
		Title:            input.Title,
		Description:      input.Description,
		Requirements:     orEmpty(input.Requirements),
		Responsibilities: orEmpty(input.Responsibilities),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, jd)
	if err := s.saveFile(jobsFile, s.jobs); err != nil {
		return models.JobDescription{}, fmt.Errorf("job description store write failed: %w", err)
	}
	return jd, nil
}

// UpdateJobDescription edits an existing job description in place and
// refreshes its updated timestamp.
func (s *Store) UpdateJobDescription(id string, input JobDescriptionInput) (models.JobDescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.jobs {
		if s.jobs[i].ID != id {
			continue
		}
		s.jobs[i].Title = input.Title
		s.jobs[i].Description = input.Description
		s.jobs[i].Requirements = orEmpty(input.Requirements)
		s.jobs[i].Responsibilities = orEmpty(input.Responsibilities)
		s.jobs[i].UpdatedAt = time.Now()

		if err := s.saveFile(jobsFile, s.jobs); err != nil {
			return models.JobDescription{}, fmt.Errorf("job description store write failed: %w", err)
		}
		return s.jobs[i], nil
	}
	return models.JobDescription{}, fmt.Errorf("job description %s: %w", id, ErrNotFound)
}

// DeleteJobDescription removes a job description. Deleting an absent id
// is a no-op, not an error.
func (s *Store) DeleteJobDescription(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.jobs {
		if s.jobs[i].ID != id {
			continue
		}
		s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
		if err := s.saveFile(jobsFile, s.jobs); err != nil {
			return fmt.Errorf("job description store write failed: %w", err)
		}
		return nil
	}
	return nil
}

// GetJobDescription returns the job description with the given id.
func (s *Store) GetJobDescription(id string) (models.JobDescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, jd := range s.jobs {
		if jd.ID == id {
			return jd, nil
		}
	}
	return models.JobDescription{}, fmt.Errorf("job description %s: %w", id, ErrNotFound)
}

// ListJobDescriptions returns all job descriptions in creation order.
func (s *Store) ListJobDescriptions() []models.JobDescription {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.JobDescription, len(s.jobs))
	copy(out, s.jobs)
	return out
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
