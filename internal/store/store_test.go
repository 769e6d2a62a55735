package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ricki2828/cv-parsing/internal/models"
)

func testCandidate(name string, score int) models.Candidate {
	return models.Candidate{
		ID:         uuid.NewString(),
		Name:       name,
		Score:      score,
		Status:     models.StatusNew,
		UploadDate: time.Now(),
		Skills:     []string{},
	}
}

// TestAppendCandidates tests that batches append without replacing
// prior entries and survive a reopen.
func TestAppendCandidates(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	first := testCandidate("Thandi", 81)
	if err := s.AppendCandidates([]models.Candidate{first}); err != nil {
		t.Fatalf("AppendCandidates() error = %v", err)
	}
	second := testCandidate("Sipho", 70)
	if err := s.AppendCandidates([]models.Candidate{second}); err != nil {
		t.Fatalf("AppendCandidates() error = %v", err)
	}

	list := s.ListCandidates()
	if len(list) != 2 {
		t.Fatalf("ListCandidates() length = %d, want 2", len(list))
	}
	if list[0].Name != "Thandi" || list[1].Name != "Sipho" {
		t.Errorf("candidates out of insertion order: %v, %v", list[0].Name, list[1].Name)
	}

	// Reopen from disk
	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() after append error = %v", err)
	}
	if got := reopened.ListCandidates(); len(got) != 2 {
		t.Errorf("reopened store has %d candidates, want 2", len(got))
	}
}

// TestUpdateCandidateStatus tests the single permitted candidate
// mutation, including free transitions and unknown targets.
func TestUpdateCandidateStatus(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	c := testCandidate("Thandi", 81)
	if err := s.AppendCandidates([]models.Candidate{c}); err != nil {
		t.Fatalf("AppendCandidates() error = %v", err)
	}

	// Any stage may be set from any other, including leaving a
	// rejection stage.
	transitions := []models.CandidateStatus{
		models.StatusShortlisted,
		models.StatusNotSuitableAny,
		models.StatusPotentialStar,
		models.StatusNew,
	}
	for _, status := range transitions {
		updated, err := s.UpdateCandidateStatus(c.ID, status)
		if err != nil {
			t.Fatalf("UpdateCandidateStatus(%q) error = %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("Status = %q, want %q", updated.Status, status)
		}
	}

	if _, err := s.UpdateCandidateStatus(c.ID, "hired"); err == nil {
		t.Error("UpdateCandidateStatus() accepted an unknown status")
	}

	if _, err := s.UpdateCandidateStatus("missing-id", models.StatusReviewed); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateCandidateStatus(missing) error = %v, want ErrNotFound", err)
	}
}

// TestGetCandidate tests lookup by id.
func TestGetCandidate(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	c := testCandidate("Thandi", 81)
	if err := s.AppendCandidates([]models.Candidate{c}); err != nil {
		t.Fatalf("AppendCandidates() error = %v", err)
	}

	got, err := s.GetCandidate(c.ID)
	if err != nil {
		t.Fatalf("GetCandidate() error = %v", err)
	}
	if got.Name != "Thandi" {
		t.Errorf("GetCandidate().Name = %q", got.Name)
	}

	if _, err := s.GetCandidate("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCandidate(missing) error = %v, want ErrNotFound", err)
	}
}

// TestJobDescriptionLifecycle tests create, update with timestamp
// refresh, and idempotent delete.
func TestJobDescriptionLifecycle(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	created, err := s.CreateJobDescription(JobDescriptionInput{
		Title:        "Sales Representative",
		Description:  "Outbound sales role",
		Requirements: []string{"2 years experience"},
	})
	if err != nil {
		t.Fatalf("CreateJobDescription() error = %v", err)
	}
	if created.ID == "" {
		t.Error("created job description has no id")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Error("CreatedAt and UpdatedAt should match on creation")
	}
	if created.Responsibilities == nil {
		t.Error("Responsibilities should be empty, not nil")
	}

	time.Sleep(5 * time.Millisecond)

	updated, err := s.UpdateJobDescription(created.ID, JobDescriptionInput{
		Title:       "Senior Sales Representative",
		Description: "Outbound sales role, senior",
	})
	if err != nil {
		t.Fatalf("UpdateJobDescription() error = %v", err)
	}
	if updated.Title != "Senior Sales Representative" {
		t.Errorf("Title = %q after update", updated.Title)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Error("UpdatedAt not refreshed on update")
	}

	if _, err := s.UpdateJobDescription("missing", JobDescriptionInput{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateJobDescription(missing) error = %v, want ErrNotFound", err)
	}

	if err := s.DeleteJobDescription(created.ID); err != nil {
		t.Fatalf("DeleteJobDescription() error = %v", err)
	}
	// Deleting an absent id is a no-op.
	if err := s.DeleteJobDescription(created.ID); err != nil {
		t.Errorf("second DeleteJobDescription() error = %v, want nil", err)
	}
	if got := s.ListJobDescriptions(); len(got) != 0 {
		t.Errorf("ListJobDescriptions() length = %d after delete", len(got))
	}
}

// TestScoringCriteriaPersistence tests the validation gate on saves and
// the default configuration.
func TestScoringCriteriaPersistence(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if got := s.ScoringCriteria(); got != models.DefaultScoringCriteria() {
		t.Errorf("initial criteria = %+v, want defaults", got)
	}

	valid := models.ScoringCriteria{
		SalesExperience:         40,
		InternationalExperience: 20,
		Tenure:                  10,
		TechnicalSkills:         15,
		SoftSkills:              15,
	}
	if err := s.SaveScoringCriteria(valid); err != nil {
		t.Fatalf("SaveScoringCriteria(valid) error = %v", err)
	}

	invalid := valid
	invalid.SoftSkills = 10 // sum 95
	if err := s.SaveScoringCriteria(invalid); !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("SaveScoringCriteria(invalid) error = %v, want ErrInvalidCriteria", err)
	}
	if got := s.ScoringCriteria(); got != valid {
		t.Errorf("stored criteria mutated by rejected save: %+v", got)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := reopened.ScoringCriteria(); got != valid {
		t.Errorf("reopened criteria = %+v, want %+v", got, valid)
	}
}
