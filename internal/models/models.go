package models

import (
	"fmt"
	"time"
)

// CandidateStatus is one of the seven recruiting-pipeline stages.
// Transitions between stages are unrestricted; the recruiter may move a
// candidate from any stage to any other, including out of the rejection
// stages.
type CandidateStatus string

const (
	StatusNew             CandidateStatus = "new"
	StatusYetToReview     CandidateStatus = "yet-to-review"
	StatusReviewed        CandidateStatus = "reviewed"
	StatusShortlisted     CandidateStatus = "shortlisted"
	StatusNotSuitableRole CandidateStatus = "not-suitable-role"
	StatusNotSuitableAny  CandidateStatus = "not-suitable-any"
	StatusPotentialStar   CandidateStatus = "potential-star"
)

// AllStatuses lists every pipeline stage in display order.
var AllStatuses = []CandidateStatus{
	StatusNew,
	StatusYetToReview,
	StatusReviewed,
	StatusShortlisted,
	StatusNotSuitableRole,
	StatusNotSuitableAny,
	StatusPotentialStar,
}

// IsValid reports whether s is one of the seven pipeline stages.
func (s CandidateStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Candidate is the central entity: a processed resume with derived
// signals and a pipeline status. Every field except Status is write-once,
// set by the assembler when the document finishes processing.
type Candidate struct {
	ID                      string          `json:"id"`
	Name                    string          `json:"name"`
	Email                   string          `json:"email"`
	Phone                   string          `json:"phone"`
	UploadDate              time.Time       `json:"upload_date"`
	Status                  CandidateStatus `json:"status"`
	Score                   int             `json:"score"`
	Skills                  []string        `json:"skills"`
	Experience              []Experience    `json:"experience"`
	Education               []Education     `json:"education"`
	ResumeURL               string          `json:"resume_url"`
	SalesExperience         string          `json:"sales_experience"`
	InternationalExperience string          `json:"international_experience"`
}

// Experience is a single work-history entry. A nil EndDate means the
// position is ongoing.
type Experience struct {
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Description string     `json:"description"`
}

// Education is a single education-history entry.
type Education struct {
	Institution    string     `json:"institution"`
	Degree         string     `json:"degree"`
	Field          string     `json:"field"`
	GraduationDate *time.Time `json:"graduation_date"`
}

// JobDescription represents a job posting managed by the recruiter.
type JobDescription struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Requirements     []string  `json:"requirements"`
	Responsibilities []string  `json:"responsibilities"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ScoringCriteria holds the five configurable scoring weights. The
// weights are edited and persisted from the settings surface; the score
// calculator itself runs on fixed constants.
type ScoringCriteria struct {
	SalesExperience         int `json:"sales_experience"`
	InternationalExperience int `json:"international_experience"`
	Tenure                  int `json:"tenure"`
	TechnicalSkills         int `json:"technical_skills"`
	SoftSkills              int `json:"soft_skills"`
}

// DefaultScoringCriteria returns the deployment's starting weights.
func DefaultScoringCriteria() ScoringCriteria {
	return ScoringCriteria{
		SalesExperience:         30,
		InternationalExperience: 20,
		Tenure:                  15,
		TechnicalSkills:         20,
		SoftSkills:              15,
	}
}

// TotalWeight sums the five weights.
func (c ScoringCriteria) TotalWeight() int {
	return c.SalesExperience + c.InternationalExperience + c.Tenure +
		c.TechnicalSkills + c.SoftSkills
}

// Validate checks that each weight is within [0,50] and the five weights
// sum to exactly 100. A criteria record that fails validation must not
// be saved.
func (c ScoringCriteria) Validate() error {
	weights := []struct {
		name  string
		value int
	}{
		{"sales_experience", c.SalesExperience},
		{"international_experience", c.InternationalExperience},
		{"tenure", c.Tenure},
		{"technical_skills", c.TechnicalSkills},
		{"soft_skills", c.SoftSkills},
	}
	for _, w := range weights {
		if w.value < 0 || w.value > 50 {
			return fmt.Errorf("weight %s must be between 0 and 50, got %d", w.name, w.value)
		}
	}
	if total := c.TotalWeight(); total != 100 {
		return fmt.Errorf("weights must total exactly 100, got %d", total)
	}
	return nil
}

// ParsedResume is the normalized intermediate record produced from a
// provider response, before classification, scoring and assembly.
type ParsedResume struct {
	Name           string
	Emails         []string
	Phones         []string
	Skills         []string
	WorkExperience []WorkEntry
	Education      []EducationEntry
}

// WorkEntry is a normalized work-experience entry from the extraction
// provider.
type WorkEntry struct {
	Organization string
	JobTitle     string
	Description  string
	Country      string
	StartDate    *time.Time
	EndDate      *time.Time
}

// EducationEntry is a normalized education entry from the extraction
// provider.
type EducationEntry struct {
	Institution    string
	Degree         string
	Field          string
	GraduationDate *time.Time
}

// FileRejection records a file that failed the upload gate before
// reaching the extraction provider.
type FileRejection struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// DocumentFailure records a document whose extraction failed. The
// failure is isolated to that document; the rest of the batch continues.
type DocumentFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

/// BatchReport is the outcome of processing one upload batch: assembled
// candidates in input order, plus per-file rejections and failures.
type BatchReport struct {
	Candidates []Candidate       `json:"candidates"`
	Rejections []FileRejection   `json:"rejections,omitempty"`
	Failures   []DocumentFailure `json:"failures,omitempty"`
}

// ScoreBucket is one bar of the dashboard's score-distribution chart.
type ScoreBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DashboardStats aggregates the candidate collection for the dashboard.
type DashboardStats struct {
	TotalCandidates   int                     `json:"total_candidates"`
	NewCandidates     int                     `json:"new_candidates"`
	Reviewed          int                     `json:"reviewed"`
	Shortlisted       int                     `json:"shortlisted"`
	AverageScore      float64                 `json:"average_score"`
	StatusCounts      map[CandidateStatus]int `json:"status_counts"`
	ScoreDistribution []ScoreBucket           `json:"score_distribution"`
}
