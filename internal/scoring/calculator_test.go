package scoring

import (
	"fmt"
	"testing"
	"time"

	"github.com/ricki2828/cv-parsing/internal/models"
)

const testHomeCountry = "South Africa"

func datePtr(year, month, day int) *time.Time {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}

// TestCalculateScore_Scenarios tests the fixed scoring heuristic against
// known inputs.
func TestCalculateScore_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		resume   *models.ParsedResume
		expected int
	}{
		{
			name:     "Empty resume scores exactly the base",
			resume:   &models.ParsedResume{},
			expected: 70,
		},
		{
			name: "Sales rep with two skills",
			resume: &models.ParsedResume{
				Skills: []string{"Sales", "CRM"},
				WorkExperience: []models.WorkEntry{
					{
						Organization: "Acme",
						JobTitle:     "Sales Rep",
						Country:      "South Africa",
						StartDate:    datePtr(2020, 1, 1),
					},
				},
			},
			// 70 + 4 (skills) + 2 (experience) + 5 (sales) + 0 (intl)
			expected: 81,
		},
		{
			name: "Skills only",
			resume: &models.ParsedResume{
				Skills: []string{"Excel", "Typing", "Empathy"},
			},
			expected: 76,
		},
		{
			name: "Experience count bonus caps at ten",
			resume: &models.ParsedResume{
				WorkExperience: manyEntries(9, "Clerk", ""),
			},
			expected: 80,
		},
		{
			name: "International signal from foreign country",
			resume: &models.ParsedResume{
				WorkExperience: []models.WorkEntry{
					{Organization: "Webhelp", JobTitle: "Agent", Country: "Kenya"},
				},
			},
			// 70 + 0 + 2 + 0 + 5
			expected: 77,
		},
		{
			name: "International signal from description keyword",
			resume: &models.ParsedResume{
				WorkExperience: []models.WorkEntry{
					{
						JobTitle:    "Agent",
						Country:     "South Africa",
						Description: "Supported international campaigns",
					},
				},
			},
			expected: 77,
		},
		{
			name: "Global keyword alone does not trigger the bonus",
			resume: &models.ParsedResume{
				WorkExperience: []models.WorkEntry{
					{
						JobTitle:    "Agent",
						Country:     "South Africa",
						Description: "Worked on global accounts",
					},
				},
			},
			// Only "international" counts here; 70 + 2
			expected: 72,
		},
		{
			name: "Sales bonus applies once despite multiple matches",
			resume: &models.ParsedResume{
				WorkExperience: []models.WorkEntry{
					{JobTitle: "Sales Agent", Country: "South Africa"},
					{JobTitle: "Sales Lead", Country: "South Africa"},
				},
			},
			// 70 + 0 + 4 + 5 + 0
			expected: 79,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateScore(tt.resume, testHomeCountry)
			if got != tt.expected {
				t.Errorf("CalculateScore() = %d, want %d", got, tt.expected)
			}
		})
	}
}

// TestCalculateScore_Bounds tests that the score stays within [70,100]
// regardless of input size.
func TestCalculateScore_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		resume *models.ParsedResume
	}{
		{
			name:   "No signals",
			resume: &models.ParsedResume{},
		},
		{
			name: "Oversized skill list",
			resume: &models.ParsedResume{
				Skills: make([]string, 500),
			},
		},
		{
			name: "Everything maxed",
			resume: &models.ParsedResume{
				Skills:         make([]string, 100),
				WorkExperience: manyEntries(50, "Sales Executive", "international work"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateScore(tt.resume, testHomeCountry)
			if got < 70 || got > 100 {
				t.Errorf("CalculateScore() = %d, want within [70,100]", got)
			}
		})
	}
}

// TestCalculateScore_Deterministic tests that rescoring the same resume
// yields the same result.
func TestCalculateScore_Deterministic(t *testing.T) {
	resume := &models.ParsedResume{
		Skills: []string{"Sales", "CRM", "Excel"},
		WorkExperience: []models.WorkEntry{
			{JobTitle: "Sales Rep", Country: "Kenya", StartDate: datePtr(2019, 3, 1)},
		},
	}

	first := CalculateScore(resume, testHomeCountry)
	for i := 0; i < 10; i++ {
		if got := CalculateScore(resume, testHomeCountry); got != first {
			t.Fatalf("CalculateScore() not deterministic: got %d then %d", first, got)
		}
	}
}

func manyEntries(n int, title, description string) []models.WorkEntry {
	entries := make([]models.WorkEntry, n)
	for i := range entries {
		entries[i] = models.WorkEntry{
			Organization: fmt.Sprintf("Company %d", i),
			JobTitle:     title,
			Description:  description,
		}
	}
	return entries
}
