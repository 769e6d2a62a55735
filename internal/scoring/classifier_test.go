package scoring

import (
	"testing"
	"time"

	"github.com/ricki2828/cv-parsing/internal/models"
)

var classifierRef = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

// TestSalesExperienceSummary tests the sales-summary derivation,
// including the calendar-year arithmetic.
func TestSalesExperienceSummary(t *testing.T) {
	tests := []struct {
		name     string
		entries  []models.WorkEntry
		expected string
	}{
		{
			name:     "No entries",
			entries:  nil,
			expected: "No direct sales experience",
		},
		{
			name: "No sales keyword anywhere",
			entries: []models.WorkEntry{
				{JobTitle: "Customer Service Agent", Description: "Handled inbound calls"},
				{JobTitle: "Team Leader", Description: "Managed a team of twelve"},
			},
			expected: "No direct sales experience",
		},
		{
			name: "Keyword matching is case-insensitive",
			entries: []models.WorkEntry{
				{
					Organization: "Acme",
					JobTitle:     "SALES Representative",
					StartDate:    datePtr(2020, 1, 1),
					EndDate:      datePtr(2023, 6, 1),
				},
			},
			expected: "3+ years in sales at Acme",
		},
		{
			name: "Keyword in description counts",
			entries: []models.WorkEntry{
				{
					Organization: "Merchants",
					JobTitle:     "Agent",
					Description:  "Drove upsells and sales targets",
					StartDate:    datePtr(2021, 2, 1),
					EndDate:      datePtr(2023, 11, 1),
				},
			},
			expected: "2+ years in sales at Merchants",
		},
		{
			name: "Ongoing role counts up to the reference year",
			entries: []models.WorkEntry{
				{
					Organization: "Acme",
					JobTitle:     "Sales Rep",
					StartDate:    datePtr(2020, 1, 1),
				},
			},
			expected: "4+ years in sales at Acme",
		},
		{
			name: "Years sum across matches, organization comes from the first",
			entries: []models.WorkEntry{
				{
					Organization: "Webhelp",
					JobTitle:     "Sales Agent",
					StartDate:    datePtr(2018, 1, 1),
					EndDate:      datePtr(2020, 1, 1),
				},
				{
					Organization: "Teleperformance",
					JobTitle:     "Senior Sales Agent",
					StartDate:    datePtr(2020, 1, 1),
					EndDate:      datePtr(2023, 1, 1),
				},
			},
			expected: "5+ years in sales at Webhelp",
		},
		{
			name: "Role within a single calendar year counts as zero",
			entries: []models.WorkEntry{
				{
					Organization: "CCI Global",
					JobTitle:     "Sales Intern",
					StartDate:    datePtr(2022, 2, 1),
					EndDate:      datePtr(2022, 11, 1),
				},
			},
			expected: "0+ years in sales at CCI Global",
		},
		{
			name: "Missing start date contributes zero years",
			entries: []models.WorkEntry{
				{
					Organization: "Acme",
					JobTitle:     "Sales Rep",
					EndDate:      datePtr(2023, 1, 1),
				},
			},
			expected: "0+ years in sales at Acme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SalesExperienceSummary(tt.entries, classifierRef)
			if got != tt.expected {
				t.Errorf("SalesExperienceSummary() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// TestInternationalExperienceSummary tests the international-summary
// derivation against the home country.
func TestInternationalExperienceSummary(t *testing.T) {
	tests := []struct {
		name     string
		entries  []models.WorkEntry
		expected string
	}{
		{
			name:     "No entries",
			entries:  nil,
			expected: "Limited international exposure",
		},
		{
			name: "All home-country roles without keywords",
			entries: []models.WorkEntry{
				{Country: "South Africa", Description: "Local retail support"},
				{Country: "South Africa", Description: "Domestic billing queries"},
			},
			expected: "Limited international exposure",
		},
		{
			name: "Single foreign country is named",
			entries: []models.WorkEntry{
				{Country: "Kenya", Description: "Contact centre work"},
				{Country: "South Africa", Description: "Local support"},
			},
			expected: "Worked in Kenya",
		},
		{
			name: "Two foreign countries collapse to internationally",
			entries: []models.WorkEntry{
				{Country: "Kenya"},
				{Country: "Nigeria"},
			},
			expected: "Worked internationally",
		},
		{
			name: "International keyword matches at home",
			entries: []models.WorkEntry{
				{Country: "South Africa", Description: "Handled international clients"},
			},
			expected: "Worked in South Africa",
		},
		{
			name: "Global keyword matches at home",
			entries: []models.WorkEntry{
				{Country: "South Africa", Description: "Supported GLOBAL accounts"},
			},
			expected: "Worked in South Africa",
		},
		{
			name: "Keyword match plus foreign role counts as two",
			entries: []models.WorkEntry{
				{Country: "South Africa", Description: "Global campaigns"},
				{Country: "Kenya"},
			},
			expected: "Worked internationally",
		},
		{
			name: "Missing country alone is not an international signal",
			entries: []models.WorkEntry{
				{Description: "Local work"},
			},
			expected: "Limited international exposure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InternationalExperienceSummary(tt.entries, testHomeCountry)
			if got != tt.expected {
				t.Errorf("InternationalExperienceSummary() = %q, want %q", got, tt.expected)
			}
		})
	}
}
