package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/ricki2828/cv-parsing/internal/models"
)

// NoSalesExperience is emitted when no work entry matches the sales
// keyword.
const NoSalesExperience = "No direct sales experience"

// LimitedInternationalExposure is emitted when no work entry carries an
// international signal.
const LimitedInternationalExposure = "Limited international exposure"

// SalesExperienceSummary derives a human-readable sales-experience line
// from the work history. Years are calendar-year differences summed over
// matching entries, with ref standing in for the end of ongoing roles;
// an entry contained in a single calendar year therefore counts as zero.
// The summary is a display string, not a parseable metric.
func SalesExperienceSummary(entries []models.WorkEntry, ref time.Time) string {
	var matches []models.WorkEntry
	for _, e := range entries {
		if containsSales(e) {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return NoSalesExperience
	}

	years := 0
	for _, e := range matches {
		endYear := ref.Year()
		if e.EndDate != nil {
			endYear = e.EndDate.Year()
		}
		startYear := endYear
		if e.StartDate != nil {
			startYear = e.StartDate.Year()
		}
		years += endYear - startYear
	}

	return fmt.Sprintf("%d+ years in sales at %s", years, matches[0].Organization)
}

// InternationalExperienceSummary derives a human-readable line about
// exposure outside the home country. An entry counts when its country is
// present and differs from homeCountry, or its description mentions
// "international" or "global".
func InternationalExperienceSummary(entries []models.WorkEntry, homeCountry string) string {
	var matches []models.WorkEntry
	for _, e := range entries {
		desc := strings.ToLower(e.Description)
		foreign := e.Country != "" && e.Country != homeCountry
		if foreign || strings.Contains(desc, "international") || strings.Contains(desc, "global") {
			matches = append(matches, e)
		}
	}

	switch {
	case len(matches) > 1:
		return "Worked internationally"
	case len(matches) == 1:
		return fmt.Sprintf("Worked in %s", matches[0].Country)
	default:
		return LimitedInternationalExposure
	}
}

func containsSales(e models.WorkEntry) bool {
	return strings.Contains(strings.ToLower(e.JobTitle), "sales") ||
		strings.Contains(strings.ToLower(e.Description), "sales")
}
