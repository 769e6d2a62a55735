package scoring

import (
	"strings"

	"github.com/ricki2828/cv-parsing/internal/models"
)

// Scoring constants for the fixed fit-score heuristic. The configurable
// ScoringCriteria weights are a settings record and do not feed this
// calculation.
const (
	baseScore          = 70
	skillPoints        = 2
	skillBonusCap      = 10
	experiencePoints   = 2
	experienceBonusCap = 10
	signalBonus        = 5
	maxScore           = 100
)

// CalculateScore computes the 0-100 fit score for a normalized resume.
// Base 70, plus capped bonuses for skill and experience counts, plus
// flat bonuses for sales and international signals. The international
// check here deliberately matches only "international", not "global";
// the classifier's summary checks both.
func CalculateScore(resume *models.ParsedResume, homeCountry string) int {
	score := baseScore

	score += capped(len(resume.Skills)*skillPoints, skillBonusCap)
	score += capped(len(resume.WorkExperience)*experiencePoints, experienceBonusCap)

	for _, e := range resume.WorkExperience {
		if containsSales(e) {
			score += signalBonus
			break
		}
	}

	for _, e := range resume.WorkExperience {
		foreign := e.Country != "" && e.Country != homeCountry
		if foreign || strings.Contains(strings.ToLower(e.Description), "international") {
			score += signalBonus
			break
		}
	}

	if score > maxScore {
		return maxScore
	}
	return score
}

func capped(value, limit int) int {
	if value > limit {
		return limit
	}
	return value
}
