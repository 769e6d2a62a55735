// Package stats derives the dashboard aggregates from the candidate
// collection.
package stats

import (
	"math"

	"github.com/ricki2828/cv-parsing/internal/models"
)

// scoreBuckets are the dashboard's score-distribution ranges. The lower
// bound is exclusive, the upper inclusive.
var scoreBuckets = []struct {
	label string
	low   int
	high  int
}{
	{"0-50", -1, 50},
	{"51-70", 50, 70},
	{"71-80", 70, 80},
	{"81-90", 80, 90},
	{"91-100", 90, 100},
}

// Compute aggregates the candidate collection for the dashboard.
func Compute(candidates []models.Candidate) models.DashboardStats {
	s := models.DashboardStats{
		TotalCandidates:   len(candidates),
		StatusCounts:      make(map[models.CandidateStatus]int, len(models.AllStatuses)),
		ScoreDistribution: make([]models.ScoreBucket, len(scoreBuckets)),
	}
	for _, status := range models.AllStatuses {
		s.StatusCounts[status] = 0
	}
	for i, bucket := range scoreBuckets {
		s.ScoreDistribution[i] = models.ScoreBucket{Label: bucket.label}
	}

	if len(candidates) == 0 {
		return s
	}

	sum := 0
	for _, c := range candidates {
		sum += c.Score
		s.StatusCounts[c.Status]++

		for i, bucket := range scoreBuckets {
			if c.Score > bucket.low && c.Score <= bucket.high {
				s.ScoreDistribution[i].Count++
				break
			}
		}
	}

	s.NewCandidates = s.StatusCounts[models.StatusNew]
	s.Reviewed = s.StatusCounts[models.StatusReviewed]
	s.Shortlisted = s.StatusCounts[models.StatusShortlisted]

	average := float64(sum) / float64(len(candidates))
	s.AverageScore = math.Round(average*10) / 10

	return s
}
