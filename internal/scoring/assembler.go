package scoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/ricki2828/cv-parsing/internal/models"
)

// AssembleCandidate builds a complete Candidate from a normalized
// resume. Identity, upload timestamp and the initial "new" status are
// assigned here exactly once; everything except the status is write-once
// from this point on. resumeRef is the session-scoped reference to the
// original uploaded file.
func AssembleCandidate(resume *models.ParsedResume, resumeRef, homeCountry string, now time.Time) models.Candidate {
	candidate := models.Candidate{
		ID:                      uuid.NewString(),
		Name:                    resume.Name,
		UploadDate:              now,
		Status:                  models.StatusNew,
		Score:                   CalculateScore(resume, homeCountry),
		Skills:                  append([]string{}, resume.Skills...),
		Experience:              []models.Experience{},
		Education:               []models.Education{},
		ResumeURL:               resumeRef,
		SalesExperience:         SalesExperienceSummary(resume.WorkExperience, now),
		InternationalExperience: InternationalExperienceSummary(resume.WorkExperience, homeCountry),
	}

	if len(resume.Emails) > 0 {
		candidate.Email = resume.Emails[0]
	}
	if len(resume.Phones) > 0 {
		candidate.Phone = resume.Phones[0]
	}

	for _, e := range resume.WorkExperience {
		candidate.Experience = append(candidate.Experience, models.Experience{
			Company:     e.Organization,
			Position:    e.JobTitle,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Description: e.Description,
		})
	}

	for _, e := range resume.Education {
		candidate.Education = append(candidate.Education, models.Education{
			Institution:    e.Institution,
			Degree:         e.Degree,
			Field:          e.Field,
			GraduationDate: e.GraduationDate,
		})
	}

	return candidate
}
