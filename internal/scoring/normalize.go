package scoring

import (
	"strings"
	"time"

	"github.com/ricki2828/cv-parsing/internal/models"
)

// Normalize converts a loosely-typed extraction-provider record into a
// ParsedResume. Provider field names vary (a bare string vs a {"raw": ...}
// wrapper, nested vs flat dates), so every field is read defensively.
// Missing fields become empty values, never errors.
func Normalize(raw map[string]any) *models.ParsedResume {
	resume := &models.ParsedResume{
		Emails:         []string{},
		Phones:         []string{},
		Skills:         []string{},
		WorkExperience: []models.WorkEntry{},
		Education:      []models.EducationEntry{},
	}
	if raw == nil {
		return resume
	}

	resume.Name = stringField(raw["name"])
	resume.Emails = stringList(raw["emails"])
	resume.Phones = stringList(raw["phoneNumbers"])

	for _, item := range anyList(raw["skills"]) {
		if name := stringField(item); name != "" {
			resume.Skills = append(resume.Skills, name)
		}
	}

	for _, item := range anyList(raw["workExperience"]) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		work := models.WorkEntry{
			Organization: stringField(entry["organization"]),
			JobTitle:     stringField(entry["jobTitle"]),
			Description:  stringField(entry["jobDescription"]),
		}
		if loc, ok := entry["location"].(map[string]any); ok {
			work.Country = stringField(loc["country"])
		} else {
			work.Country = stringField(entry["country"])
		}
		if dates, ok := entry["datesEmployed"].(map[string]any); ok {
			work.StartDate = parseDate(stringField(dates["start"]))
			work.EndDate = parseDate(stringField(dates["end"]))
		} else {
			work.StartDate = parseDate(stringField(entry["startDate"]))
			work.EndDate = parseDate(stringField(entry["endDate"]))
		}
		resume.WorkExperience = append(resume.WorkExperience, work)
	}

	for _, item := range anyList(raw["education"]) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		edu := models.EducationEntry{
			Institution: stringField(entry["organization"]),
		}
		if accreditation, ok := entry["accreditation"].(map[string]any); ok {
			edu.Degree = stringField(accreditation["education"])
			edu.Field = stringField(accreditation["inputStr"])
		} else {
			edu.Degree = stringField(entry["degree"])
			edu.Field = stringField(entry["field"])
		}
		if dates, ok := entry["dates"].(map[string]any); ok {
			edu.GraduationDate = parseDate(stringField(dates["completionDate"]))
		} else {
			edu.GraduationDate = parseDate(stringField(entry["graduationDate"]))
		}
		resume.Education = append(resume.Education, edu)
	}

	return resume
}

// stringField reads a provider value that may be a bare string, a
// {"raw": ...} wrapper, or a {"name": ...} wrapper.
func stringField(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		if raw, ok := v["raw"].(string); ok {
			return strings.TrimSpace(raw)
		}
		if name, ok := v["name"].(string); ok {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

// stringList reads a provider list whose items may be strings or
// wrapped objects.
func stringList(value any) []string {
	out := []string{}
	for _, item := range anyList(value) {
		if s := stringField(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func anyList(value any) []any {
	list, _ := value.([]any)
	return list
}

// dateLayouts are tried in order when parsing provider dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"2006",
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
