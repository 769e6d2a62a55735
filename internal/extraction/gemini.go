package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ricki2828/cv-parsing/internal/llm"
)

// GeminiProvider extracts structured resume fields by prompting a
// Gemini model for a JSON record.
type GeminiProvider struct {
	client  *llm.Client
	timeout time.Duration
}

// NewGeminiProvider creates a provider around an initialized client.
// timeout bounds each extraction call so an unresponsive provider
// surfaces as a per-document failure instead of hanging the batch.
func NewGeminiProvider(client *llm.Client, timeout time.Duration) *GeminiProvider {
	return &GeminiProvider{
		client:  client,
		timeout: timeout,
	}
}

// Extract prompts the model and parses its JSON response into a
// loosely-typed record.
func (p *GeminiProvider) Extract(ctx context.Context, filename, text string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	prompt := buildExtractionPrompt(filename, text)

	response, err := p.client.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed for %s: %w", filename, err)
	}

	record, err := parseRecord(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extraction response for %s: %w", filename, err)
	}

	return record, nil
}

// buildExtractionPrompt creates the field-extraction prompt for one
// document.
func buildExtractionPrompt(filename, text string) string {
	var sb strings.Builder

	sb.WriteString("You are a resume-parsing service. Extract structured fields from the resume text below.\n\n")
	sb.WriteString(fmt.Sprintf("## DOCUMENT: %s\n\n", filename))
	sb.WriteString("### RESUME TEXT\n")
	sb.WriteString(text)
	sb.WriteString("\n\n")

	sb.WriteString("## EXTRACTION INSTRUCTIONS\n")
	sb.WriteString("Return the extracted fields in the following JSON format. Omit any field you cannot find; never invent values.\n\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "name": {"raw": "<full name>"},` + "\n")
	sb.WriteString(`  "emails": [{"raw": "<email address>"}],` + "\n")
	sb.WriteString(`  "phoneNumbers": ["<phone number>"],` + "\n")
	sb.WriteString(`  "skills": [{"name": "<skill>"}],` + "\n")
	sb.WriteString(`  "workExperience": [` + "\n")
	sb.WriteString("    {\n")
	sb.WriteString(`      "organization": "<company>",` + "\n")
	sb.WriteString(`      "jobTitle": "<position>",` + "\n")
	sb.WriteString(`      "jobDescription": "<what the role involved>",` + "\n")
	sb.WriteString(`      "location": {"country": "<country>"},` + "\n")
	sb.WriteString(`      "datesEmployed": {"start": "<YYYY-MM-DD>", "end": "<YYYY-MM-DD or empty if ongoing>"}` + "\n")
	sb.WriteString("    }\n")
	sb.WriteString("  ],\n")
	sb.WriteString(`  "education": [` + "\n")
	sb.WriteString("    {\n")
	sb.WriteString(`      "organization": "<institution>",` + "\n")
	sb.WriteString(`      "accreditation": {"education": "<degree>", "inputStr": "<field of study>"},` + "\n")
	sb.WriteString(`      "dates": {"completionDate": "<YYYY-MM-DD>"}` + "\n")
	sb.WriteString("    }\n")
	sb.WriteString("  ]\n")
	sb.WriteString("}\n\n")
	sb.WriteString("Dates may be given as YYYY, YYYY-MM or YYYY-MM-DD depending on what the resume states.\n")
	sb.WriteString("Return ONLY the JSON object, no additional text.\n")

	return sb.String()
}

// parseRecord extracts the JSON record from the model response
func parseRecord(response string) (map[string]any, error) {
	// Find JSON in response (in case there's extra text)
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("no JSON found in response")
	}

	jsonStr := response[startIdx : endIdx+1]

	var record map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return record, nil
}
