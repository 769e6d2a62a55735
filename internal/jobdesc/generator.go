// Package jobdesc generates job-description drafts for the recruiter to
// edit before saving.
package jobdesc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ricki2828/cv-parsing/internal/llm"
	"github.com/ricki2828/cv-parsing/internal/store"
)

// GenerateRequest carries the recruiter's inputs for a draft.
type GenerateRequest struct {
	Title        string `json:"title"`
	Industry     string `json:"industry"`
	Experience   string `json:"experience"`
	Requirements string `json:"requirements"`
}

// Generator produces job-description drafts, via the model when a
// client is available and from the built-in template otherwise.
type Generator struct {
	client *llm.Client
}

// NewGenerator creates a generator. client may be nil.
func NewGenerator(client *llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate returns a draft for the given inputs. A model failure falls
// back to the template rather than failing the request.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) store.JobDescriptionInput {
	if req.Title == "" {
		req.Title = "Customer Service Representative"
	}
	if req.Industry == "" {
		req.Industry = "BPO/Contact Center"
	}
	if req.Experience == "" {
		req.Experience = "1-2 years"
	}

	if g.client != nil {
		draft, err := g.generateWithModel(ctx, req)
		if err == nil {
			return draft
		}
		log.Warn().Err(err).Msg("model generation failed, using template draft")
	}

	return templateDraft(req)
}

// generateWithModel prompts the model for a structured draft.
func (g *Generator) generateWithModel(ctx context.Context, req GenerateRequest) (store.JobDescriptionInput, error) {
	var sb strings.Builder
	sb.WriteString("You are drafting a job description for a recruiter.\n\n")
	sb.WriteString(fmt.Sprintf("Job title: %s\n", req.Title))
	sb.WriteString(fmt.Sprintf("Industry: %s\n", req.Industry))
	sb.WriteString(fmt.Sprintf("Experience required: %s\n", req.Experience))
	if req.Requirements != "" {
		sb.WriteString(fmt.Sprintf("Additional requirements: %s\n", req.Requirements))
	}
	sb.WriteString("\nProvide the draft in the following JSON format:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "title": "<job title>",` + "\n")
	sb.WriteString(`  "description": "<two or three sentence summary>",` + "\n")
	sb.WriteString(`  "requirements": ["<requirement>"],` + "\n")
	sb.WriteString(`  "responsibilities": ["<responsibility>"]` + "\n")
	sb.WriteString("}\n\n")
	sb.WriteString("Return ONLY the JSON object, no additional text.\n")

	response, err := g.client.GenerateContent(ctx, sb.String())
	if err != nil {
		return store.JobDescriptionInput{}, fmt.Errorf("failed to get model response: %w", err)
	}

	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return store.JobDescriptionInput{}, fmt.Errorf("no JSON found in response")
	}

	var draft store.JobDescriptionInput
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &draft); err != nil {
		return store.JobDescriptionInput{}, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if draft.Title == "" {
		draft.Title = req.Title
	}
	return draft, nil
}

// templateDraft is the deterministic fallback draft for contact-center
// roles.
func templateDraft(req GenerateRequest) store.JobDescriptionInput {
	return store.JobDescriptionInput{
		Title: req.Title,
		Description: fmt.Sprintf(
			"We are looking for a %s to join our growing team in the %s industry. "+
				"The ideal candidate will have %s of experience and excellent communication skills.",
			req.Title, req.Industry, req.Experience),
		Requirements: []string{
			fmt.Sprintf("%s of experience in a similar role", req.Experience),
			"Excellent verbal and written communication skills",
			"Ability to work in a fast-paced environment",
			"Computer literacy and typing skills",
			"Problem-solving abilities",
			"Matric certificate or equivalent qualification",
		},
		Responsibilities: []string{
			"Handle customer inquiries via phone, email, or chat",
			"Resolve customer complaints and issues",
			"Process orders, forms, applications, and requests",
			"Maintain customer records",
			"Meet performance standards",
			"Follow communication scripts when handling different scenarios",
		},
	}
}
