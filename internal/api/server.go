// Package api exposes the recruitment tracker over HTTP: candidate
// upload and review, job descriptions, scoring-criteria settings, the
// dashboard and the Excel export.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ricki2828/cv-parsing/internal/agent"
	"github.com/ricki2828/cv-parsing/internal/export"
	"github.com/ricki2828/cv-parsing/internal/jobdesc"
	"github.com/ricki2828/cv-parsing/internal/models"
	"github.com/ricki2828/cv-parsing/internal/notify"
	"github.com/ricki2828/cv-parsing/internal/stats"
	"github.com/ricki2828/cv-parsing/internal/store"
)

// Server handles HTTP requests
type Server struct {
	agent     *agent.Agent
	store     *store.Store
	generator *jobdesc.Generator
	notifier  notify.Gateway

	maxRequestSize int64
}

// NewServer creates a new API server. maxRequestSize bounds the
// multipart form held in memory during an upload.
func NewServer(a *agent.Agent, st *store.Store, gen *jobdesc.Generator, notifier notify.Gateway, maxRequestSize int64) *Server {
	return &Server{
		agent:          a,
		store:          st,
		generator:      gen,
		notifier:       notifier,
		maxRequestSize: maxRequestSize,
	}
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /candidates/upload", s.handleUpload)
	mux.HandleFunc("GET /candidates", s.handleListCandidates)
	mux.HandleFunc("GET /candidates/export", s.handleExport)
	mux.HandleFunc("GET /candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("PATCH /candidates/{id}/status", s.handleUpdateStatus)
	mux.HandleFunc("POST /candidates/{id}/contact", s.handleContact)

	mux.HandleFunc("GET /job-descriptions", s.handleListJobDescriptions)
	mux.HandleFunc("POST /job-descriptions", s.handleCreateJobDescription)
	mux.HandleFunc("POST /job-descriptions/generate", s.handleGenerateJobDescription)
	mux.HandleFunc("GET /job-descriptions/{id}", s.handleGetJobDescription)
	mux.HandleFunc("PUT /job-descriptions/{id}", s.handleUpdateJobDescription)
	mux.HandleFunc("DELETE /job-descriptions/{id}", s.handleDeleteJobDescription)

	mux.HandleFunc("GET /settings/scoring-criteria", s.handleGetCriteria)
	mux.HandleFunc("PUT /settings/scoring-criteria", s.handlePutCriteria)

	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	return s.loggingMiddleware(mux)
}

// handleRoot provides API information
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.respondError(w, http.StatusNotFound, "not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "Resume Tracker",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /candidates/upload":            "Upload resumes for processing",
			"GET /candidates":                    "List candidates (q, status, sort, order)",
			"GET /candidates/{id}":               "Get one candidate",
			"PATCH /candidates/{id}/status":      "Move a candidate through the pipeline",
			"POST /candidates/{id}/contact":      "Send a WhatsApp or email message",
			"GET /candidates/export":             "Download the candidate workbook",
			"GET /dashboard":                     "Dashboard statistics",
			"GET /job-descriptions":              "List job descriptions",
			"POST /job-descriptions":             "Create a job description",
			"POST /job-descriptions/generate":    "Generate a job-description draft",
			"GET /settings/scoring-criteria":     "Get scoring weights",
			"PUT /settings/scoring-criteria":     "Save scoring weights",
			"GET /health":                        "Health check",
		},
	})
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// handleUpload accepts a multipart batch of resumes and runs it through
// the pipeline. Rejected and failed files are reported per file; only a
// batch where every document failed is an error response.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxRequestSize); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.respondError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	uploads := make([]agent.Upload, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to open uploaded file %s: %v", fileHeader.Filename, err))
			return
		}
		defer file.Close()

		uploads = append(uploads, agent.Upload{
			Filename: fileHeader.Filename,
			Size:     fileHeader.Size,
			Content:  file,
		})
	}

	report, err := s.agent.ProcessUploads(r.Context(), uploads)
	if err != nil {
		s.respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":  err.Error(),
			"report": report,
		})
		return
	}

	s.respondJSON(w, http.StatusOK, report)
}

// handleListCandidates returns the candidate list filtered by the q and
// status query parameters and ordered by sort/order. The default view
// is score descending.
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates := s.store.ListCandidates()

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	statusFilter := r.URL.Query().Get("status")
	if statusFilter != "" && !models.CandidateStatus(statusFilter).IsValid() {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", statusFilter))
		return
	}

	filtered := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if statusFilter != "" && string(c.Status) != statusFilter {
			continue
		}
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		filtered = append(filtered, c)
	}

	sortKey := r.URL.Query().Get("sort")
	if sortKey == "" {
		sortKey = "score"
	}
	order := r.URL.Query().Get("order")
	if order == "" {
		order = "desc"
	}
	if err := sortCandidates(filtered, sortKey, order); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": filtered,
		"total":      len(filtered),
	})
}

// matchesQuery reports whether the candidate matches a lowercased
// search term against name, email, skills and the experience summaries.
func matchesQuery(c models.Candidate, query string) bool {
	for _, field := range []string{c.Name, c.Email, c.SalesExperience, c.InternationalExperience} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	for _, skill := range c.Skills {
		if strings.Contains(strings.ToLower(skill), query) {
			return true
		}
	}
	return false
}

// sortCandidates orders the slice in place. Ties on the primary key
// keep upload order stable.
func sortCandidates(candidates []models.Candidate, key, order string) error {
	if order != "asc" && order != "desc" {
		return fmt.Errorf("order must be 'asc' or 'desc'")
	}

	var less func(a, b models.Candidate) bool
	switch key {
	case "score":
		less = func(a, b models.Candidate) bool { return a.Score < b.Score }
	case "date":
		less = func(a, b models.Candidate) bool { return a.UploadDate.Before(b.UploadDate) }
	default:
		return fmt.Errorf("sort must be 'score' or 'date'")
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if order == "desc" {
			return less(candidates[j], candidates[i])
		}
		return less(candidates[i], candidates[j])
	})
	return nil
}

// handleGetCandidate returns one candidate by id.
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	candidate, err := s.store.GetCandidate(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, candidate)
}

// handleUpdateStatus moves a candidate to any of the pipeline states.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	candidate, err := s.store.UpdateCandidateStatus(r.PathValue("id"), models.CandidateStatus(body.Status))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, candidate)
}

// handleContact sends a WhatsApp or email message to a candidate
// through the configured gateway.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	candidate, err := s.store.GetCandidate(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var body struct {
		Channel string `json:"channel"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	message := body.Message
	if message == "" {
		message = notify.DefaultWhatsAppTemplate
	}
	message = notify.RenderTemplate(message, candidate.Name)

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	switch body.Channel {
	case "whatsapp":
		if candidate.Phone == "" {
			s.respondError(w, http.StatusBadRequest, "candidate has no phone number")
			return
		}
		err = s.notifier.SendWhatsApp(ctx, candidate.Phone, message)
	case "email":
		if candidate.Email == "" {
			s.respondError(w, http.StatusBadRequest, "candidate has no email address")
			return
		}
		subject := body.Subject
		if subject == "" {
			subject = "Your application"
		}
		err = s.notifier.SendEmail(ctx, candidate.Email, subject, message)
	default:
		s.respondError(w, http.StatusBadRequest, "channel must be 'whatsapp' or 'email'")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "sent",
		"channel": body.Channel,
	})
}

// handleExport streams the candidate workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	candidates := s.store.ListCandidates()
	if err := sortCandidates(candidates, "score", "desc"); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("candidates_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WriteWorkbook(candidates, w); err != nil {
		log.Error().Err(err).Msg("Failed to write export workbook")
	}
}

// handleDashboard returns the aggregate statistics.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, stats.Compute(s.store.ListCandidates()))
}

// handleListJobDescriptions returns all job descriptions.
func (s *Server) handleListJobDescriptions(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"job_descriptions": s.store.ListJobDescriptions(),
	})
}

// handleCreateJobDescription creates a job description.
func (s *Server) handleCreateJobDescription(w http.ResponseWriter, r *http.Request) {
	var input store.JobDescriptionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(input.Title) == "" {
		s.respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	jd, err := s.store.CreateJobDescription(input)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, jd)
}

// handleGenerateJobDescription produces a draft without persisting it.
func (s *Server) handleGenerateJobDescription(w http.ResponseWriter, r *http.Request) {
	var req jobdesc.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	s.respondJSON(w, http.StatusOK, s.generator.Generate(r.Context(), req))
}

// handleGetJobDescription returns one job description.
func (s *Server) handleGetJobDescription(w http.ResponseWriter, r *http.Request) {
	jd, err := s.store.GetJobDescription(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, jd)
}

// handleUpdateJobDescription replaces a job description's content.
func (s *Server) handleUpdateJobDescription(w http.ResponseWriter, r *http.Request) {
	var input store.JobDescriptionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	jd, err := s.store.UpdateJobDescription(r.PathValue("id"), input)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, jd)
}

// handleDeleteJobDescription removes a job description. Deleting an
// absent id succeeds.
func (s *Server) handleDeleteJobDescription(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteJobDescription(r.PathValue("id")); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
	})
}

// handleGetCriteria returns the stored scoring weights.
func (s *Server) handleGetCriteria(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.store.ScoringCriteria())
}

// handlePutCriteria validates and saves new scoring weights. The
// stored weights are untouched when validation fails.
func (s *Server) handlePutCriteria(w http.ResponseWriter, r *http.Request) {
	var criteria models.ScoringCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if err := s.store.SaveScoringCriteria(criteria); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, criteria)
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// respondError sends an error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
