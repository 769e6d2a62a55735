// Package agent orchestrates the resume-processing pipeline: the upload
// gate, text extraction, the extraction-provider call, normalization,
// scoring and assembly, for one batch of documents at a time.
package agent

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ricki2828/cv-parsing/internal/extraction"
	"github.com/ricki2828/cv-parsing/internal/ingestion"
	"github.com/ricki2828/cv-parsing/internal/models"
	"github.com/ricki2828/cv-parsing/internal/scoring"
	"github.com/ricki2828/cv-parsing/internal/store"
)

// ProgressCallback is called to report progress during processing
type ProgressCallback func(current, total int, message string)

// Upload is one incoming file before it has passed the gate.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Agent runs the batch pipeline and appends assembled candidates to the
// store.
type Agent struct {
	files       *ingestion.FileHandler
	provider    extraction.Provider
	store       *store.Store
	homeCountry string
	maxFileSize int64

	// extract is swappable for tests; defaults to docconv-backed
	// extraction.
	extract func(path string) (string, error)

	mu         sync.RWMutex
	progressCb ProgressCallback
}

// NewAgent creates a batch-processing agent. provider may be nil, in
// which case every document fails extraction with a configuration
// message instead of the service refusing to start.
func NewAgent(files *ingestion.FileHandler, provider extraction.Provider, st *store.Store, homeCountry string, maxFileSize int64) *Agent {
	return &Agent{
		files:       files,
		provider:    provider,
		store:       st,
		homeCountry: homeCountry,
		maxFileSize: maxFileSize,
		extract:     ingestion.ExtractText,
	}
}

// SetProgressCallback sets the progress callback function
func (a *Agent) SetProgressCallback(cb ProgressCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progressCb = cb
}

// reportProgress calls the progress callback if set
func (a *Agent) reportProgress(current, total int, message string) {
	a.mu.RLock()
	cb := a.progressCb
	a.mu.RUnlock()

	if cb != nil {
		cb(current, total, message)
	}
}

// ProcessUploads gates, saves and processes a batch of incoming files.
// Rejected files never reach extraction; a per-document failure is
// isolated and the batch continues. Assembled candidates are appended
// to the store in input order.
func (a *Agent) ProcessUploads(ctx context.Context, uploads []Upload) (models.BatchReport, error) {
	report := models.BatchReport{Candidates: []models.Candidate{}}
	total := len(uploads)
	processed := 0

	for _, upload := range uploads {
		// Cancellation stops launching new extraction calls; what is
		// already assembled stays in the report.
		if err := ctx.Err(); err != nil {
			return report, err
		}

		processed++
		a.reportProgress(processed, total, fmt.Sprintf("Processing %s", upload.Filename))

		if err := ingestion.ValidateUpload(upload.Filename, upload.Size, a.maxFileSize); err != nil {
			report.Rejections = append(report.Rejections, models.FileRejection{
				Filename: upload.Filename,
				Reason:   err.Error(),
			})
			log.Info().Str("file", upload.Filename).Str("reason", err.Error()).Msg("upload rejected")
			continue
		}

		path, err := a.files.SaveUploadedFile(upload.Filename, upload.Content)
		if err != nil {
			report.Failures = append(report.Failures, models.DocumentFailure{
				Filename: upload.Filename,
				Error:    err.Error(),
			})
			continue
		}

		candidate, err := a.processFile(ctx, path)
		if err != nil {
			report.Failures = append(report.Failures, models.DocumentFailure{
				Filename: upload.Filename,
				Error:    err.Error(),
			})
			log.Warn().Err(err).Str("file", upload.Filename).Msg("document failed processing")
			continue
		}

		report.Candidates = append(report.Candidates, candidate)
	}

	return a.finishBatch(total, report)
}

// ProcessSavedFiles processes resume files already on disk (the uploads
// directory or files fetched from Gmail) through the same pipeline.
func (a *Agent) ProcessSavedFiles(ctx context.Context, paths []string) (models.BatchReport, error) {
	report := models.BatchReport{Candidates: []models.Candidate{}}
	total := len(paths)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := filepath.Base(path)
		a.reportProgress(i+1, total, fmt.Sprintf("Processing %s", name))

		candidate, err := a.processFile(ctx, path)
		if err != nil {
			report.Failures = append(report.Failures, models.DocumentFailure{
				Filename: name,
				Error:    err.Error(),
			})
			log.Warn().Err(err).Str("file", name).Msg("document failed processing")
			continue
		}

		report.Candidates = append(report.Candidates, candidate)
	}

	return a.finishBatch(total, report)
}

// processFile runs one saved document through extraction, the provider,
// normalization and assembly.
func (a *Agent) processFile(ctx context.Context, path string) (models.Candidate, error) {
	if a.provider == nil {
		return models.Candidate{}, fmt.Errorf("extraction provider is not configured")
	}

	text, err := a.extract(path)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("text extraction failed: %w", err)
	}

	record, err := a.provider.Extract(ctx, filepath.Base(path), text)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("extraction provider failed: %w", err)
	}

	resume := scoring.Normalize(record)
	return scoring.AssembleCandidate(resume, path, a.homeCountry, time.Now()), nil
}

// finishBatch persists the batch and applies the all-failed rule: only
// a batch where every document that reached extraction failed is a
// batch-level error.
func (a *Agent) finishBatch(total int, report models.BatchReport) (models.BatchReport, error) {
	if err := a.store.AppendCandidates(report.Candidates); err != nil {
		// Candidates remain in memory for this response, but the caller
		// must not treat them as durably stored.
		return report, err
	}

	attempted := total - len(report.Rejections)
	if attempted > 0 && len(report.Failures) == attempted {
		return report, fmt.Errorf("all %d documents in the batch failed extraction", attempted)
	}

	return report, nil
}
