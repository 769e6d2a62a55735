package agent

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ricki2828/cv-parsing/internal/ingestion"
	"github.com/ricki2828/cv-parsing/internal/store"
)

// stubProvider returns canned records or failures per filename.
type stubProvider struct {
	records  map[string]map[string]any
	failures map[string]error
	calls    []string
}

func (p *stubProvider) Extract(_ context.Context, filename, _ string) (map[string]any, error) {
	p.calls = append(p.calls, filename)
	if err, ok := p.failures[filename]; ok {
		return nil, err
	}
	if record, ok := p.records[filename]; ok {
		return record, nil
	}
	return map[string]any{}, nil
}

func newTestAgent(t *testing.T, provider *stubProvider) (*Agent, *store.Store) {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}

	files := ingestion.NewFileHandler(filepath.Join(dir, "uploads"))
	a := NewAgent(files, provider, st, "South Africa", 10<<20)
	a.extract = func(path string) (string, error) {
		return "resume text for " + filepath.Base(path), nil
	}
	return a, st
}

func pdfUpload(name, body string) Upload {
	return Upload{
		Filename: name,
		Size:     int64(len(body)),
		Content:  strings.NewReader(body),
	}
}

func namedRecord(name string) map[string]any {
	return map[string]any{"name": name}
}

// TestProcessUploads_PartialFailure tests that one failing document
// does not abort its siblings.
func TestProcessUploads_PartialFailure(t *testing.T) {
	provider := &stubProvider{
		records: map[string]map[string]any{
			"one.pdf":   namedRecord("One"),
			"three.pdf": namedRecord("Three"),
		},
		failures: map[string]error{
			"two.pdf": errors.New("provider timeout"),
		},
	}
	a, st := newTestAgent(t, provider)

	report, err := a.ProcessUploads(context.Background(), []Upload{
		pdfUpload("one.pdf", "%PDF-1"),
		pdfUpload("two.pdf", "%PDF-2"),
		pdfUpload("three.pdf", "%PDF-3"),
	})
	if err != nil {
		t.Fatalf("ProcessUploads() error = %v", err)
	}

	if len(report.Candidates) != 2 {
		t.Fatalf("Candidates length = %d, want 2", len(report.Candidates))
	}
	if report.Candidates[0].Name != "One" || report.Candidates[1].Name != "Three" {
		t.Errorf("candidates out of input order: %s, %s",
			report.Candidates[0].Name, report.Candidates[1].Name)
	}
	if len(report.Failures) != 1 || report.Failures[0].Filename != "two.pdf" {
		t.Errorf("Failures = %+v, want one entry for two.pdf", report.Failures)
	}

	if stored := st.ListCandidates(); len(stored) != 2 {
		t.Errorf("store has %d candidates, want 2", len(stored))
	}
}

// TestProcessUploads_GateRejection tests that rejected files never
// reach the extraction provider.
func TestProcessUploads_GateRejection(t *testing.T) {
	provider := &stubProvider{
		records: map[string]map[string]any{"ok.pdf": namedRecord("Ok")},
	}
	a, _ := newTestAgent(t, provider)

	oversized := Upload{
		Filename: "big.pdf",
		Size:     12 << 20,
		Content:  strings.NewReader("never read"),
	}

	report, err := a.ProcessUploads(context.Background(), []Upload{
		oversized,
		pdfUpload("notes.txt", "plain text"),
		pdfUpload("ok.pdf", "%PDF-1"),
	})
	if err != nil {
		t.Fatalf("ProcessUploads() error = %v", err)
	}

	if len(report.Rejections) != 2 {
		t.Fatalf("Rejections = %+v, want 2 entries", report.Rejections)
	}
	if !strings.Contains(report.Rejections[0].Reason, "too large") {
		t.Errorf("oversized rejection reason = %q", report.Rejections[0].Reason)
	}
	if !strings.Contains(report.Rejections[1].Reason, "invalid file type") {
		t.Errorf("type rejection reason = %q", report.Rejections[1].Reason)
	}
	if len(report.Candidates) != 1 {
		t.Errorf("Candidates length = %d, want 1", len(report.Candidates))
	}

	for _, called := range provider.calls {
		if called != "ok.pdf" {
			t.Errorf("provider called for gated file %s", called)
		}
	}
}

// TestProcessUploads_AllFailed tests the batch-level failure rule.
func TestProcessUploads_AllFailed(t *testing.T) {
	provider := &stubProvider{
		failures: map[string]error{
			"one.pdf": errors.New("boom"),
			"two.pdf": errors.New("boom"),
		},
	}
	a, _ := newTestAgent(t, provider)

	report, err := a.ProcessUploads(context.Background(), []Upload{
		pdfUpload("one.pdf", "%PDF-1"),
		pdfUpload("two.pdf", "%PDF-2"),
	})
	if err == nil {
		t.Fatal("ProcessUploads() error = nil, want batch-level failure when every document fails")
	}
	if len(report.Failures) != 2 {
		t.Errorf("Failures length = %d, want 2", len(report.Failures))
	}
}

// TestProcessUploads_Cancellation tests that cancellation stops new
// extraction calls without discarding assembled results.
func TestProcessUploads_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	provider := &stubProvider{
		records: map[string]map[string]any{"one.pdf": namedRecord("One")},
	}
	a, _ := newTestAgent(t, provider)
	a.SetProgressCallback(func(current, total int, _ string) {
		if current == 1 {
			cancel()
		}
	})

	report, err := a.ProcessUploads(ctx, []Upload{
		pdfUpload("one.pdf", "%PDF-1"),
		pdfUpload("two.pdf", "%PDF-2"),
		pdfUpload("three.pdf", "%PDF-3"),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ProcessUploads() error = %v, want context.Canceled", err)
	}

	if len(report.Candidates) != 1 {
		t.Errorf("Candidates length = %d, want the one assembled before cancellation", len(report.Candidates))
	}
	if len(provider.calls) != 1 {
		t.Errorf("provider called %d times after cancellation, want 1", len(provider.calls))
	}
}

// TestProcessSavedFiles tests the on-disk entry point used by the
// uploads-directory and Gmail flows.
func TestProcessSavedFiles(t *testing.T) {
	provider := &stubProvider{
		records: map[string]map[string]any{
			"a.pdf": namedRecord("A"),
			"b.pdf": namedRecord("B"),
		},
	}
	a, st := newTestAgent(t, provider)

	report, err := a.ProcessSavedFiles(context.Background(), []string{
		filepath.Join("anywhere", "a.pdf"),
		filepath.Join("anywhere", "b.pdf"),
	})
	if err != nil {
		t.Fatalf("ProcessSavedFiles() error = %v", err)
	}
	if len(report.Candidates) != 2 {
		t.Fatalf("Candidates length = %d, want 2", len(report.Candidates))
	}
	if stored := st.ListCandidates(); len(stored) != 2 {
		t.Errorf("store has %d candidates, want 2", len(stored))
	}
}

// TestProcessUploads_NoProvider tests that a missing provider surfaces
// as per-document failures rather than a panic or refusal.
func TestProcessUploads_NoProvider(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	files := ingestion.NewFileHandler(filepath.Join(dir, "uploads"))
	a := NewAgent(files, nil, st, "South Africa", 10<<20)
	a.extract = func(string) (string, error) { return "text", nil }

	report, err := a.ProcessUploads(context.Background(), []Upload{
		pdfUpload("one.pdf", "%PDF-1"),
	})
	if err == nil {
		t.Fatal("ProcessUploads() error = nil, want all-failed batch error")
	}
	if len(report.Failures) != 1 {
		t.Fatalf("Failures = %+v, want one entry", report.Failures)
	}
	if !strings.Contains(report.Failures[0].Error, "not configured") {
		t.Errorf("failure message = %q", report.Failures[0].Error)
	}
}

// TestProcessUploads_ProgressReporting tests the callback sequence.
func TestProcessUploads_ProgressReporting(t *testing.T) {
	provider := &stubProvider{}
	a, _ := newTestAgent(t, provider)

	var messages []string
	a.SetProgressCallback(func(current, total int, message string) {
		messages = append(messages, fmt.Sprintf("%d/%d %s", current, total, message))
	})

	if _, err := a.ProcessUploads(context.Background(), []Upload{
		pdfUpload("one.pdf", "%PDF-1"),
		pdfUpload("two.pdf", "%PDF-2"),
	}); err != nil {
		t.Fatalf("ProcessUploads() error = %v", err)
	}

	if len(messages) != 2 {
		t.Fatalf("progress calls = %d, want 2: %v", len(messages), messages)
	}
	if messages[0] != "1/2 Processing one.pdf" {
		t.Errorf("first progress message = %q", messages[0])
	}
}
