package ingestion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// FileHandler manages the session's uploaded-resume directory.
type FileHandler struct {
	uploadsDir string
}

// NewFileHandler creates a new file handler
func NewFileHandler(uploadsDir string) *FileHandler {
	return &FileHandler{
		uploadsDir: uploadsDir,
	}
}

// UploadsDir returns the directory uploads are saved into.
func (fh *FileHandler) UploadsDir() string {
	return fh.uploadsDir
}

// SaveUploadedFile saves an uploaded file to the uploads directory and
// returns the saved path. The stored name is the base name of the
// upload; any directory components are stripped.
func (fh *FileHandler) SaveUploadedFile(filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(fh.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	filePath := filepath.Join(fh.uploadsDir, filepath.Base(filename))
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	// Misnamed uploads pass the gate on extension alone; flag them for
	// the operator since extraction will very likely fail.
	if head, err := os.ReadFile(filePath); err == nil && len(head) > 0 && !HasDocumentMagic(head) {
		log.Warn().Str("file", filename).Msg("uploaded file does not look like a document")
	}

	return filePath, nil
}

// ListResumes returns the accepted resume files currently in the uploads
// directory, sorted by name.
func (fh *FileHandler) ListResumes() ([]string, error) {
	files, err := os.ReadDir(fh.uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	var paths []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(file.Name()))
		if !acceptedExtensions[ext] {
			continue
		}
		paths = append(paths, filepath.Join(fh.uploadsDir, file.Name()))
	}

	sort.Strings(paths)
	return paths, nil
}

// ClearUploads removes all files from the uploads directory
func (fh *FileHandler) ClearUploads() error {
	if err := os.RemoveAll(fh.uploadsDir); err != nil {
		return fmt.Errorf("failed to clear uploads directory: %w", err)
	}
	return os.MkdirAll(fh.uploadsDir, 0755)
}
