package ingestion

import (
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// MinExtractedTextLength is the minimum text length required for a
// successful extraction; shorter output almost always means the
// converter choked on the file.
const MinExtractedTextLength = 50

// ExtractText extracts plain text from a PDF, DOC or DOCX file on disk.
func ExtractText(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if !acceptedExtensions[ext] {
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}

	res, err := docconv.ConvertPath(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to convert %s: %w", filepath.Base(filePath), err)
	}

	text := strings.TrimSpace(res.Body)
	if len(text) < MinExtractedTextLength {
		return "", fmt.Errorf("extracted text is too short (likely failed extraction) from: %s", filepath.Base(filePath))
	}

	return text, nil
}
