package ingestion

import (
	"fmt"
	"path/filepath"
	"strings"
)

// acceptedExtensions are the only file types allowed through the upload
// gate. Everything else is rejected before any extraction call.
var acceptedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// acceptedTypesLabel is used in rejection messages.
const acceptedTypesLabel = "PDF, DOC and DOCX"

// ValidateUpload checks a file against the accepted-type and size gate.
// It returns nil when the file may proceed to extraction, or an error
// whose message is the human-readable rejection reason.
func ValidateUpload(filename string, size, maxSize int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !acceptedExtensions[ext] {
		return fmt.Errorf("invalid file type %q: only %s files are accepted", ext, acceptedTypesLabel)
	}
	if size > maxSize {
		return fmt.Errorf("file is too large: %.1fMB exceeds the %dMB limit",
			float64(size)/(1<<20), maxSize>>20)
	}
	return nil
}

// HasDocumentMagic reports whether content starts with a known document
// marker (PDF header, the ZIP header used by DOCX, or the OLE header
// used by legacy DOC). Used for diagnostics on misnamed uploads; it is
// not part of the rejection gate.
func HasDocumentMagic(content []byte) bool {
	if len(content) < 4 {
		return false
	}
	switch {
	case strings.HasPrefix(string(content), "%PDF-"):
		return true
	case content[0] == 'P' && content[1] == 'K':
		return true
	case content[0] == 0xD0 && content[1] == 0xCF && content[2] == 0x11 && content[3] == 0xE0:
		return true
	}
	return false
}
