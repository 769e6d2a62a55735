// Package extraction is the boundary to the document-extraction
// provider: the external collaborator that turns resume text into a
// structured field record. The record it returns is loosely typed;
// normalization into the internal representation happens downstream.
package extraction

import (
	"context"
)

// Provider converts one document's extracted text into a structured
// field record. Implementations must treat a missing field as valid
// output, not an error; only a failed call itself is an error.
type Provider interface {
	Extract(ctx context.Context, filename, text string) (map[string]any, error)
}
