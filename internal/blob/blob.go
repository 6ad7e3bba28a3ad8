// Package blob archives uploaded statement files. The store keeps the raw
// bytes exactly as received; the pipeline only ever reads them back for
// model-based sources.
package blob

import (
	"context"
	"io"
)

// Store persists raw uploads and resolves them back by URI.
type Store interface {
	// Save writes the content under objectName and returns a URI that Fetch
	// accepts.
	Save(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error)

	// Fetch reads back the bytes for a URI previously returned by Save.
	Fetch(ctx context.Context, uri string) ([]byte, error)
}
