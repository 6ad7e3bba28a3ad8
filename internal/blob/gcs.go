package blob

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// GCS stores uploads in a Google Cloud Storage bucket under gs:// URIs.
// It assumes Application Default Credentials are configured.
type GCS struct {
	bucket string
}

// NewGCS creates a store writing into the given bucket.
func NewGCS(bucket string) *GCS {
	return &GCS{bucket: bucket}
}

// Save implements Store.
func (g *GCS) Save(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("gcs save: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs save: copy to writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs save: finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", g.bucket, objectName), nil
}

// Fetch implements Store. uri must look like gs://bucket/path/to/object.
func (g *GCS) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucketName, objectPath, err := splitGCSURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs fetch: create storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs fetch: open object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("gcs fetch: read bytes: %w", err)
	}
	return data, nil
}

func splitGCSURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, "gs://"), "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}
