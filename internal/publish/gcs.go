package publish

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSConfig selects the bucket. Without CredentialsJSON the client uses
// application default credentials.
type GCSConfig struct {
	Bucket          string
	CredentialsJSON string
}

// GCSUploader writes objects through a storage.Writer.
type GCSUploader struct {
	client *storage.Client
	bucket string
}

// NewGCSUploader creates the storage client. Close releases it.
func NewGCSUploader(ctx context.Context, cfg GCSConfig) (*GCSUploader, error) {
	var opts []option.ClientOption
	if creds := strings.TrimSpace(cfg.CredentialsJSON); creds != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSUploader{client: client, bucket: cfg.Bucket}, nil
}

// Upload implements Uploader.
func (g *GCSUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcs write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (g *GCSUploader) Close() error { return g.client.Close() }
