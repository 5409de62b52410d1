package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// GCSStorage implements Client using Google Cloud Storage.
type GCSStorage struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCSStorage creates a GCS-backed Client.
// It uses Application Default Credentials (works with Workload Identity, SA keys, gcloud auth).
func NewGCSStorage(ctx context.Context, bucket, prefix string) (*GCSStorage, error) {
	if bucket == "" {
		return nil, errors.New("gcs storage requires a bucket")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket, prefix: prefix}, nil
}

// Put uploads a blob.
func (s *GCSStorage) Put(ctx context.Context, key string, data []byte) error {
	full := joinKey(s.prefix, key)
	w := s.client.Bucket(s.bucket).Object(full).NewWriter(ctx)
	w.ContentType = contentType(key)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs write %s: %w", full, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", full, err)
	}
	return nil
}

// Get downloads a blob.
func (s *GCSStorage) Get(ctx context.Context, key string) ([]byte, error) {
	full := joinKey(s.prefix, key)
	r, err := s.client.Bucket(s.bucket).Object(full).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, fmt.Errorf("gcs read %s: %w", full, ErrNotFound)
		}
		return nil, fmt.Errorf("gcs read %s: %w", full, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Close releases the underlying client.
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
