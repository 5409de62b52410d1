package objstore

import (
	"context"
	"fmt"

	"github.com/furrow/furrow/pkg/config"
)

// Open builds the Client selected by the storage config.
func Open(ctx context.Context, cfg config.StorageConfig) (Client, error) {
	switch cfg.Backend {
	case config.BackendLocal, "":
		return NewLocalStorage(cfg.LocalDir), nil
	case config.BackendS3:
		return NewS3Storage(ctx, s3Config(cfg))
	case config.BackendGCS:
		return NewGCSStorage(ctx, cfg.Bucket, cfg.Prefix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func s3Config(cfg config.StorageConfig) S3Config {
	return S3Config{
		Bucket:   cfg.Bucket,
		Region:   cfg.Region,
		Endpoint: cfg.Endpoint,
		Prefix:   cfg.Prefix,
	}
}
