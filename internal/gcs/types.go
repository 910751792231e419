package gcs

import (
	"context"
)

// StorageService provides an interface for cloud storage operations.
// The dataset loader only needs Fetch; the CLI uses Upload.
type StorageService interface {
	// Fetch downloads object bytes from a gs://bucket/object URI.
	Fetch(ctx context.Context, uri string) ([]byte, error)

	// Upload copies a local file to a bucket under the given object name.
	Upload(ctx context.Context, bucketName, objectName, filePath string) error
}
