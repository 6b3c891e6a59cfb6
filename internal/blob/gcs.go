package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	apperrors "fintrack/internal/errors"
)

// GCSStore stores objects in a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore creates a Store backed by the given GCS bucket. Credentials
// come from the environment (application default credentials).
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	if bucket == "" {
		return nil, apperrors.ErrStorageNotConfigured
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExternalService, err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

// Upload writes the object and returns its public URL.
func (s *GCSStore) Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", apperrors.Wrap(apperrors.ErrExternalService, err)
	}
	if err := w.Close(); err != nil {
		return "", apperrors.Wrap(apperrors.ErrExternalService, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectName), nil
}

// Delete removes the object, treating a missing object as already deleted.
func (s *GCSStore) Delete(ctx context.Context, objectName string) error {
	err := s.client.Bucket(s.bucket).Object(objectName).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return apperrors.Wrap(apperrors.ErrExternalService, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
