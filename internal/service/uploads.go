package service

import (
	"context"
	"io"

	"github.com/spec-kit/cms-service/internal/storage"
	"github.com/spec-kit/cms-service/pkg/envelope"
)

// ObjectStorage is the slice of the bucket client the services need.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string) (string, error)
	PublicURL(key string) string
}

// FileUpload carries one incoming multipart file.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// validateImageUpload rejects disallowed types and oversized files before
// any bytes reach the bucket.
func validateImageUpload(upload *FileUpload, maxBytes int64) error {
	if !storage.IsAllowedImageType(upload.ContentType) {
		return envelope.NewValidation("Invalid file type. Only image/jpeg, image/png, image/gif, image/webp are allowed", nil)
	}
	if maxBytes > 0 && upload.Size > maxBytes {
		return envelope.NewValidation("File too large", nil)
	}
	return nil
}

// uploadImage validates the file, stores it under the given path and returns
// the storage key.
func uploadImage(ctx context.Context, store ObjectStorage, upload *FileUpload, path string, public bool, maxBytes int64) (string, error) {
	if err := validateImageUpload(upload, maxBytes); err != nil {
		return "", err
	}
	key := storage.ObjectKey(path, upload.Filename, public)
	if err := store.Upload(ctx, key, upload.ContentType, upload.Content); err != nil {
		return "", err
	}
	return key, nil
}
