package storage

import (
	"fmt"

	"github.com/jokads/JokaTech/internal/domain"
)

var (
	// ErrS3CredentialsRequired is returned when S3 credentials are missing.
	ErrS3CredentialsRequired = &domain.Error{Code: domain.EINVALID, Message: "S3 credentials are required"}

	// ErrS3BucketRequired is returned when the bucket name is missing.
	ErrS3BucketRequired = &domain.Error{Code: domain.EINVALID, Message: "S3 bucket name is required"}

	// ErrInvalidKey is returned for keys that would escape the storage root.
	ErrInvalidKey = &domain.Error{Code: domain.EINVALID, Message: "invalid storage key"}

	// ErrUnsupportedType is returned for uploads that are not images.
	ErrUnsupportedType = &domain.Error{Code: domain.EINVALID, Message: "only JPEG, PNG, WebP and GIF images are accepted"}
)

// ErrFileNotFound creates an error for when a file is not found.
func ErrFileNotFound(key string) error {
	return &domain.Error{
		Code:    domain.ENOTFOUND,
		Op:      "storage.get",
		Message: fmt.Sprintf("file not found: %s", key),
	}
}

// ErrUnknownProvider creates an error for unknown storage providers.
func ErrUnknownProvider(provider string) error {
	return &domain.Error{
		Code:    domain.EINVALID,
		Op:      "storage.new",
		Message: fmt.Sprintf("unknown storage provider: %s", provider),
	}
}
