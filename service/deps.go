package service

import (
	"context"
	"io"
)

// ObjectStorage is the capability set the services need from the
// object store. The s3 package provides the real implementation; tests
// substitute an in-memory one.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context, name string) error
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	Download(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, bucket, key string) error
	CreateFolder(ctx context.Context, bucket, name string) error
	DeleteFolder(ctx context.Context, bucket, name string) error
}
