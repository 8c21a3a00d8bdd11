package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// EnsureBucket creates the bucket when it doesn't exist yet. Called
// once per user at registration, so the extra HeadBucket round trip
// doesn't matter.
func (c *Client) EnsureBucket(ctx context.Context, name string) error {
	_, err := c.C.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(name),
	})
	if err == nil {
		return nil
	}

	if !notFound(err) {
		return fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	_, err = c.C.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket, %w", err)
	}

	zap.L().Debug("Bucket created", zap.String("bucket", name))
	return nil
}

// Upload writes the blob at key, replacing whatever was there.
func (c *Client) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object, %w", err)
	}

	return nil
}

// Download opens a read stream for the blob at key. The caller owns
// the stream and must close it.
func (c *Client) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := c.C.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object, %w", err)
	}

	return out.Body, nil
}

func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := c.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object, %w", err)
	}

	return nil
}

// CreateFolder emulates a folder by writing a zero-length object at a
// key ending in a slash.
func (c *Client) CreateFolder(ctx context.Context, bucket, name string) error {
	if !strings.HasSuffix(name, "/") {
		name += "/"
	}

	_, err := c.C.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(name),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return fmt.Errorf("failed to create folder, %w", err)
	}

	return nil
}

// DeleteFolder removes the folder marker object.
func (c *Client) DeleteFolder(ctx context.Context, bucket, name string) error {
	_, err := c.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("failed to delete folder, %w", err)
	}

	return nil
}
