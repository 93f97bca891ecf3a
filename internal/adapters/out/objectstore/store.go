package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"orderflow/internal/pkg/errs"
)

// InvoiceArchive stores rendered invoice documents in a MinIO bucket and
// implements ports.ArtifactStore.
type InvoiceArchive struct {
	client *minio.Client
	bucket string
}

// NewInvoiceArchive creates an archive over an existing MinIO client.
func NewInvoiceArchive(client *minio.Client, bucket string) (*InvoiceArchive, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	if bucket == "" {
		return nil, errs.NewValueIsRequiredError("bucket")
	}
	return &InvoiceArchive{client: client, bucket: bucket}, nil
}

// Store uploads the document and returns its object key.
func (a *InvoiceArchive) Store(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	_, err := a.client.PutObject(
		ctx,
		a.bucket,
		key,
		bytes.NewReader(content),
		int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to store object %s in bucket %s: %w", key, a.bucket, err)
	}
	return key, nil
}

// Exists checks for the object via a stat call.
func (a *InvoiceArchive) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.StatObject(ctx, a.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s in bucket %s: %w", key, a.bucket, err)
	}
	return true, nil
}

// NewClient builds a MinIO client from flat connection settings.
func NewClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
}

// EnsureBucket creates the bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}
