package imagehost

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioUploader stores images in an S3-compatible bucket.
type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioUploader connects to endpoint and creates bucket when missing.
// publicURL is the base used in returned links; it defaults to the endpoint.
func NewMinioUploader(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, publicURL string) (*MinioUploader, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}

	if publicURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + endpoint
	}

	return &MinioUploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (u *MinioUploader) Upload(ctx context.Context, img Image) (string, error) {
	if err := Check(img); err != nil {
		return "", err
	}

	objectName := "avatars/" + uuid.NewString() + extensionFor(img)
	_, err := u.client.PutObject(ctx, u.bucket, objectName, img.Body, img.Size, minio.PutObjectOptions{
		ContentType: img.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", u.publicURL, u.bucket, objectName), nil
}
