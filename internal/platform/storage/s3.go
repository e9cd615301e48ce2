// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

/*
Package storage provides the avatar object store backed by an S3-compatible
service (AWS S3, Cloudflare R2, MinIO).

Objects are keyed as "<folder>/<ownerID>-<random>.<ext>" so a user's current
avatar can always be replaced without listing the bucket.
*/
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/accesshub/accesshub/pkg/uuid"
)

// UploadResult describes a stored object.
type UploadResult struct {
	// URL is the public address clients can load the object from.
	URL string
	// Key is the bucket-internal object key, needed for later deletion.
	Key string
}

// ObjectStore abstracts the avatar storage collaborator for services and tests.
type ObjectStore interface {
	Upload(ctx context.Context, folder, ownerID string, data []byte, contentType string) (UploadResult, error)
	Delete(ctx context.Context, key string) error
}

// contentTypeExtensions maps the accepted avatar MIME types to file extensions.
var contentTypeExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// IsSupportedImageType reports whether contentType is an accepted avatar format.
func IsSupportedImageType(contentType string) bool {
	_, ok := contentTypeExtensions[contentType]
	return ok
}

// Config holds the S3 connection settings.
type Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	// PublicURL is the base URL objects are served from (CDN or bucket website).
	PublicURL string
}

// S3Store is the production [ObjectStore] implementation.
type S3Store struct {
	svc       *s3.S3
	bucket    string
	publicURL string
}

// NewS3Store creates the store and its underlying AWS session.
func NewS3Store(cfg Config) (*S3Store, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		),
	}

	// Non-AWS endpoints (R2, MinIO) need path-style addressing.
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to create aws session: %w", err)
	}

	return &S3Store{
		svc:       s3.New(sess),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}, nil
}

// Upload stores data under a fresh key and returns its public URL.
func (store *S3Store) Upload(ctx context.Context, folder, ownerID string, data []byte, contentType string) (UploadResult, error) {
	extension, ok := contentTypeExtensions[contentType]
	if !ok {
		return UploadResult{}, fmt.Errorf("storage: unsupported content type %q", contentType)
	}

	key := fmt.Sprintf("%s/%s-%s.%s", folder, ownerID, uuid.New(), extension)

	_, err := store.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("storage: failed to upload object: %w", err)
	}

	return UploadResult{
		URL: store.publicURL + "/" + key,
		Key: key,
	}, nil
}

// Delete removes an object by key. Deleting a missing key is not an error.
func (store *S3Store) Delete(ctx context.Context, key string) error {
	_, err := store.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: failed to delete object: %w", err)
	}
	return nil
}
