package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultContentType = "application/octet-stream"

// minioClient is the subset of the minio API used by the store,
// extracted for substitution in tests.
type minioClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Store wraps the object storage service used for avatar and
// progress photos: byte uploads to namespaced paths, public URL
// retrieval and time-limited signed URL issuance.
type Store struct {
	client        minioClient
	bucket        string
	publicBaseURL string
}

type NewStoreParams struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
	UseSSL          bool
}

func NewStore(params NewStoreParams) (*Store, error) {
	client, err := minio.New(params.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(params.AccessKeyID, params.SecretAccessKey, ""),
		Secure: params.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	publicBaseURL := params.PublicBaseURL
	if publicBaseURL == "" {
		scheme := "http"
		if params.UseSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s", scheme, params.Endpoint)
	}

	return &Store{
		client:        client,
		bucket:        params.Bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// NewStoreWithClient is used in tests to inject a fake minio client.
func NewStoreWithClient(client minioClient, bucket, publicBaseURL string) *Store {
	return &Store{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Upload stores the object under the given path, overwriting on conflict,
// and returns its durable public URL.
func (s *Store) Upload(ctx context.Context, objectPath string, reader io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = defaultContentType
	}
	if _, err := s.client.PutObject(
		ctx, s.bucket, objectPath, reader, size,
		minio.PutObjectOptions{ContentType: contentType},
	); err != nil {
		return "", fmt.Errorf("put object %s: %w", objectPath, err)
	}
	return s.PublicURL(objectPath), nil
}

// PublicURL returns the durable, non-expiring URL of a stored object.
func (s *Store) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, objectPath)
}

// SignURL mints a time-limited signed URL granting read access to the object.
func (s *Store) SignURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	signedURL, err := s.client.PresignedGetObject(ctx, s.bucket, objectPath, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign object %s: %w", objectPath, err)
	}
	return signedURL.String(), nil
}

// Remove deletes the object at the given path.
func (s *Store) Remove(ctx context.Context, objectPath string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectPath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", objectPath, err)
	}
	return nil
}
