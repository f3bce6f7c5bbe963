package objectstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMinioClient struct {
	putObjectPath   string
	putContentType  string
	putPayload      []byte
	presignedPath   string
	presignedExpiry time.Duration
	removedPath     string
	presignErr      error
	removeErr       error
}

func (f *fakeMinioClient) PutObject(
	_ context.Context, _, objectName string, reader io.Reader, _ int64, opts minio.PutObjectOptions,
) (minio.UploadInfo, error) {
	f.putObjectPath = objectName
	f.putContentType = opts.ContentType
	f.putPayload, _ = io.ReadAll(reader)
	return minio.UploadInfo{Key: objectName}, nil
}

func (f *fakeMinioClient) PresignedGetObject(
	_ context.Context, bucket, objectName string, expires time.Duration, _ url.Values,
) (*url.URL, error) {
	f.presignedPath = objectName
	f.presignedExpiry = expires
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	return url.Parse("https://storage.test/" + bucket + "/" + objectName + "?signature=abc")
}

func (f *fakeMinioClient) RemoveObject(
	_ context.Context, _, objectName string, _ minio.RemoveObjectOptions,
) error {
	f.removedPath = objectName
	return f.removeErr
}

func TestStore_Upload(t *testing.T) {
	client := &fakeMinioClient{}
	store := NewStoreWithClient(client, "fittrack", "https://cdn.fittrack.test/")

	payload := []byte("photo-bytes")
	publicURL, err := store.Upload(
		context.Background(),
		"progress/user-1/123.jpg",
		bytes.NewReader(payload), int64(len(payload)),
		"image/jpeg",
	)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.fittrack.test/fittrack/progress/user-1/123.jpg", publicURL)
	assert.Equal(t, "progress/user-1/123.jpg", client.putObjectPath)
	assert.Equal(t, "image/jpeg", client.putContentType)
	assert.Equal(t, payload, client.putPayload)
}

func TestStore_SignURL(t *testing.T) {
	client := &fakeMinioClient{}
	store := NewStoreWithClient(client, "fittrack", "https://cdn.fittrack.test")

	signed, err := store.SignURL(context.Background(), "progress/user-1/123.jpg", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, signed, "signature=")
	assert.Equal(t, time.Hour, client.presignedExpiry)

	client.presignErr = errors.New("mint failed")
	_, err = store.SignURL(context.Background(), "progress/user-1/123.jpg", time.Hour)
	require.Error(t, err)
}

func TestStore_Remove(t *testing.T) {
	client := &fakeMinioClient{}
	store := NewStoreWithClient(client, "fittrack", "https://cdn.fittrack.test")

	require.NoError(t, store.Remove(context.Background(), "progress/user-1/123.jpg"))
	assert.Equal(t, "progress/user-1/123.jpg", client.removedPath)
}
