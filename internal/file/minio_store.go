package file

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
)

// MinIOStore stores file contents in a single MinIO bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore binds a client to the bucket holding uploaded objects.
func NewMinIOStore(client *minio.Client, bucket string) *MinIOStore {
	return &MinIOStore{client: client, bucket: bucket}
}

// Put uploads an object and returns the stored size.
func (s *MinIOStore) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (int64, error) {
	info, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

func (s *MinIOStore) Get(ctx context.Context, objectName string) (io.ReadCloser, error) {
	return s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
}

func (s *MinIOStore) Remove(ctx context.Context, objectName string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}
