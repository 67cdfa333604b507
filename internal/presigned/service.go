package presigned

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"time"
)

// MaxTTL is the longest expiry an S3-compatible presigned URL accepts.
const MaxTTL = 7 * 24 * time.Hour

// ErrInvalidTTL is returned for non-positive or too long expiries.
var ErrInvalidTTL = errors.New("invalid presigned url ttl")

type signer interface {
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// Service issues time-limited links to stored objects.
type Service struct {
	client signer
	bucket string
	ttl    time.Duration
}

// NewService binds a signer to the bucket that holds uploads. client is
// usually a *minio.Client.
func NewService(client signer, bucket string, ttl time.Duration) *Service {
	if ttl <= 0 || ttl > MaxTTL {
		ttl = time.Hour
	}
	return &Service{client: client, bucket: bucket, ttl: ttl}
}

// TTL returns the default expiry.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// ViewURL returns an inline link using the default expiry.
func (s *Service) ViewURL(ctx context.Context, objectName string) (string, error) {
	return s.sign(ctx, objectName, s.ttl, nil)
}

// DownloadURL returns a link that makes browsers save the object as filename.
func (s *Service) DownloadURL(ctx context.Context, objectName, filename string) (string, error) {
	return s.DownloadURLWithTTL(ctx, objectName, filename, s.ttl)
}

// DownloadURLWithTTL is DownloadURL with an explicit expiry.
func (s *Service) DownloadURLWithTTL(ctx context.Context, objectName, filename string, ttl time.Duration) (string, error) {
	params := make(url.Values)
	params.Set("response-content-disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	return s.sign(ctx, objectName, ttl, params)
}

// ViewURLWithTTL is ViewURL with an explicit expiry.
func (s *Service) ViewURLWithTTL(ctx context.Context, objectName string, ttl time.Duration) (string, error) {
	return s.sign(ctx, objectName, ttl, nil)
}

func (s *Service) sign(ctx context.Context, objectName string, ttl time.Duration, params url.Values) (string, error) {
	if ttl <= 0 || ttl > MaxTTL {
		return "", fmt.Errorf("%w: %s", ErrInvalidTTL, ttl)
	}
	if params == nil {
		params = make(url.Values)
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, ttl, params)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", objectName, err)
	}
	return u.String(), nil
}
