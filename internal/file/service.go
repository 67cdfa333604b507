package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/abduss/storeit/internal/filetype"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	recentFilesLimit   = 10
)

type metadataStore interface {
	Create(ctx context.Context, rec Record) (Record, error)
	List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Record, error)
	Get(ctx context.Context, ownerID, fileID uuid.UUID) (Record, error)
	Rename(ctx context.Context, ownerID, fileID uuid.UUID, name string, info filetype.Info) (Record, error)
	Delete(ctx context.Context, ownerID, fileID uuid.UUID) (Record, error)
}

type usageTracker interface {
	Used(ctx context.Context, ownerID uuid.UUID) (int64, error)
	RecordSnapshot(ctx context.Context, ownerID uuid.UUID) error
}

type objectStore interface {
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (int64, error)
	Get(ctx context.Context, objectName string) (io.ReadCloser, error)
	Remove(ctx context.Context, objectName string) error
}

type urlSigner interface {
	ViewURL(ctx context.Context, objectName string) (string, error)
	DownloadURL(ctx context.Context, objectName, filename string) (string, error)
}

// Option customizes a Service.
type Option func(*Service)

// WithMaxFileSize caps the size of a single upload.
func WithMaxFileSize(limit int64) Option {
	return func(s *Service) {
		s.maxFileSize = limit
	}
}

// WithQuota caps the total bytes an owner may store. Zero disables the check.
func WithQuota(quota int64) Option {
	return func(s *Service) {
		s.quota = quota
	}
}

// WithURLSigner attaches view and download links to returned records.
func WithURLSigner(signer urlSigner) Option {
	return func(s *Service) {
		s.signer = signer
	}
}

// WithUploadObserver is notified after every stored upload.
func WithUploadObserver(observe func(t filetype.Type, sizeBytes int64)) Option {
	return func(s *Service) {
		s.observeUpload = observe
	}
}

// WithLogger sets the logger used for non-fatal failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service manages file lifecycle operations.
type Service struct {
	repo          metadataStore
	usage         usageTracker
	objects       objectStore
	signer        urlSigner
	maxFileSize   int64
	quota         int64
	observeUpload func(t filetype.Type, sizeBytes int64)
	logger        *zap.Logger
}

// NewService constructs a file service.
func NewService(repo metadataStore, usage usageTracker, objects objectStore, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		usage:       usage,
		objects:     objects,
		maxFileSize: defaultMaxFileSize,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload classifies the file, stores its contents and records metadata.
func (s *Service) Upload(ctx context.Context, ownerID uuid.UUID, fileHeader *multipart.FileHeader) (Record, error) {
	if fileHeader == nil {
		return Record{}, ErrMissingPayload
	}

	size := fileHeader.Size
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return Record{}, fmt.Errorf("%w: %s exceeds %s", ErrFileTooLarge, humanize.IBytes(uint64(size)), humanize.IBytes(uint64(s.maxFileSize)))
	}

	if err := s.checkQuota(ctx, ownerID, size); err != nil {
		return Record{}, err
	}

	name := sanitizeFilename(fileHeader.Filename)
	info := filetype.Classify(name)

	fileID := uuid.New()
	objectName := fmt.Sprintf("%s/%s", ownerID.String(), fileID.String())

	file, err := fileHeader.Open()
	if err != nil {
		return Record{}, fmt.Errorf("open upload file: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	reader := io.TeeReader(file, hasher)
	contentType := detectContentType(fileHeader)

	storedSize, err := s.objects.Put(ctx, objectName, reader, size, contentType)
	if err != nil {
		return Record{}, fmt.Errorf("store object: %w", err)
	}

	actualSize := storedSize
	if actualSize <= 0 {
		actualSize = size
	}
	if s.maxFileSize > 0 && actualSize > s.maxFileSize {
		s.removeObject(ctx, objectName)
		return Record{}, fmt.Errorf("%w: %s exceeds %s", ErrFileTooLarge, humanize.IBytes(uint64(actualSize)), humanize.IBytes(uint64(s.maxFileSize)))
	}

	rec := Record{
		ID:          fileID,
		OwnerID:     ownerID,
		Name:        name,
		Extension:   info.Extension,
		Type:        info.Type,
		SizeBytes:   actualSize,
		ContentType: contentType,
		Checksum:    hex.EncodeToString(hasher.Sum(nil)),
		ObjectName:  objectName,
	}

	stored, err := s.repo.Create(ctx, rec)
	if err != nil {
		s.removeObject(ctx, objectName)
		return Record{}, err
	}

	s.recordSnapshot(ctx, ownerID)
	if s.observeUpload != nil {
		s.observeUpload(stored.Type, stored.SizeBytes)
	}

	s.decorate(ctx, &stored)
	return stored, nil
}

// List returns the owner's files matching the filter.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Record, error) {
	records, err := s.repo.List(ctx, ownerID, filter.normalized())
	if err != nil {
		return nil, err
	}
	for i := range records {
		s.decorate(ctx, &records[i])
	}
	return records, nil
}

// Recent returns the owner's most recently uploaded files.
func (s *Service) Recent(ctx context.Context, ownerID uuid.UUID) ([]Record, error) {
	return s.List(ctx, ownerID, ListFilter{Sort: DefaultSort, Limit: recentFilesLimit})
}

// Download retrieves metadata and an object reader.
func (s *Service) Download(ctx context.Context, ownerID, fileID uuid.UUID) (Record, io.ReadCloser, error) {
	rec, err := s.repo.Get(ctx, ownerID, fileID)
	if err != nil {
		return Record{}, nil, err
	}

	object, err := s.objects.Get(ctx, rec.ObjectName)
	if err != nil {
		return Record{}, nil, fmt.Errorf("fetch object: %w", err)
	}

	return rec, object, nil
}

// Rename changes a file's display name. When the new name has no extension
// the current one is kept; the type is re-derived from the result.
func (s *Service) Rename(ctx context.Context, ownerID, fileID uuid.UUID, newName string) (Record, error) {
	newName = strings.TrimSpace(newName)
	name := path.Base(newName)
	if newName == "" || name == "." || name == ".." || name == "/" {
		return Record{}, ErrInvalidName
	}

	current, err := s.repo.Get(ctx, ownerID, fileID)
	if err != nil {
		return Record{}, err
	}

	if filetype.Extension(name) == "" && current.Extension != "" {
		name = strings.TrimSuffix(name, ".") + "." + current.Extension
	}

	renamed, err := s.repo.Rename(ctx, ownerID, fileID, name, filetype.Classify(name))
	if err != nil {
		return Record{}, err
	}
	s.decorate(ctx, &renamed)
	return renamed, nil
}

// Delete removes the file from storage and metadata.
func (s *Service) Delete(ctx context.Context, ownerID, fileID uuid.UUID) error {
	rec, err := s.repo.Delete(ctx, ownerID, fileID)
	if err != nil {
		return err
	}

	if err := s.objects.Remove(ctx, rec.ObjectName); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}

	s.recordSnapshot(ctx, ownerID)
	return nil
}

func (s *Service) checkQuota(ctx context.Context, ownerID uuid.UUID, size int64) error {
	if s.quota <= 0 || s.usage == nil {
		return nil
	}
	used, err := s.usage.Used(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("check quota: %w", err)
	}
	if used+size > s.quota {
		return fmt.Errorf("%w: %s of %s used", ErrQuotaExceeded, humanize.IBytes(uint64(used)), humanize.IBytes(uint64(s.quota)))
	}
	return nil
}

func (s *Service) recordSnapshot(ctx context.Context, ownerID uuid.UUID) {
	if s.usage == nil {
		return
	}
	if err := s.usage.RecordSnapshot(ctx, ownerID); err != nil {
		s.logger.Warn("record usage snapshot", zap.String("owner_id", ownerID.String()), zap.Error(err))
	}
}

func (s *Service) removeObject(ctx context.Context, objectName string) {
	if err := s.objects.Remove(ctx, objectName); err != nil {
		s.logger.Warn("remove orphaned object", zap.String("object", objectName), zap.Error(err))
	}
}

func (s *Service) decorate(ctx context.Context, rec *Record) {
	rec.Icon = filetype.Icon(rec.Extension, rec.Type)
	if s.signer == nil {
		return
	}

	viewURL, err := s.signer.ViewURL(ctx, rec.ObjectName)
	if err != nil {
		s.logger.Warn("sign view url", zap.String("file_id", rec.ID.String()), zap.Error(err))
		return
	}
	downloadURL, err := s.signer.DownloadURL(ctx, rec.ObjectName, rec.Name)
	if err != nil {
		s.logger.Warn("sign download url", zap.String("file_id", rec.ID.String()), zap.Error(err))
		return
	}
	rec.URL = viewURL
	rec.DownloadURL = downloadURL
}

func detectContentType(fileHeader *multipart.FileHeader) string {
	if fileHeader == nil {
		return "application/octet-stream"
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(path.Base(strings.ReplaceAll(name, `\`, "/")))
	if name == "" || name == "." || name == "/" {
		return "upload"
	}
	return name
}
