package file

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/abduss/storeit/internal/filetype"
	"github.com/google/uuid"
)

func TestUploadStoresMetadataAndRecordsUsage(t *testing.T) {
	repo := newFakeRepo()
	usage := &fakeUsage{}
	objects := &fakeObjectStore{}
	var observed []filetype.Type
	service := NewService(repo, usage, objects,
		WithURLSigner(fakeSigner{}),
		WithUploadObserver(func(typ filetype.Type, sizeBytes int64) {
			observed = append(observed, typ)
		}),
	)

	ownerID := uuid.New()
	content := []byte("hello world")
	fileHeader := buildFileHeader(t, "file", "Notes.PDF", "application/pdf", content)

	rec, err := service.Upload(context.Background(), ownerID, fileHeader)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if rec.Name != "Notes.PDF" {
		t.Fatalf("unexpected filename: %s", rec.Name)
	}
	if rec.Type != filetype.Document || rec.Extension != "pdf" {
		t.Fatalf("unexpected classification: %s/%s", rec.Type, rec.Extension)
	}
	if rec.ObjectName != ownerID.String()+"/"+rec.ID.String() {
		t.Fatalf("unexpected object name: %s", rec.ObjectName)
	}
	sum := sha256.Sum256(content)
	if rec.Checksum != hex.EncodeToString(sum[:]) {
		t.Fatalf("unexpected checksum: %s", rec.Checksum)
	}
	if rec.URL != "view://"+rec.ObjectName || rec.DownloadURL != "download://Notes.PDF" {
		t.Fatalf("expected signed urls, got %q and %q", rec.URL, rec.DownloadURL)
	}
	if rec.Icon != "/assets/icons/file-pdf.svg" {
		t.Fatalf("unexpected icon: %s", rec.Icon)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected metadata stored, got %d", len(repo.records))
	}
	if objects.putCount != 1 {
		t.Fatalf("expected Put to be called once, got %d", objects.putCount)
	}
	if usage.snapshots != 1 {
		t.Fatalf("expected one usage snapshot, got %d", usage.snapshots)
	}
	if len(observed) != 1 || observed[0] != filetype.Document {
		t.Fatalf("expected upload observed once as document, got %v", observed)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	repo := newFakeRepo()
	objects := &fakeObjectStore{}
	service := NewService(repo, &fakeUsage{}, objects, WithMaxFileSize(4))

	fileHeader := buildFileHeader(t, "file", "big.mp4", "video/mp4", []byte("too many bytes"))

	_, err := service.Upload(context.Background(), uuid.New(), fileHeader)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if objects.putCount != 0 {
		t.Fatalf("expected no object stored")
	}
}

func TestUploadRejectsWhenQuotaExceeded(t *testing.T) {
	repo := newFakeRepo()
	usage := &fakeUsage{used: 10}
	objects := &fakeObjectStore{}
	service := NewService(repo, usage, objects, WithQuota(15))

	fileHeader := buildFileHeader(t, "file", "song.mp3", "audio/mpeg", []byte("123456"))

	_, err := service.Upload(context.Background(), uuid.New(), fileHeader)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if objects.putCount != 0 || len(repo.records) != 0 {
		t.Fatalf("expected nothing stored")
	}
}

func TestUploadMissingPayload(t *testing.T) {
	service := NewService(newFakeRepo(), &fakeUsage{}, &fakeObjectStore{})
	if _, err := service.Upload(context.Background(), uuid.New(), nil); !errors.Is(err, ErrMissingPayload) {
		t.Fatalf("expected ErrMissingPayload, got %v", err)
	}
}

func TestUploadRemovesObjectWhenMetadataFails(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("db down")
	objects := &fakeObjectStore{}
	service := NewService(repo, &fakeUsage{}, objects)

	fileHeader := buildFileHeader(t, "file", "notes.txt", "text/plain", []byte("hello"))
	if _, err := service.Upload(context.Background(), uuid.New(), fileHeader); err == nil {
		t.Fatalf("expected error")
	}
	if objects.removeCount != 1 {
		t.Fatalf("expected orphaned object removed, got %d removals", objects.removeCount)
	}
}

func TestSigningFailureDoesNotFailUpload(t *testing.T) {
	service := NewService(newFakeRepo(), &fakeUsage{}, &fakeObjectStore{}, WithURLSigner(fakeSigner{err: errors.New("offline")}))

	fileHeader := buildFileHeader(t, "file", "photo.jpg", "image/jpeg", []byte("jpeg"))
	rec, err := service.Upload(context.Background(), uuid.New(), fileHeader)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.URL != "" {
		t.Fatalf("expected empty url, got %q", rec.URL)
	}
	if rec.Icon != "/assets/icons/file-image.svg" {
		t.Fatalf("expected icon to be set, got %q", rec.Icon)
	}
}

func TestRenameKeepsExtensionAndReclassifies(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, &fakeUsage{}, &fakeObjectStore{})

	ownerID := uuid.New()
	fileHeader := buildFileHeader(t, "file", "report.pdf", "application/pdf", []byte("pdf"))
	rec, err := service.Upload(context.Background(), ownerID, fileHeader)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	renamed, err := service.Rename(context.Background(), ownerID, rec.ID, "  summary ")
	if err != nil {
		t.Fatalf("Rename returned error: %v", err)
	}
	if renamed.Name != "summary.pdf" || renamed.Type != filetype.Document {
		t.Fatalf("unexpected rename result: %s (%s)", renamed.Name, renamed.Type)
	}

	renamed, err = service.Rename(context.Background(), ownerID, rec.ID, "cover.png")
	if err != nil {
		t.Fatalf("Rename returned error: %v", err)
	}
	if renamed.Extension != "png" || renamed.Type != filetype.Image {
		t.Fatalf("expected image classification, got %s (%s)", renamed.Extension, renamed.Type)
	}
}

func TestRenameRejectsEmptyName(t *testing.T) {
	service := NewService(newFakeRepo(), &fakeUsage{}, &fakeObjectStore{})
	if _, err := service.Rename(context.Background(), uuid.New(), uuid.New(), "   "); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestRenameRejectsPathOnlyNames(t *testing.T) {
	service := NewService(newFakeRepo(), &fakeUsage{}, &fakeObjectStore{})
	for _, name := range []string{"/", "..", ".", "//", "a/.."} {
		if _, err := service.Rename(context.Background(), uuid.New(), uuid.New(), name); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("Rename(%q): expected ErrInvalidName, got %v", name, err)
		}
	}
}

func TestRenameUnknownFile(t *testing.T) {
	service := NewService(newFakeRepo(), &fakeUsage{}, &fakeObjectStore{})
	if _, err := service.Rename(context.Background(), uuid.New(), uuid.New(), "x.txt"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestDeleteRemovesMetadataAndObject(t *testing.T) {
	repo := newFakeRepo()
	usage := &fakeUsage{}
	objects := &fakeObjectStore{reader: bytes.NewReader([]byte("payload"))}
	service := NewService(repo, usage, objects)

	ownerID := uuid.New()
	fileHeader := buildFileHeader(t, "file", "data.bin", "application/octet-stream", []byte("payload"))
	rec, err := service.Upload(context.Background(), ownerID, fileHeader)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if err := service.Delete(context.Background(), ownerID, rec.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if objects.removeCount != 1 {
		t.Fatalf("expected Remove called once, got %d", objects.removeCount)
	}
	if len(repo.records) != 0 {
		t.Fatalf("expected metadata removed, remaining %d", len(repo.records))
	}
	if usage.snapshots != 2 {
		t.Fatalf("expected a snapshot per mutation, got %d", usage.snapshots)
	}
}

func TestDownloadReturnsObject(t *testing.T) {
	repo := newFakeRepo()
	objects := &fakeObjectStore{reader: bytes.NewReader([]byte("payload"))}
	service := NewService(repo, &fakeUsage{}, objects)

	ownerID := uuid.New()
	rec, err := service.Upload(context.Background(), ownerID, buildFileHeader(t, "file", "a.txt", "text/plain", []byte("payload")))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	got, reader, err := service.Download(context.Background(), ownerID, rec.ID)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	defer reader.Close()

	data, _ := io.ReadAll(reader)
	if got.ID != rec.ID || string(data) != "payload" {
		t.Fatalf("unexpected download: %s %q", got.ID, data)
	}

	if _, _, err := service.Download(context.Background(), uuid.New(), rec.ID); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound for another owner, got %v", err)
	}
}

func TestRecentLimitsToTen(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, &fakeUsage{}, &fakeObjectStore{})

	ownerID := uuid.New()
	for i := 0; i < 12; i++ {
		if _, err := service.Upload(context.Background(), ownerID, buildFileHeader(t, "file", "f.txt", "text/plain", []byte("x"))); err != nil {
			t.Fatalf("Upload returned error: %v", err)
		}
	}

	recent, err := service.Recent(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(recent) != 10 {
		t.Fatalf("expected 10 recent files, got %d", len(recent))
	}
}

// --- helpers & fakes ---

func buildFileHeader(t *testing.T, fieldName, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	body, formContentType := buildMultipartBody(t, fieldName, filename, contentType, content)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", formContentType)
	if err := req.ParseMultipartForm(int64(len(content)) + 1024); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}

	return req.MultipartForm.File[fieldName][0]
}

func buildMultipartBody(t *testing.T, fieldName, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="` + fieldName + `"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart error: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

type fakeRepo struct {
	records   map[uuid.UUID]Record
	createErr error
	clock     time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records: make(map[uuid.UUID]Record),
		clock:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) Create(ctx context.Context, rec Record) (Record, error) {
	if f.createErr != nil {
		return Record{}, f.createErr
	}
	f.clock = f.clock.Add(time.Minute)
	rec.CreatedAt = f.clock
	rec.UpdatedAt = f.clock
	rec.Owner = "Test User"
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeRepo) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Record, error) {
	var list []Record
	for _, rec := range f.records {
		if rec.OwnerID == ownerID {
			list = append(list, rec)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID.String() < list[j].ID.String() })
	return filter.Apply(list), nil
}

func (f *fakeRepo) Get(ctx context.Context, ownerID, fileID uuid.UUID) (Record, error) {
	rec, ok := f.records[fileID]
	if !ok || rec.OwnerID != ownerID {
		return Record{}, ErrFileNotFound
	}
	return rec, nil
}

func (f *fakeRepo) Rename(ctx context.Context, ownerID, fileID uuid.UUID, name string, info filetype.Info) (Record, error) {
	rec, err := f.Get(ctx, ownerID, fileID)
	if err != nil {
		return Record{}, err
	}
	rec.Name = name
	rec.Extension = info.Extension
	rec.Type = info.Type
	f.records[fileID] = rec
	return rec, nil
}

func (f *fakeRepo) Delete(ctx context.Context, ownerID, fileID uuid.UUID) (Record, error) {
	rec, err := f.Get(ctx, ownerID, fileID)
	if err != nil {
		return Record{}, err
	}
	delete(f.records, fileID)
	return rec, nil
}

type fakeUsage struct {
	used      int64
	snapshots int
}

func (f *fakeUsage) Used(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return f.used, nil
}

func (f *fakeUsage) RecordSnapshot(ctx context.Context, ownerID uuid.UUID) error {
	f.snapshots++
	return nil
}

type fakeObjectStore struct {
	putCount    int
	removeCount int
	reader      io.Reader
}

func (f *fakeObjectStore) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (int64, error) {
	f.putCount++
	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

func (f *fakeObjectStore) Get(ctx context.Context, objectName string) (io.ReadCloser, error) {
	if f.reader == nil {
		f.reader = bytes.NewReader([]byte{})
	}
	return io.NopCloser(f.reader), nil
}

func (f *fakeObjectStore) Remove(ctx context.Context, objectName string) error {
	f.removeCount++
	return nil
}

type fakeSigner struct {
	err error
}

func (f fakeSigner) ViewURL(ctx context.Context, objectName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "view://" + objectName, nil
}

func (f fakeSigner) DownloadURL(ctx context.Context, objectName, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "download://" + filename, nil
}
