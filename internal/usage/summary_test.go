package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abduss/storeit/internal/filetype"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSummarizeCombinesMedia(t *testing.T) {
	totals := NewTotals(map[filetype.Type]Bucket{
		filetype.Video: {SizeBytes: 100, LatestDate: date("2024-01-01")},
		filetype.Audio: {SizeBytes: 50, LatestDate: date("2024-02-01")},
	}, 0)

	items := Summarize(totals)
	require.Len(t, items, 4)

	media := items[2]
	assert.Equal(t, "Media", media.Title)
	assert.Equal(t, int64(150), media.Size)
	require.NotNil(t, media.LatestDate)
	assert.Equal(t, date("2024-02-01"), *media.LatestDate)
	assert.Equal(t, "/media", media.URL)
	assert.Equal(t, []filetype.Type{filetype.Video, filetype.Audio}, media.Types)
}

func TestSummarizeMediaPrefersLaterVideo(t *testing.T) {
	totals := NewTotals(map[filetype.Type]Bucket{
		filetype.Video: {SizeBytes: 1, LatestDate: date("2024-03-01")},
		filetype.Audio: {SizeBytes: 2, LatestDate: date("2024-02-01")},
	}, 0)

	media := Summarize(totals)[2]
	assert.Equal(t, date("2024-03-01"), *media.LatestDate)
}

func TestSummarizeMediaUsesOnlyPopulatedSide(t *testing.T) {
	totals := NewTotals(map[filetype.Type]Bucket{
		filetype.Video: {SizeBytes: 10, LatestDate: date("2024-03-01")},
	}, 0)

	media := Summarize(totals)[2]
	assert.Equal(t, int64(10), media.Size)
	assert.Equal(t, date("2024-03-01"), *media.LatestDate)
}

func TestSummarizeOrderAndLabels(t *testing.T) {
	totals := NewTotals(map[filetype.Type]Bucket{
		filetype.Document: {SizeBytes: 2 * 1024 * 1024, LatestDate: time.Date(2024, 5, 6, 14, 7, 0, 0, time.UTC)},
		filetype.Image:    {SizeBytes: 1024},
	}, 0)

	items := Summarize(totals)
	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	assert.Equal(t, []string{"Documents", "Images", "Media", "Others"}, titles)

	assert.Equal(t, "2.0 MB", items[0].SizeLabel)
	assert.Equal(t, "2:07pm, 6 May", items[0].LatestLabel)
	assert.Equal(t, "1.0 KB", items[1].SizeLabel)
	assert.Nil(t, items[1].LatestDate)
	assert.Equal(t, "—", items[1].LatestLabel)
	assert.Equal(t, "0 Bytes", items[3].SizeLabel)
}

func TestSummaryCardsPartitionTypes(t *testing.T) {
	seen := make(map[filetype.Type]int)
	for _, item := range Summarize(Totals{}) {
		for _, typ := range item.Types {
			seen[typ]++
		}
	}
	for _, typ := range filetype.All {
		assert.Equal(t, 1, seen[typ], "type %s must belong to exactly one card", typ)
	}
	assert.Len(t, seen, len(filetype.All))
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	byType := map[filetype.Type]Bucket{
		filetype.Video: {SizeBytes: 100, LatestDate: date("2024-01-01")},
		filetype.Audio: {SizeBytes: 50, LatestDate: date("2024-02-01")},
	}
	Summarize(NewTotals(byType, 0))

	assert.Len(t, byType, 2)
	assert.Equal(t, int64(100), byType[filetype.Video].SizeBytes)
	assert.Equal(t, date("2024-01-01"), byType[filetype.Video].LatestDate)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 100))
	assert.Equal(t, 0.0, Percentage(50, 0))
	assert.Equal(t, 50.0, Percentage(50, 100))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 3.13, Percentage(1, 32), "halves round up")
	assert.Equal(t, 1.49, Percentage(32_000_000, 2*1024*1024*1024))
}

func TestBuildReport(t *testing.T) {
	totals := NewTotals(map[filetype.Type]Bucket{
		filetype.Document: {SizeBytes: 512 * 1024},
		filetype.Other:    {SizeBytes: 512 * 1024},
	}, 2*1024*1024*1024)

	report := BuildReport(totals)
	assert.Equal(t, int64(1024*1024), report.Used)
	assert.Equal(t, "1.0 MB", report.UsedLabel)
	assert.Equal(t, "2.0 GB", report.AllLabel)
	assert.Equal(t, 0.05, report.Percentage)
	assert.Len(t, report.Summary, 4)
}

func TestServiceReport(t *testing.T) {
	ownerID := uuid.New()
	repo := &fakeTotalsStore{totals: map[uuid.UUID]map[filetype.Type]Bucket{
		ownerID: {filetype.Image: {SizeBytes: 2048, LatestDate: date("2024-04-01")}},
	}}
	service := NewService(repo, 4096)

	report, err := service.Report(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), report.Used)
	assert.Equal(t, 50.0, report.Percentage)
	assert.Equal(t, "2.0 KB", report.Summary[1].SizeLabel)
	assert.Equal(t, int64(4096), service.Quota())
}

func TestServiceReportPropagatesErrors(t *testing.T) {
	service := NewService(&fakeTotalsStore{err: errors.New("db down")}, 1)

	_, err := service.Report(context.Background(), uuid.New())
	assert.EqualError(t, err, "db down")
}

type fakeTotalsStore struct {
	totals map[uuid.UUID]map[filetype.Type]Bucket
	err    error
}

func (f *fakeTotalsStore) Totals(ctx context.Context, ownerID uuid.UUID) (map[filetype.Type]Bucket, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.totals[ownerID], nil
}
