// Package guest holds the fixed data shown to visitors who browse without an
// account. Records and totals use the same types as real data so listing,
// formatting and aggregation behave identically in both modes.
package guest

import (
	"time"

	"github.com/abduss/storeit/internal/file"
	"github.com/abduss/storeit/internal/filetype"
	"github.com/abduss/storeit/internal/usage"
	"github.com/google/uuid"
)

const (
	mb = 1024 * 1024

	// Quota is the storage allowance shown on the guest dashboard.
	Quota = 2 * 1024 * mb

	// OwnerName is the owner shown on every demo file.
	OwnerName = "Demo User"
)

var (
	namespace = uuid.MustParse("5f0c8f5e-3c1a-4a0e-9d55-6f2f1f3b7c21")
	ownerID   = uuid.NewSHA1(namespace, []byte("demo-user"))
)

var usageByType = map[filetype.Type]int64{
	filetype.Document: 2 * mb,
	filetype.Image:    5 * mb,
	filetype.Video:    20 * mb,
	filetype.Audio:    3 * mb,
	filetype.Other:    mb / 2,
}

type demoFile struct {
	name        string
	contentType string
	size        int64
	age         time.Duration
	url         string
}

var demoFiles = []demoFile{
	{name: "Project Proposal.pdf", contentType: "application/pdf", size: 1258291, age: 2 * time.Hour,
		url: "https://www.w3.org/WAI/ER/tests/xhtml/testfiles/resources/pdf/dummy.pdf"},
	{name: "Quarterly Report.pdf", contentType: "application/pdf", size: 838861, age: 26 * time.Hour,
		url: "https://file-examples.com/wp-content/uploads/2017/10/file-sample_150kB.pdf"},
	{name: "Mountain Sunrise.jpg", contentType: "image/jpeg", size: 2936013, age: 3 * time.Hour,
		url: "https://images.unsplash.com/photo-1506744038136-46273834b3fb"},
	{name: "Team Offsite.jpg", contentType: "image/jpeg", size: 2202010, age: 50 * time.Hour,
		url: "https://images.unsplash.com/photo-1465101046530-73398c7f28ca"},
	{name: "Product Demo.mp4", contentType: "video/mp4", size: 12582912, age: 5 * time.Hour,
		url: "https://www.w3schools.com/html/mov_bbb.mp4"},
	{name: "Onboarding Walkthrough.mp4", contentType: "video/mp4", size: 7340032, age: 74 * time.Hour,
		url: "https://sample-videos.com/video123/mp4/720/big_buck_bunny_720p_1mb.mp4"},
}

// Dataset serves the guest records. Dates are computed from now on every
// call, so the data always looks fresh.
type Dataset struct {
	now func() time.Time
}

// Option customizes a Dataset.
type Option func(*Dataset)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dataset) {
		d.now = now
	}
}

// NewDataset builds the guest dataset.
func NewDataset(opts ...Option) *Dataset {
	d := &Dataset{now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Files returns the demo records matching filter.
func (d *Dataset) Files(filter file.ListFilter) []file.Record {
	return filter.Apply(d.records())
}

// File looks up a demo record by id.
func (d *Dataset) File(id uuid.UUID) (file.Record, bool) {
	for _, rec := range d.records() {
		if rec.ID == id {
			return rec, true
		}
	}
	return file.Record{}, false
}

// Totals returns the fixed per-type usage with every latest date set to now.
func (d *Dataset) Totals() usage.Totals {
	now := d.now()
	byType := make(map[filetype.Type]usage.Bucket, len(usageByType))
	for typ, size := range usageByType {
		byType[typ] = usage.Bucket{SizeBytes: size, LatestDate: now}
	}
	return usage.NewTotals(byType, Quota)
}

func (d *Dataset) records() []file.Record {
	now := d.now()
	out := make([]file.Record, 0, len(demoFiles))
	for _, demo := range demoFiles {
		info := filetype.Classify(demo.name)
		id := uuid.NewSHA1(namespace, []byte(demo.name))
		created := now.Add(-demo.age)
		out = append(out, file.Record{
			ID:          id,
			OwnerID:     ownerID,
			Owner:       OwnerName,
			Name:        demo.name,
			Extension:   info.Extension,
			Type:        info.Type,
			SizeBytes:   demo.size,
			ContentType: demo.contentType,
			URL:         demo.url,
			DownloadURL: demo.url,
			Icon:        filetype.Icon(info.Extension, info.Type),
			CreatedAt:   created,
			UpdatedAt:   created,
		})
	}
	return out
}
