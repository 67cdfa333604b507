package usage

import (
	"time"

	"github.com/abduss/storeit/internal/filetype"
)

// Bucket is the aggregate storage footprint of one file type.
type Bucket struct {
	SizeBytes  int64     `json:"size"`
	LatestDate time.Time `json:"latest_date"`
}

// Totals carries per-type buckets for one owner together with the overall
// usage and quota.
type Totals struct {
	ByType map[filetype.Type]Bucket
	Used   int64
	All    int64
}

// NewTotals computes Used from the per-type buckets.
func NewTotals(byType map[filetype.Type]Bucket, all int64) Totals {
	var used int64
	for _, bucket := range byType {
		used += bucket.SizeBytes
	}
	return Totals{ByType: byType, Used: used, All: all}
}

// Bucket returns the bucket for t, or a zero bucket when t has no files.
func (t Totals) Bucket(typ filetype.Type) Bucket {
	return t.ByType[typ]
}

// SummaryItem is one dashboard card.
type SummaryItem struct {
	Title       string          `json:"title"`
	Icon        string          `json:"icon"`
	URL         string          `json:"url"`
	Types       []filetype.Type `json:"types"`
	Size        int64           `json:"size"`
	SizeLabel   string          `json:"size_label"`
	LatestDate  *time.Time      `json:"latest_date,omitempty"`
	LatestLabel string          `json:"latest_label"`
}

// Report is the usage section of the dashboard.
type Report struct {
	Used       int64         `json:"used"`
	UsedLabel  string        `json:"used_label"`
	All        int64         `json:"all"`
	AllLabel   string        `json:"all_label"`
	Percentage float64       `json:"percentage"`
	Summary    []SummaryItem `json:"summary"`
}
