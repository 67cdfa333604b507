package usage

import (
	"math"

	"github.com/abduss/storeit/internal/filetype"
	"github.com/abduss/storeit/internal/format"
)

type summaryCard struct {
	title string
	icon  string
	route string
}

// Cards in display order. Their routes partition filetype.All.
var summaryCards = []summaryCard{
	{title: "Documents", icon: "/assets/icons/file-document-light.svg", route: filetype.RouteDocuments},
	{title: "Images", icon: "/assets/icons/file-image-light.svg", route: filetype.RouteImages},
	{title: "Media", icon: "/assets/icons/file-video-light.svg", route: filetype.RouteMedia},
	{title: "Others", icon: "/assets/icons/file-other-light.svg", route: filetype.RouteOthers},
}

// Summarize projects per-type totals onto the four dashboard cards. The Media
// card combines video and audio: sizes add up and the later latest date wins,
// with audio taking ties.
func Summarize(t Totals) []SummaryItem {
	items := make([]SummaryItem, 0, len(summaryCards))
	for _, card := range summaryCards {
		types := filetype.TypesForRoute(card.route)
		combined := combine(t, types)

		item := SummaryItem{
			Title:       card.title,
			Icon:        card.icon,
			URL:         "/" + card.route,
			Types:       types,
			Size:        combined.SizeBytes,
			SizeLabel:   format.Size(combined.SizeBytes),
			LatestLabel: format.DateTime(combined.LatestDate),
		}
		if !combined.LatestDate.IsZero() {
			latest := combined.LatestDate
			item.LatestDate = &latest
		}
		items = append(items, item)
	}
	return items
}

func combine(t Totals, types []filetype.Type) Bucket {
	var out Bucket
	for i, typ := range types {
		bucket := t.Bucket(typ)
		out.SizeBytes += bucket.SizeBytes
		if i == 0 || !out.LatestDate.After(bucket.LatestDate) {
			out.LatestDate = bucket.LatestDate
		}
	}
	return out
}

// Percentage returns used as a share of all, rounded to two decimals.
func Percentage(used, all int64) float64 {
	if all <= 0 || used <= 0 {
		return 0
	}
	return math.Round(float64(used)/float64(all)*100*100) / 100
}

// BuildReport assembles the dashboard usage section from totals.
func BuildReport(t Totals) Report {
	return Report{
		Used:       t.Used,
		UsedLabel:  format.Size(t.Used),
		All:        t.All,
		AllLabel:   format.Size(t.All),
		Percentage: Percentage(t.Used, t.All),
		Summary:    Summarize(t),
	}
}
