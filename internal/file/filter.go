package file

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/abduss/storeit/internal/filetype"
)

const maxListLimit = 100

// Sort fields accepted by ParseSort.
const (
	SortByCreatedAt = "createdAt"
	SortByName      = "name"
	SortBySize      = "size"
)

// SortOrder selects the listing order.
type SortOrder struct {
	Field string
	Desc  bool
}

// DefaultSort lists the newest files first.
var DefaultSort = SortOrder{Field: SortByCreatedAt, Desc: true}

// ParseSort reads values such as "name-asc" or "size-desc". Unknown values
// yield DefaultSort.
func ParseSort(value string) SortOrder {
	field, direction, found := strings.Cut(strings.TrimPrefix(value, "$"), "-")
	if !found {
		return DefaultSort
	}
	switch field {
	case SortByCreatedAt, SortByName, SortBySize:
	default:
		return DefaultSort
	}
	switch direction {
	case "asc":
		return SortOrder{Field: field}
	case "desc":
		return SortOrder{Field: field, Desc: true}
	}
	return DefaultSort
}

// String renders the order in the form ParseSort accepts.
func (o SortOrder) String() string {
	if o.Desc {
		return o.Field + "-desc"
	}
	return o.Field + "-asc"
}

// ListFilter narrows and orders a file listing.
type ListFilter struct {
	Types  []filetype.Type
	Search string
	Sort   SortOrder
	Limit  int
}

// ParseLimit converts a query value into a limit in [0, maxListLimit].
// Zero means unlimited.
func ParseLimit(value string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || limit < 0 {
		return 0
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func (f ListFilter) normalized() ListFilter {
	f.Search = strings.TrimSpace(f.Search)
	if f.Sort.Field == "" {
		f.Sort = DefaultSort
	}
	if f.Limit < 0 {
		f.Limit = 0
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	return f
}

// Apply filters, sorts and limits records in memory, with the same semantics
// the repository applies in SQL.
func (f ListFilter) Apply(records []Record) []Record {
	f = f.normalized()
	search := strings.ToLower(f.Search)

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if len(f.Types) > 0 && !slices.Contains(f.Types, rec.Type) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.Name), search) {
			continue
		}
		out = append(out, rec)
	}

	slices.SortStableFunc(out, func(a, b Record) int {
		var result int
		switch f.Sort.Field {
		case SortByName:
			result = strings.Compare(a.Name, b.Name)
		case SortBySize:
			result = cmp.Compare(a.SizeBytes, b.SizeBytes)
		default:
			result = a.CreatedAt.Compare(b.CreatedAt)
		}
		if f.Sort.Desc {
			result = -result
		}
		return result
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// TotalSize sums the sizes of records.
func TotalSize(records []Record) int64 {
	var total int64
	for _, rec := range records {
		total += rec.SizeBytes
	}
	return total
}
