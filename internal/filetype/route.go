package filetype

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Route segments used by the browse pages and dashboard links.
const (
	RouteDocuments = "documents"
	RouteImages    = "images"
	RouteMedia     = "media"
	RouteOthers    = "others"
)

var routeTypes = map[string][]Type{
	RouteDocuments: {Document},
	RouteImages:    {Image},
	RouteMedia:     {Video, Audio},
	RouteOthers:    {Other},
}

// TypesForRoute maps a browse segment to the types it lists. Unrecognized
// segments fall back to documents.
func TypesForRoute(segment string) []Type {
	types, ok := routeTypes[segment]
	if !ok {
		types = routeTypes[RouteDocuments]
	}
	out := make([]Type, len(types))
	copy(out, types)
	return out
}

// IsKnownRoute reports whether TypesForRoute has an explicit mapping for segment.
func IsKnownRoute(segment string) bool {
	_, ok := routeTypes[segment]
	return ok
}

// RouteTitle renders a segment as a page heading ("media" -> "Media").
func RouteTitle(segment string) string {
	return cases.Title(language.English).String(segment)
}
