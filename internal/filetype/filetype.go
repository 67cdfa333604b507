package filetype

import "strings"

// Type is the semantic category assigned to a stored file.
type Type string

const (
	Document Type = "document"
	Image    Type = "image"
	Video    Type = "video"
	Audio    Type = "audio"
	Other    Type = "other"
)

// All lists every Type in display order.
var All = []Type{Document, Image, Video, Audio, Other}

// Info is the result of classifying a filename.
type Info struct {
	Type      Type   `json:"type"`
	Extension string `json:"extension"`
}

var documentExtensions = setOf(
	"pdf", "doc", "docx", "txt", "xls", "xlsx", "csv", "rtf", "ods", "ppt", "odp",
	"md", "html", "htm", "epub", "pages", "fig", "psd", "ai", "indd", "xd",
	"sketch", "afdesign", "afphoto",
)

var imageExtensions = setOf("jpg", "jpeg", "png", "gif", "bmp", "svg", "webp")

var videoExtensions = setOf("mp4", "avi", "mov", "mkv", "webm")

var audioExtensions = setOf("mp3", "wav", "ogg", "flac")

// Checked in order; the first set containing the extension wins.
var lookupOrder = []struct {
	typ  Type
	exts map[string]struct{}
}{
	{Document, documentExtensions},
	{Image, imageExtensions},
	{Video, videoExtensions},
	{Audio, audioExtensions},
}

// Classify derives the extension and Type of a filename. Names without a dot
// have an empty extension; unknown extensions classify as Other.
func Classify(name string) Info {
	ext := Extension(name)
	for _, group := range lookupOrder {
		if _, ok := group.exts[ext]; ok {
			return Info{Type: group.typ, Extension: ext}
		}
	}
	return Info{Type: Other, Extension: ext}
}

// Extension returns the lowercased text after the last dot of name.
func Extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	switch t {
	case Document, Image, Video, Audio, Other:
		return true
	}
	return false
}

func setOf(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
