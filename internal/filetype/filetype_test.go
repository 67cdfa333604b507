package filetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, Info{Type: Document, Extension: "pdf"}, Classify("report.PDF"))
}

func TestClassifyKnownExtensions(t *testing.T) {
	cases := map[string]Type{
		"notes.md":          Document,
		"deck.afdesign":     Document,
		"photo.JPEG":        Image,
		"logo.svg":          Image,
		"clip.webm":         Video,
		"movie.final.mkv":   Video,
		"song.flac":         Audio,
		"voice.Ogg":         Audio,
		"archive.tar.gz":    Other,
		"binary.exe":        Other,
		"trailing-dot.":     Other,
		"no-extension-here": Other,
		"":                  Other,
	}
	for name, want := range cases {
		assert.Equal(t, want, Classify(name).Type, name)
	}
}

func TestClassifyMissingExtension(t *testing.T) {
	info := Classify("Makefile")
	assert.Equal(t, Other, info.Type)
	assert.Empty(t, info.Extension)
}

func TestExtensionTakesLastSegment(t *testing.T) {
	assert.Equal(t, "gz", Extension("backup.TAR.GZ"))
	assert.Equal(t, "bashrc", Extension(".bashrc"))
}

func TestEveryMembershipSetClassifiesToItsType(t *testing.T) {
	for _, group := range lookupOrder {
		for ext := range group.exts {
			assert.Equal(t, group.typ, Classify("file."+ext).Type, ext)
		}
	}
}

func TestTypesForRoute(t *testing.T) {
	assert.Equal(t, []Type{Document}, TypesForRoute("documents"))
	assert.Equal(t, []Type{Image}, TypesForRoute("images"))
	assert.Equal(t, []Type{Video, Audio}, TypesForRoute("media"))
	assert.Equal(t, []Type{Other}, TypesForRoute("others"))
}

func TestTypesForRouteFallsBackToDocuments(t *testing.T) {
	assert.Equal(t, []Type{Document}, TypesForRoute("unknown"))
	assert.Equal(t, []Type{Document}, TypesForRoute(""))
	assert.False(t, IsKnownRoute("Media"))
	assert.True(t, IsKnownRoute("media"))
}

func TestTypesForRouteReturnsCopy(t *testing.T) {
	types := TypesForRoute("media")
	types[0] = Other
	assert.Equal(t, []Type{Video, Audio}, TypesForRoute("media"))
}

func TestRouteTitle(t *testing.T) {
	assert.Equal(t, "Media", RouteTitle("media"))
	assert.Equal(t, "Documents", RouteTitle("documents"))
}

func TestIcon(t *testing.T) {
	assert.Equal(t, "/assets/icons/file-pdf.svg", Icon("pdf", Document))
	assert.Equal(t, "/assets/icons/file-audio.svg", Icon("m4a", Other))
	assert.Equal(t, "/assets/icons/file-image.svg", Icon("png", Image))
	assert.Equal(t, "/assets/icons/file-document.svg", Icon("md", Document))
	assert.Equal(t, DefaultIcon, Icon("zip", Other))
	assert.Equal(t, DefaultIcon, Icon("", ""))
}

func TestTypeValid(t *testing.T) {
	for _, typ := range All {
		assert.True(t, typ.Valid())
	}
	assert.False(t, Type("archive").Valid())
}
