package filetype

const iconDir = "/assets/icons/"

// DefaultIcon is used when neither the extension nor the type has an icon.
const DefaultIcon = iconDir + "file-other.svg"

var extensionIcons = map[string]string{
	"pdf":  iconDir + "file-pdf.svg",
	"doc":  iconDir + "file-doc.svg",
	"docx": iconDir + "file-docx.svg",
	"csv":  iconDir + "file-csv.svg",
	"txt":  iconDir + "file-txt.svg",
	"xls":  iconDir + "file-document.svg",
	"xlsx": iconDir + "file-document.svg",
	"svg":  iconDir + "file-image.svg",
	"mkv":  iconDir + "file-video.svg",
	"mov":  iconDir + "file-video.svg",
	"avi":  iconDir + "file-video.svg",
	"wmv":  iconDir + "file-video.svg",
	"mp4":  iconDir + "file-video.svg",
	"flv":  iconDir + "file-video.svg",
	"webm": iconDir + "file-video.svg",
	"m4v":  iconDir + "file-video.svg",
	"3gp":  iconDir + "file-video.svg",
	"mp3":  iconDir + "file-audio.svg",
	"mpeg": iconDir + "file-audio.svg",
	"wav":  iconDir + "file-audio.svg",
	"aac":  iconDir + "file-audio.svg",
	"flac": iconDir + "file-audio.svg",
	"ogg":  iconDir + "file-audio.svg",
	"wma":  iconDir + "file-audio.svg",
	"m4a":  iconDir + "file-audio.svg",
	"aiff": iconDir + "file-audio.svg",
	"alac": iconDir + "file-audio.svg",
}

var typeIcons = map[Type]string{
	Image:    iconDir + "file-image.svg",
	Document: iconDir + "file-document.svg",
	Video:    iconDir + "file-video.svg",
	Audio:    iconDir + "file-audio.svg",
}

// Icon picks the icon path for a file: the extension table first, then the
// type table, then DefaultIcon.
func Icon(extension string, t Type) string {
	if icon, ok := extensionIcons[extension]; ok {
		return icon
	}
	if icon, ok := typeIcons[t]; ok {
		return icon
	}
	return DefaultIcon
}
