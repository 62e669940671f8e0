package format

import (
	"path"
	"strings"
)

type FileType struct {
	Label    string
	Category string
}

var fileTypes = map[string]FileType{
	"docx": {"Word", "Document"},
	"doc":  {"Word", "Document"},
	"pdf":  {"PDF", "Document"},
	"txt":  {"Text", "Document"},
	"rtf":  {"RTF", "Document"},
	"odt":  {"ODT", "Document"},

	"xlsx": {"Excel", "Spreadsheet"},
	"xls":  {"Excel", "Spreadsheet"},
	"csv":  {"CSV", "Spreadsheet"},
	"ods":  {"ODS", "Spreadsheet"},

	"pptx": {"PowerPoint", "Presentation"},
	"ppt":  {"PowerPoint", "Presentation"},
	"odp":  {"ODP", "Presentation"},

	"md":   {"Markdown", "Code"},
	"html": {"HTML", "Code"},
	"css":  {"CSS", "Code"},
	"js":   {"JavaScript", "Code"},
	"ts":   {"TypeScript", "Code"},
	"tsx":  {"TSX", "Code"},
	"jsx":  {"JSX", "Code"},
	"py":   {"Python", "Code"},

	"json": {"JSON", "Data"},
	"yaml": {"YAML", "Data"},
	"yml":  {"YAML", "Data"},
	"xml":  {"XML", "Data"},
	"sql":  {"SQL", "Data"},

	"png":  {"PNG", "Image"},
	"jpg":  {"JPEG", "Image"},
	"jpeg": {"JPEG", "Image"},
	"gif":  {"GIF", "Image"},
	"webp": {"WebP", "Image"},
	"svg":  {"SVG", "Image"},
	"ico":  {"Icon", "Image"},

	"mp3": {"MP3", "Audio"},
	"wav": {"WAV", "Audio"},
	"ogg": {"OGG", "Audio"},
	"m4a": {"M4A", "Audio"},

	"mp4":  {"MP4", "Video"},
	"webm": {"WebM", "Video"},
	"mov":  {"MOV", "Video"},
	"avi":  {"AVI", "Video"},

	"zip": {"ZIP", "Archive"},
	"rar": {"RAR", "Archive"},
	"tar": {"TAR", "Archive"},
	"gz":  {"GZIP", "Archive"},
}

// LookupFile maps a path's extension to a display label and category. Unknown
// extensions fall back to Binary or Other depending on isBinary.
func LookupFile(p string, isBinary bool) FileType {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if ft, ok := fileTypes[ext]; ok {
		return ft
	}
	if isBinary {
		return FileType{Label: labelOr(ext, "Binary"), Category: "Binary"}
	}
	return FileType{Label: labelOr(ext, "File"), Category: "Other"}
}

func labelOr(ext, fallback string) string {
	if ext == "" {
		return fallback
	}
	return strings.ToUpper(ext)
}

// FileName returns the last path element.
func FileName(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 && i < len(p)-1 {
		return p[i+1:]
	}
	return p
}
