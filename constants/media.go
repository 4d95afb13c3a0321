package constants

import (
	"path/filepath"
	"strings"
)

// MediaType determines which extraction collaborator handles a case.
// Fixed at case creation.
type MediaType string

const (
	MediaText  MediaType = "text"
	MediaImage MediaType = "image"
	MediaAudio MediaType = "audio"
)

func (m MediaType) Valid() bool {
	return m == MediaText || m == MediaImage || m == MediaAudio
}

// extToMedia maps a normalized file extension to the media type that owns it.
// PDFs route through OCR because legal filings are routinely scanned.
var extToMedia = map[string]MediaType{
	"txt":  MediaText,
	"doc":  MediaText,
	"docx": MediaText,
	"html": MediaText,
	"htm":  MediaText,
	"md":   MediaText,

	"pdf":  MediaImage,
	"jpg":  MediaImage,
	"jpeg": MediaImage,
	"png":  MediaImage,
	"tiff": MediaImage,
	"bmp":  MediaImage,

	"mp3":  MediaAudio,
	"wav":  MediaAudio,
	"m4a":  MediaAudio,
	"ogg":  MediaAudio,
	"flac": MediaAudio,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MediaTypeForExt resolves a file extension to its media type.
func MediaTypeForExt(ext string) (MediaType, bool) {
	m, ok := extToMedia[NormalizeExt(ext)]
	return m, ok
}

// MediaTypeForPath resolves a file path to its media type.
func MediaTypeForPath(path string) (MediaType, bool) {
	return MediaTypeForExt(filepath.Ext(path))
}

// AllowedExtensions returns the extensions accepted for a given media type.
func AllowedExtensions(m MediaType) []string {
	var out []string
	for ext, mt := range extToMedia {
		if mt == m {
			out = append(out, ext)
		}
	}
	return out
}
