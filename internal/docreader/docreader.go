// Package docreader extracts text from text-class sources: plain files,
// Word archives, and HTML pages. Binary formats that need OCR or speech
// recognition live in their own packages.
package docreader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nishant-rao/legal-summarizer/constants"
)

type Reader struct {
	logger *slog.Logger
}

func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// ExtractText dispatches on extension. Unknown text-class extensions are
// read as plain text rather than rejected; the upload gate has already
// vetted the extension list.
func (r *Reader) ExtractText(path string) (string, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	r.logger.Debug("docreader.extract.start", "path", path, "ext", ext)
	switch ext {
	// Only docx is a ZIP archive; legacy .doc is OLE and falls through to
	// the plain reader.
	case "docx":
		return extractDocx(path)
	case "html", "htm":
		return extractHTML(path)
	default:
		return extractPlain(path)
	}
}

func extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return string(data), nil
}
