// Package ingest owns the upload gate: extension and size validation,
// durable placement of uploaded bytes, and the drop-directory watcher.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/common"
)

// Service validates and stores incoming documents.
type Service struct {
	uploadDir string
	maxBytes  int64
	logger    *slog.Logger
}

func NewService(uploadDir string, maxBytes int64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBytes <= 0 {
		maxBytes = 50 << 20
	}
	return &Service{uploadDir: uploadDir, maxBytes: maxBytes, logger: logger}
}

// Validate checks filename and declared size against the accepted extension
// set and the upload cap. It returns the media type the case will carry.
func (s *Service) Validate(filename string, size int64) (constants.MediaType, error) {
	ext := constants.NormalizeExt(filepath.Ext(filename))
	media, ok := constants.MediaTypeForExt(ext)
	if !ok {
		return "", fmt.Errorf("%w: extension %q", common.ErrUnsupportedMedia, ext)
	}
	if size <= 0 {
		return "", fmt.Errorf("%w: empty upload", common.ErrInvalidInput)
	}
	if size > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d", common.ErrInvalidInput, size, s.maxBytes)
	}
	return media, nil
}

// Save streams the upload into the upload directory under a
// collision-free name and returns the stored path and content hash.
func (s *Service) Save(filename string, r io.Reader) (path, hashHex string, err error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeFilename(filename))
	path = filepath.Join(s.uploadDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, h), io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("store upload: %w", err)
	}
	if n > s.maxBytes {
		os.Remove(path)
		return "", "", fmt.Errorf("%w: upload exceeds limit of %d bytes", common.ErrInvalidInput, s.maxBytes)
	}
	if n == 0 {
		os.Remove(path)
		return "", "", fmt.Errorf("%w: empty upload", common.ErrInvalidInput)
	}

	hashHex = hex.EncodeToString(h.Sum(nil))
	s.logger.Info("upload stored", "path", path, "bytes", n, "sha256", hashHex[:12])
	return path, hashHex, nil
}

// sanitizeFilename keeps the base name and replaces anything that is not a
// plain filename character.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 || b.String() == "." || b.String() == ".." {
		return "upload"
	}
	return b.String()
}
