// Package ocr recovers text from image-class sources (PDFs and scans) via the
// poppler and tesseract command-line tools.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/common"
)

type Extractor struct {
	cfg    common.OCRConfig
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg common.OCRConfig, logger *slog.Logger) *Extractor {
	return newExtractor(cfg, ExecRunner{Timeout: cfg.CommandTimeout, Logger: logger}, logger)
}

func newExtractor(cfg common.OCRConfig, runner Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: runner, logger: logger}
}

// ExtractText picks a strategy by extension. PDFs try their embedded text
// layer first and fall back to rasterize-and-OCR when that layer is blank,
// which is what scanned FIR copies look like.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("ocr.extract.start", "path", path, "ext", ext)
	if ext == "pdf" {
		return e.extractPDF(ctx, path)
	}
	return e.tesseract(ctx, path)
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}
	if text := string(out); strings.TrimSpace(text) != "" {
		e.logger.Debug("ocr.extract.pdf_text", "path", path, "bytes", len(text))
		return text, nil
	}
	e.logger.Info("ocr.extract.pdf_empty_text_layer", "path", path)
	return e.rasterOCR(ctx, path)
}

func (e *Extractor) rasterOCR(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp(e.cfg.WorkDir, "ls-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("ocr.tmpdir.remove", "path", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	pages, _ := filepath.Glob(prefix + "-*.png")
	if len(pages) == 0 {
		return "", fmt.Errorf("pdftoppm rendered no pages for %s", filepath.Base(path))
	}
	// Numeric order, not lexical: page-10 reads after page-9.
	sort.Slice(pages, func(i, j int) bool { return pageIndex(pages[i]) < pageIndex(pages[j]) })

	var b strings.Builder
	for _, img := range pages {
		txt, err := e.tesseract(ctx, img)
		if err != nil {
			e.logger.Warn("ocr.page.failed", "page", filepath.Base(img), "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("ocr produced no text across %d pages", len(pages))
	}
	return b.String(), nil
}

// pageIndex parses the numeric suffix pdftoppm appends to rendered pages.
func pageIndex(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	i := strings.LastIndexByte(base, '-')
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(base[i+1:])
	if err != nil {
		return 0
	}
	return n
}

func (e *Extractor) tesseract(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.Language}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
