// Package extract routes a source file to the extraction collaborator that
// matches its media class.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/common"
)

// TextReader extracts text-class sources (txt, docx, html). Local IO only,
// so no context.
type TextReader interface {
	ExtractText(path string) (string, error)
}

// ImageExtractor recovers text from image-class sources (PDFs, scans).
type ImageExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Transcriber turns audio statements into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Router picks the collaborator for a media type. A nil collaborator means
// that media class is not configured on this deployment; routing to it is an
// extraction failure, not a panic.
type Router struct {
	text   TextReader
	image  ImageExtractor
	audio  Transcriber
	logger *slog.Logger
}

func NewRouter(text TextReader, image ImageExtractor, audio Transcriber, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{text: text, image: image, audio: audio, logger: logger}
}

// Extract dispatches by media type and returns the raw extracted text.
// Collaborator failures come back as *common.ExtractionError so the caller
// can attribute them to the media class.
func (r *Router) Extract(ctx context.Context, path string, media constants.MediaType) (string, error) {
	var (
		text string
		err  error
	)
	switch media {
	case constants.MediaText:
		if r.text == nil {
			return "", common.NewExtractionError(media, fmt.Errorf("no text reader configured"))
		}
		text, err = r.text.ExtractText(path)
	case constants.MediaImage:
		if r.image == nil {
			return "", common.NewExtractionError(media, fmt.Errorf("no image extractor configured"))
		}
		text, err = r.image.ExtractText(ctx, path)
	case constants.MediaAudio:
		if r.audio == nil {
			return "", common.NewExtractionError(media, fmt.Errorf("no transcriber configured"))
		}
		text, err = r.audio.Transcribe(ctx, path)
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedMedia, media)
	}
	if err != nil {
		r.logger.Error("extract.failed", "path", path, "media", media, "error", err)
		return "", common.NewExtractionError(media, err)
	}
	r.logger.Debug("extract.ok", "path", path, "media", media, "bytes", len(text))
	return text, nil
}
