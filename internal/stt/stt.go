// Package stt transcribes audio statements with the whisper.cpp CLI.
package stt

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/common"
	"github.com/nishant-rao/legal-summarizer/internal/ocr"
)

type Transcriber struct {
	cfg    common.STTConfig
	runner ocr.Runner
	logger *slog.Logger
}

func NewTranscriber(cfg common.STTConfig, logger *slog.Logger) *Transcriber {
	return newTranscriber(cfg, ocr.ExecRunner{Timeout: cfg.CommandTimeout, Logger: logger}, logger)
}

func newTranscriber(cfg common.STTConfig, runner ocr.Runner, logger *slog.Logger) *Transcriber {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Binary == "" {
		cfg.Binary = "whisper-cli"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return &Transcriber{cfg: cfg, runner: runner, logger: logger}
}

// Transcribe runs the CLI and returns its plain-text transcript.
func (t *Transcriber) Transcribe(ctx context.Context, path string) (string, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if media, ok := constants.MediaTypeForExt(ext); !ok || media != constants.MediaAudio {
		return "", fmt.Errorf("unsupported audio extension: %q", ext)
	}

	args := []string{"-l", t.cfg.Language, "-nt"}
	if t.cfg.ModelPath != "" {
		args = append(args, "-m", t.cfg.ModelPath)
	}
	args = append(args, "-f", path)

	// whisper-cli -l en -nt -m <model> -f <audio>
	out, errb, err := t.runner.Run(ctx, t.cfg.Binary, args...)
	if err != nil {
		return "", fmt.Errorf("whisper: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	transcript := strings.TrimSpace(string(out))
	t.logger.Debug("stt.transcribe.ok", "path", path, "bytes", len(transcript))
	return transcript, nil
}
