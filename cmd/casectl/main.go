// casectl runs the summarization pipeline over a single local file and
// prints the resulting summary as JSON. No store, no queue; useful for
// checking extraction and summarization against one document.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/common"
	"github.com/nishant-rao/legal-summarizer/internal/docreader"
	"github.com/nishant-rao/legal-summarizer/internal/entity"
	"github.com/nishant-rao/legal-summarizer/internal/extract"
	"github.com/nishant-rao/legal-summarizer/internal/ner"
	"github.com/nishant-rao/legal-summarizer/internal/ocr"
	"github.com/nishant-rao/legal-summarizer/internal/pipeline"
	"github.com/nishant-rao/legal-summarizer/internal/stt"
	"github.com/nishant-rao/legal-summarizer/internal/summarize"
)

func main() {
	verbose := flag.Bool("v", false, "debug logging")
	timeout := flag.Duration("timeout", 5*time.Minute, "processing deadline")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "casectl [-v] [-timeout 5m] <document>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	media, ok := constants.MediaTypeForPath(path)
	if !ok {
		logger.Error("unsupported file extension", "path", path)
		os.Exit(2)
	}

	cfg := common.LoadConfig()

	reader := docreader.NewReader(logger)
	imageExtractor := ocr.NewExtractor(cfg.OCR, logger)
	transcriber := stt.NewTranscriber(cfg.STT, logger)
	router := extract.NewRouter(reader, imageExtractor, transcriber, logger)

	var entities ner.Extractor
	if cfg.NER.InferenceURL != "" {
		entities = ner.NewHTTPClient(cfg.NER.InferenceURL, cfg.NER.Timeout, logger)
	}

	processor := pipeline.NewProcessor(router, entities, summarize.NewEnsemble(logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	item := entity.QueueItem{
		CaseID:         entity.NewCaseID(),
		SourceLocation: path,
		MediaType:      media,
	}
	sum, err := processor.Process(ctx, item)
	if err != nil {
		logger.Error("processing failed", "path", filepath.Base(path), "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sum); err != nil {
		logger.Error("encode summary", "error", err)
		os.Exit(1)
	}
}
