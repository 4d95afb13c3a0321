package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/async"
	"github.com/nishant-rao/legal-summarizer/internal/common"
	"github.com/nishant-rao/legal-summarizer/internal/docreader"
	"github.com/nishant-rao/legal-summarizer/internal/export"
	"github.com/nishant-rao/legal-summarizer/internal/extract"
	"github.com/nishant-rao/legal-summarizer/internal/ingest"
	"github.com/nishant-rao/legal-summarizer/internal/ner"
	"github.com/nishant-rao/legal-summarizer/internal/ocr"
	"github.com/nishant-rao/legal-summarizer/internal/pipeline"
	"github.com/nishant-rao/legal-summarizer/internal/repository"
	"github.com/nishant-rao/legal-summarizer/internal/server"
	"github.com/nishant-rao/legal-summarizer/internal/stt"
	"github.com/nishant-rao/legal-summarizer/internal/summarize"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open case store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close store", "error", err)
		}
	}()

	// Collaborators.
	reader := docreader.NewReader(logger)
	imageExtractor := ocr.NewExtractor(cfg.OCR, logger)
	transcriber := stt.NewTranscriber(cfg.STT, logger)
	router := extract.NewRouter(reader, imageExtractor, transcriber, logger)

	var entities ner.Extractor
	if cfg.NER.InferenceURL != "" {
		entities = ner.NewHTTPClient(cfg.NER.InferenceURL, cfg.NER.Timeout, logger)
		logger.Info("ner collaborator enabled", "url", cfg.NER.InferenceURL)
	} else {
		logger.Info("ner collaborator disabled, entities from patterns only")
	}

	ensemble := summarize.NewEnsemble(logger)
	processor := pipeline.NewProcessor(router, entities, ensemble, logger)

	controller := async.NewController(store, processor, logger,
		async.WithQueueSize(cfg.Queue.Size),
		async.WithIdleDelay(cfg.Queue.IdleDelay),
	)

	uploads := ingest.NewService(cfg.Ingest.UploadDir, cfg.Server.MaxUploadSize, logger)
	exporter := export.NewService(store, logger)

	if cfg.Ingest.WatchDir != "" {
		startDropWatcher(ctx, cfg.Ingest.WatchDir, controller, logger)
	}

	api := server.New(store, controller, uploads, exporter, logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("legal-summarizer listening", "addr", cfg.Server.Addr)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	controller.Shutdown(shutdownCtx)
}

// openStore selects the backend by DSN scheme: postgres:// goes to pgx,
// anything else is a SQLite path.
func openStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.CaseStore, error) {
	dsn := cfg.Database.DSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		store, err := repository.OpenPostgres(ctx, repository.PostgresConfig{
			DSN:             dsn,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := store.HealthCheck(ctx, cfg.Database.HealthTimeout); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	}
	return repository.OpenSQLite(ctx, dsn, logger)
}

// startDropWatcher submits documents dropped into the watch directory.
func startDropWatcher(ctx context.Context, dir string, controller *async.Controller, logger *slog.Logger) {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Root:     dir,
		Debounce: 500 * time.Millisecond,
	}, logger)
	if err != nil {
		logger.Error("drop watcher failed to start", "dir", dir, "error", err)
		return
	}
	logger.Info("drop watcher started", "dir", dir)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case path, ok := <-events:
				if !ok {
					return
				}
				media, known := constants.MediaTypeForPath(path)
				if !known {
					continue
				}
				if _, err := controller.Submit(ctx, filepath.Base(path), path, media); err != nil {
					logger.Error("drop submit failed", "path", path, "error", err)
				}
			case err, ok := <-errs:
				if !ok {
					return
				}
				logger.Error("drop watcher error", "error", err)
			}
		}
	}()
}
