// Package pipeline runs one case end to end: extract, normalize, summarize,
// post-process. It is pure computation plus collaborators; persistence and
// status bookkeeping belong to the lifecycle controller.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/entity"
	"github.com/nishant-rao/legal-summarizer/internal/ner"
	"github.com/nishant-rao/legal-summarizer/internal/postprocess"
	"github.com/nishant-rao/legal-summarizer/internal/summarize"
	"github.com/nishant-rao/legal-summarizer/internal/textnorm"
)

// Extractor is the routing stage; satisfied by *extract.Router.
type Extractor interface {
	Extract(ctx context.Context, path string, media constants.MediaType) (string, error)
}

type Processor struct {
	extractor Extractor
	entities  ner.Extractor // nil means pattern-only entities
	ensemble  *summarize.Ensemble
	logger    *slog.Logger
}

func NewProcessor(extractor Extractor, entities ner.Extractor, ensemble *summarize.Ensemble, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{extractor: extractor, entities: entities, ensemble: ensemble, logger: logger}
}

// Process produces the summary for one queue item. Any stage error aborts the
// case; a NER failure does not, the summary then degrades to pattern-derived
// entities only.
func (p *Processor) Process(ctx context.Context, item entity.QueueItem) (*entity.Summary, error) {
	start := time.Now()
	log := p.logger.With("case_id", item.CaseID)

	raw, err := p.extractor.Extract(ctx, item.SourceLocation, item.MediaType)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	log.Debug("pipeline.extract.ok", "bytes", len(raw))

	clean := textnorm.Normalize(raw)
	log.Debug("pipeline.normalize.ok", "bytes", len(clean))

	overview := p.ensemble.Summarize(clean, summarize.DefaultSentenceCount)
	log.Debug("pipeline.summarize.ok", "bytes", len(overview))

	var nerOut map[string][]string
	if p.entities != nil {
		nerOut, err = p.entities.ExtractEntities(ctx, clean)
		if err != nil {
			log.Warn("pipeline.ner.degraded", "error", err)
			nerOut = nil
		}
	}

	sum := postprocess.Build(item.CaseID, clean, overview, nerOut)
	sum.ProcessingTime = time.Since(start).Seconds()
	log.Info("pipeline.done",
		"media", item.MediaType,
		"confidence", sum.ConfidenceScore,
		"duration_s", sum.ProcessingTime,
	)
	return sum, nil
}
