// Package summarize runs independent extractive scoring strategies over
// segmented text and combines their picks under a fixed policy.
package summarize

import (
	"log/slog"
	"strings"
)

const (
	// DefaultSentenceCount is the per-strategy sentence budget.
	DefaultSentenceCount = 6
	// MaxSummaryChars caps the combined output length.
	MaxSummaryChars = 2000
	// NoContent is returned for empty or whitespace-only input, before any
	// strategy runs.
	NoContent = "No content to summarize."
)

// Ensemble holds the strategy set in declaration order. The order matters:
// the combination policy concatenates the first two non-empty outputs.
type Ensemble struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewEnsemble builds the standard three-member ensemble: two graph-centrality
// strategies with different edge weightings and one latent-structure model.
func NewEnsemble(logger *slog.Logger) *Ensemble {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ensemble{
		strategies: []Strategy{newCentrality(), newRank(), newLatent()},
		logger:     logger,
	}
}

// Summarize produces a single overview string of at most MaxSummaryChars
// characters. Strategy failures are swallowed: a failing member simply
// contributes no chunk. With no usable chunks the result degrades to the
// leading sentences of the input (or its leading characters when
// segmentation yields nothing), never an empty string for non-empty input.
func (e *Ensemble) Summarize(text string, count int) string {
	if count <= 0 {
		count = DefaultSentenceCount
	}
	if strings.TrimSpace(text) == "" {
		return NoContent
	}

	sentences := SplitSentences(text)

	var chunks []string
	for _, st := range e.strategies {
		selected := e.runStrategy(st, sentences, count)
		if chunk := strings.TrimSpace(strings.Join(selected, " ")); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	var combined string
	switch {
	case len(chunks) >= 2:
		combined = chunks[0] + " " + chunks[1]
	case len(chunks) == 1:
		combined = chunks[0]
	default:
		if len(sentences) > 0 {
			if count > len(sentences) {
				count = len(sentences)
			}
			combined = strings.Join(sentences[:count], " ")
		} else {
			combined = text
		}
	}
	return truncateRunes(combined, MaxSummaryChars)
}

// runStrategy isolates one member: an error or panic inside a strategy must
// never fail the case.
func (e *Ensemble) runStrategy(st Strategy, sentences []string, count int) (selected []string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("summarize.strategy.panic", "strategy", st.Name(), "panic", r)
			selected = nil
		}
	}()

	selected, err := st.Select(sentences, count)
	if err != nil {
		e.logger.Debug("summarize.strategy.skipped", "strategy", st.Name(), "error", err)
		return nil
	}
	return selected
}
