// Package repository persists cases, summaries, feedback, and analytics.
// Three backends share one contract: sqlite for single-node deployments,
// postgres for shared ones, and an in-memory store for tests.
package repository

import (
	"context"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/entity"
)

// CaseStore is the persistence contract for the case lifecycle.
//
// UpdateStatus enforces the status machine: pending -> processing ->
// completed | failed. An illegal transition returns an error wrapping
// common.ErrInvalidStatus and leaves the row untouched.
type CaseStore interface {
	CreateCase(ctx context.Context, c *entity.Case) error
	UpdateStatus(ctx context.Context, caseID string, status constants.CaseStatus, errMsg string) error
	GetCase(ctx context.Context, caseID string) (*entity.Case, error)
	ListCases(ctx context.Context, status constants.CaseStatus, limit int) ([]*entity.Case, error)

	SaveSummary(ctx context.Context, s *entity.Summary) error
	GetSummary(ctx context.Context, caseID string) (*entity.Summary, error)

	SaveFeedback(ctx context.Context, f *entity.Feedback) error
	Stats(ctx context.Context) (*entity.CaseStats, error)
	LogMetric(ctx context.Context, name string, value float64, caseID string) error

	Close() error
}
