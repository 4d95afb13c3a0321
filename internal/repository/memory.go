package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/common"
	"github.com/nishant-rao/legal-summarizer/internal/entity"
)

// MemoryStore keeps everything in maps. Test and demo use only.
type MemoryStore struct {
	mu        sync.RWMutex
	cases     map[string]*entity.Case
	summaries map[string]*entity.Summary
	feedback  []*entity.Feedback
	metrics   []metricRow
	nextID    int64
}

type metricRow struct {
	Name   string
	Value  float64
	CaseID string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cases:     make(map[string]*entity.Case),
		summaries: make(map[string]*entity.Summary),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateCase(ctx context.Context, c *entity.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cases[c.CaseID]; exists {
		return fmt.Errorf("case %s already exists: %w", c.CaseID, common.ErrInvalidInput)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = constants.StatusPending
	}
	clone := *c
	s.cases[c.CaseID] = &clone
	return nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, caseID string, status constants.CaseStatus, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return fmt.Errorf("case %s: %w", caseID, common.ErrNotFound)
	}
	if !c.Status.CanTransition(status) {
		return fmt.Errorf("%w: %s -> %s for case %s", common.ErrInvalidStatus, c.Status, status, caseID)
	}
	c.Status = status
	c.Error = errMsg
	if status.Terminal() {
		now := time.Now().UTC()
		c.CompletedAt = &now
	}
	return nil
}

func (s *MemoryStore) GetCase(ctx context.Context, caseID string) (*entity.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, fmt.Errorf("case %s: %w", caseID, common.ErrNotFound)
	}
	clone := *c
	return &clone, nil
}

func (s *MemoryStore) ListCases(ctx context.Context, status constants.CaseStatus, limit int) ([]*entity.Case, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var cases []*entity.Case
	for _, c := range s.cases {
		if status != "" && c.Status != status {
			continue
		}
		clone := *c
		cases = append(cases, &clone)
	}
	sort.Slice(cases, func(i, j int) bool {
		return cases[i].CreatedAt.After(cases[j].CreatedAt)
	})
	if len(cases) > limit {
		cases = cases[:limit]
	}
	return cases, nil
}

func (s *MemoryStore) SaveSummary(ctx context.Context, sum *entity.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *sum
	s.summaries[sum.CaseID] = &clone
	return nil
}

func (s *MemoryStore) GetSummary(ctx context.Context, caseID string) (*entity.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.summaries[caseID]
	if !ok {
		return nil, fmt.Errorf("summary for %s: %w", caseID, common.ErrNotFound)
	}
	clone := *sum
	return &clone, nil
}

func (s *MemoryStore) SaveFeedback(ctx context.Context, f *entity.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	f.ID = s.nextID
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	clone := *f
	s.feedback = append(s.feedback, &clone)
	return nil
}

func (s *MemoryStore) Stats(ctx context.Context) (*entity.CaseStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &entity.CaseStats{}
	for _, c := range s.cases {
		stats.Total++
		switch c.Status {
		case constants.StatusPending:
			stats.Pending++
		case constants.StatusProcessing:
			stats.Processing++
		case constants.StatusCompleted:
			stats.Completed++
		case constants.StatusFailed:
			stats.Failed++
		}
	}
	var confSum, timeSum float64
	for _, sum := range s.summaries {
		confSum += sum.ConfidenceScore
		timeSum += sum.ProcessingTime
	}
	if n := len(s.summaries); n > 0 {
		stats.AvgConfidence = confSum / float64(n)
		stats.AvgProcessingTime = timeSum / float64(n)
	}
	return stats, nil
}

func (s *MemoryStore) LogMetric(ctx context.Context, name string, value float64, caseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, metricRow{Name: name, Value: value, CaseID: caseID})
	return nil
}
