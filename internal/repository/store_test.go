package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/common"
	"github.com/nishant-rao/legal-summarizer/internal/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Both local backends run the same contract suite.
func openBackends(t *testing.T) map[string]CaseStore {
	t.Helper()
	sqlite, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"), testLogger())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]CaseStore{
		"sqlite": sqlite,
		"memory": NewMemoryStore(),
	}
}

func newTestCase(id string) *entity.Case {
	return &entity.Case{
		CaseID:     id,
		Filename:   "fir.txt",
		MediaType:  constants.MediaText,
		SourcePath: "/uploads/fir.txt",
		Status:     constants.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestCaseLifecycle(t *testing.T) {
	t.Parallel()

	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.CreateCase(ctx, newTestCase("CASE-2026-aaaa0001")); err != nil {
				t.Fatalf("CreateCase: %v", err)
			}

			got, err := store.GetCase(ctx, "CASE-2026-aaaa0001")
			if err != nil {
				t.Fatalf("GetCase: %v", err)
			}
			if got.Status != constants.StatusPending {
				t.Errorf("status = %s, want pending", got.Status)
			}
			if got.CompletedAt != nil {
				t.Error("CompletedAt set before terminal status")
			}

			if err := store.UpdateStatus(ctx, "CASE-2026-aaaa0001", constants.StatusProcessing, ""); err != nil {
				t.Fatalf("to processing: %v", err)
			}
			if err := store.UpdateStatus(ctx, "CASE-2026-aaaa0001", constants.StatusCompleted, ""); err != nil {
				t.Fatalf("to completed: %v", err)
			}

			got, err = store.GetCase(ctx, "CASE-2026-aaaa0001")
			if err != nil {
				t.Fatalf("GetCase after complete: %v", err)
			}
			if got.Status != constants.StatusCompleted {
				t.Errorf("status = %s, want completed", got.Status)
			}
			if got.CompletedAt == nil {
				t.Error("CompletedAt not set on terminal status")
			}
		})
	}
}

func TestUpdateStatusRejectsIllegalTransitions(t *testing.T) {
	t.Parallel()

	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.CreateCase(ctx, newTestCase("CASE-2026-bbbb0002")); err != nil {
				t.Fatal(err)
			}

			// pending cannot jump straight to completed.
			err := store.UpdateStatus(ctx, "CASE-2026-bbbb0002", constants.StatusCompleted, "")
			if !errors.Is(err, common.ErrInvalidStatus) {
				t.Errorf("pending->completed err = %v, want ErrInvalidStatus", err)
			}

			if err := store.UpdateStatus(ctx, "CASE-2026-bbbb0002", constants.StatusProcessing, ""); err != nil {
				t.Fatal(err)
			}
			if err := store.UpdateStatus(ctx, "CASE-2026-bbbb0002", constants.StatusFailed, "extraction failed"); err != nil {
				t.Fatal(err)
			}

			// terminal states are frozen.
			err = store.UpdateStatus(ctx, "CASE-2026-bbbb0002", constants.StatusProcessing, "")
			if !errors.Is(err, common.ErrInvalidStatus) {
				t.Errorf("failed->processing err = %v, want ErrInvalidStatus", err)
			}

			got, _ := store.GetCase(ctx, "CASE-2026-bbbb0002")
			if got.Error != "extraction failed" {
				t.Errorf("error message = %q", got.Error)
			}
		})
	}
}

func TestUpdateStatusUnknownCase(t *testing.T) {
	t.Parallel()

	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			err := store.UpdateStatus(context.Background(), "CASE-2026-missing0", constants.StatusProcessing, "")
			if !errors.Is(err, common.ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	t.Parallel()

	sum := &entity.Summary{
		CaseID:    "CASE-2026-cccc0003",
		Overview:  "The accused was arrested under IPC Section 379.",
		KeyPoints: []string{"The accused was arrested under IPC Section 379."},
		Entities: map[string][]string{
			"PERSON": {"Ravi Kumar"},
			"LAW":    {"379"},
		},
		Timeline:        []entity.TimelineEvent{{Event: "Arrest made at 10:30 PM.", Time: "10:30 PM"}},
		LegalReferences: []string{"IPC Section 379"},
		ConfidenceScore: 0.75,
		ProcessingTime:  1.25,
	}

	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.CreateCase(ctx, newTestCase(sum.CaseID)); err != nil {
				t.Fatal(err)
			}
			if err := store.SaveSummary(ctx, sum); err != nil {
				t.Fatalf("SaveSummary: %v", err)
			}

			got, err := store.GetSummary(ctx, sum.CaseID)
			if err != nil {
				t.Fatalf("GetSummary: %v", err)
			}
			if got.Overview != sum.Overview {
				t.Errorf("overview = %q", got.Overview)
			}
			if len(got.KeyPoints) != 1 || got.KeyPoints[0] != sum.KeyPoints[0] {
				t.Errorf("key points = %v", got.KeyPoints)
			}
			if got.Entities["PERSON"][0] != "Ravi Kumar" {
				t.Errorf("entities = %v", got.Entities)
			}
			if len(got.Timeline) != 1 || got.Timeline[0].Time != "10:30 PM" {
				t.Errorf("timeline = %v", got.Timeline)
			}
			if got.ConfidenceScore != 0.75 || got.ProcessingTime != 1.25 {
				t.Errorf("scores = %v / %v", got.ConfidenceScore, got.ProcessingTime)
			}
		})
	}
}

func TestGetSummaryMissing(t *testing.T) {
	t.Parallel()

	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.GetSummary(context.Background(), "CASE-2026-nothing1")
			if !errors.Is(err, common.ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestListCasesFilterAndLimit(t *testing.T) {
	t.Parallel()

	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ids := []string{"CASE-2026-dddd0001", "CASE-2026-dddd0002", "CASE-2026-dddd0003"}
			for i, id := range ids {
				c := newTestCase(id)
				c.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
				if err := store.CreateCase(ctx, c); err != nil {
					t.Fatal(err)
				}
			}
			if err := store.UpdateStatus(ctx, ids[0], constants.StatusProcessing, ""); err != nil {
				t.Fatal(err)
			}

			pending, err := store.ListCases(ctx, constants.StatusPending, 10)
			if err != nil {
				t.Fatalf("ListCases(pending): %v", err)
			}
			if len(pending) != 2 {
				t.Errorf("pending count = %d, want 2", len(pending))
			}

			all, err := store.ListCases(ctx, "", 2)
			if err != nil {
				t.Fatalf("ListCases(all): %v", err)
			}
			if len(all) != 2 {
				t.Errorf("limited count = %d, want 2", len(all))
			}
			// newest first
			if all[0].CaseID != ids[2] {
				t.Errorf("first listed = %s, want %s", all[0].CaseID, ids[2])
			}
		})
	}
}

func TestFeedbackAndStats(t *testing.T) {
	t.Parallel()

	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.CreateCase(ctx, newTestCase("CASE-2026-eeee0001")); err != nil {
				t.Fatal(err)
			}
			if err := store.UpdateStatus(ctx, "CASE-2026-eeee0001", constants.StatusProcessing, ""); err != nil {
				t.Fatal(err)
			}
			if err := store.SaveSummary(ctx, &entity.Summary{
				CaseID:          "CASE-2026-eeee0001",
				Overview:        "Overview.",
				KeyPoints:       []string{"Overview."},
				Entities:        map[string][]string{},
				Timeline:        []entity.TimelineEvent{},
				LegalReferences: []string{},
				ConfidenceScore: 0.8,
				ProcessingTime:  2.0,
			}); err != nil {
				t.Fatal(err)
			}
			if err := store.UpdateStatus(ctx, "CASE-2026-eeee0001", constants.StatusCompleted, ""); err != nil {
				t.Fatal(err)
			}

			fb := &entity.Feedback{CaseID: "CASE-2026-eeee0001", Rating: 4, Comments: "accurate"}
			if err := store.SaveFeedback(ctx, fb); err != nil {
				t.Fatalf("SaveFeedback: %v", err)
			}
			if fb.ID == 0 {
				t.Error("feedback ID not assigned")
			}

			if err := store.LogMetric(ctx, "processing_seconds", 2.0, "CASE-2026-eeee0001"); err != nil {
				t.Fatalf("LogMetric: %v", err)
			}

			stats, err := store.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats: %v", err)
			}
			if stats.Total != 1 || stats.Completed != 1 {
				t.Errorf("stats = %+v", stats)
			}
			if stats.AvgConfidence != 0.8 {
				t.Errorf("avg confidence = %v", stats.AvgConfidence)
			}
		})
	}
}
