package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/entity"
	"github.com/nishant-rao/legal-summarizer/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedCompletedCase(t *testing.T, store repository.CaseStore, id string) {
	t.Helper()
	ctx := context.Background()
	if err := store.CreateCase(ctx, &entity.Case{
		CaseID:     id,
		Filename:   "fir.txt",
		MediaType:  constants.MediaText,
		SourcePath: "/in/fir.txt",
		Status:     constants.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.UpdateStatus(ctx, id, constants.StatusProcessing, ""); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSummary(ctx, &entity.Summary{
		CaseID:          id,
		Overview:        "The accused was arrested.",
		KeyPoints:       []string{"The accused was arrested."},
		Entities:        map[string][]string{},
		Timeline:        []entity.TimelineEvent{},
		LegalReferences: []string{"IPC Section 379"},
		ConfidenceScore: 0.7,
		ProcessingTime:  1.5,
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.UpdateStatus(ctx, id, constants.StatusCompleted, ""); err != nil {
		t.Fatal(err)
	}
}

func TestExportSummariesXLSX(t *testing.T) {
	t.Parallel()

	store := repository.NewMemoryStore()
	seedCompletedCase(t, store, "CASE-2026-aaaa1111")

	// Pending cases are not exported.
	if err := store.CreateCase(context.Background(), &entity.Case{
		CaseID:     "CASE-2026-bbbb2222",
		Filename:   "pending.txt",
		MediaType:  constants.MediaText,
		SourcePath: "/in/pending.txt",
		Status:     constants.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		t.Fatal(err)
	}

	svc := NewService(store, testLogger())
	data, err := svc.ExportSummariesXLSX(context.Background(), 0)
	if err != nil {
		t.Fatalf("ExportSummariesXLSX: %v", err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Summaries")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want header plus one case", len(rows))
	}
	if rows[0][0] != "Case ID" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "CASE-2026-aaaa1111" {
		t.Errorf("case row = %v", rows[1])
	}
	if rows[1][5] != "IPC Section 379" {
		t.Errorf("references cell = %q", rows[1][5])
	}
}

func TestExportEmptyStore(t *testing.T) {
	t.Parallel()

	svc := NewService(repository.NewMemoryStore(), testLogger())
	data, err := svc.ExportSummariesXLSX(context.Background(), 0)
	if err != nil {
		t.Fatalf("ExportSummariesXLSX: %v", err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Summaries")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("row count = %d, want header only", len(rows))
	}
}
