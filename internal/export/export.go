// Package export produces XLSX workbooks of completed case summaries for
// review outside the system.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/repository"
)

// Service is a tiny façade over the case store that produces XLSX bytes.
type Service struct {
	store  repository.CaseStore
	logger *slog.Logger
}

func NewService(store repository.CaseStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportSummariesXLSX returns a workbook with one row per completed case.
// Cases whose summary row has gone missing are skipped, not fatal.
func (s *Service) ExportSummariesXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	cases, err := s.store.ListCases(ctx, constants.StatusCompleted, limit)
	if err != nil {
		return nil, fmt.Errorf("query completed cases: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Summaries"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet so the workbook opens on Summaries.
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Case ID",
		"Filename",
		"Completed At",
		"Overview",
		"Key Points",
		"Legal References",
		"Confidence",
		"Processing Time (s)",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	exported := 0
	for _, c := range cases {
		sum, err := s.store.GetSummary(ctx, c.CaseID)
		if err != nil {
			s.logger.Warn("export.summary.missing", "case_id", c.CaseID, "error", err)
			continue
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, c.CaseID)
		write(2, c.Filename)
		if c.CompletedAt != nil {
			write(3, c.CompletedAt.Format("2006-01-02 15:04"))
		} else {
			write(3, "")
		}
		write(4, truncateCell(sum.Overview, 500))
		write(5, truncateCell(strings.Join(sum.KeyPoints, "\n"), 500))
		write(6, strings.Join(sum.LegalReferences, ", "))
		write(7, sum.ConfidenceScore)
		write(8, sum.ProcessingTime)

		row++
		exported++
	}

	_ = f.SetColWidth(sheet, "A", "A", 22) // case id
	_ = f.SetColWidth(sheet, "B", "B", 28) // filename
	_ = f.SetColWidth(sheet, "C", "C", 18) // completed at
	_ = f.SetColWidth(sheet, "D", "E", 60) // overview, key points
	_ = f.SetColWidth(sheet, "F", "F", 36) // references
	_ = f.SetColWidth(sheet, "G", "H", 14) // numbers

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", exported,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncateCell(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
