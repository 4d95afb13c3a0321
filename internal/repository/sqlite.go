package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/common"
	"github.com/nishant-rao/legal-summarizer/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cases (
	case_id      TEXT PRIMARY KEY,
	filename     TEXT NOT NULL,
	media_type   TEXT NOT NULL,
	source_path  TEXT NOT NULL,
	status       TEXT NOT NULL,
	error        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL,
	completed_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS summaries (
	case_id          TEXT PRIMARY KEY REFERENCES cases(case_id),
	overview         TEXT NOT NULL,
	key_points       TEXT NOT NULL,
	entities         TEXT NOT NULL,
	timeline         TEXT NOT NULL,
	legal_references TEXT NOT NULL,
	confidence       REAL NOT NULL,
	processing_time  REAL NOT NULL,
	created_at       TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS feedback (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id     TEXT NOT NULL REFERENCES cases(case_id),
	rating      INTEGER NOT NULL,
	comments    TEXT NOT NULL DEFAULT '',
	corrections TEXT,
	created_at  TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS analytics (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	metric_name  TEXT NOT NULL,
	metric_value REAL NOT NULL,
	case_id      TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status);
`

// SQLiteStore is the default single-node backend.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (and creates, if needed) the database at path.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite serializes writers itself; one connection avoids
	// SQLITE_BUSY under the single-consumer workload.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	logger.Info("sqlite store ready", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) CreateCase(ctx context.Context, c *entity.Case) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = constants.StatusPending
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cases (case_id, filename, media_type, source_path, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.CaseID, c.Filename, string(c.MediaType), c.SourcePath, string(c.Status), c.Error, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert case %s: %w", c.CaseID, err)
	}
	s.logger.Info("case created", "case_id", c.CaseID, "media_type", c.MediaType)
	return nil
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, caseID string, status constants.CaseStatus, errMsg string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM cases WHERE case_id = ?`, caseID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("case %s: %w", caseID, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read status for %s: %w", caseID, err)
	}
	if !constants.CaseStatus(current).CanTransition(status) {
		return fmt.Errorf("%w: %s -> %s for case %s", common.ErrInvalidStatus, current, status, caseID)
	}

	var completedAt any
	if status.Terminal() {
		completedAt = time.Now().UTC()
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE cases SET status = ?, error = ?, completed_at = ? WHERE case_id = ?`,
		string(status), errMsg, completedAt, caseID); err != nil {
		return fmt.Errorf("update status for %s: %w", caseID, err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("case status updated", "case_id", caseID, "status", status)
	return nil
}

func (s *SQLiteStore) GetCase(ctx context.Context, caseID string) (*entity.Case, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT case_id, filename, media_type, source_path, status, error, created_at, completed_at
		 FROM cases WHERE case_id = ?`, caseID)
	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("case %s: %w", caseID, common.ErrNotFound)
	}
	return c, err
}

func (s *SQLiteStore) ListCases(ctx context.Context, status constants.CaseStatus, limit int) ([]*entity.Case, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT case_id, filename, media_type, source_path, status, error, created_at, completed_at
		 FROM cases`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var cases []*entity.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

func (s *SQLiteStore) SaveSummary(ctx context.Context, sum *entity.Summary) error {
	keyPoints, entities, timeline, refs, err := marshalSummaryColumns(sum)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO summaries
		 (case_id, overview, key_points, entities, timeline, legal_references, confidence, processing_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.CaseID, sum.Overview, keyPoints, entities, timeline, refs,
		sum.ConfidenceScore, sum.ProcessingTime, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save summary for %s: %w", sum.CaseID, err)
	}
	return nil
}

func (s *SQLiteStore) GetSummary(ctx context.Context, caseID string) (*entity.Summary, error) {
	var (
		sum                             entity.Summary
		keyPoints, ents, timeline, refs []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT case_id, overview, key_points, entities, timeline, legal_references, confidence, processing_time
		 FROM summaries WHERE case_id = ?`, caseID).
		Scan(&sum.CaseID, &sum.Overview, &keyPoints, &ents, &timeline, &refs,
			&sum.ConfidenceScore, &sum.ProcessingTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("summary for %s: %w", caseID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read summary for %s: %w", caseID, err)
	}
	if err := unmarshalSummaryColumns(&sum, keyPoints, ents, timeline, refs); err != nil {
		return nil, fmt.Errorf("decode summary for %s: %w", caseID, err)
	}
	return &sum, nil
}

func (s *SQLiteStore) SaveFeedback(ctx context.Context, f *entity.Feedback) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	var corrections any
	if len(f.Corrections) > 0 {
		corrections = string(f.Corrections)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (case_id, rating, comments, corrections, created_at) VALUES (?, ?, ?, ?, ?)`,
		f.CaseID, f.Rating, f.Comments, corrections, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("save feedback for %s: %w", f.CaseID, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		f.ID = id
	}
	return nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (*entity.CaseStats, error) {
	stats := &entity.CaseStats{}
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM cases GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("case counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats.Total += n
		switch constants.CaseStatus(status) {
		case constants.StatusPending:
			stats.Pending = n
		case constants.StatusProcessing:
			stats.Processing = n
		case constants.StatusCompleted:
			stats.Completed = n
		case constants.StatusFailed:
			stats.Failed = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(confidence), 0), COALESCE(AVG(processing_time), 0) FROM summaries`).
		Scan(&stats.AvgConfidence, &stats.AvgProcessingTime)
	if err != nil {
		return nil, fmt.Errorf("summary averages: %w", err)
	}
	return stats, nil
}

func (s *SQLiteStore) LogMetric(ctx context.Context, name string, value float64, caseID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analytics (metric_name, metric_value, case_id, created_at) VALUES (?, ?, ?, ?)`,
		name, value, caseID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("log metric %s: %w", name, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*entity.Case, error) {
	var (
		c           entity.Case
		media       string
		status      string
		completedAt sql.NullTime
	)
	if err := row.Scan(&c.CaseID, &c.Filename, &media, &c.SourcePath, &status, &c.Error,
		&c.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	c.MediaType = constants.MediaType(media)
	c.Status = constants.CaseStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		c.CompletedAt = &t
	}
	return &c, nil
}

func marshalSummaryColumns(sum *entity.Summary) (keyPoints, entities, timeline, refs []byte, err error) {
	if keyPoints, err = json.Marshal(sum.KeyPoints); err != nil {
		return
	}
	if entities, err = json.Marshal(sum.Entities); err != nil {
		return
	}
	if timeline, err = json.Marshal(sum.Timeline); err != nil {
		return
	}
	refs, err = json.Marshal(sum.LegalReferences)
	return
}

func unmarshalSummaryColumns(sum *entity.Summary, keyPoints, entities, timeline, refs []byte) error {
	if err := json.Unmarshal(keyPoints, &sum.KeyPoints); err != nil {
		return err
	}
	if err := json.Unmarshal(entities, &sum.Entities); err != nil {
		return err
	}
	if err := json.Unmarshal(timeline, &sum.Timeline); err != nil {
		return err
	}
	return json.Unmarshal(refs, &sum.LegalReferences)
}
