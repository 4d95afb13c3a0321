package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/common"
	"github.com/nishant-rao/legal-summarizer/internal/entity"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS cases (
	case_id      TEXT PRIMARY KEY,
	filename     TEXT NOT NULL,
	media_type   TEXT NOT NULL,
	source_path  TEXT NOT NULL,
	status       TEXT NOT NULL,
	error        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS summaries (
	case_id          TEXT PRIMARY KEY REFERENCES cases(case_id),
	overview         TEXT NOT NULL,
	key_points       JSONB NOT NULL,
	entities         JSONB NOT NULL,
	timeline         JSONB NOT NULL,
	legal_references JSONB NOT NULL,
	confidence       DOUBLE PRECISION NOT NULL,
	processing_time  DOUBLE PRECISION NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS feedback (
	id          BIGSERIAL PRIMARY KEY,
	case_id     TEXT NOT NULL REFERENCES cases(case_id),
	rating      INTEGER NOT NULL,
	comments    TEXT NOT NULL DEFAULT '',
	corrections JSONB,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS analytics (
	id           BIGSERIAL PRIMARY KEY,
	metric_name  TEXT NOT NULL,
	metric_value DOUBLE PRECISION NOT NULL,
	case_id      TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status);
`

// PostgresConfig tunes the pgx pool for shared deployments.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	DialTimeout     time.Duration
}

// PostgresStore backs the case lifecycle with a pgx pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres connects, applies the schema, and returns the store.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "dsn", cfg.DSN)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "legal-summarizer"

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init postgres schema: %w", err)
	}
	logger.Info("postgres store ready")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// HealthCheck pings the pool to catch DSN issues early.
func (s *PostgresStore) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateCase(ctx context.Context, c *entity.Case) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = constants.StatusPending
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO cases (case_id, filename, media_type, source_path, status, error, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.CaseID, c.Filename, string(c.MediaType), c.SourcePath, string(c.Status), c.Error, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert case %s: %w", c.CaseID, err)
	}
	s.logger.Info("case created", "case_id", c.CaseID, "media_type", c.MediaType)
	return nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, caseID string, status constants.CaseStatus, errMsg string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM cases WHERE case_id = $1 FOR UPDATE`, caseID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("case %s: %w", caseID, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read status for %s: %w", caseID, err)
	}
	if !constants.CaseStatus(current).CanTransition(status) {
		return fmt.Errorf("%w: %s -> %s for case %s", common.ErrInvalidStatus, current, status, caseID)
	}

	var completedAt *time.Time
	if status.Terminal() {
		now := time.Now().UTC()
		completedAt = &now
	}
	if _, err := tx.Exec(ctx,
		`UPDATE cases SET status = $1, error = $2, completed_at = $3 WHERE case_id = $4`,
		string(status), errMsg, completedAt, caseID); err != nil {
		return fmt.Errorf("update status for %s: %w", caseID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.logger.Info("case status updated", "case_id", caseID, "status", status)
	return nil
}

func (s *PostgresStore) GetCase(ctx context.Context, caseID string) (*entity.Case, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT case_id, filename, media_type, source_path, status, error, created_at, completed_at
		 FROM cases WHERE case_id = $1`, caseID)
	c, err := scanPgCase(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("case %s: %w", caseID, common.ErrNotFound)
	}
	return c, err
}

func (s *PostgresStore) ListCases(ctx context.Context, status constants.CaseStatus, limit int) ([]*entity.Case, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT case_id, filename, media_type, source_path, status, error, created_at, completed_at FROM cases`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1 ORDER BY created_at DESC LIMIT $2`
		args = append(args, string(status), limit)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var cases []*entity.Case
	for rows.Next() {
		c, err := scanPgCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

func (s *PostgresStore) SaveSummary(ctx context.Context, sum *entity.Summary) error {
	keyPoints, entities, timeline, refs, err := marshalSummaryColumns(sum)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO summaries
		 (case_id, overview, key_points, entities, timeline, legal_references, confidence, processing_time, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (case_id) DO UPDATE SET
			overview = EXCLUDED.overview, key_points = EXCLUDED.key_points,
			entities = EXCLUDED.entities, timeline = EXCLUDED.timeline,
			legal_references = EXCLUDED.legal_references, confidence = EXCLUDED.confidence,
			processing_time = EXCLUDED.processing_time`,
		sum.CaseID, sum.Overview, keyPoints, entities, timeline, refs,
		sum.ConfidenceScore, sum.ProcessingTime, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save summary for %s: %w", sum.CaseID, err)
	}
	return nil
}

func (s *PostgresStore) GetSummary(ctx context.Context, caseID string) (*entity.Summary, error) {
	var (
		sum                             entity.Summary
		keyPoints, ents, timeline, refs []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT case_id, overview, key_points, entities, timeline, legal_references, confidence, processing_time
		 FROM summaries WHERE case_id = $1`, caseID).
		Scan(&sum.CaseID, &sum.Overview, &keyPoints, &ents, &timeline, &refs,
			&sum.ConfidenceScore, &sum.ProcessingTime)
	if errors.Is(err, pgx.ErrNoRows) {
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

func (s *PostgresStore) SaveFeedback(ctx context.Context, f *entity.Feedback) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	var corrections []byte
	if len(f.Corrections) > 0 {
		corrections = f.Corrections
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO feedback (case_id, rating, comments, corrections, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		f.CaseID, f.Rating, f.Comments, corrections, f.CreatedAt).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("save feedback for %s: %w", f.CaseID, err)
	}
	return nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*entity.CaseStats, error) {
	stats := &entity.CaseStats{}
	rows, err := s.pool.Query(ctx, `SELECT status, COUNT(*) FROM cases GROUP BY status`)
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

	err = s.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(confidence), 0), COALESCE(AVG(processing_time), 0) FROM summaries`).
		Scan(&stats.AvgConfidence, &stats.AvgProcessingTime)
	if err != nil {
		return nil, fmt.Errorf("summary averages: %w", err)
	}
	return stats, nil
}

func (s *PostgresStore) LogMetric(ctx context.Context, name string, value float64, caseID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO analytics (metric_name, metric_value, case_id, created_at) VALUES ($1, $2, $3, $4)`,
		name, value, caseID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("log metric %s: %w", name, err)
	}
	return nil
}

func scanPgCase(row pgx.Row) (*entity.Case, error) {
	var (
		c           entity.Case
		media       string
		status      string
		completedAt *time.Time
	)
	if err := row.Scan(&c.CaseID, &c.Filename, &media, &c.SourcePath, &status, &c.Error,
		&c.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	c.MediaType = constants.MediaType(media)
	c.Status = constants.CaseStatus(status)
	c.CompletedAt = completedAt
	return &c, nil
}
