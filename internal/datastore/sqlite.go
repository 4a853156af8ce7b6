package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists records to a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite store opened", zap.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS standardized_financial_data (
			id          TEXT PRIMARY KEY,
			date        TEXT,
			value       REAL,
			description TEXT,
			data_type   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sfd_desc_type ON standardized_financial_data(description, data_type, date)`,

		`CREATE TABLE IF NOT EXISTS pipeline_runs_history (
			run_id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			status            TEXT,
			records_processed INTEGER
		)`,
	}

	for _, st := range stmts {
		if _, err := s.db.Exec(st); err != nil {
			return fmt.Errorf("exec %q: %w", st[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRecords(ctx context.Context, records []Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO standardized_financial_data
		(id, date, value, description, data_type) VALUES (?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ID, r.Date, r.Value, r.Description, r.DataType); err != nil {
			return 0, fmt.Errorf("insert record %s: %w", r.ID, err)
		}
	}

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM standardized_financial_data`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return total, nil
}

func (s *SQLiteStore) QuerySeries(ctx context.Context, q SeriesQuery) ([]Point, Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stages := []struct {
		match Match
		where string
		args  []any
	}{
		{MatchExact, "description = ? AND data_type = ?", []any{q.Symbol, q.DataType}},
		{MatchSymbol, "description = ?", []any{q.Symbol}},
		{MatchPartial, "description LIKE ?", []any{"%" + q.Symbol + "%"}},
	}
	for _, st := range stages {
		pts, err := s.querySeries(ctx, st.where, st.args, q)
		if err != nil {
			return nil, MatchNone, err
		}
		if len(pts) > 0 {
			return pts, st.match, nil
		}
	}
	return []Point{}, MatchNone, nil
}

func (s *SQLiteStore) querySeries(ctx context.Context, where string, args []any, q SeriesQuery) ([]Point, error) {
	var b strings.Builder
	b.WriteString("SELECT date, value, data_type FROM standardized_financial_data WHERE ")
	b.WriteString(where)
	if q.StartDate != "" {
		b.WriteString(" AND date >= ?")
		args = append(args, q.StartDate)
	}
	if q.EndDate != "" {
		b.WriteString(" AND date <= ?")
		args = append(args, q.EndDate)
	}
	b.WriteString(" ORDER BY date ASC")
	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var pts []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.Date, &p.Value, &p.DataType); err != nil {
			return nil, fmt.Errorf("scan series row: %w", err)
		}
		pts = append(pts, p)
	}
	return pts, rows.Err()
}

func (s *SQLiteStore) DataTypes(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT data_type FROM standardized_financial_data ORDER BY data_type`)
	if err != nil {
		return nil, fmt.Errorf("query data types: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var dt string
		if err := rows.Scan(&dt); err != nil {
			return nil, fmt.Errorf("scan data type: %w", err)
		}
		out = append(out, dt)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) RecordRun(ctx context.Context, run PipelineRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := run.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO pipeline_runs_history
		(timestamp, status, records_processed) VALUES (?,?,?)`,
		ts.Unix(), run.Status, run.RecordsProcessed,
	)
	return err
}

func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]PipelineRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT run_id, timestamp, status, records_processed FROM pipeline_runs_history ORDER BY run_id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []PipelineRun
	for rows.Next() {
		var (
			r  PipelineRun
			ts int64
		)
		if err := rows.Scan(&r.RunID, &ts, &r.Status, &r.RecordsProcessed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Timestamp = time.Unix(ts, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.logger.Info("closing sqlite store")
	return s.db.Close()
}
