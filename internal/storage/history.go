package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"iat/internal/config"
	"iat/internal/domain"
)

var schemas = map[string][]string{
	config.HistorySQLite: {
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			duration_seconds REAL NOT NULL,
			workers INTEGER NOT NULL,
			total INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			recreated INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS case_results (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			case_id TEXT NOT NULL,
			status TEXT NOT NULL,
			stage TEXT NOT NULL,
			exit_code INTEGER NOT NULL,
			error TEXT NOT NULL,
			duration_seconds REAL NOT NULL
		)`,
	},
	config.HistoryMySQL: {
		`CREATE TABLE IF NOT EXISTS runs (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			started_at VARCHAR(64) NOT NULL,
			duration_seconds DOUBLE NOT NULL,
			workers INT NOT NULL,
			total INT NOT NULL,
			passed INT NOT NULL,
			failed INT NOT NULL,
			skipped INT NOT NULL,
			recreated INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS case_results (
			run_id BIGINT NOT NULL,
			case_id VARCHAR(255) NOT NULL,
			status VARCHAR(32) NOT NULL,
			stage VARCHAR(32) NOT NULL,
			exit_code INT NOT NULL,
			error TEXT NOT NULL,
			duration_seconds DOUBLE NOT NULL,
			INDEX idx_case_results_run (run_id)
		)`,
	},
}

// Run is one recorded run.
type Run struct {
	ID   int64
	Meta domain.ResultsMeta
}

// CaseRecord is one case outcome stored with a run.
type CaseRecord struct {
	CaseID   string
	Status   domain.Status
	Stage    domain.Stage
	ExitCode int
	Error    string
	Duration time.Duration
}

// History is an append-only log of runs kept in a SQL database.
type History struct {
	db     *sql.DB
	driver string
}

// OpenHistory connects to the history database and creates the schema.
func OpenHistory(ctx context.Context, driver, dsn string) (*History, error) {
	schema, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidHistoryDriver, driver)
	}
	if driver == config.HistorySQLite {
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create history schema: %w", err)
		}
	}
	return &History{db: db, driver: driver}, nil
}

// ensureSQLiteDir creates the parent directory of a file-backed sqlite DSN.
func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	return nil
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}

// Record stores a run and every case result in one transaction and returns
// the new run ID.
func (h *History) Record(ctx context.Context, meta domain.ResultsMeta, results []domain.CaseResult) (int64, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, duration_seconds, workers, total, passed, failed, skipped, recreated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.Timestamp, meta.DurationSeconds, meta.Workers, meta.TotalCases,
		meta.PassedCases, meta.FailedCases, meta.SkippedCases, meta.RecreatedCases)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO case_results (run_id, case_id, status, stage, exit_code, error, duration_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare case insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.ExecContext(ctx, runID, r.CaseID, string(r.Status), string(r.Stage),
			r.ExitCode, r.Error, r.Duration.Seconds()); err != nil {
			return 0, fmt.Errorf("insert case %s: %w", r.CaseID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit history: %w", err)
	}
	return runID, nil
}

// Recent returns up to n runs, newest first.
func (h *History) Recent(ctx context.Context, n int) ([]Run, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, started_at, duration_seconds, workers, total, passed, failed, skipped, recreated
		 FROM runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		m := &r.Meta
		if err := rows.Scan(&r.ID, &m.Timestamp, &m.DurationSeconds, &m.Workers, &m.TotalCases,
			&m.PassedCases, &m.FailedCases, &m.SkippedCases, &m.RecreatedCases); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		m.Duration = time.Duration(m.DurationSeconds * float64(time.Second)).Round(time.Millisecond).String()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Results returns the case outcomes recorded for runID, ordered by case ID.
func (h *History) Results(ctx context.Context, runID int64) ([]CaseRecord, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT case_id, status, stage, exit_code, error, duration_seconds
		 FROM case_results WHERE run_id = ? ORDER BY case_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query case results: %w", err)
	}
	defer rows.Close()

	var records []CaseRecord
	for rows.Next() {
		var rec CaseRecord
		var status, stage string
		var seconds float64
		if err := rows.Scan(&rec.CaseID, &status, &stage, &rec.ExitCode, &rec.Error, &seconds); err != nil {
			return nil, fmt.Errorf("scan case result: %w", err)
		}
		rec.Status = domain.Status(status)
		rec.Stage = domain.Stage(stage)
		rec.Duration = time.Duration(seconds * float64(time.Second))
		records = append(records, rec)
	}
	return records, rows.Err()
}
