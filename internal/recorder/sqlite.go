package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"MarketArchiver/internal/model"
)

// SQLiteRecorder persists the run manifest to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so report queries can run while a batch is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS batch_runs (
			run_id      TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			start_date  TEXT NOT NULL,
			end_date    TEXT NOT NULL,
			output_dir  TEXT,
			total       INTEGER,
			success     INTEGER,
			failed      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_finished ON batch_runs(finished_at)`,

		`CREATE TABLE IF NOT EXISTS symbol_results (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			symbol       TEXT NOT NULL,
			kind         TEXT,
			success      INTEGER,
			records      INTEGER,
			reason       TEXT,
			warning      INTEGER,
			first_date   TEXT,
			last_date    TEXT,
			total_return REAL,
			elapsed_ms   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON symbol_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_symbol ON symbol_results(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run header and every outcome in one transaction.
func (r *SQLiteRecorder) RecordRun(report *model.BatchReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO batch_runs
		(run_id, started_at, finished_at, start_date, end_date, output_dir, total, success, failed)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		report.RunID,
		report.StartedAt.Unix(), report.FinishedAt.Unix(),
		report.StartDate.Format("2006-01-02"), report.EndDate.Format("2006-01-02"),
		report.OutputDir,
		len(report.Outcomes), report.Success(), report.Failed(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, o := range report.Outcomes {
		var first, last string
		if !o.FirstDate.IsZero() {
			first = o.FirstDate.Format("2006-01-02")
		}
		if !o.LastDate.IsZero() {
			last = o.LastDate.Format("2006-01-02")
		}
		_, err = tx.Exec(`INSERT INTO symbol_results
			(run_id, symbol, kind, success, records, reason, warning, first_date, last_date, total_return, elapsed_ms)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			report.RunID, o.Symbol.Ticker, string(o.Symbol.Kind),
			boolToInt(o.Success), o.Records, o.Reason, boolToInt(o.Warning),
			first, last, o.TotalReturn, o.Elapsed.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("insert result for %s: %w", o.Symbol.Ticker, err)
		}
	}
	return tx.Commit()
}

// LastRunEnd returns the end date of the most recently finished run.
func (r *SQLiteRecorder) LastRunEnd() (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var endDate string
	err := r.db.QueryRow(
		`SELECT end_date FROM batch_runs ORDER BY finished_at DESC LIMIT 1`,
	).Scan(&endDate)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query last run: %w", err)
	}
	t, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last run end date %q: %w", endDate, err)
	}
	return t, nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
