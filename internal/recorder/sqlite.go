package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"BreakoutSentinel/internal/model"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so report readers don't block the daemon's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id      TEXT PRIMARY KEY,
			as_of       TEXT NOT NULL,
			universe    INTEGER,
			screened    INTEGER,
			passed      INTEGER,
			signals     INTEGER,
			started_at  INTEGER,
			finished_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_asof ON runs(as_of)`,

		`CREATE TABLE IF NOT EXISTS screens (
			run_id     TEXT NOT NULL REFERENCES runs(run_id),
			symbol     TEXT NOT NULL,
			passed     INTEGER,
			reasons    TEXT,
			close      REAL,
			avg_vol_50 REAL,
			sma_50     REAL,
			PRIMARY KEY (run_id, symbol)
		)`,

		`CREATE TABLE IF NOT EXISTS signals (
			run_id      TEXT NOT NULL REFERENCES runs(run_id),
			symbol      TEXT NOT NULL,
			signal      INTEGER,
			reasons     TEXT,
			entry_price REAL,
			peak_63     REAL,
			retracement REAL,
			PRIMARY KEY (run_id, symbol)
		)`,

		`CREATE TABLE IF NOT EXISTS executions (
			run_id        TEXT NOT NULL REFERENCES runs(run_id),
			symbol        TEXT NOT NULL,
			valid         INTEGER,
			reasons       TEXT,
			entry_price   REAL,
			stop_price    REAL,
			stop_distance REAL,
			atr_14        REAL,
			risk_dollars  REAL,
			position_size REAL,
			exit_trigger  INTEGER,
			exit_price    REAL,
			exit_date     TEXT,
			status        TEXT,
			PRIMARY KEY (run_id, symbol)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores a run and its three result tables in one transaction.
// A run without an ID gets one.
func (r *SQLiteRecorder) RecordRun(ctx context.Context, res *model.RunResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res.RunID == "" {
		res.RunID = NewRunID()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs
		(run_id, as_of, universe, screened, passed, signals, started_at, finished_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		res.RunID, res.AsOf.Format(dateLayout), len(res.Universe), len(res.Screens),
		len(res.Passed()), len(res.Fired()), res.StartedAt.Unix(), res.FinishedAt.Unix(),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, s := range res.Screens {
		if _, err := tx.ExecContext(ctx, `INSERT INTO screens
			(run_id, symbol, passed, reasons, close, avg_vol_50, sma_50)
			VALUES (?,?,?,?,?,?,?)`,
			res.RunID, s.Symbol, s.Passed, s.Reasons.String(), s.Close, nullFloat(s.AvgVol50), nullFloat(s.SMA50),
		); err != nil {
			return fmt.Errorf("insert screen %s: %w", s.Symbol, err)
		}
	}

	for _, s := range res.Signals {
		if _, err := tx.ExecContext(ctx, `INSERT INTO signals
			(run_id, symbol, signal, reasons, entry_price, peak_63, retracement)
			VALUES (?,?,?,?,?,?,?)`,
			res.RunID, s.Symbol, s.Signal, s.Reasons.String(),
			nullFloat(s.EntryPrice), nullFloat(s.Peak63), nullFloat(s.Retracement),
		); err != nil {
			return fmt.Errorf("insert signal %s: %w", s.Symbol, err)
		}
	}

	for _, e := range res.Executions {
		if _, err := tx.ExecContext(ctx, `INSERT INTO executions
			(run_id, symbol, valid, reasons, entry_price, stop_price, stop_distance, atr_14,
			 risk_dollars, position_size, exit_trigger, exit_price, exit_date, status)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			res.RunID, e.Symbol, e.Valid, e.Reasons.String(),
			nullFloat(e.EntryPrice), nullFloat(e.StopPrice), nullFloat(e.StopDistance), nullFloat(e.ATR14),
			nullFloat(e.RiskDollars), nullFloat(e.PositionSize), e.ExitTrigger,
			nullFloat(e.ExitPrice), nullDate(e.ExitDate), string(e.Status),
		); err != nil {
			return fmt.Errorf("insert execution %s: %w", e.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Debug().Str("run_id", res.RunID).Msg("run recorded")
	return nil
}

// RecentSignals returns fired signals, newest run first.
func (r *SQLiteRecorder) RecentSignals(ctx context.Context, limit int) ([]SignalRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT s.run_id, r.as_of, s.symbol, s.entry_price,
			COALESCE(e.valid, 0), COALESCE(e.status, '')
		FROM signals s
		JOIN runs r ON r.run_id = s.run_id
		LEFT JOIN executions e ON e.run_id = s.run_id AND e.symbol = s.symbol
		WHERE s.signal = 1
		ORDER BY r.as_of DESC, s.run_id DESC, s.symbol
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var out []SignalRecord
	for rows.Next() {
		var (
			rec    SignalRecord
			asOf   string
			entry  sql.NullFloat64
			status string
		)
		if err := rows.Scan(&rec.RunID, &asOf, &rec.Symbol, &entry, &rec.Valid, &status); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		if rec.AsOf, err = time.Parse(dateLayout, asOf); err != nil {
			return nil, fmt.Errorf("parse as_of %q: %w", asOf, err)
		}
		rec.EntryPrice = entry.Float64
		rec.Status = model.PositionStatus(status)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}
