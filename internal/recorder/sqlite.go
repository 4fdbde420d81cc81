package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists check history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc reads don't block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS check_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			pair      TEXT,
			rate      REAL,
			baseline  REAL,
			mode      TEXT,
			alerted   INTEGER,
			note      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_check_ts ON check_events(timestamp)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordCheck(evt *CheckEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	alerted := 0
	if evt.Alerted {
		alerted = 1
	}
	_, err := r.db.Exec(`INSERT INTO check_events
		(timestamp, pair, rate, baseline, mode, alerted, note)
		VALUES (?,?,?,?,?,?,?)`,
		ts.Unix(), evt.Pair, evt.Rate, evt.Baseline, evt.Mode, alerted, evt.Note,
	)
	return err
}

// LastCheck returns the most recent recorded event, or nil when the table
// is empty.
func (r *SQLiteRecorder) LastCheck() (*CheckEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.db.QueryRow(`SELECT timestamp, pair, rate, baseline, mode, alerted, note
		FROM check_events ORDER BY timestamp DESC, id DESC LIMIT 1`)

	var ts int64
	var alerted int
	evt := &CheckEvent{}
	err := row.Scan(&ts, &evt.Pair, &evt.Rate, &evt.Baseline, &evt.Mode, &alerted, &evt.Note)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	evt.Time = time.Unix(ts, 0)
	evt.Alerted = alerted == 1
	return evt, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
