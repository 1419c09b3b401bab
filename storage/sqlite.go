// Package storage keeps a ledger of finished simulation runs in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the run ledger.
type Store struct {
	db *sql.DB
}

// Run is the summary of one simulation run. It holds aggregates only,
// never cell state.
type Run struct {
	ID                int64
	Seed              int64
	Ticks             int
	Floors            int
	Width             int
	Height            int
	Ignitions         int
	PeakFireCells     int
	PeakSmoke         float64
	PeakDanger        float64
	CollapsedWalls    int
	FirstAlarmTick    int // -1 if no detector tripped
	FirstCriticalTick int // -1 if no floor went critical
	CreatedAt         time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			floors INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			ignitions INTEGER NOT NULL DEFAULT 0,
			peak_fire_cells INTEGER NOT NULL DEFAULT 0,
			peak_smoke REAL NOT NULL DEFAULT 0,
			peak_danger REAL NOT NULL DEFAULT 0,
			collapsed_walls INTEGER NOT NULL DEFAULT 0,
			first_alarm_tick INTEGER,
			first_critical_tick INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// nullableTick stores negative ticks as NULL.
func nullableTick(tick int) sql.NullInt64 {
	if tick < 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(tick), Valid: true}
}

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (seed, ticks, floors, width, height, ignitions,
			peak_fire_cells, peak_smoke, peak_danger, collapsed_walls,
			first_alarm_tick, first_critical_tick)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Seed, r.Ticks, r.Floors, r.Width, r.Height, r.Ignitions,
		r.PeakFireCells, r.PeakSmoke, r.PeakDanger, r.CollapsedWalls,
		nullableTick(r.FirstAlarmTick), nullableTick(r.FirstCriticalTick),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns returns the latest runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, seed, ticks, floors, width, height, ignitions,
			peak_fire_cells, peak_smoke, peak_danger, collapsed_walls,
			first_alarm_tick, first_critical_tick, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var alarm, critical sql.NullInt64
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.Seed, &r.Ticks, &r.Floors, &r.Width, &r.Height, &r.Ignitions,
			&r.PeakFireCells, &r.PeakSmoke, &r.PeakDanger, &r.CollapsedWalls,
			&alarm, &critical, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		r.FirstAlarmTick = -1
		if alarm.Valid {
			r.FirstAlarmTick = int(alarm.Int64)
		}
		r.FirstCriticalTick = -1
		if critical.Valid {
			r.FirstCriticalTick = int(critical.Int64)
		}

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			r.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				r.CreatedAt = parsed
			}
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// CountRuns returns the number of recorded runs.
func (s *Store) CountRuns() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count runs: %w", err)
	}
	return n, nil
}
