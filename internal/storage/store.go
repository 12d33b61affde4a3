// Package storage persists source records and insight state in SQLite.
//
// Directory structure:
// ~/.local/share/reverie/
// └── reverie.db      # SQLite database (WAL mode)
//
// Source records live in one table per stream. Insight state is kept as
// whole-document snapshots in a small key-value table so that an analysis
// pass replaces it in a single transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DatabaseFile is the SQLite file name inside the storage directory.
const DatabaseFile = "reverie.db"

// Store handles persistence of sources and insight state.
type Store struct {
	db     *sql.DB
	dbPath string
}

// New creates a new Store under baseDir.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, DatabaseFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database tables.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS journal_logs (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		text TEXT,
		mood REAL,
		energy REAL,
		sleep_hours REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_journal_logs_timestamp ON journal_logs(timestamp);

	CREATE TABLE IF NOT EXISTS calendar_events (
		id TEXT PRIMARY KEY,
		start_time DATETIME NOT NULL,
		category TEXT,
		attendees INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_calendar_events_start ON calendar_events(start_time);

	CREATE TABLE IF NOT EXISTS contact_interactions (
		contact_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT,
		timestamp DATETIME NOT NULL,
		PRIMARY KEY (contact_id, timestamp)
	);

	CREATE INDEX IF NOT EXISTS idx_contact_interactions_timestamp ON contact_interactions(timestamp);

	CREATE TABLE IF NOT EXISTS location_samples (
		timestamp DATETIME NOT NULL,
		category TEXT NOT NULL,
		PRIMARY KEY (timestamp, category)
	);

	CREATE TABLE IF NOT EXISTS screen_time_samples (
		date TEXT PRIMARY KEY,
		minutes REAL NOT NULL,
		pickups INTEGER DEFAULT 0,
		apps JSON
	);

	CREATE TABLE IF NOT EXISTS health_samples (
		date TEXT PRIMARY KEY,
		steps INTEGER DEFAULT 0,
		sleep_hours REAL DEFAULT 0,
		heart_rate REAL DEFAULT 0,
		menstrual_phase TEXT
	);

	CREATE TABLE IF NOT EXISTS weather_samples (
		date TEXT PRIMARY KEY,
		condition TEXT,
		temperature REAL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Stats holds storage statistics.
type Stats struct {
	ByTable      map[string]int64
	Insights     int
	DatabaseSize int64
}

// sourceTables lists the per-stream tables reported by Stats.
var sourceTables = []string{
	"journal_logs",
	"calendar_events",
	"contact_interactions",
	"location_samples",
	"screen_time_samples",
	"health_samples",
	"weather_samples",
}

// Stats returns row counts per source table, the number of stored insights,
// and the database size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByTable: make(map[string]int64, len(sourceTables))}

	for _, table := range sourceTables {
		var count int64
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return stats, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats.ByTable[table] = count
	}

	list, err := s.LoadInsights(ctx)
	if err != nil {
		return stats, err
	}
	stats.Insights = len(list)

	if info, err := os.Stat(s.dbPath); err == nil {
		stats.DatabaseSize = info.Size()
	}

	return stats, nil
}
