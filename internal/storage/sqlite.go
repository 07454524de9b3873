package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/LckyLuciano/meshmon/internal/log"
	"github.com/LckyLuciano/meshmon/internal/model"
)

// retention is how long journaled events are kept before pruning.
const retention = 90 * 24 * time.Hour

// Store is the on-disk event journal. Watchdog events are written
// synchronously (they are rare) and pruned in the background.
type Store struct {
	db        *sql.DB
	closeChan chan struct{}
}

// Open opens (or creates) the journal database under dataDir. An empty
// dataDir falls back to ~/.meshmon.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".meshmon")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "meshmon.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:        db,
		closeChan: make(chan struct{}),
	}

	// Start cleanup routine
	go s.cleanup()

	return s, nil
}

// createTables creates the database schema
func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS watch_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		container TEXT NOT NULL,
		kind TEXT NOT NULL,
		match_line TEXT,
		restart_error TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_time
	ON watch_events(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// RecordEvent journals a watchdog event and fills in its assigned ID.
func (s *Store) RecordEvent(ev *model.WatchEvent) error {
	result, err := s.db.Exec(`
		INSERT INTO watch_events
		(container, kind, match_line, restart_error, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		ev.Container,
		string(ev.Kind),
		ev.Line,
		ev.Error,
		ev.At.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		ev.ID = id
	}
	return nil
}

// RecentEvents returns the newest events, most recent first.
func (s *Store) RecentEvents(limit int) ([]model.WatchEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, container, kind, match_line, restart_error, created_at
		FROM watch_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []model.WatchEvent
	for rows.Next() {
		var ev model.WatchEvent
		var kind string
		var createdAt int64

		if err := rows.Scan(&ev.ID, &ev.Container, &kind, &ev.Line, &ev.Error, &createdAt); err != nil {
			continue
		}

		ev.Kind = model.EventKind(kind)
		ev.At = time.Unix(createdAt, 0)
		events = append(events, ev)
	}

	return events, rows.Err()
}

// CountEvents counts journaled events, optionally filtered by kind.
func (s *Store) CountEvents(kind model.EventKind) (int64, error) {
	var count int64
	var err error
	if kind == "" {
		err = s.db.QueryRow("SELECT COUNT(*) FROM watch_events").Scan(&count)
	} else {
		err = s.db.QueryRow("SELECT COUNT(*) FROM watch_events WHERE kind = ?", string(kind)).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// cleanup removes old data periodically
func (s *Store) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-retention).Unix()
			s.batchDelete(cutoff)

		case <-s.closeChan:
			return
		}
	}
}

// batchDelete removes old records in batches to prevent long-running locks
func (s *Store) batchDelete(cutoffTimestamp int64) {
	const batchSize = 1000
	logger := log.WithComponent("storage")

	for {
		result, err := s.db.Exec(
			"DELETE FROM watch_events WHERE created_at < ? LIMIT ?",
			cutoffTimestamp,
			batchSize,
		)
		if err != nil {
			logger.Debug().Err(err).Msg("event prune failed")
			return
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil || rowsAffected == 0 {
			// No more rows to delete
			return
		}

		// Small sleep to avoid overwhelming the database
		time.Sleep(100 * time.Millisecond)
	}
}

// Close closes the storage
func (s *Store) Close() error {
	close(s.closeChan)
	time.Sleep(100 * time.Millisecond) // Allow goroutines to finish
	return s.db.Close()
}
