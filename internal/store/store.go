// Package store is the persistence collaborator: a sqlite-backed key-value
// store for participant snapshots plus an append-only activity log. Reads
// that fail return defaults and log a warning; engine state in memory stays
// authoritative for the session.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"

	"github.com/cardroom/blackjack/internal/fileutil"
	"github.com/cardroom/blackjack/internal/game"
)

// schemaVersion gates snapshot decoding. Values written by an unknown
// future schema are skipped with a warning, never treated as fatal.
const schemaVersion = 1

const participantsKey = "participants"

// Store wraps the sqlite database.
type Store struct {
	db     *sql.DB
	logger *log.Logger
	mu     sync.Mutex
}

// LogEntry is one persisted activity log line.
type LogEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	Message       string    `json:"message"`
	ParticipantID string    `json:"participant_id,omitempty"`
}

// Open opens (or creates) the store at path.
func Open(path string, logger *log.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	schema := `
	create table if not exists kv (
		key text not null primary key,
		version integer not null,
		value text not null
	);
	create table if not exists activity_log (
		id integer primary key autoincrement,
		ts text not null,
		participant_id text,
		message text not null
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.WithPrefix("store"),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveParticipants persists the snapshots under the participants key.
func (s *Store) SaveParticipants(snapshots []game.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("failed to encode snapshots: %w", err)
	}
	_, err = s.db.Exec(
		`insert into kv (key, version, value) values (?, ?, ?)
		 on conflict(key) do update set version = excluded.version, value = excluded.value`,
		participantsKey, schemaVersion, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save participants: %w", err)
	}
	return nil
}

// LoadParticipants returns the persisted snapshots. A missing key, read
// failure or unknown schema version yields an empty slice and a warning.
func (s *Store) LoadParticipants() []game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var version int
	var value string
	err := s.db.QueryRow(`select version, value from kv where key = ?`, participantsKey).Scan(&version, &value)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		s.logger.Warn("failed to load participants, defaulting to none", "error", err)
		return nil
	}
	if version != schemaVersion {
		s.logger.Warn("unknown participants schema version, defaulting to none", "version", version)
		return nil
	}

	var snapshots []game.Snapshot
	if err := json.Unmarshal([]byte(value), &snapshots); err != nil {
		s.logger.Warn("failed to decode participants, defaulting to none", "error", err)
		return nil
	}
	return snapshots
}

// AppendLog persists one activity line. Failures are logged and swallowed.
func (s *Store) AppendLog(message, participantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`insert into activity_log (ts, participant_id, message) values (?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), participantID, message,
	)
	if err != nil {
		s.logger.Warn("failed to append activity log", "error", err)
	}
}

// RecentLog returns the most recent n activity entries, newest first.
func (s *Store) RecentLog(n int) []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`select ts, participant_id, message from activity_log order by id desc limit ?`, n)
	if err != nil {
		s.logger.Warn("failed to read activity log", "error", err)
		return nil
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var ts, pid, msg string
		if err := rows.Scan(&ts, &pid, &msg); err != nil {
			s.logger.Warn("failed to scan activity log row", "error", err)
			continue
		}
		t, _ := time.Parse(time.RFC3339Nano, ts)
		entries = append(entries, LogEntry{Timestamp: t, Message: msg, ParticipantID: pid})
	}
	return entries
}

// Export is the JSON snapshot written by ExportJSON.
type Export struct {
	Version      int             `json:"version"`
	Participants []game.Snapshot `json:"participants"`
	ActivityLog  []LogEntry      `json:"activity_log"`
}

// ExportJSON writes the store contents to a JSON file atomically.
func (s *Store) ExportJSON(path string, recentLog int) error {
	export := Export{
		Version:      schemaVersion,
		Participants: s.LoadParticipants(),
		ActivityLog:  s.RecentLog(recentLog),
	}
	return fileutil.WriteJSONAtomic(path, export, 0o644)
}
