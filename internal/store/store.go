// Package store provides the SQLite persistence layer: a b-file cache so
// re-runs skip the network, the candidate queue produced by target finding,
// and a findings table recording every verified conjecture.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"conjecturer/internal/logging"
	"conjecturer/internal/sequence"
)

// Store wraps the SQLite database. Safe for concurrent use.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Finding is one verified conjecture, as persisted.
type Finding struct {
	ID          string
	SequenceID  string
	Kind        string
	Degree      int
	Formula     string
	LaTeX       string
	Description string
	TermCount   int
	CreatedAt   time.Time
}

// Open initializes the SQLite database at the given path, creating the
// directory and schema as needed.
func Open(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "store.Open")
	defer timer.Stop()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Store("store opened at %s", path)
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bfile_cache (
		sequence_id TEXT PRIMARY KEY,
		terms       TEXT NOT NULL,
		term_count  INTEGER NOT NULL,
		fetched_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS candidates (
		sequence_id TEXT PRIMARY KEY,
		status      TEXT NOT NULL DEFAULT 'pending',
		added_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
		analyzed_at DATETIME
	);
	CREATE TABLE IF NOT EXISTS findings (
		id          TEXT PRIMARY KEY,
		sequence_id TEXT NOT NULL,
		kind        TEXT NOT NULL,
		degree      INTEGER NOT NULL DEFAULT 0,
		formula     TEXT NOT NULL,
		latex       TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		term_count  INTEGER NOT NULL,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_findings_sequence ON findings(sequence_id);
	CREATE INDEX IF NOT EXISTS idx_candidates_status ON candidates(status);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// CacheSequence stores fetched terms for a sequence ID, replacing any prior
// cache entry. Terms encode as comma-joined decimal strings, so magnitude is
// unbounded.
func (s *Store) CacheSequence(id string, seq sequence.Sequence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := make([]string, seq.Len())
	for i, t := range seq.Terms {
		parts[i] = t.String()
	}
	_, err := s.db.Exec(`
		INSERT INTO bfile_cache (sequence_id, terms, term_count, fetched_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(sequence_id) DO UPDATE SET
			terms = excluded.terms,
			term_count = excluded.term_count,
			fetched_at = CURRENT_TIMESTAMP`,
		id, strings.Join(parts, ","), seq.Len())
	if err != nil {
		return fmt.Errorf("cache sequence %s: %w", id, err)
	}
	logging.StoreDebug("cached %d terms for %s", seq.Len(), id)
	return nil
}

// CachedSequence returns the cached terms for an ID, or ok=false on a miss.
func (s *Store) CachedSequence(id string) (sequence.Sequence, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var terms string
	err := s.db.QueryRow(
		`SELECT terms FROM bfile_cache WHERE sequence_id = ?`, id).Scan(&terms)
	if err == sql.ErrNoRows {
		return sequence.Sequence{}, false, nil
	}
	if err != nil {
		return sequence.Sequence{}, false, fmt.Errorf("load cached sequence %s: %w", id, err)
	}
	seq, err := sequence.Parse(terms)
	if err != nil {
		return sequence.Sequence{}, false, fmt.Errorf("decode cached sequence %s: %w", id, err)
	}
	return seq, true, nil
}

// EnqueueCandidates adds sequence IDs to the candidate queue. Already-known
// IDs keep their current status.
func (s *Store) EnqueueCandidates(ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	added := 0
	for _, id := range ids {
		res, err := tx.Exec(
			`INSERT OR IGNORE INTO candidates (sequence_id) VALUES (?)`, id)
		if err != nil {
			return 0, fmt.Errorf("enqueue candidate %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	logging.Store("enqueued %d new candidates (%d supplied)", added, len(ids))
	return added, nil
}

// PendingCandidates lists candidate IDs not yet analyzed, oldest first.
func (s *Store) PendingCandidates(limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT sequence_id FROM candidates
		WHERE status = 'pending' ORDER BY added_at LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkAnalyzed transitions a candidate out of the pending state.
func (s *Store) MarkAnalyzed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE candidates SET status = 'analyzed', analyzed_at = CURRENT_TIMESTAMP
		WHERE sequence_id = ?`, id)
	return err
}

// RecordFinding persists a verified conjecture and returns its generated ID.
func (s *Store) RecordFinding(f Finding) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	_, err := s.db.Exec(`
		INSERT INTO findings (id, sequence_id, kind, degree, formula, latex, description, term_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.SequenceID, f.Kind, f.Degree, f.Formula, f.LaTeX, f.Description, f.TermCount)
	if err != nil {
		return "", fmt.Errorf("record finding for %s: %w", f.SequenceID, err)
	}
	logging.Store("recorded %s finding for %s", f.Kind, f.SequenceID)
	return f.ID, nil
}

// Findings lists recorded findings, newest first.
func (s *Store) Findings(limit int) ([]Finding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, sequence_id, kind, degree, formula, latex, description, term_count, created_at
		FROM findings ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Finding
	for rows.Next() {
		var f Finding
		if err := rows.Scan(&f.ID, &f.SequenceID, &f.Kind, &f.Degree,
			&f.Formula, &f.LaTeX, &f.Description, &f.TermCount, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
