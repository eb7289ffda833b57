package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"credence/pkg/credence/store"
)

// sqliteStore implements store.Store on a local SQLite file
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite run store with WAL mode enabled, creating the file
// and schema as needed.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	network TEXT,
	query TEXT NOT NULL,
	evidence TEXT,
	posterior TEXT,
	trace TEXT
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run. Evidence and posterior are stored as
// JSON text.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run has no id")
	}

	evidence, err := json.Marshal(r.Evidence)
	if err != nil {
		return fmt.Errorf("encode evidence: %w", err)
	}
	posterior, err := json.Marshal(r.Posterior)
	if err != nil {
		return fmt.Errorf("encode posterior: %w", err)
	}

	const stmt = `
INSERT INTO runs (id, created_at, network, query, evidence, posterior, trace)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	network=excluded.network,
	query=excluded.query,
	evidence=excluded.evidence,
	posterior=excluded.posterior,
	trace=excluded.trace;
`
	_, err = s.db.ExecContext(
		ctx,
		stmt,
		r.ID,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
		r.Network,
		r.Query,
		string(evidence),
		string(posterior),
		r.Trace,
	)
	return err
}

// GetRun returns a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, created_at, network, query, evidence, posterior, trace
FROM runs WHERE id = ?`, id)

	r, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	return r, true, nil
}

// ListRuns returns up to limit runs, newest first. ULIDs sort by creation
// time, so ordering by id is ordering by age.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, network, query, evidence, posterior, trace
FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRun(scan func(dest ...interface{}) error) (store.Run, error) {
	var r store.Run
	var createdAt, evidence, posterior string

	if err := scan(&r.ID, &createdAt, &r.Network, &r.Query, &evidence, &posterior, &r.Trace); err != nil {
		return store.Run{}, err
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return store.Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	r.CreatedAt = ts

	if err := json.Unmarshal([]byte(evidence), &r.Evidence); err != nil {
		return store.Run{}, fmt.Errorf("decode evidence: %w", err)
	}
	if err := json.Unmarshal([]byte(posterior), &r.Posterior); err != nil {
		return store.Run{}, fmt.Errorf("decode posterior: %w", err)
	}
	return r, nil
}
