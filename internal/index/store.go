// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps downloaded abstracts in a local SQLite database for
// full-text search.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

const defaultMaxResults = 20

// Store manages the abstract index database.
type Store struct {
	db         *sql.DB
	maxResults int

	// fts is false when the SQLite build lacks FTS5; Search then falls
	// back to substring matching.
	fts bool
}

// Open opens or creates the index database at cfg.DBPath and creates the
// schema if it does not exist.
func Open(cfg types.IndexConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// FullText reports whether searches use the FTS5 index.
func (s *Store) FullText() bool {
	return s.fts
}

func (s *Store) createSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS abstracts (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		abstract_id TEXT NOT NULL UNIQUE,
		title TEXT,
		url TEXT,
		abstract TEXT,
		indexed_at TEXT
	)`); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='abstracts_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	_, err := s.db.Exec(`CREATE VIRTUAL TABLE abstracts_fts USING fts5(title, abstract, content=abstracts, content_rowid=rowid)`)
	if err != nil {
		if strings.Contains(err.Error(), "no such module") {
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}

	triggers := []string{
		`CREATE TRIGGER abstracts_ai AFTER INSERT ON abstracts BEGIN
			INSERT INTO abstracts_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
		END`,
		`CREATE TRIGGER abstracts_ad AFTER DELETE ON abstracts BEGIN
			INSERT INTO abstracts_fts(abstracts_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
		END`,
		`CREATE TRIGGER abstracts_au AFTER UPDATE ON abstracts BEGIN
			INSERT INTO abstracts_fts(abstracts_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			INSERT INTO abstracts_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
		END`,
	}
	for _, stmt := range triggers {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Inserted  int
	Updated   int
	Unchanged int
}

// Total returns the number of records processed.
func (s IngestSummary) Total() int {
	return s.Inserted + s.Updated + s.Unchanged
}

// Ingest upserts records in one transaction. Records are applied in
// abstract ID order so repeated runs produce the same row layout.
func (s *Store) Ingest(ctx context.Context, records map[string]types.Abstract) (IngestSummary, error) {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	var summary IngestSummary

	for _, id := range ids {
		rec := records[id]
		if rec.AbstractID == "" {
			rec.AbstractID = id
		}

		var title, url, text string
		err := tx.QueryRowContext(ctx,
			`SELECT title, url, abstract FROM abstracts WHERE abstract_id = ?`, rec.AbstractID,
		).Scan(&title, &url, &text)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO abstracts (abstract_id, title, url, abstract, indexed_at) VALUES (?, ?, ?, ?, ?)`,
				rec.AbstractID, rec.Title, rec.URL, rec.Abstract, now,
			); err != nil {
				return summary, fmt.Errorf("inserting %s: %w", rec.AbstractID, err)
			}
			summary.Inserted++
		case err != nil:
			return summary, fmt.Errorf("looking up %s: %w", rec.AbstractID, err)
		case title == rec.Title && url == rec.URL && text == rec.Abstract:
			summary.Unchanged++
		default:
			if _, err := tx.ExecContext(ctx,
				`UPDATE abstracts SET title = ?, url = ?, abstract = ?, indexed_at = ? WHERE abstract_id = ?`,
				rec.Title, rec.URL, rec.Abstract, now, rec.AbstractID,
			); err != nil {
				return summary, fmt.Errorf("updating %s: %w", rec.AbstractID, err)
			}
			summary.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}
	return summary, nil
}

// Count returns the number of indexed abstracts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM abstracts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting abstracts: %w", err)
	}
	return n, nil
}
