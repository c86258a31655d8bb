// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fts maintains a SQLite FTS5 sidecar index over the paper records,
// giving exact keyword matching as a complement to the vector-space ranking.
// The sidecar is rebuilt wholesale after each ingest batch; it never drifts
// independently of the JSON index it mirrors.
package fts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/econsearch/pkg/types"
)

// ErrEmpty reports a sidecar with no indexed papers. Opening a path always
// succeeds and creates the schema, so an unbuilt sidecar is only detectable
// at query time; a silent empty result would mask it.
var ErrEmpty = errors.New("keyword index is empty: run ingest with --fts-path first")

// Store manages the sidecar database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the sidecar database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating sidecar directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening sidecar database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sidecar schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			pdf_path TEXT PRIMARY KEY,
			title TEXT,
			abstract TEXT,
			journal TEXT,
			year INTEGER,
			authors TEXT,
			keywords TEXT
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts
			USING fts5(pdf_path UNINDEXED, content)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Rebuild replaces the sidecar contents with the given records in one
// transaction, so concurrent readers see either the old or the new index.
func (s *Store) Rebuild(ctx context.Context, records []types.PaperRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM papers`, `DELETE FROM papers_fts`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing sidecar: %w", err)
		}
	}

	paperStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (pdf_path, title, abstract, journal, year, authors, keywords)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer paperStmt.Close()

	ftsStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers_fts (pdf_path, content) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, r := range records {
		authorsJSON, _ := json.Marshal(r.Authors)
		keywordsJSON, _ := json.Marshal(r.Keywords)

		var year any
		if r.Year != nil {
			year = *r.Year
		}

		if _, err := paperStmt.ExecContext(ctx,
			r.PDFPath, r.Title, r.Abstract, r.Journal, year,
			string(authorsJSON), string(keywordsJSON),
		); err != nil {
			return fmt.Errorf("inserting paper %s: %w", r.PDFPath, err)
		}
		if _, err := ftsStmt.ExecContext(ctx, r.PDFPath, r.SearchText()); err != nil {
			return fmt.Errorf("indexing paper %s: %w", r.PDFPath, err)
		}
	}

	return tx.Commit()
}

// Search runs an FTS5 match and returns records ranked by BM25 relevance.
// Scores are positive with higher meaning more relevant; unlike the
// vector-space engine they are not bounded to [0,1]. Searching a sidecar
// with no indexed papers fails with ErrEmpty.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	if query == "" {
		return []types.SearchResult{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	n, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrEmpty
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.pdf_path, p.title, p.abstract, p.journal, p.year,
			p.authors, p.keywords, papers_fts.rank
		 FROM papers_fts
		 JOIN papers p ON p.pdf_path = papers_fts.pdf_path
		 WHERE papers_fts MATCH ?
		 ORDER BY papers_fts.rank
		 LIMIT ?`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sidecar: %w", err)
	}
	defer rows.Close()

	var results []types.SearchResult
	for rows.Next() {
		var (
			r            types.SearchResult
			year         sql.NullInt64
			authorsJSON  sql.NullString
			keywordsJSON sql.NullString
			rank         float64
		)
		if err := rows.Scan(
			&r.PDFPath, &r.Title, &r.Abstract, &r.Journal, &year,
			&authorsJSON, &keywordsJSON, &rank,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if year.Valid {
			y := int(year.Int64)
			r.Year = &y
		}
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &r.Authors)
		}
		if keywordsJSON.Valid {
			json.Unmarshal([]byte(keywordsJSON.String), &r.Keywords)
		}
		// FTS5 rank is negative BM25: more negative means more relevant.
		r.Score = -rank
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of indexed papers.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n)
	return n, err
}
