// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store caches completed search sessions in a local SQLite
// database with FTS5 indexing over titles and abstracts. The cache
// never feeds the display path implicitly: the in-memory result set
// always comes from the most recent completed search.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/IMTENANUR/Research-Toolkit/internal/search"
	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

const dbFile = "toolkit.db"

// Store manages the session cache database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the cache database at dataDir/toolkit.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			query_translation TEXT,
			total_matches INTEGER,
			fetched INTEGER,
			mesh_query TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL REFERENCES sessions(id),
			pmid TEXT NOT NULL,
			title TEXT,
			abstract TEXT,
			journal TEXT,
			year INTEGER,
			authors TEXT,
			mesh_terms TEXT,
			doi TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_session ON articles(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_pmid ON articles(pmid)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_year ON articles(year)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='articles_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE articles_fts USING fts5(title, abstract, content=articles, content_rowid=rowid)`,
			`CREATE TRIGGER articles_ai AFTER INSERT ON articles BEGIN
				INSERT INTO articles_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER articles_ad AFTER DELETE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER articles_au AFTER UPDATE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO articles_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SaveSession persists a completed search and its article set, and
// returns the new session ID.
func (s *Store) SaveSession(ctx context.Context, r *search.Result) (int64, error) {
	if r == nil || r.Query == "" {
		return 0, fmt.Errorf("no completed search to save")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	created := r.Timestamp
	if created.IsZero() {
		created = time.Now()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (query, query_translation, total_matches, fetched, mesh_query, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Query, r.QueryTranslation, r.TotalMatches, len(r.Articles), r.MeshQuery,
		created.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting session: %w", err)
	}

	sessionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading session id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (session_id, pmid, title, abstract, journal, year, authors, mesh_terms, doi)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range r.Articles {
		authorsJSON, _ := json.Marshal(a.AuthorNames())
		meshJSON, _ := json.Marshal(a.MeshDescriptors())
		if _, err := stmt.ExecContext(ctx,
			sessionID, a.PMID, a.Title, a.Abstract, a.Journal, a.Year,
			string(authorsJSON), string(meshJSON), a.DOI,
		); err != nil {
			return 0, fmt.Errorf("inserting article %s: %w", a.PMID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing session: %w", err)
	}

	slog.Info("session cached", "session_id", sessionID, "query", r.Query, "articles", len(r.Articles))
	return sessionID, nil
}

// SessionInfo summarizes one cached session for listings.
type SessionInfo struct {
	ID           int64     `json:"id"`
	Query        string    `json:"query"`
	TotalMatches int       `json:"total_matches"`
	Fetched      int       `json:"fetched"`
	CreatedAt    time.Time `json:"created_at"`
}

// Sessions lists cached sessions, newest first.
func (s *Store) Sessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, total_matches, fetched, created_at
		 FROM sessions ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var created string
		if err := rows.Scan(&info.ID, &info.Query, &info.TotalMatches, &info.Fetched, &created); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
			info.CreatedAt = t
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
