// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for local cache queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over titles and abstracts.
	Query string

	// Year filters by publication year; zero means any year.
	Year int

	// Journal filters by exact journal title.
	Journal string

	// SessionID restricts the lookup to one cached session; zero means all.
	SessionID int64

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Year == 0 && q.Journal == "" && q.SessionID == 0
}

// ArticleHit is one cached article returned by Retrieve, with the
// session it came from.
type ArticleHit struct {
	SessionID int64    `json:"session_id"`
	PMID      string   `json:"pmid"`
	Title     string   `json:"title"`
	Abstract  string   `json:"abstract,omitempty"`
	Journal   string   `json:"journal,omitempty"`
	Year      int      `json:"year,omitempty"`
	Authors   []string `json:"authors,omitempty"`
	MeshTerms []string `json:"mesh_terms,omitempty"`
	DOI       string   `json:"doi,omitempty"`
}

// Retrieve queries the cache with optional full-text search and
// structured filters. Full-text queries are ranked by FTS5 relevance;
// structured-only queries sort by session, then PMID.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]ArticleHit, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT a.session_id, a.pmid, a.title, a.abstract, a.journal, a.year,
				a.authors, a.mesh_terms, a.doi
			FROM articles_fts
			JOIN articles a ON a.rowid = articles_fts.rowid
			WHERE articles_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT a.session_id, a.pmid, a.title, a.abstract, a.journal, a.year,
				a.authors, a.mesh_terms, a.doi
			FROM articles a
			WHERE 1=1`)
	}

	if opts.Year != 0 {
		qb.WriteString(` AND a.year = ?`)
		args = append(args, opts.Year)
	}
	if opts.Journal != "" {
		qb.WriteString(` AND a.journal = ?`)
		args = append(args, opts.Journal)
	}
	if opts.SessionID != 0 {
		qb.WriteString(` AND a.session_id = ?`)
		args = append(args, opts.SessionID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY articles_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY a.session_id, a.pmid`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying cache: %w", err)
	}
	defer rows.Close()

	var hits []ArticleHit
	for rows.Next() {
		var (
			hit         ArticleHit
			authorsJSON sql.NullString
			meshJSON    sql.NullString
		)
		if err := rows.Scan(
			&hit.SessionID, &hit.PMID, &hit.Title, &hit.Abstract, &hit.Journal,
			&hit.Year, &authorsJSON, &meshJSON, &hit.DOI,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &hit.Authors)
		}
		if meshJSON.Valid {
			json.Unmarshal([]byte(meshJSON.String), &hit.MeshTerms)
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}
