// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search orchestrates one search session: build the query, run
// it against PubMed, fetch the matching records, and derive frequency
// statistics. The session owns the current result set.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IMTENANUR/Research-Toolkit/internal/analyze"
	"github.com/IMTENANUR/Research-Toolkit/internal/pubmed"
	"github.com/IMTENANUR/Research-Toolkit/internal/query"
	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

// ErrSearchInProgress is returned when a search is requested while
// another one is still running. One search runs to completion before
// the next is accepted.
var ErrSearchInProgress = errors.New("a search is already in progress")

// PubMedAPI is the slice of the E-utilities client the session needs.
// pubmed.Client implements it; tests substitute a mock.
type PubMedAPI interface {
	Search(ctx context.Context, term string, retmax int) (pubmed.SearchResult, error)
	Fetch(ctx context.Context, pmids []string) ([]types.Article, error)
}

// Result holds everything one completed search produced.
type Result struct {
	// Query is the submitted PubMed expression.
	Query string `json:"query" yaml:"query"`

	// QueryTranslation is PubMed's expansion of the query.
	QueryTranslation string `json:"query_translation,omitempty" yaml:"query_translation,omitempty"`

	// TotalMatches is the full PubMed match count, which may exceed
	// len(Articles).
	TotalMatches int `json:"total_matches" yaml:"total_matches"`

	// Articles is the fetched result set, in PubMed rank order.
	Articles []types.Article `json:"articles" yaml:"articles"`

	// Mesh is the MeSH descriptor frequency table over Articles.
	Mesh types.FrequencyTable `json:"mesh" yaml:"mesh"`

	// Words is the abstract word frequency table over Articles.
	Words types.FrequencyTable `json:"words" yaml:"words"`

	// Years aggregates Articles by publication year.
	Years types.Trend `json:"years" yaml:"years"`

	// MeshQuery is the composed MeSH search string built from the top
	// descriptors, ready to paste into PubMed.
	MeshQuery string `json:"mesh_query,omitempty" yaml:"mesh_query,omitempty"`

	// Timestamp records when the search completed.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Session runs searches and holds the most recent completed result.
// A failed run leaves the previous result untouched.
type Session struct {
	client PubMedAPI
	cfg    types.AnalysisConfig

	mu      sync.Mutex
	running bool
	last    *Result
}

// NewSession builds a session around a PubMed client.
func NewSession(client PubMedAPI, cfg types.AnalysisConfig) *Session {
	if cfg.MeshTop <= 0 {
		cfg.MeshTop = 10
	}
	if cfg.WordTop <= 0 {
		cfg.WordTop = 20
	}
	return &Session{client: client, cfg: cfg}
}

// Run executes the full pipeline for a prepared query string and
// installs the result as the session's current set. Concurrent calls
// fail fast with ErrSearchInProgress rather than queueing.
func (s *Session) Run(ctx context.Context, queryStr string, retmax int) (*Result, error) {
	if queryStr == "" {
		return nil, fmt.Errorf("query is empty: provide at least one search term")
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrSearchInProgress
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	sr, err := s.client.Search(ctx, queryStr, retmax)
	if err != nil {
		return nil, fmt.Errorf("searching PubMed: %w", err)
	}

	articles, err := s.client.Fetch(ctx, sr.PMIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching %d records: %w", len(sr.PMIDs), err)
	}

	result := s.analyzeSet(queryStr, sr, articles)

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()
	return result, nil
}

// RunClauses builds the query from clause tuples and runs it.
func (s *Session) RunClauses(ctx context.Context, clauses []query.Clause, retmax int) (*Result, error) {
	q, err := query.Build(clauses)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, q, retmax)
}

// analyzeSet derives all statistics for a fetched article set.
func (s *Session) analyzeSet(queryStr string, sr pubmed.SearchResult, articles []types.Article) *Result {
	mesh := analyze.MeshFrequency(articles)

	meshTerms := make([]string, 0, s.cfg.MeshTop)
	for _, e := range mesh.Top(s.cfg.MeshTop) {
		meshTerms = append(meshTerms, e.Term)
	}

	return &Result{
		Query:            queryStr,
		QueryTranslation: sr.QueryTranslation,
		TotalMatches:     sr.Count,
		Articles:         articles,
		Mesh:             mesh,
		Words:            analyze.WordFrequency(articles, s.cfg.MinWordLength, s.cfg.WordTop),
		Years:            analyze.YearCounts(articles),
		MeshQuery:        query.FormatMeSHQuery(meshTerms, s.cfg.MeshTop),
		Timestamp:        time.Now(),
	}
}

// Last returns the most recent completed result, or nil before the
// first successful search.
func (s *Session) Last() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Restore installs a previously saved result as the current set, used
// when reloading a query file.
func (s *Session) Restore(r *Result) {
	s.mu.Lock()
	s.last = r
	s.mu.Unlock()
}
