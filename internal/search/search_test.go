// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/IMTENANUR/Research-Toolkit/internal/pubmed"
	"github.com/IMTENANUR/Research-Toolkit/internal/query"
	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

// --- mock client ---

type mockClient struct {
	searchResult pubmed.SearchResult
	searchErr    error
	articles     []types.Article
	fetchErr     error

	searching chan struct{} // closed by test to release a blocked Search
	inSearch  chan struct{} // signalled when Search is entered
}

func (m *mockClient) Search(ctx context.Context, term string, retmax int) (pubmed.SearchResult, error) {
	if m.inSearch != nil {
		m.inSearch <- struct{}{}
	}
	if m.searching != nil {
		<-m.searching
	}
	return m.searchResult, m.searchErr
}

func (m *mockClient) Fetch(ctx context.Context, pmids []string) ([]types.Article, error) {
	return m.articles, m.fetchErr
}

func testArticles() []types.Article {
	return []types.Article{
		{
			PMID: "1", Title: "Paper A", Year: 2020, Abstract: "aspirin prevents stroke events",
			MeshHeadings: []types.MeshHeading{{Descriptor: "Neoplasms"}},
		},
		{
			PMID: "2", Title: "Paper B", Year: 2021, Abstract: "aspirin trial outcomes",
			MeshHeadings: []types.MeshHeading{{Descriptor: "Neoplasms"}, {Descriptor: "Therapy"}},
		},
	}
}

func testSession(m *mockClient) *Session {
	return NewSession(m, types.AnalysisConfig{MeshTop: 10, WordTop: 20, MinWordLength: 4})
}

// --- Run ---

func TestRunPipeline(t *testing.T) {
	m := &mockClient{
		searchResult: pubmed.SearchResult{Count: 42, PMIDs: []string{"1", "2"}, QueryTranslation: "aspirin[All Fields]"},
		articles:     testArticles(),
	}
	s := testSession(m)

	r, err := s.Run(context.Background(), "aspirin", 100)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if r.TotalMatches != 42 {
		t.Errorf("TotalMatches = %d, want 42", r.TotalMatches)
	}
	if len(r.Articles) != 2 {
		t.Errorf("len(Articles) = %d, want 2", len(r.Articles))
	}
	if r.Mesh.Total() != 3 {
		t.Errorf("Mesh.Total() = %d, want 3", r.Mesh.Total())
	}
	if r.Mesh[0].Term != "Neoplasms" || r.Mesh[0].Count != 2 {
		t.Errorf("Mesh[0] = %+v, want Neoplasms:2", r.Mesh[0])
	}
	if len(r.Words) == 0 || r.Words[0].Term != "aspirin" {
		t.Errorf("Words = %+v, want aspirin first", r.Words)
	}
	if len(r.Years) != 2 {
		t.Errorf("Years = %+v", r.Years)
	}
	if !strings.Contains(r.MeshQuery, `"Neoplasms"[MeSH]`) {
		t.Errorf("MeshQuery = %q", r.MeshQuery)
	}
	if r.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}

	if s.Last() != r {
		t.Error("Last() should return the completed result")
	}
}

func TestRunEmptyQuery(t *testing.T) {
	s := testSession(&mockClient{})
	if _, err := s.Run(context.Background(), "", 10); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestRunFailureLeavesLastIntact(t *testing.T) {
	m := &mockClient{
		searchResult: pubmed.SearchResult{Count: 1, PMIDs: []string{"1"}},
		articles:     testArticles(),
	}
	s := testSession(m)

	first, err := s.Run(context.Background(), "aspirin", 10)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	m.searchErr = fmt.Errorf("network down")
	if _, err := s.Run(context.Background(), "stroke", 10); err == nil {
		t.Fatal("expected search failure")
	}
	if s.Last() != first {
		t.Error("failed search must not replace the previous result set")
	}

	m.searchErr = nil
	m.fetchErr = fmt.Errorf("malformed response")
	if _, err := s.Run(context.Background(), "stroke", 10); err == nil {
		t.Fatal("expected fetch failure")
	}
	if s.Last() != first {
		t.Error("failed fetch must not replace the previous result set")
	}
}

func TestRunRejectsConcurrentSearch(t *testing.T) {
	m := &mockClient{
		searchResult: pubmed.SearchResult{PMIDs: []string{"1"}},
		articles:     testArticles(),
		searching:    make(chan struct{}),
		inSearch:     make(chan struct{}, 1),
	}
	s := testSession(m)

	done := make(chan error, 1)
	go func() {
		_, err := s.Run(context.Background(), "aspirin", 10)
		done <- err
	}()

	// Wait until the first search is inside the client call.
	select {
	case <-m.inSearch:
	case <-time.After(time.Second):
		t.Fatal("first search never started")
	}

	if _, err := s.Run(context.Background(), "stroke", 10); err != ErrSearchInProgress {
		t.Errorf("concurrent Run() = %v, want ErrSearchInProgress", err)
	}

	close(m.searching)
	if err := <-done; err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
}

func TestRunClauses(t *testing.T) {
	m := &mockClient{
		searchResult: pubmed.SearchResult{PMIDs: []string{"1"}},
		articles:     testArticles(),
	}
	s := testSession(m)

	r, err := s.RunClauses(context.Background(), []query.Clause{
		{Term: "Neoplasms", Field: query.FieldMeSH},
		{Term: "mice", Field: query.FieldTitleAbstract, Op: query.OpNot},
	}, 10)
	if err != nil {
		t.Fatalf("RunClauses() error: %v", err)
	}
	if r.Query != "Neoplasms[MeSH] NOT mice[Title/Abstract]" {
		t.Errorf("Query = %q", r.Query)
	}

	if _, err := s.RunClauses(context.Background(), nil, 10); err == nil {
		t.Error("expected error for empty clause list")
	}
}

// --- query file ---

func TestQueryFileRoundTrip(t *testing.T) {
	m := &mockClient{
		searchResult: pubmed.SearchResult{Count: 42, PMIDs: []string{"1", "2"}},
		articles:     testArticles(),
	}
	s := testSession(m)

	r, err := s.Run(context.Background(), "aspirin", 10)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "search.yaml")
	if err := WriteQueryFile(path, r); err != nil {
		t.Fatalf("WriteQueryFile() error: %v", err)
	}

	loaded, err := ReadQueryFile(path)
	if err != nil {
		t.Fatalf("ReadQueryFile() error: %v", err)
	}

	if loaded.Query != r.Query {
		t.Errorf("Query = %q, want %q", loaded.Query, r.Query)
	}
	if loaded.TotalMatches != r.TotalMatches {
		t.Errorf("TotalMatches = %d, want %d", loaded.TotalMatches, r.TotalMatches)
	}
	if len(loaded.Articles) != len(r.Articles) {
		t.Fatalf("len(Articles) = %d, want %d", len(loaded.Articles), len(r.Articles))
	}
	if loaded.Articles[0].PMID != "1" || loaded.Articles[1].PMID != "2" {
		t.Errorf("Articles = %+v", loaded.Articles)
	}
	if len(loaded.Mesh) != len(r.Mesh) {
		t.Errorf("Mesh = %+v", loaded.Mesh)
	}
}

func TestReadQueryFileErrors(t *testing.T) {
	if _, err := ReadQueryFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if err := WriteQueryFile(filepath.Join(t.TempDir(), "x.yaml"), nil); err == nil {
		t.Error("expected error for nil result")
	}
}

// --- formatting ---

func TestFormatTable(t *testing.T) {
	r := &Result{
		TotalMatches: 42,
		Articles:     testArticles(),
	}

	var buf bytes.Buffer
	FormatTable(r, &buf)

	out := buf.String()
	if !strings.Contains(out, "Paper A") || !strings.Contains(out, "Paper B") {
		t.Errorf("table missing titles:\n%s", out)
	}
	if !strings.Contains(out, "2 of 42 matches fetched") {
		t.Errorf("table missing summary:\n%s", out)
	}
}

func TestFormatTableTruncatesOnRuneBoundaries(t *testing.T) {
	r := &Result{
		TotalMatches: 1,
		Articles: []types.Article{{
			PMID:    "1",
			Title:   strings.Repeat("é", 80),
			Journal: strings.Repeat("ü", 40),
			Authors: []types.Author{{LastName: strings.Repeat("ß", 40)}},
		}},
	}

	var buf bytes.Buffer
	FormatTable(r, &buf)

	out := buf.String()
	if !utf8.ValidString(out) {
		t.Errorf("truncated table output is not valid UTF-8:\n%q", out)
	}
	if !strings.Contains(out, strings.Repeat("é", 57)+"...") {
		t.Errorf("title not truncated on rune boundary:\n%s", out)
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(nil, &buf)
	if !strings.Contains(buf.String(), "No results") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestFormatTrend(t *testing.T) {
	trend := types.Trend{{Year: 2019, Count: 5}, {Year: 2020, Count: 10}}

	var buf bytes.Buffer
	FormatTrend(trend, &buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	// The larger count draws the longer bar.
	if strings.Count(lines[1], "#") <= strings.Count(lines[0], "#") {
		t.Errorf("bars not proportional:\n%s", buf.String())
	}
}

func TestFormatJSON(t *testing.T) {
	r := &Result{Query: "aspirin", Articles: testArticles()}

	var buf bytes.Buffer
	if err := FormatJSON(r, &buf); err != nil {
		t.Fatalf("FormatJSON() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"query": "aspirin"`) {
		t.Errorf("JSON output missing query:\n%s", buf.String())
	}
}
