// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IMTENANUR/Research-Toolkit/internal/pubmed"
	"github.com/IMTENANUR/Research-Toolkit/internal/search"
	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

// fakeAPI answers the session with canned data, optionally blocking in
// Search until released so tests can hold a search open.
type fakeAPI struct {
	result   pubmed.SearchResult
	articles []types.Article
	err      error

	started chan struct{} // closed when Search is entered, if set
	release chan struct{} // Search blocks until this closes, if set
}

func (f *fakeAPI) Search(ctx context.Context, term string, retmax int) (pubmed.SearchResult, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return pubmed.SearchResult{}, f.err
	}
	return f.result, nil
}

func (f *fakeAPI) Fetch(ctx context.Context, pmids []string) ([]types.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

type fakeTrender struct {
	trend types.Trend
	err   error

	term string
	from int
	to   int
}

func (f *fakeTrender) YearlyTrend(ctx context.Context, term string, startYear, endYear int) (types.Trend, error) {
	f.term, f.from, f.to = term, startYear, endYear
	if f.err != nil {
		return nil, f.err
	}
	return f.trend, nil
}

func sampleArticles() []types.Article {
	return []types.Article{
		{
			PMID:    "11111",
			Title:   "Gene therapy in oncology",
			Journal: "Nature Medicine",
			Year:    2023,
			Authors: []types.Author{{LastName: "Smith", ForeName: "Jane"}},
			MeshHeadings: []types.MeshHeading{
				{Descriptor: "Neoplasms"},
				{Descriptor: "Genetic Therapy"},
			},
			Abstract: "Adoptive transfer of engineered lymphocytes improves survival outcomes.",
		},
		{
			PMID:         "22222",
			Title:        "Checkpoint inhibitors revisited",
			Journal:      "Cell",
			Year:         2024,
			MeshHeadings: []types.MeshHeading{{Descriptor: "Neoplasms"}},
			Abstract:     "Checkpoint blockade reshapes lymphocytes within solid tumours.",
		},
	}
}

func newTestServer(api search.PubMedAPI, trender Trender) *Server {
	session := search.NewSession(api, types.AnalysisConfig{})
	return New(session, trender, nil, types.TrendConfig{StartYear: 2000, EndYear: 2024})
}

func postSearch(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSearchEndpoint(t *testing.T) {
	api := &fakeAPI{
		result:   pubmed.SearchResult{Count: 1234, PMIDs: []string{"11111", "22222"}},
		articles: sampleArticles(),
	}
	srv := newTestServer(api, &fakeTrender{})

	w := postSearch(t, srv, `{"query": "cancer AND therapy", "max_results": 50}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result search.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "cancer AND therapy", result.Query)
	assert.Equal(t, 1234, result.TotalMatches)
	assert.Len(t, result.Articles, 2)

	require.NotEmpty(t, result.Mesh)
	assert.Equal(t, "Neoplasms", result.Mesh[0].Term)
	assert.Equal(t, 2, result.Mesh[0].Count)
}

func TestSearchEndpointRejectsEmptyQuery(t *testing.T) {
	srv := newTestServer(&fakeAPI{}, &fakeTrender{})

	w := postSearch(t, srv, `{"query": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "query is empty")
}

func TestSearchEndpointRejectsConcurrentSearch(t *testing.T) {
	api := &fakeAPI{
		result:   pubmed.SearchResult{Count: 1, PMIDs: []string{"11111"}},
		articles: sampleArticles()[:1],
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	srv := newTestServer(api, &fakeTrender{})

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- postSearch(t, srv, `{"query": "slow query"}`)
	}()
	<-api.started

	w := postSearch(t, srv, `{"query": "second query"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already in progress")

	close(api.release)
	first := <-done
	assert.Equal(t, http.StatusOK, first.Code)
}

func TestSearchEndpointUpstreamFailure(t *testing.T) {
	api := &fakeAPI{err: fmt.Errorf("esearch: 500 Internal Server Error")}
	srv := newTestServer(api, &fakeTrender{})

	w := postSearch(t, srv, `{"query": "cancer"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// A failed search must not publish a result set.
	assert.Equal(t, http.StatusNotFound, get(srv, "/api/result").Code)
}

func TestResultEndpointBeforeFirstSearch(t *testing.T) {
	srv := newTestServer(&fakeAPI{}, &fakeTrender{})

	w := get(srv, "/api/result")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no completed search")
}

func TestTrendEndpoint(t *testing.T) {
	trender := &fakeTrender{trend: types.Trend{
		{Year: 2020, Count: 10},
		{Year: 2021, Count: 15},
	}}
	srv := newTestServer(&fakeAPI{}, trender)

	w := get(srv, "/api/trend?term=crispr&from=2020&to=2021")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "crispr", trender.term)
	assert.Equal(t, 2020, trender.from)
	assert.Equal(t, 2021, trender.to)

	var resp struct {
		Term  string      `json:"term"`
		Trend types.Trend `json:"trend"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Trend, 2)
}

func TestTrendEndpointDefaultsToConfiguredRange(t *testing.T) {
	trender := &fakeTrender{trend: types.Trend{}}
	srv := newTestServer(&fakeAPI{}, trender)

	w := get(srv, "/api/trend?term=crispr")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2000, trender.from)
	assert.Equal(t, 2024, trender.to)
}

func TestTrendEndpointValidation(t *testing.T) {
	srv := newTestServer(&fakeAPI{}, &fakeTrender{})

	assert.Equal(t, http.StatusBadRequest, get(srv, "/api/trend").Code)
	assert.Equal(t, http.StatusBadRequest, get(srv, "/api/trend?term=x&from=abc").Code)
}

func TestExportRequiresResults(t *testing.T) {
	srv := newTestServer(&fakeAPI{}, &fakeTrender{})

	for _, path := range []string{
		"/export/articles.csv",
		"/export/mesh.csv",
		"/export/words.csv",
		"/export/trend.csv",
		"/export/workbook.xlsx",
	} {
		w := get(srv, path)
		assert.Equal(t, http.StatusConflict, w.Code, path)
		assert.Contains(t, w.Body.String(), "nothing to export", path)
	}
}

func TestExportArticlesCSV(t *testing.T) {
	api := &fakeAPI{
		result:   pubmed.SearchResult{Count: 2, PMIDs: []string{"11111", "22222"}},
		articles: sampleArticles(),
	}
	srv := newTestServer(api, &fakeTrender{})
	require.Equal(t, http.StatusOK, postSearch(t, srv, `{"query": "cancer"}`).Code)

	w := get(srv, "/export/articles.csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "articles.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "pmid,title,journal"))
	assert.Contains(t, lines[1], "11111")
}

func TestExportWorkbookXLSX(t *testing.T) {
	api := &fakeAPI{
		result:   pubmed.SearchResult{Count: 2, PMIDs: []string{"11111", "22222"}},
		articles: sampleArticles(),
	}
	srv := newTestServer(api, &fakeTrender{})
	require.Equal(t, http.StatusOK, postSearch(t, srv, `{"query": "cancer"}`).Code)

	w := get(srv, "/export/workbook.xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	// XLSX files are zip archives.
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestSessionsEndpointWithoutCache(t *testing.T) {
	srv := newTestServer(&fakeAPI{}, &fakeTrender{})

	w := get(srv, "/api/sessions")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "session cache disabled")
}

func TestIndexPage(t *testing.T) {
	api := &fakeAPI{
		result:   pubmed.SearchResult{Count: 2, PMIDs: []string{"11111", "22222"}},
		articles: sampleArticles(),
	}
	srv := newTestServer(api, &fakeTrender{})

	w := get(srv, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<form")

	require.Equal(t, http.StatusOK, postSearch(t, srv, `{"query": "cancer"}`).Code)
	w = get(srv, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Neoplasms")
	assert.Contains(t, w.Body.String(), "Gene therapy in oncology")
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&fakeAPI{}, &fakeTrender{})

	w := get(srv, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
