// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI E-utilities API: esearch for PMID
// lists and match counts, efetch for full article records.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/IMTENANUR/Research-Toolkit/internal/httputil"
	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	esearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// Client talks to the E-utilities API with request pacing and 429 retry.
type Client struct {
	http  *http.Client
	cfg   types.PubMedConfig
	pacer *httputil.Pacer
}

// NewClient builds a Client from configuration. The request budget is
// 3/s without an API key and 10/s with one, per NCBI usage guidelines.
func NewClient(cfg types.PubMedConfig) *Client {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 100
	}
	if cfg.Tool == "" {
		cfg.Tool = "research-toolkit"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "research-toolkit/0.1"
	}

	perSecond := 3
	if cfg.APIKey != "" {
		perSecond = 10
	}

	return &Client{
		http:  &http.Client{Timeout: cfg.Timeout},
		cfg:   cfg,
		pacer: httputil.NewPacer(perSecond),
	}
}

// SearchResult holds the outcome of an esearch call.
type SearchResult struct {
	// Count is the total number of matches in PubMed, which may exceed
	// the number of returned PMIDs.
	Count int

	// PMIDs are the matching identifiers, up to retmax.
	PMIDs []string

	// QueryTranslation is PubMed's expansion of the submitted query.
	QueryTranslation string
}

// Search runs the query against esearch and returns up to retmax PMIDs.
// A non-positive retmax uses the configured default.
func (c *Client) Search(ctx context.Context, term string, retmax int) (SearchResult, error) {
	if term == "" {
		return SearchResult{}, fmt.Errorf("empty PubMed query")
	}
	if retmax <= 0 {
		retmax = c.cfg.MaxResults
	}

	params := c.baseParams()
	params.Set("term", term)
	params.Set("retmax", strconv.Itoa(retmax))
	params.Set("retmode", "json")

	body, err := c.get(ctx, esearchBase, params)
	if err != nil {
		return SearchResult{}, err
	}
	defer body.Close()

	var er esearchEnvelope
	if err := json.NewDecoder(body).Decode(&er); err != nil {
		return SearchResult{}, fmt.Errorf("parsing esearch response: %w", err)
	}

	count, err := strconv.Atoi(er.Result.Count)
	if err != nil {
		return SearchResult{}, fmt.Errorf("esearch count %q is not a number: %w", er.Result.Count, err)
	}
	return SearchResult{
		Count:            count,
		PMIDs:            er.Result.IDList,
		QueryTranslation: er.Result.QueryTranslation,
	}, nil
}

// Count returns the total number of PubMed matches for the query
// without retrieving identifiers.
func (c *Client) Count(ctx context.Context, term string) (int, error) {
	if term == "" {
		return 0, fmt.Errorf("empty PubMed query")
	}

	params := c.baseParams()
	params.Set("term", term)
	params.Set("retmax", "0")
	params.Set("retmode", "json")

	body, err := c.get(ctx, esearchBase, params)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	var er esearchEnvelope
	if err := json.NewDecoder(body).Decode(&er); err != nil {
		return 0, fmt.Errorf("parsing esearch response: %w", err)
	}

	count, err := strconv.Atoi(er.Result.Count)
	if err != nil {
		return 0, fmt.Errorf("esearch count %q is not a number: %w", er.Result.Count, err)
	}
	return count, nil
}

// baseParams returns db plus the etiquette parameters NCBI asks callers
// to send: tool, email, and api_key when configured.
func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("tool", c.cfg.Tool)
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
	return params
}

// get performs a paced GET against an E-utilities endpoint and returns
// the response body on HTTP 200.
func (c *Client) get(ctx context.Context, base string, params url.Values) (io.ReadCloser, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return nil, fmt.Errorf("E-utilities request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("E-utilities returned HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// esearch JSON structures. NCBI encodes numbers as strings in the
// esearchresult object.
type esearchEnvelope struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count            string   `json:"count"`
	RetMax           string   `json:"retmax"`
	IDList           []string `json:"idlist"`
	QueryTranslation string   `json:"querytranslation"`
}
