// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-toolkit/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PubMedConfig holds settings for the NCBI E-utilities client.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the esearch retmax: how many PMIDs to retrieve (default 100).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// APIKey is an optional NCBI API key. With a key NCBI allows 10
	// requests per second instead of 3.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email identifies the caller to NCBI per E-utilities etiquette.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Tool is the tool name sent alongside Email (default "research-toolkit").
	Tool string `json:"tool,omitempty" yaml:"tool,omitempty"`
}

// AnalysisConfig holds settings for the frequency analyzer.
type AnalysisConfig struct {
	// MeshTop is how many MeSH terms to surface in tables and the
	// composed search string (default 10).
	MeshTop int `json:"mesh_top" yaml:"mesh_top"`

	// WordTop is how many words to keep in the word-frequency table (default 20).
	WordTop int `json:"word_top" yaml:"word_top"`

	// MinWordLength filters short words out of abstracts (default 4).
	MinWordLength int `json:"min_word_length" yaml:"min_word_length"`
}

// TrendConfig holds settings for publication-trend queries.
type TrendConfig struct {
	// StartYear is the first year of the per-year count range (default 2000).
	StartYear int `json:"start_year" yaml:"start_year"`

	// EndYear is the last year; zero means the current year.
	EndYear int `json:"end_year" yaml:"end_year"`
}

// StoreConfig holds settings for the SQLite session cache.
type StoreConfig struct {
	// DataDir is the directory holding the cache database (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of local query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ServerConfig holds settings for the web UI.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// ToolkitConfig groups all stage configurations.
type ToolkitConfig struct {
	PubMed   PubMedConfig   `json:"pubmed" yaml:"pubmed"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	Trend    TrendConfig    `json:"trend" yaml:"trend"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Server   ServerConfig   `json:"server" yaml:"server"`
}
