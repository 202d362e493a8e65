// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// QueryFile is the on-disk representation of one completed search. A
// saved search can be re-displayed and re-exported later without
// re-querying the API.
type QueryFile struct {
	Result  Result      `yaml:"result"`
	Summary FileSummary `yaml:"summary"`
}

// FileSummary stores result statistics alongside the payload.
type FileSummary struct {
	Fetched      int `yaml:"fetched"`
	TotalMatches int `yaml:"total_matches"`
	MeshTerms    int `yaml:"mesh_terms"`
}

// WriteQueryFile saves a search result to a YAML file.
func WriteQueryFile(path string, r *Result) error {
	if r == nil {
		return fmt.Errorf("no result to save")
	}

	qf := QueryFile{
		Result: *r,
		Summary: FileSummary{
			Fetched:      len(r.Articles),
			TotalMatches: r.TotalMatches,
			MeshTerms:    len(r.Mesh),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved search from disk.
func ReadQueryFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	if qf.Result.Query == "" {
		return nil, fmt.Errorf("query file %s has no query", path)
	}
	return &qf.Result, nil
}
