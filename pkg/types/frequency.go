// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FrequencyEntry is one row of a frequency table: a term (MeSH descriptor
// or abstract word) and its occurrence count across the result set.
type FrequencyEntry struct {
	Term  string `json:"term" yaml:"term"`
	Count int    `json:"count" yaml:"count"`
}

// FrequencyTable is a list of entries sorted by count descending, ties
// broken by term ascending. Recomputed on every search.
type FrequencyTable []FrequencyEntry

// Total returns the sum of all counts in the table.
func (t FrequencyTable) Total() int {
	sum := 0
	for _, e := range t {
		sum += e.Count
	}
	return sum
}

// Top returns the first n entries, or the whole table when n <= 0 or
// exceeds its length.
func (t FrequencyTable) Top(n int) FrequencyTable {
	if n <= 0 || n >= len(t) {
		return t
	}
	return t[:n]
}

// YearCount is one point of a publication trend: articles counted for a
// single publication year.
type YearCount struct {
	Year  int `json:"year" yaml:"year"`
	Count int `json:"count" yaml:"count"`
}

// Trend is a year-ordered series of publication counts.
type Trend []YearCount

// Total returns the sum of counts across all years.
func (t Trend) Total() int {
	sum := 0
	for _, p := range t {
		sum += p.Count
	}
	return sum
}
