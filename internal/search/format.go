// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

// FormatTable writes the result set as a human-readable table to w.
func FormatTable(r *Result, w io.Writer) {
	if r == nil || len(r.Articles) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-60s  %-24s  %-4s  %s\n",
		"Rank", "PMID", "Title", "Journal", "Year", "Authors")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, a := range r.Articles {
		title := truncate(a.Title, 60)
		journal := truncate(a.Journal, 24)
		year := ""
		if a.Year > 0 {
			year = fmt.Sprintf("%d", a.Year)
		}
		fmt.Fprintf(w, "%-4d  %-10s  %-60s  %-24s  %-4s  %s\n",
			i+1, a.PMID, title, journal, year, formatAuthors(a.AuthorNames()))
	}

	fmt.Fprintf(w, "\n%d of %d matches fetched\n", len(r.Articles), r.TotalMatches)
}

// FormatMeshTable writes the top MeSH terms and the composed MeSH
// search string.
func FormatMeshTable(r *Result, topN int, w io.Writer) {
	if r == nil || len(r.Mesh) == 0 {
		fmt.Fprintln(w, "No MeSH terms in the result set.")
		return
	}

	fmt.Fprintf(w, "%-40s  %s\n", "MeSH term", "Count")
	fmt.Fprintln(w, strings.Repeat("-", 48))
	for _, e := range r.Mesh.Top(topN) {
		fmt.Fprintf(w, "%-40s  %d\n", e.Term, e.Count)
	}

	if r.MeshQuery != "" {
		fmt.Fprintf(w, "\nMeSH search string:\n%s\n", r.MeshQuery)
	}
}

// FormatFrequencyTable writes a generic term/count table.
func FormatFrequencyTable(table types.FrequencyTable, termColumn string, w io.Writer) {
	if len(table) == 0 {
		fmt.Fprintln(w, "No terms counted.")
		return
	}

	fmt.Fprintf(w, "%-40s  %s\n", termColumn, "Count")
	fmt.Fprintln(w, strings.Repeat("-", 48))
	for _, e := range table {
		fmt.Fprintf(w, "%-40s  %d\n", e.Term, e.Count)
	}
}

// FormatTrend writes a year/count series with a proportional bar so
// trends read at a glance in a terminal.
func FormatTrend(trend types.Trend, w io.Writer) {
	if len(trend) == 0 {
		fmt.Fprintln(w, "No trend data.")
		return
	}

	max := 0
	for _, p := range trend {
		if p.Count > max {
			max = p.Count
		}
	}

	for _, p := range trend {
		bar := ""
		if max > 0 {
			bar = strings.Repeat("#", p.Count*40/max)
		}
		fmt.Fprintf(w, "%d  %6d  %s\n", p.Year, p.Count, bar)
	}
}

// FormatJSON writes the full result as indented JSON to w.
func FormatJSON(r *Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 24)
	default:
		return truncate(authors[0], 18) + " et al."
	}
}

// truncate shortens s to at most max characters, cutting on rune
// boundaries so multi-byte titles and names stay valid UTF-8.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
