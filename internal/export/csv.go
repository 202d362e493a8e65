// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes result sets and frequency tables to CSV and
// XLSX. CSV output always carries a header row; an empty result set
// produces a header-only file, never a malformed one.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

// articleHeader names the tracked columns, one row per article.
var articleHeader = []string{
	"pmid", "title", "journal", "year", "authors", "mesh_terms", "doi", "abstract", "link",
}

const listSep = "; "

// WriteArticlesCSV writes the result set as CSV. List-valued fields
// (authors, MeSH terms) are joined with "; "; encoding/csv handles
// quoting of embedded delimiters and newlines.
func WriteArticlesCSV(w io.Writer, articles []types.Article) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(articleHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, a := range articles {
		year := ""
		if a.Year > 0 {
			year = strconv.Itoa(a.Year)
		}
		record := []string{
			a.PMID,
			a.Title,
			a.Journal,
			year,
			strings.Join(a.AuthorNames(), listSep),
			strings.Join(a.MeshDescriptors(), listSep),
			a.DOI,
			a.Abstract,
			a.URL(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing article %s: %w", a.PMID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadArticlesCSV parses CSV produced by WriteArticlesCSV back into
// article records. Only the fields the CSV tracks are recovered;
// structured author and MeSH detail beyond names is not round-tripped.
func ReadArticlesCSV(r io.Reader) ([]types.Article, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if len(header) != len(articleHeader) || header[0] != articleHeader[0] {
		return nil, fmt.Errorf("unrecognized CSV header %v", header)
	}

	var articles []types.Article
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV record: %w", err)
		}

		a := types.Article{
			PMID:     record[0],
			Title:    record[1],
			Journal:  record[2],
			DOI:      record[6],
			Abstract: record[7],
		}
		if record[3] != "" {
			if y, convErr := strconv.Atoi(record[3]); convErr == nil {
				a.Year = y
			}
		}
		for _, name := range splitList(record[4]) {
			a.Authors = append(a.Authors, parseAuthorName(name))
		}
		for _, d := range splitList(record[5]) {
			a.MeshHeadings = append(a.MeshHeadings, types.MeshHeading{Descriptor: d})
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// WriteFrequencyCSV writes a frequency table with the given term column
// name ("mesh_term" or "word").
func WriteFrequencyCSV(w io.Writer, termColumn string, table types.FrequencyTable) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{termColumn, "count"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, e := range table {
		if err := cw.Write([]string{e.Term, strconv.Itoa(e.Count)}); err != nil {
			return fmt.Errorf("writing term %s: %w", e.Term, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTrendCSV writes a year/count series.
func WriteTrendCSV(w io.Writer, trend types.Trend) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"year", "count"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, p := range trend {
		if err := cw.Write([]string{strconv.Itoa(p.Year), strconv.Itoa(p.Count)}); err != nil {
			return fmt.Errorf("writing year %d: %w", p.Year, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, listSep)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseAuthorName splits "ForeName LastName" on the last space; a
// single-token name is treated as a collective name.
func parseAuthorName(name string) types.Author {
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return types.Author{CollectiveName: name}
	}
	return types.Author{ForeName: name[:idx], LastName: name[idx+1:]}
}
