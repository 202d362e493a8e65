// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze computes frequency statistics over a result set: MeSH
// descriptor counts, abstract word counts, and publication-year
// aggregates. All outputs are deterministic for identical input.
package analyze

import (
	"sort"
	"strings"
	"unicode"

	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

// defaultMinWordLength matches the original tool's word scan: only
// words of four or more characters count toward the frequency table.
const defaultMinWordLength = 4

// MeshFrequency counts MeSH descriptor occurrences across the result
// set. Every heading of every article contributes one count, so the
// table total equals the total number of headings.
func MeshFrequency(articles []types.Article) types.FrequencyTable {
	counts := make(map[string]int)
	for _, a := range articles {
		for _, h := range a.MeshHeadings {
			if h.Descriptor != "" {
				counts[h.Descriptor]++
			}
		}
	}
	return sortTable(counts)
}

// WordFrequency counts words across the articles' abstracts after
// case-folding, dropping words shorter than minLength (0 uses the
// default of 4) and stop words. topN > 0 truncates the table.
func WordFrequency(articles []types.Article, minLength, topN int) types.FrequencyTable {
	var b strings.Builder
	for _, a := range articles {
		b.WriteString(a.Abstract)
		b.WriteByte(' ')
	}
	return TextWordFrequency(b.String(), minLength, topN)
}

// TextWordFrequency counts words in free text with the same
// normalization as WordFrequency.
func TextWordFrequency(text string, minLength, topN int) types.FrequencyTable {
	if minLength <= 0 {
		minLength = defaultMinWordLength
	}

	counts := make(map[string]int)
	for _, w := range tokenize(text) {
		if len([]rune(w)) < minLength {
			continue
		}
		if stopWords[w] {
			continue
		}
		counts[w]++
	}
	return sortTable(counts).Top(topN)
}

// tokenize lowercases the text and splits it into runs of letters,
// digits, and underscores, mirroring a \w+ scan.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// YearCounts aggregates the result set by publication year, ascending.
// Articles without a year are skipped.
func YearCounts(articles []types.Article) types.Trend {
	counts := make(map[int]int)
	for _, a := range articles {
		if a.Year > 0 {
			counts[a.Year]++
		}
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	trend := make(types.Trend, 0, len(years))
	for _, y := range years {
		trend = append(trend, types.YearCount{Year: y, Count: counts[y]})
	}
	return trend
}

// sortTable orders a count map by count descending, ties broken by term
// ascending, so identical input always yields identical output.
func sortTable(counts map[string]int) types.FrequencyTable {
	table := make(types.FrequencyTable, 0, len(counts))
	for term, n := range counts {
		table = append(table, types.FrequencyEntry{Term: term, Count: n})
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].Count != table[j].Count {
			return table[i].Count > table[j].Count
		}
		return table[i].Term < table[j].Term
	})
	return table
}
