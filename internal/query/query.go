// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query assembles PubMed search expressions from user-selected
// terms, fields, and boolean connectors.
package query

import (
	"fmt"
	"strings"
)

// Field tags a term with the PubMed index it should match against.
type Field string

const (
	FieldAll           Field = "All Fields"
	FieldMeSH          Field = "MeSH"
	FieldTitleAbstract Field = "Title/Abstract"
	FieldAuthor        Field = "Author"
	FieldPubDate       Field = "PDAT"
)

// Op is a boolean connector between clauses.
type Op string

const (
	OpAnd Op = "AND"
	OpOr  Op = "OR"
	OpNot Op = "NOT"
)

// Clause is one (term, field, operator) tuple. The operator joins the
// clause to the preceding one and is ignored for the first clause.
type Clause struct {
	Term  string
	Field Field
	Op    Op
}

// Build assembles a syntactically valid PubMed query string from the
// ordered clause list. It returns an error when no clause carries a
// non-blank term.
func Build(clauses []Clause) (string, error) {
	var b strings.Builder
	n := 0

	for _, c := range clauses {
		term := strings.TrimSpace(c.Term)
		if term == "" {
			continue
		}

		if n > 0 {
			op := c.Op
			if op == "" {
				op = OpAnd
			}
			b.WriteString(" ")
			b.WriteString(string(op))
			b.WriteString(" ")
		}
		b.WriteString(formatTerm(term, c.Field))
		n++
	}

	if n == 0 {
		return "", fmt.Errorf("query is empty: provide at least one search term")
	}
	return b.String(), nil
}

// FromTopic builds a query from a single free-text topic, matching the
// whole expression against all fields.
func FromTopic(topic string) (string, error) {
	return Build([]Clause{{Term: topic, Field: FieldAll}})
}

// formatTerm renders one term with its field tag. Terms containing
// spaces or boolean keywords are quoted so PubMed treats them as a
// phrase; field All omits the tag.
func formatTerm(term string, field Field) string {
	quoted := term
	if needsQuoting(term) {
		quoted = `"` + strings.ReplaceAll(term, `"`, ``) + `"`
	}
	if field == "" || field == FieldAll {
		return quoted
	}
	return quoted + "[" + string(field) + "]"
}

// needsQuoting reports whether the term must be phrase-quoted: embedded
// spaces, quotes, or bare boolean keywords would otherwise change the
// expression's meaning.
func needsQuoting(term string) bool {
	if strings.ContainsAny(term, ` "()`) {
		return true
	}
	switch strings.ToUpper(term) {
	case "AND", "OR", "NOT":
		return true
	}
	return false
}

// FormatMeSHQuery composes a MeSH search string from the top n terms of
// a frequency-ordered descriptor list:
//
//	("Neoplasms"[MeSH] OR "Therapy"[MeSH])
//
// It returns an empty string when terms is empty.
func FormatMeSHQuery(terms []string, n int) string {
	if n <= 0 || n > len(terms) {
		n = len(terms)
	}
	if n == 0 {
		return ""
	}

	parts := make([]string, 0, n)
	for _, t := range terms[:n] {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		parts = append(parts, `"`+strings.ReplaceAll(t, `"`, ``)+`"[MeSH]`)
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// WithYear restricts an existing query to a single publication year, as
// used by per-year trend counts.
func WithYear(q string, year int) string {
	return fmt.Sprintf("%s AND %d[PDAT]", q, year)
}
