// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-toolkit
// pipeline: PubMed article records, frequency tables, and per-stage
// configuration.
package types

// MeshHeading is a MeSH descriptor attached to an article, with optional
// qualifiers (e.g. "Neoplasms" qualified by "therapy").
type MeshHeading struct {
	// Descriptor is the MeSH descriptor name (e.g. "Neoplasms").
	Descriptor string `json:"descriptor" yaml:"descriptor"`

	// MajorTopic is true when PubMed marks the heading as a major topic.
	MajorTopic bool `json:"major_topic,omitempty" yaml:"major_topic,omitempty"`

	// Qualifiers lists subheading names attached to the descriptor.
	Qualifiers []string `json:"qualifiers,omitempty" yaml:"qualifiers,omitempty"`
}

// Author is an article author as listed by PubMed.
type Author struct {
	LastName       string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	ForeName       string `json:"fore_name,omitempty" yaml:"fore_name,omitempty"`
	Initials       string `json:"initials,omitempty" yaml:"initials,omitempty"`
	CollectiveName string `json:"collective_name,omitempty" yaml:"collective_name,omitempty"`
}

// FullName returns "ForeName LastName", or the collective name for group
// authorships.
func (a Author) FullName() string {
	if a.CollectiveName != "" {
		return a.CollectiveName
	}
	if a.ForeName == "" {
		return a.LastName
	}
	return a.ForeName + " " + a.LastName
}

// Article is one PubMed record in the current result set. Records are
// immutable once fetched; a new search replaces the whole set.
type Article struct {
	// PMID is the PubMed identifier.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the abstract text with structured sections joined.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Journal is the full journal title.
	Journal string `json:"journal" yaml:"journal"`

	// Year is the publication year, zero when PubMed omits it.
	Year int `json:"year" yaml:"year"`

	// Authors lists the authors in source order.
	Authors []Author `json:"authors,omitempty" yaml:"authors,omitempty"`

	// MeshHeadings lists the MeSH descriptors indexed for the article.
	MeshHeadings []MeshHeading `json:"mesh_headings,omitempty" yaml:"mesh_headings,omitempty"`

	// DOI is the digital object identifier, when present.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Language is the publication language code (e.g. "eng").
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// PublicationTypes lists PubMed publication types (e.g. "Review").
	PublicationTypes []string `json:"publication_types,omitempty" yaml:"publication_types,omitempty"`
}

// URL returns the canonical PubMed link for the article.
func (a Article) URL() string {
	return "https://pubmed.ncbi.nlm.nih.gov/" + a.PMID + "/"
}

// MeshDescriptors returns the descriptor names in heading order.
func (a Article) MeshDescriptors() []string {
	if len(a.MeshHeadings) == 0 {
		return nil
	}
	out := make([]string, len(a.MeshHeadings))
	for i, h := range a.MeshHeadings {
		out[i] = h.Descriptor
	}
	return out
}

// AuthorNames returns the authors as "ForeName LastName" strings.
func (a Article) AuthorNames() []string {
	if len(a.Authors) == 0 {
		return nil
	}
	out := make([]string, len(a.Authors))
	for i, au := range a.Authors {
		out[i] = au.FullName()
	}
	return out
}
