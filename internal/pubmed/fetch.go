// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

// fetchChunkSize caps the number of IDs per efetch call. NCBI accepts
// larger GET id lists but the URL grows past proxy limits around 200.
const fetchChunkSize = 200

// Fetch retrieves full article records for the given PMIDs, preserving
// input order. Large ID lists are split across multiple efetch calls.
func (c *Client) Fetch(ctx context.Context, pmids []string) ([]types.Article, error) {
	if len(pmids) == 0 {
		return nil, nil
	}

	articles := make([]types.Article, 0, len(pmids))
	for start := 0; start < len(pmids); start += fetchChunkSize {
		end := start + fetchChunkSize
		if end > len(pmids) {
			end = len(pmids)
		}

		chunk, err := c.fetchChunk(ctx, pmids[start:end])
		if err != nil {
			return nil, err
		}
		articles = append(articles, chunk...)
	}
	return articles, nil
}

func (c *Client) fetchChunk(ctx context.Context, pmids []string) ([]types.Article, error) {
	params := c.baseParams()
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "xml")

	body, err := c.get(ctx, efetchBase, params)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var set pubmedArticleSet
	if err := xml.NewDecoder(body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}

	articles := make([]types.Article, 0, len(set.Articles))
	for _, pa := range set.Articles {
		articles = append(articles, toArticle(pa))
	}
	return articles, nil
}

// toArticle flattens one PubmedArticle record into the shared type.
func toArticle(pa pubmedArticle) types.Article {
	cit := pa.MedlineCitation
	art := cit.Article

	a := types.Article{
		PMID:     cit.PMID,
		Title:    strings.TrimSpace(art.ArticleTitle),
		Abstract: joinAbstract(art.Abstract.Sections),
		Journal:  strings.TrimSpace(art.Journal.Title),
		Year:     parseYear(art.Journal.JournalIssue.PubDate),
		Language: art.Language,
	}

	for _, au := range art.AuthorList.Authors {
		a.Authors = append(a.Authors, types.Author{
			LastName:       au.LastName,
			ForeName:       au.ForeName,
			Initials:       au.Initials,
			CollectiveName: au.CollectiveName,
		})
	}

	for _, mh := range cit.MeshHeadingList.Headings {
		h := types.MeshHeading{
			Descriptor: strings.TrimSpace(mh.DescriptorName.Name),
			MajorTopic: mh.DescriptorName.MajorTopicYN == "Y",
		}
		for _, q := range mh.Qualifiers {
			h.Qualifiers = append(h.Qualifiers, strings.TrimSpace(q.Name))
		}
		a.MeshHeadings = append(a.MeshHeadings, h)
	}

	for _, pt := range art.PublicationTypeList.Types {
		a.PublicationTypes = append(a.PublicationTypes, strings.TrimSpace(pt))
	}

	for _, el := range art.ELocationIDs {
		if el.EIdType == "doi" {
			a.DOI = strings.TrimSpace(el.Value)
			break
		}
	}

	return a
}

// joinAbstract concatenates abstract sections, prefixing labeled
// sections of structured abstracts with their label.
func joinAbstract(sections []abstractText) string {
	var parts []string
	for _, s := range sections {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if s.Label != "" {
			text = s.Label + ": " + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// parseYear extracts a publication year from a PubDate, falling back to
// the leading year of a MedlineDate range like "1998 Dec-1999 Jan".
func parseYear(pd pubDate) int {
	if y, err := strconv.Atoi(strings.TrimSpace(pd.Year)); err == nil {
		return y
	}
	fields := strings.Fields(pd.MedlineDate)
	if len(fields) > 0 {
		if y, err := strconv.Atoi(strings.TrimLeft(fields[0], "-")); err == nil {
			return y
		}
	}
	return 0
}

// PubmedArticleSet XML structures, as returned by efetch retmode=xml.
type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID            string          `xml:"PMID"`
	Article         articleXML      `xml:"Article"`
	MeshHeadingList meshHeadingList `xml:"MeshHeadingList"`
}

type articleXML struct {
	ArticleTitle        string        `xml:"ArticleTitle"`
	Abstract            abstractXML   `xml:"Abstract"`
	Journal             journalXML    `xml:"Journal"`
	AuthorList          authorList    `xml:"AuthorList"`
	Language            string        `xml:"Language"`
	PublicationTypeList pubTypeList   `xml:"PublicationTypeList"`
	ELocationIDs        []eLocationID `xml:"ELocationID"`
}

type abstractXML struct {
	Sections []abstractText `xml:"AbstractText"`
}

type abstractText struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}

type journalXML struct {
	Title        string       `xml:"Title"`
	JournalIssue journalIssue `xml:"JournalIssue"`
}

type journalIssue struct {
	PubDate pubDate `xml:"PubDate"`
}

type pubDate struct {
	Year        string `xml:"Year"`
	MedlineDate string `xml:"MedlineDate"`
}

type authorList struct {
	Authors []authorXML `xml:"Author"`
}

type authorXML struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	Initials       string `xml:"Initials"`
	CollectiveName string `xml:"CollectiveName"`
}

type meshHeadingList struct {
	Headings []meshHeading `xml:"MeshHeading"`
}

type meshHeading struct {
	DescriptorName descriptorName  `xml:"DescriptorName"`
	Qualifiers     []qualifierName `xml:"QualifierName"`
}

type descriptorName struct {
	Name         string `xml:",chardata"`
	MajorTopicYN string `xml:"MajorTopicYN,attr"`
}

type qualifierName struct {
	Name         string `xml:",chardata"`
	MajorTopicYN string `xml:"MajorTopicYN,attr"`
}

type pubTypeList struct {
	Types []string `xml:"PublicationType"`
}

type eLocationID struct {
	EIdType string `xml:"EIdType,attr"`
	Value   string `xml:",chardata"`
}
