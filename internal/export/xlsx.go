// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

// Workbook bundles everything one search produced for a single-file
// spreadsheet export.
type Workbook struct {
	Articles []types.Article
	Mesh     types.FrequencyTable
	Words    types.FrequencyTable
	Trend    types.Trend
}

// WriteWorkbookXLSX writes an XLSX workbook with Articles, MeSH, Words,
// and Trend sheets. Empty inputs still produce valid sheets with header
// rows.
func WriteWorkbookXLSX(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Articles"); err != nil {
		return fmt.Errorf("renaming default sheet: %w", err)
	}

	if err := writeArticleSheet(f, "Articles", wb.Articles); err != nil {
		return err
	}
	if err := writeFrequencySheet(f, "MeSH", "MeSH term", wb.Mesh); err != nil {
		return err
	}
	if err := writeFrequencySheet(f, "Words", "Word", wb.Words); err != nil {
		return err
	}
	if err := writeTrendSheet(f, "Trend", wb.Trend); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeArticleSheet(f *excelize.File, sheet string, articles []types.Article) error {
	header := []any{"PMID", "Title", "Journal", "Year", "Authors", "MeSH terms", "DOI", "Abstract", "Link"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}

	for i, a := range articles {
		year := any("")
		if a.Year > 0 {
			year = a.Year
		}
		row := []any{
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
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell for row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing article %s: %w", a.PMID, err)
		}
	}
	return nil
}

func writeFrequencySheet(f *excelize.File, sheet, termColumn string, table types.FrequencyTable) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	header := []any{termColumn, "Count"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}

	for i, e := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell for row %d: %w", i+2, err)
		}
		row := []any{e.Term, e.Count}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing term %s: %w", e.Term, err)
		}
	}
	return nil
}

func writeTrendSheet(f *excelize.File, sheet string, trend types.Trend) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	header := []any{"Year", "Count"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}

	for i, p := range trend {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell for row %d: %w", i+2, err)
		}
		row := []any{p.Year, p.Count}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing year %d: %w", p.Year, err)
		}
	}
	return nil
}
