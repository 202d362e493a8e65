// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/IMTENANUR/Research-Toolkit/internal/export"
	"github.com/IMTENANUR/Research-Toolkit/internal/pubmed"
	"github.com/IMTENANUR/Research-Toolkit/internal/query"
	"github.com/IMTENANUR/Research-Toolkit/internal/search"
	"github.com/IMTENANUR/Research-Toolkit/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search [topic]",
	Short: "Search PubMed and analyze the result set",
	Long: `Search runs a query against PubMed, fetches the matching records, and
prints the result set with MeSH and word frequency tables.

The query comes from one of three sources: a free-text topic argument, a
full PubMed expression via --query, or structured clauses via repeated
--term/--field/--op triples. Results can be saved to a YAML query file
and reloaded later with --load.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "full PubMed query expression, passed through verbatim")
	searchCmd.Flags().StringArray("term", nil, "search term (repeatable; pairs with --field and --op)")
	searchCmd.Flags().StringArray("field", nil, "field for the matching --term: all, mesh, tiab, author, pdat")
	searchCmd.Flags().StringArray("op", nil, "boolean connector to the previous --term: AND, OR, NOT")
	searchCmd.Flags().Int("max-results", 0, "maximum number of records to fetch (default from config)")
	searchCmd.Flags().Int("mesh-top", 0, "how many MeSH terms to surface (default from config)")
	searchCmd.Flags().Bool("json", false, "output the full result set as JSON")
	searchCmd.Flags().String("save", "", "write the result set to a YAML query file")
	searchCmd.Flags().String("load", "", "load a previously saved query file instead of searching")
	searchCmd.Flags().String("csv-dir", "", "write articles/mesh/words/trend CSV files into this directory")
	searchCmd.Flags().String("xlsx", "", "write a multi-sheet XLSX workbook to this path")
	searchCmd.Flags().Bool("cache", false, "save the session to the local SQLite cache")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := analysisConfig()
	if meshTop, _ := cmd.Flags().GetInt("mesh-top"); meshTop > 0 {
		cfg.MeshTop = meshTop
	}
	session := search.NewSession(pubmed.NewClient(pubmedConfig()), cfg)

	loadPath, _ := cmd.Flags().GetString("load")
	var result *search.Result
	if loadPath != "" {
		r, err := search.ReadQueryFile(loadPath)
		if err != nil {
			return err
		}
		session.Restore(r)
		result = r
	} else {
		q, err := queryFromFlags(cmd, args)
		if err != nil {
			return err
		}
		maxResults, _ := cmd.Flags().GetInt("max-results")
		result, err = session.Run(context.Background(), q, maxResults)
		if err != nil {
			return err
		}
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if err := search.FormatJSON(result, os.Stdout); err != nil {
			return err
		}
	} else {
		search.FormatTable(result, os.Stdout)
		fmt.Println()
		search.FormatMeshTable(result, cfg.MeshTop, os.Stdout)
	}

	return writeSearchOutputs(cmd, result)
}

// queryFromFlags builds the PubMed query from whichever input style the
// invocation used.
func queryFromFlags(cmd *cobra.Command, args []string) (string, error) {
	if q, _ := cmd.Flags().GetString("query"); q != "" {
		return q, nil
	}

	terms, _ := cmd.Flags().GetStringArray("term")
	if len(terms) > 0 {
		fields, _ := cmd.Flags().GetStringArray("field")
		ops, _ := cmd.Flags().GetStringArray("op")

		clauses := make([]query.Clause, 0, len(terms))
		for i, term := range terms {
			c := query.Clause{Term: term}
			if i < len(fields) {
				f, err := parseField(fields[i])
				if err != nil {
					return "", err
				}
				c.Field = f
			}
			if i > 0 && i-1 < len(ops) {
				c.Op = query.Op(ops[i-1])
			}
			clauses = append(clauses, c)
		}
		return query.Build(clauses)
	}

	if len(args) > 0 {
		return query.FromTopic(args[0])
	}
	return "", fmt.Errorf("query required: provide a topic argument, --query, or --term")
}

// parseField maps a flag value to a PubMed field tag.
func parseField(s string) (query.Field, error) {
	switch s {
	case "", "all":
		return query.FieldAll, nil
	case "mesh":
		return query.FieldMeSH, nil
	case "tiab", "title-abstract":
		return query.FieldTitleAbstract, nil
	case "author":
		return query.FieldAuthor, nil
	case "pdat", "date":
		return query.FieldPubDate, nil
	default:
		return "", fmt.Errorf("unknown field %q: use all, mesh, tiab, author, or pdat", s)
	}
}

// writeSearchOutputs handles the --save, --csv-dir, --xlsx, and --cache
// side outputs after a search completes.
func writeSearchOutputs(cmd *cobra.Command, result *search.Result) error {
	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := search.WriteQueryFile(savePath, result); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Saved query file:", savePath)
	}

	if csvDir, _ := cmd.Flags().GetString("csv-dir"); csvDir != "" {
		if err := writeCSVDir(csvDir, result); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Wrote CSV files to:", csvDir)
	}

	if xlsxPath, _ := cmd.Flags().GetString("xlsx"); xlsxPath != "" {
		f, err := os.Create(xlsxPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", xlsxPath, err)
		}
		defer f.Close()
		wb := export.Workbook{
			Articles: result.Articles,
			Mesh:     result.Mesh,
			Words:    result.Words,
			Trend:    result.Years,
		}
		if err := export.WriteWorkbookXLSX(f, wb); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Wrote workbook:", xlsxPath)
	}

	if cache, _ := cmd.Flags().GetBool("cache"); cache {
		st, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.SaveSession(context.Background(), result)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Cached session %d\n", id)
	}
	return nil
}

// writeCSVDir writes the four per-table CSV files into dir.
func writeCSVDir(dir string, result *search.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	write := func(name string, fn func(f *os.File) error) error {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
		defer f.Close()
		return fn(f)
	}

	if err := write("articles.csv", func(f *os.File) error {
		return export.WriteArticlesCSV(f, result.Articles)
	}); err != nil {
		return err
	}
	if err := write("mesh.csv", func(f *os.File) error {
		return export.WriteFrequencyCSV(f, "mesh_term", result.Mesh)
	}); err != nil {
		return err
	}
	if err := write("words.csv", func(f *os.File) error {
		return export.WriteFrequencyCSV(f, "word", result.Words)
	}); err != nil {
		return err
	}
	return write("trend.csv", func(f *os.File) error {
		return export.WriteTrendCSV(f, result.Years)
	})
}
