// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IMTENANUR/Research-Toolkit/internal/store"
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query cached articles with full-text search and filters",
	Long: `Retrieve searches the local session cache using FTS5 full-text search
over titles and abstracts, structured filters (year, journal, session),
or a combination of both. It never contacts PubMed.`,
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().Int("year", 0, "filter by publication year")
	retrieveCmd.Flags().String("journal", "", "filter by exact journal title")
	retrieveCmd.Flags().Int64("session", 0, "restrict to one cached session by ID")
	retrieveCmd.Flags().Int("max-results", 0, "maximum number of results (default from config)")
	retrieveCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	opts := store.QueryOptions{}
	if len(args) > 0 {
		opts.Query = args[0]
	}
	opts.Year, _ = cmd.Flags().GetInt("year")
	opts.Journal, _ = cmd.Flags().GetString("journal")
	opts.SessionID, _ = cmd.Flags().GetInt64("session")
	opts.MaxResults, _ = cmd.Flags().GetInt("max-results")

	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --year, --journal, or --session")
	}

	st, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	hits, err := st.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("%-4s  %-10s  %-60s  %-24s  %-4s  %s\n",
		"Rank", "PMID", "Title", "Journal", "Year", "Session")
	fmt.Println(strings.Repeat("-", 116))
	for i, h := range hits {
		title := truncate(h.Title, 60)
		journal := truncate(h.Journal, 24)
		year := ""
		if h.Year > 0 {
			year = fmt.Sprintf("%d", h.Year)
		}
		fmt.Printf("%-4d  %-10s  %-60s  %-24s  %-4s  %d\n",
			i+1, h.PMID, title, journal, year, h.SessionID)
	}
	return nil
}

// truncate shortens s to at most max characters, cutting on rune
// boundaries so multi-byte titles and queries stay valid UTF-8.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
