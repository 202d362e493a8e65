// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IMTENANUR/Research-Toolkit/internal/export"
	"github.com/IMTENANUR/Research-Toolkit/internal/pubmed"
	"github.com/IMTENANUR/Research-Toolkit/internal/search"
)

var trendCmd = &cobra.Command{
	Use:   "trend <term>",
	Short: "Count publications per year for a search term",
	Long: `Trend runs one count-only PubMed query per year across the configured
range and prints the publication counts. Useful for gauging how interest
in a topic has developed over time.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrend,
}

func init() {
	trendCmd.Flags().Int("from", 0, "first year of the range (default from config)")
	trendCmd.Flags().Int("to", 0, "last year of the range (default: current year)")
	trendCmd.Flags().Bool("json", false, "output the trend as JSON")
	trendCmd.Flags().String("csv", "", "also write the trend to a CSV file at this path")

	rootCmd.AddCommand(trendCmd)
}

func runTrend(cmd *cobra.Command, args []string) error {
	term := args[0]

	cfg := trendConfig()
	if from, _ := cmd.Flags().GetInt("from"); from > 0 {
		cfg.StartYear = from
	}
	if to, _ := cmd.Flags().GetInt("to"); to > 0 {
		cfg.EndYear = to
	}

	client := pubmed.NewClient(pubmedConfig())
	trend, err := client.YearlyTrend(context.Background(), term, cfg.StartYear, cfg.EndYear)
	if err != nil {
		return err
	}

	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", csvPath, err)
		}
		defer f.Close()
		if err := export.WriteTrendCSV(f, trend); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Wrote trend CSV:", csvPath)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(trend)
	}

	fmt.Printf("Publications per year for %q\n\n", term)
	search.FormatTrend(trend, os.Stdout)
	return nil
}
