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

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List cached search sessions",
	Long: `Sessions lists the search sessions saved to the local SQLite cache,
newest first. Use the session ID with retrieve --session to query one
session's articles.`,
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().Bool("json", false, "output sessions as JSON")

	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, err := st.Sessions(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Println("No cached sessions.")
		return nil
	}

	fmt.Printf("%-4s  %-50s  %-8s  %-8s  %s\n", "ID", "Query", "Matches", "Fetched", "Created")
	fmt.Println(strings.Repeat("-", 96))
	for _, s := range sessions {
		fmt.Printf("%-4d  %-50s  %-8d  %-8d  %s\n",
			s.ID, truncate(s.Query, 50), s.TotalMatches, s.Fetched,
			s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
