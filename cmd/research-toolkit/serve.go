// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IMTENANUR/Research-Toolkit/internal/pubmed"
	"github.com/IMTENANUR/Research-Toolkit/internal/search"
	"github.com/IMTENANUR/Research-Toolkit/internal/server"
	"github.com/IMTENANUR/Research-Toolkit/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web UI and JSON API",
	Long: `Serve starts the web application: a search form with result tables,
JSON endpoints under /api/, CSV and XLSX downloads under /export/, and
Prometheus metrics at /metrics. Completed searches are cached to the
local session store unless --no-cache is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, \":8080\")")
	serveCmd.Flags().Bool("no-cache", false, "disable the SQLite session cache")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	client := pubmed.NewClient(pubmedConfig())
	session := search.NewSession(client, analysisConfig())

	var cache *store.Store
	if noCache, _ := cmd.Flags().GetBool("no-cache"); !noCache {
		st, err := store.NewStore(storeConfig())
		if err != nil {
			return fmt.Errorf("opening session cache: %w", err)
		}
		defer st.Close()
		cache = st
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = viper.GetString("server.addr")
	}

	fmt.Fprintln(os.Stderr, "Listening on", addr)
	return server.New(session, client, cache, trendConfig()).Run(addr)
}
