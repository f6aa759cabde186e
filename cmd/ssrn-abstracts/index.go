// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ssrn-abstracts/internal/abstract"
	"github.com/pdiddy/ssrn-abstracts/internal/index"
	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the local abstract index (store, search)",
	Long: `Index keeps downloaded abstracts in a local SQLite database with
full-text search over titles and abstract text.`,
}

// --- store subcommand ---

var indexStoreCmd = &cobra.Command{
	Use:   "store <abstracts-file>",
	Short: "Add downloaded abstracts to the index",
	Long: `Store reads an abstracts file written by the download command and
upserts its records into the index. Unchanged records are left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexStore,
}

func runIndexStore(cmd *cobra.Command, args []string) error {
	records, err := readAbstractsFile(args[0])
	if err != nil {
		return err
	}

	store, err := index.Open(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), records)
	if err != nil {
		return err
	}
	logger.Info().
		Int("inserted", summary.Inserted).
		Int("updated", summary.Updated).
		Int("unchanged", summary.Unchanged).
		Bool("full_text", store.FullText()).
		Msg("index updated")
	return nil
}

// --- search subcommand ---

var indexSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed abstracts",
	Long: `Search matches the query against indexed titles and abstracts. With
FTS5 available, results are ranked by relevance and the query accepts FTS5
syntax; otherwise results are substring matches.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndexSearch,
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	store, err := index.Open(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	hits, err := store.Search(cmd.Context(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(hits, jsonOutput)
}

func formatSearchOutput(hits []index.Hit, jsonOutput bool) error {
	if jsonOutput {
		if hits == nil {
			hits = []index.Hit{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-10s  %s\n", "Rank", "ID", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for i, h := range hits {
		fmt.Fprintf(os.Stdout, "%-4d  %-10s  %s\n", i+1, h.AbstractID, truncate(h.Title, 60))
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(hits))
	return nil
}

// --- shared helpers ---

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// readAbstractsFile reads an abstracts file that must already exist.
func readAbstractsFile(path string) (map[string]types.Abstract, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("abstracts file: %w", err)
	}
	return abstract.ReadAbstracts(path)
}

func indexConfig() types.IndexConfig {
	return types.IndexConfig{
		DBPath:     viper.GetString("index.db"),
		MaxResults: viper.GetInt("index.max_results"),
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("db", "abstracts.db", "SQLite index database")
	indexCmd.PersistentFlags().Int("max-results", 20, "default maximum number of search results")
	mustBind("index.db", indexCmd.PersistentFlags().Lookup("db"))
	mustBind("index.max_results", indexCmd.PersistentFlags().Lookup("max-results"))

	indexSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexSearchCmd.Flags().Bool("json", false, "output results as JSON")

	indexCmd.AddCommand(indexStoreCmd)
	indexCmd.AddCommand(indexSearchCmd)

	rootCmd.AddCommand(indexCmd)
}
