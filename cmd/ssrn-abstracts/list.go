// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ssrn-abstracts/internal/httputil"
	"github.com/pdiddy/ssrn-abstracts/internal/listing"
	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List SSRN papers for a JEL classification code",
	Long: `List walks SSRN's listing pages for a JEL code and writes every paper
found (identifier, title, link, authors, and listing details) to a list
file. The file is JSON unless its name ends in .yaml or .yml.

Pages are fetched one at a time with --page-delay between them. If a page
after the first fails, the papers collected so far are still written.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("jel", "J14", "JEL classification code to list")
	listCmd.Flags().Int("max-pages", 0, "maximum listing pages to fetch (0 = all)")
	listCmd.Flags().Int("max-papers", 0, "maximum papers to collect (0 = no limit)")
	listCmd.Flags().Duration("page-delay", listing.DefaultPageDelay, "delay between listing pages")
	listCmd.Flags().StringP("output", "o", "", "list file to write (default: ssrn_papers_jel_<code>_<timestamp>.json)")

	mustBind("list.jel_code", listCmd.Flags().Lookup("jel"))
	mustBind("list.max_pages", listCmd.Flags().Lookup("max-pages"))
	mustBind("list.max_papers", listCmd.Flags().Lookup("max-papers"))
	mustBind("list.page_delay", listCmd.Flags().Lookup("page-delay"))
	mustBind("list.output", listCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := types.ListConfig{
		HTTPConfig: httpConfig(),
		JELCode:    viper.GetString("list.jel_code"),
		MaxPages:   viper.GetInt("list.max_pages"),
		MaxPapers:  viper.GetInt("list.max_papers"),
		PageDelay:  viper.GetDuration("list.page_delay"),
		OutputPath: viper.GetString("list.output"),
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = listing.DefaultListFileName(cfg.JELCode, time.Now())
	}

	client := httputil.NewClient(cfg.HTTPConfig)
	result, err := listing.List(cmd.Context(), client, cfg, nil, logger)
	if err != nil {
		return err
	}

	if err := listing.WriteListFile(cfg.OutputPath, result.Papers); err != nil {
		return err
	}
	logger.Info().
		Int("papers", len(result.Papers)).
		Int("pages", result.Pages).
		Int("rejected", result.Rejected).
		Str("file", cfg.OutputPath).
		Msg("list saved")

	if result.Partial {
		logger.Warn().Int("pages", result.Pages).Msg("listing stopped early; the list is partial")
	}
	return nil
}
