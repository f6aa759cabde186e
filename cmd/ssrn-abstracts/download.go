// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ssrn-abstracts/internal/abstract"
	"github.com/pdiddy/ssrn-abstracts/internal/httputil"
	"github.com/pdiddy/ssrn-abstracts/internal/listing"
	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

var downloadCmd = &cobra.Command{
	Use:   "download <list-file>",
	Short: "Download the abstract of every paper in a list file",
	Long: `Download reads a list file written by the list command and fetches
each paper's abstract page, one request at a time. Consecutive requests are
separated by a random delay of 45 to 50 seconds.

Abstracts are saved after every successful download to
<list>_with_abstracts.json, keyed by abstract ID. Papers that fail are
written to <list>_failed_papers.json with the failure kind and reason.
With --resume, abstracts already present in a previous output file are
kept and not fetched again.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringP("output", "o", "", "abstracts file (default: <list>_with_abstracts.json)")
	downloadCmd.Flags().String("failed-output", "", "failed papers file (default: <list>_failed_papers.json)")
	downloadCmd.Flags().String("resume", "", "previous abstracts file whose entries are kept and skipped")

	mustBind("download.output", downloadCmd.Flags().Lookup("output"))
	mustBind("download.failed_output", downloadCmd.Flags().Lookup("failed-output"))
	mustBind("download.resume", downloadCmd.Flags().Lookup("resume"))

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	listPath := args[0]
	papers, err := listing.ReadListFile(listPath)
	if err != nil {
		return err
	}

	defaultOut, defaultFailed := abstract.OutputPaths(listPath)
	cfg := types.DownloadConfig{
		HTTPConfig: httpConfig(),
		OutputPath: viper.GetString("download.output"),
		FailedPath: viper.GetString("download.failed_output"),
		ResumePath: viper.GetString("download.resume"),
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = defaultOut
	}
	if cfg.FailedPath == "" {
		cfg.FailedPath = defaultFailed
	}

	d := abstract.New(httputil.NewClient(cfg.HTTPConfig), cfg, logger)
	result, err := d.Run(cmd.Context(), papers)
	if err != nil {
		return err
	}

	fmt.Printf("%d downloaded, %d skipped, %d failed (%d total)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed download; see %s", result.Failed, cfg.FailedPath)
	}
	return nil
}
