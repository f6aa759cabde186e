// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ssrn-abstracts/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <abstracts-file>",
	Short: "Export downloaded abstracts to an Excel workbook",
	Long: `Export writes an abstracts file to an .xlsx workbook with one row per
abstract (ID, title, URL, abstract text), ordered by abstract ID.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "workbook to write (default: the abstracts file with an .xlsx extension)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	src := args[0]
	records, err := readAbstractsFile(src)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = strings.TrimSuffix(src, filepath.Ext(src)) + ".xlsx"
	}

	n, err := export.WriteXLSX(out, records)
	if err != nil {
		return err
	}
	logger.Info().Int("rows", n).Str("file", out).Msg("exported abstracts")
	return nil
}
