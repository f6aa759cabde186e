// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes downloaded abstracts to spreadsheet files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

// SheetName is the worksheet that holds the exported abstracts.
const SheetName = "Abstracts"

// Header is the first row of the exported sheet.
var Header = []string{"Abstract ID", "Title", "URL", "Abstract"}

// WriteXLSX writes records to an .xlsx workbook at path, one row per
// abstract ordered by abstract ID. It returns the number of data rows.
func WriteXLSX(path string, records map[string]types.Abstract) (int, error) {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet so the workbook has a single sheet.
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return 0, fmt.Errorf("naming sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}
	for i, id := range ids {
		rec := records[id]
		if rec.AbstractID == "" {
			rec.AbstractID = id
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		row := []string{rec.AbstractID, rec.Title, rec.URL, rec.Abstract}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return 0, fmt.Errorf("writing row for %s: %w", id, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 60); err != nil {
		return 0, fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetColWidth(SheetName, "D", "D", 100); err != nil {
		return 0, fmt.Errorf("sizing columns: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("saving workbook: %w", err)
	}
	return len(ids), nil
}
