// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

// OutputPaths derives the abstracts and failures file names from a list
// file: "papers.json" gives "papers_with_abstracts.json" and
// "papers_failed_papers.json" in the same directory.
func OutputPaths(listPath string) (abstracts, failed string) {
	dir := filepath.Dir(listPath)
	stem := strings.TrimSuffix(filepath.Base(listPath), filepath.Ext(listPath))
	return filepath.Join(dir, stem+"_with_abstracts.json"),
		filepath.Join(dir, stem+"_failed_papers.json")
}

// ReadAbstracts loads an abstracts file keyed by abstract ID. A missing
// file returns an empty map.
func ReadAbstracts(path string) (map[string]types.Abstract, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]types.Abstract{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading abstracts file: %w", err)
	}
	records := map[string]types.Abstract{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing abstracts file %s: %w", path, err)
	}
	return records, nil
}

// WriteAbstracts writes records as one JSON object keyed by abstract ID.
func WriteAbstracts(path string, records map[string]types.Abstract) error {
	if records == nil {
		records = map[string]types.Abstract{}
	}
	return writeJSONAtomic(path, records)
}

// WriteFailed writes the failed papers list.
func WriteFailed(path string, failed []types.FailedPaper) error {
	return writeJSONAtomic(path, failed)
}

// writeJSONAtomic marshals v to a temporary file next to path and renames
// it into place, so a crash never leaves a truncated file.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".abstracts-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if err := tmpFile.Chmod(0o644); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("setting file mode: %w", err)
	}
	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
