// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

// DefaultListFileName returns the timestamped list file name for a JEL
// code, e.g. "ssrn_papers_jel_J14_20250117_175715.json".
func DefaultListFileName(jelCode string, now time.Time) string {
	return fmt.Sprintf("ssrn_papers_jel_%s_%s.json", jelCode, now.Format("20060102_150405"))
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// WriteListFile writes papers to path, overwriting any existing file. The
// format is YAML for .yaml/.yml paths and indented JSON otherwise.
func WriteListFile(path string, papers []types.Paper) error {
	if papers == nil {
		papers = []types.Paper{}
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(papers)
	} else {
		data, err = json.MarshalIndent(papers, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("marshaling list file: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadListFile loads a JSON or YAML list file. The format follows the
// file extension, as in WriteListFile.
func ReadListFile(path string) ([]types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading list file: %w", err)
	}

	var papers []types.Paper
	if isYAML(path) {
		err = yaml.Unmarshal(data, &papers)
	} else {
		err = json.Unmarshal(data, &papers)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing list file %s: %w", path, err)
	}
	return papers, nil
}
