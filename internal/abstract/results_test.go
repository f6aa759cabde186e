// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

func TestOutputPaths(t *testing.T) {
	abstracts, failed := OutputPaths(filepath.Join("data", "ssrn_papers_jel_J14_20250117_175715.json"))
	assert.Equal(t, filepath.Join("data", "ssrn_papers_jel_J14_20250117_175715_with_abstracts.json"), abstracts)
	assert.Equal(t, filepath.Join("data", "ssrn_papers_jel_J14_20250117_175715_failed_papers.json"), failed)
}

func TestAbstractsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "papers_with_abstracts.json")
	records := map[string]types.Abstract{
		"4812345": {AbstractID: "4812345", Title: "T", URL: "https://papers.ssrn.com/sol3/papers.cfm?abstract_id=4812345", Abstract: "A."},
	}
	require.NoError(t, WriteAbstracts(path, records))

	got, err := ReadAbstracts(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadAbstracts_Missing(t *testing.T) {
	got, err := ReadAbstracts(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadAbstracts_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o644))
	_, err := ReadAbstracts(path)
	assert.ErrorContains(t, err, "parsing abstracts file")
}

func TestWriteFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed.json")
	failed := []types.FailedPaper{{
		Paper:  types.Paper{ID: "1", Title: "Broken"},
		Kind:   types.FailureParse,
		Reason: "no abstract found on page",
	}}
	require.NoError(t, WriteFailed(path, failed))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"paper_id": "1"`)
	assert.Contains(t, string(data), `"failure_kind": "parse"`)
}
