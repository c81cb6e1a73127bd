package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestCorpus creates a temporary corpus with a few valid queries across
// both splits and returns its root directory.
func SetupTestCorpus(t *testing.T) string {
	t.Helper()

	files := map[string]string{
		"splits/test/chest_imaging/easy_level_queries/001/sql_001.sql":   "SELECT subject_id FROM `physionet-data.mimiciv_hosp.admissions`;\n",
		"splits/test/chest_imaging/medium_level_queries/002/sql_002.sql": "SELECT hadm_id FROM `physionet-data.mimiciv_hosp.transfers`;\n",
		"splits/validation/labs/hard_level_queries/001/sql_001.sql":      "SELECT itemid FROM `physionet-data.mimiciv_hosp.labevents`;\n",
	}
	return WriteCorpus(t, files)
}

// WriteCorpus lays out the given corpus-relative files under a temporary
// root and returns it.
func WriteCorpus(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatalf("failed to create corpus dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("failed to write corpus file: %v", err)
		}
	}
	return root
}
