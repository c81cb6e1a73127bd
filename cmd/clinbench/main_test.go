// Package main provides tests for the clinbench CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clinbench-io/clinbench/internal/cli"
	"github.com/clinbench-io/clinbench/internal/cli/config"
	"github.com/clinbench-io/clinbench/internal/testutil"
)

// runCLI executes the root command with args and returns combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(out, "clinbench") {
		t.Errorf("version output should contain 'clinbench', got: %s", out)
	}
}

func TestStatsCommand(t *testing.T) {
	root := testutil.SetupTestCorpus(t)

	out, err := runCLI(t, "--corpus-root", root, "--output", "json", "stats")
	if err != nil {
		t.Fatalf("stats command error = %v", err)
	}

	var stats struct {
		Total      int            `json:"total"`
		Statements int            `json:"statements"`
		BySplit    map[string]int `json:"by_split"`
	}
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("stats output is not valid JSON: %v\n%s", err, out)
	}
	if stats.Total != 3 {
		t.Errorf("stats total = %d, want 3", stats.Total)
	}
	if stats.BySplit["test"] != 2 || stats.BySplit["validation"] != 1 {
		t.Errorf("unexpected split counts: %v", stats.BySplit)
	}
}

func TestListCommand(t *testing.T) {
	root := testutil.SetupTestCorpus(t)

	out, err := runCLI(t, "--corpus-root", root, "list", "--split", "test")
	if err != nil {
		t.Fatalf("list command error = %v", err)
	}
	if !strings.Contains(out, "chest_imaging") {
		t.Errorf("list output should contain the category, got: %s", out)
	}
	if strings.Contains(out, "labs") {
		t.Errorf("list --split test should not include validation queries, got: %s", out)
	}
}

func TestShowCommand(t *testing.T) {
	root := testutil.SetupTestCorpus(t)

	out, err := runCLI(t, "--corpus-root", root, "show", "test", "chest_imaging", "easy", "001")
	if err != nil {
		t.Fatalf("show command error = %v", err)
	}
	if !strings.Contains(out, "mimiciv_hosp.admissions") {
		t.Errorf("show output should contain the query body, got: %s", out)
	}

	_, err = runCLI(t, "--corpus-root", root, "show", "test", "chest_imaging", "easy", "999")
	if err == nil {
		t.Error("show should fail for a missing query")
	}
}

func TestShowCommandByPath(t *testing.T) {
	root := testutil.SetupTestCorpus(t)

	out, err := runCLI(t, "--corpus-root", root, "show",
		"splits/test/chest_imaging/easy_level_queries/001/sql_001.sql")
	if err != nil {
		t.Fatalf("show by path error = %v", err)
	}
	if !strings.Contains(out, "mimiciv_hosp.admissions") {
		t.Errorf("show output should contain the query body, got: %s", out)
	}

	_, err = runCLI(t, "--corpus-root", root, "show", "not/a/corpus/path.sql")
	if err == nil {
		t.Error("show should reject a malformed corpus path")
	}
}

func TestLintCommandCleanCorpus(t *testing.T) {
	root := testutil.SetupTestCorpus(t)

	out, err := runCLI(t, "--corpus-root", root, "lint")
	if err != nil {
		t.Fatalf("lint command error = %v\n%s", err, out)
	}
}

func TestLintCommandFindsErrors(t *testing.T) {
	root := testutil.SetupTestCorpus(t)
	// Unterminated statement triggers an error-severity finding.
	bad := filepath.Join(root, "splits", "test", "chest_imaging", "easy_level_queries", "003", "sql_003.sql")
	if err := os.MkdirAll(filepath.Dir(bad), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("SELECT subject_id FROM `physionet-data.mimiciv_hosp.admissions`\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--corpus-root", root, "lint")
	if err == nil {
		t.Fatal("lint should report an error exit for an unterminated statement")
	}
	if !strings.Contains(out, "QR01") {
		t.Errorf("lint output should name the rule, got: %s", out)
	}
}

func TestIndexAndSearchCommands(t *testing.T) {
	root := testutil.SetupTestCorpus(t)
	statePath := filepath.Join(t.TempDir(), "state.db")

	out, err := runCLI(t, "--corpus-root", root, "--state", statePath, "index")
	if err != nil {
		t.Fatalf("index command error = %v\n%s", err, out)
	}

	out, err = runCLI(t, "--corpus-root", root, "--state", statePath, "--output", "json", "search", "admissions")
	if err != nil {
		t.Fatalf("search command error = %v\n%s", err, out)
	}

	var hits []struct {
		Path      string `json:"path"`
		Statement int    `json:"statement"`
	}
	if err := json.Unmarshal([]byte(out), &hits); err != nil {
		t.Fatalf("search output is not valid JSON: %v\n%s", err, out)
	}
	if len(hits) != 1 {
		t.Fatalf("search hits = %d, want 1", len(hits))
	}
	if hits[0].Path != "splits/test/chest_imaging/easy_level_queries/001/sql_001.sql" {
		t.Errorf("unexpected hit path: %s", hits[0].Path)
	}
}

func TestSearchWithoutIndex(t *testing.T) {
	root := testutil.SetupTestCorpus(t)
	statePath := filepath.Join(t.TempDir(), "state.db")

	_, err := runCLI(t, "--corpus-root", root, "--state", statePath, "search", "admissions")
	if err == nil {
		t.Fatal("search should fail when the corpus has not been indexed")
	}
	if !strings.Contains(err.Error(), "clinbench index") {
		t.Errorf("error should point at the index command, got: %v", err)
	}
}

func TestManifestCommand(t *testing.T) {
	root := testutil.SetupTestCorpus(t)

	out, err := runCLI(t, "--corpus-root", root, "manifest")
	if err != nil {
		t.Fatalf("manifest command error = %v", err)
	}

	var m struct {
		Fingerprint string `json:"fingerprint"`
		Queries     int    `json:"queries"`
	}
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("manifest output is not valid JSON: %v\n%s", err, out)
	}
	if m.Queries != 3 {
		t.Errorf("manifest queries = %d, want 3", m.Queries)
	}
	if len(m.Fingerprint) != 64 {
		t.Errorf("fingerprint should be a sha256 hex digest, got %q", m.Fingerprint)
	}
}

func TestRulesCommand(t *testing.T) {
	out, err := runCLI(t, "rules")
	if err != nil {
		t.Fatalf("rules command error = %v", err)
	}
	for _, id := range []string{"QR01", "QR07", "CB01", "CB09"} {
		if !strings.Contains(out, id) {
			t.Errorf("rules output should list %s, got: %s", id, out)
		}
	}

	out, err = runCLI(t, "rules", "explain", "qr02")
	if err != nil {
		t.Fatalf("rules explain error = %v", err)
	}
	if !strings.Contains(out, "QR02") {
		t.Errorf("rules explain output should name the rule, got: %s", out)
	}

	_, err = runCLI(t, "rules", "explain", "ZZ99")
	if err == nil {
		t.Error("rules explain should fail for an unknown rule")
	}
}

func TestDoctorCommand(t *testing.T) {
	root := testutil.SetupTestCorpus(t)

	out, err := runCLI(t, "--corpus-root", root, "--output", "json", "doctor")
	if err != nil {
		t.Fatalf("doctor command error = %v", err)
	}

	var report struct {
		Score int `json:"score"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("doctor output is not valid JSON: %v\n%s", err, out)
	}
	if report.Score != 100 {
		t.Errorf("doctor score for a clean corpus = %d, want 100", report.Score)
	}
}
