package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	csvRepo "github.com/sh2nam/bree-takehome-nam/internal/adapter/repository/csv"
)

func setupEnv(t *testing.T) (dataDir, outDir string) {
	t.Helper()

	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("FEATURE_SOURCE", "csv")

	root := t.TempDir()
	return filepath.Join(root, "data"), filepath.Join(root, "output")
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"quality failed", errQualityFailed, 1},
		{"wrapped quality failed", fmt.Errorf("run: %w", errQualityFailed), 1},
		{"other", errors.New("boom"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	c := &cli{out: &buf}

	if err := c.printJSON(struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("printJSON: %v", err)
	}

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}

func TestGenerateThenAssemble(t *testing.T) {
	dataDir, outDir := setupEnv(t)
	common := []string{"--data-dir", dataDir, "--out-dir", outDir, "--log-level", "error"}

	code, stdout, stderr := runCLI(t, append([]string{"generate", "--users", "80", "--seed", "11"}, common...)...)
	if code != 0 {
		t.Fatalf("generate exited %d: %s", code, stderr)
	}

	var gen map[string]any
	if err := json.Unmarshal([]byte(stdout), &gen); err != nil {
		t.Fatalf("generate output is not json: %v\n%s", err, stdout)
	}
	if gen["users"] != float64(80) {
		t.Fatalf("expected 80 users, got %v", gen["users"])
	}
	for _, name := range []string{csvRepo.UsersFile, csvRepo.TransactionsFile, csvRepo.LoansFile, csvRepo.AssignmentsFile} {
		if _, err := os.Stat(filepath.Join(dataDir, name)); err != nil {
			t.Fatalf("expected %s to be written: %v", name, err)
		}
	}

	code, stdout, stderr = runCLI(t, append([]string{"assemble"}, common...)...)
	if code != 0 {
		t.Fatalf("assemble exited %d: %s", code, stderr)
	}

	var summary struct {
		ID          string `json:"id"`
		Source      string `json:"source"`
		RowsEmitted int    `json:"rows_emitted"`
	}
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("assemble output is not json: %v\n%s", err, stdout)
	}
	if summary.ID == "" {
		t.Fatalf("expected a run id, got %s", stdout)
	}
	if summary.Source != "csv" {
		t.Fatalf("expected csv source, got %q", summary.Source)
	}

	features, err := os.ReadFile(filepath.Join(outDir, csvRepo.FeaturesFile))
	if err != nil {
		t.Fatalf("read features: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(features)), "\n")
	if !strings.HasPrefix(lines[0], "loan_id,user_id,anchor_at") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if len(lines)-1 != summary.RowsEmitted {
		t.Fatalf("expected %d rows in features.csv, got %d", summary.RowsEmitted, len(lines)-1)
	}

	raw, err := os.ReadFile(filepath.Join(outDir, violationsFile))
	if err != nil {
		t.Fatalf("read violations: %v", err)
	}
	var violations map[string]any
	if err := json.Unmarshal(raw, &violations); err != nil {
		t.Fatalf("violations is not json: %v", err)
	}
	if _, ok := violations["total"]; !ok {
		t.Fatalf("expected total in violations report, got %s", raw)
	}
}

func TestAssemble_MissingDataDir(t *testing.T) {
	_, outDir := setupEnv(t)

	code, _, stderr := runCLI(t, "assemble", "--data-dir", filepath.Join(t.TempDir(), "nope"), "--out-dir", outDir, "--log-level", "error")
	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr, "error:") {
		t.Fatalf("expected error on stderr, got %q", stderr)
	}
}

func TestInvalidSourceFlag(t *testing.T) {
	dataDir, outDir := setupEnv(t)

	code, _, _ := runCLI(t, "assemble", "--source", "parquet", "--data-dir", dataDir, "--out-dir", outDir)
	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestLoadRequiresDatabase(t *testing.T) {
	dataDir, outDir := setupEnv(t)

	code, _, stderr := runCLI(t, "load", "--data-dir", dataDir, "--out-dir", outDir, "--log-level", "error")
	if code != 2 || !strings.Contains(stderr, "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %d %q", code, stderr)
	}
}
