package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"credence/pkg/credence/inference"
	"credence/pkg/credence/store"
	"credence/pkg/credence/store/sqlite"
)

func seedRun(t *testing.T, dbPath string) store.Run {
	t.Helper()

	ctx := context.Background()
	st, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	run := store.Run{
		ID:        "01J0000000000000000000TEST",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Network:   "sprinkler",
		Query:     "Rain",
		Evidence:  inference.Evidence{"GrassWet": "true"},
		Posterior: inference.Distribution{"true": 0.6947, "false": 0.3053},
		Trace:     "Computing P(Rain | {GrassWet=true})",
	}
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	return run
}

func TestRunRunsRequiresDB(t *testing.T) {
	if err := runRuns(nil); err == nil {
		t.Error("expected a usage error without -db")
	}
}

func TestRunRunsEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	if err := runRuns([]string{"-db", dbPath}); err != nil {
		t.Errorf("runRuns on an empty database: %v", err)
	}
}

func TestRunShowRequiresRunID(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	if err := runShow(nil); err == nil {
		t.Error("expected a usage error without -db")
	}
	if err := runShow([]string{"-db", dbPath}); err == nil {
		t.Error("expected a usage error without a run id")
	}
}

func TestRunShowMissingRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	err := runShow([]string{"-db", dbPath, "01NOPE"})
	if err == nil {
		t.Fatal("expected an error for an unknown run id")
	}
	if !strings.Contains(err.Error(), "no run 01NOPE") {
		t.Errorf("error should name the run, got %v", err)
	}
}

func TestRunShowPrintsStoredRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	run := seedRun(t, dbPath)

	if err := runShow([]string{"-db", dbPath, run.ID}); err != nil {
		t.Errorf("runShow: %v", err)
	}
}

func TestRunReportWritesFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	outPath := filepath.Join(dir, "report.html")
	run := seedRun(t, dbPath)

	if err := runReport([]string{"-db", dbPath, "-o", outPath, run.ID}); err != nil {
		t.Fatalf("runReport: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	page := string(data)
	if !strings.Contains(page, "P(Rain | {GrassWet=true})") {
		t.Error("report is missing the query header")
	}
	if !strings.Contains(page, "0.6947") {
		t.Error("report is missing the posterior probability")
	}
}

func TestRunReportRequiresFlags(t *testing.T) {
	if err := runReport(nil); err == nil {
		t.Error("expected a usage error without -db")
	}
	if err := runReport([]string{"-db", "runs.db"}); err == nil {
		t.Error("expected a usage error without a run id")
	}
}
