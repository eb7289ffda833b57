package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"credence/pkg/credence/report"
	"credence/pkg/credence/store"
	"credence/pkg/credence/store/sqlite"
)

func runRuns(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	dbPath := fs.String("db", "", "SQLite database (required)")
	limit := fs.Int("limit", 20, "Maximum number of runs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		return fmt.Errorf("usage: credencectl runs -db <path> [-limit <n>]")
	}

	ctx := context.Background()
	st, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %-12s  P(%s | %s)\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Network, r.Query, r.Evidence)
	}
	return nil
}

func runShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	dbPath := fs.String("db", "", "SQLite database (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" || fs.NArg() < 1 {
		return fmt.Errorf("usage: credencectl show -db <path> <run-id>")
	}

	run, err := fetchRun(*dbPath, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("run %s (%s)\n", run.ID, run.CreatedAt.Format(time.RFC3339))
	fmt.Printf("network: %s\n", run.Network)
	fmt.Printf("P(%s | %s)\n", run.Query, run.Evidence)
	values := make([]string, 0, len(run.Posterior))
	for value := range run.Posterior {
		values = append(values, value)
	}
	sort.Strings(values)
	for _, value := range values {
		fmt.Printf("  %s = %.4f\n", value, run.Posterior[value])
	}
	if run.Trace != "" {
		fmt.Printf("\n%s\n", run.Trace)
	}
	return nil
}

func runReport(args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	dbPath := fs.String("db", "", "SQLite database (required)")
	out := fs.String("o", "", "Write the page to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" || fs.NArg() < 1 {
		return fmt.Errorf("usage: credencectl report -db <path> [-o <file>] <run-id>")
	}

	run, err := fetchRun(*dbPath, fs.Arg(0))
	if err != nil {
		return err
	}

	if *out == "" {
		return report.Render(os.Stdout, run)
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := report.Render(f, run); err != nil {
		return err
	}
	fmt.Printf("report written to %s\n", *out)
	return nil
}

// fetchRun opens the store just long enough to read one run.
func fetchRun(dbPath, id string) (store.Run, error) {
	ctx := context.Background()
	st, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return store.Run{}, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	run, found, err := st.GetRun(ctx, id)
	if err != nil {
		return store.Run{}, err
	}
	if !found {
		return store.Run{}, fmt.Errorf("no run %s", id)
	}
	return run, nil
}
