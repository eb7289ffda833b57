package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"credence/internal/prompt"
	"credence/pkg/credence"
	"credence/pkg/credence/inference"
	"credence/pkg/credence/store/sqlite"
	"credence/pkg/credence/trace"
)

func runAsk(args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	networkPath := fs.String("network", "", "Network file or CSV directory (required)")
	query := fs.String("query", "", "Query variable (required)")
	evidenceSpec := fs.String("evidence", "", "Evidence as Var=value,Var=value")
	interactive := fs.Bool("interactive", false, "Prompt for evidence variable by variable")
	tracePath := fs.String("trace", "", "Write the computation trace to this file")
	dbPath := fs.String("db", "", "Persist the run to this SQLite database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *networkPath == "" || *query == "" {
		return fmt.Errorf("usage: credencectl ask -network <path> -query <variable> [options]")
	}

	n, domains, err := loadNetwork(*networkPath)
	if err != nil {
		return err
	}

	evidence, err := parseEvidence(*evidenceSpec)
	if err != nil {
		return err
	}
	if *interactive {
		collected, err := prompt.Collect(prompt.Questions(n.Variables(), domains, *query))
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
		for name, value := range collected {
			evidence[name] = value
		}
	}

	ctx := context.Background()

	opts := credence.Options{
		Model:   n,
		Network: n.Name(),
		Domains: domains,
	}
	if *tracePath != "" {
		sink := trace.NewFileSink(*tracePath)
		defer sink.Close()
		opts.Sink = sink
	}
	if *dbPath != "" {
		st, err := sqlite.Open(ctx, *dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		opts.Store = st
	}

	c := credence.New(opts)
	defer c.Close()

	result, err := c.Ask(ctx, *query, evidence)
	if err != nil {
		return err
	}

	printResult(os.Stdout, result)
	if *tracePath != "" {
		fmt.Printf("trace written to %s\n", *tracePath)
	}
	return nil
}

// parseEvidence parses "Var=value,Var=value" into evidence. An empty spec
// means no variables were observed.
func parseEvidence(spec string) (inference.Evidence, error) {
	evidence := inference.Evidence{}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("bad evidence %q: want Variable=value", part)
		}
		name := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])
		if name == "" || value == "" {
			return nil, fmt.Errorf("bad evidence %q: want Variable=value", part)
		}
		if _, seen := evidence[name]; seen {
			return nil, fmt.Errorf("variable %s observed twice", name)
		}
		evidence[name] = value
	}
	return evidence, nil
}

func printResult(w io.Writer, result credence.Result) {
	fmt.Fprintf(w, "P(%s | %s)\n", result.Query, result.Evidence)
	values := make([]string, 0, len(result.Posterior))
	for value := range result.Posterior {
		values = append(values, value)
	}
	sort.Strings(values)
	for _, value := range values {
		fmt.Fprintf(w, "  %s = %.4f\n", value, result.Posterior[value])
	}
	if result.RunID != "" {
		fmt.Fprintf(w, "saved as run %s\n", result.RunID)
	}
}
