package main

import (
	"fmt"
	"io"
	"log"
	"os"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(args []string) error
}

var commands = []command{
	{
		name:  "ask",
		short: "Compute a posterior distribution",
		usage: "credencectl ask -network <path> -query <variable> [options]",
		long: `Compute P(query | evidence) by exact enumeration.

The network is a .yaml file or a CSV directory (edges.csv plus
cpt_<Variable>.csv files). Evidence is given as -evidence Var=value,Var=value
or collected interactively with -interactive.

Options:
  -network <path>     network file or CSV directory (required)
  -query <variable>   query variable (required)
  -evidence <spec>    observed values, e.g. Rain=true,GrassWet=false
  -interactive        prompt for evidence variable by variable
  -trace <file>       also write the computation trace to a file
  -db <file>          persist the run to a SQLite database
`,
		run: runAsk,
	},
	{
		name:  "validate",
		short: "Check a network definition for defects",
		usage: "credencectl validate -network <path>",
		long: `Load a network and report structural defects: variables without a
CPT, rows that do not sum to one, missing or duplicate parent
assignments, values outside a variable's domain.
`,
		run: runValidate,
	},
	{
		name:  "graph",
		short: "Print a network as a summary or DOT graph",
		usage: "credencectl graph -network <path> [-dot]",
		long: `Print a readable summary of a network: each variable, its parents
and the first rows of its CPT. With -dot, emit Graphviz DOT instead:

  credencectl graph -network sprinkler.yaml -dot | dot -Tsvg > sprinkler.svg
`,
		run: runGraph,
	},
	{
		name:  "runs",
		short: "List persisted runs",
		usage: "credencectl runs -db <path> [-limit <n>]",
		long: `List runs persisted by 'ask -db', newest first.
`,
		run: runRuns,
	},
	{
		name:  "show",
		short: "Print one persisted run with its trace",
		usage: "credencectl show -db <path> <run-id>",
		long: `Print a persisted run: the query, the evidence, the posterior and
the full computation trace.
`,
		run: runShow,
	},
	{
		name:  "report",
		short: "Render a persisted run as HTML",
		usage: "credencectl report -db <path> [-o <file>] <run-id>",
		long: `Render a persisted run as a standalone HTML page. Without -o the
page goes to stdout.
`,
		run: runReport,
	},
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "credencectl — exact inference over Bayesian networks\n\n")
	fmt.Fprintf(w, "Usage:\n  credencectl <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nRun 'credencectl help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "credencectl: unknown command %q\n\nRun 'credencectl help' for usage.\n", name)
}

func dispatch(args []string) error {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage(os.Stdout)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(os.Stdout, args[1])
		} else {
			printUsage(os.Stdout)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(args[1:])
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'credencectl help' for usage.", args[0])
}

func main() {
	if err := dispatch(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
