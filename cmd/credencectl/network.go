package main

import (
	"flag"
	"fmt"
	"os"

	"credence/pkg/credence/inference"
	"credence/pkg/credence/loader"
	"credence/pkg/credence/network"
	"credence/pkg/credence/viz"
)

// loadNetwork reads a network definition from a .yaml file or a CSV
// directory.
func loadNetwork(path string) (*network.Network, inference.Domains, error) {
	n, domains, err := loader.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load network: %w", err)
	}
	return n, domains, nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	networkPath := fs.String("network", "", "Network file or CSV directory (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *networkPath == "" {
		return fmt.Errorf("usage: credencectl validate -network <path>")
	}

	n, domains, err := loadNetwork(*networkPath)
	if err != nil {
		return err
	}
	if err := n.Validate(domains); err != nil {
		return err
	}
	fmt.Printf("network %s: %d variables, no defects\n", n.Name(), len(n.Variables()))
	return nil
}

func runGraph(args []string) error {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	networkPath := fs.String("network", "", "Network file or CSV directory (required)")
	dot := fs.Bool("dot", false, "Emit Graphviz DOT instead of a summary")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *networkPath == "" {
		return fmt.Errorf("usage: credencectl graph -network <path> [-dot]")
	}

	n, _, err := loadNetwork(*networkPath)
	if err != nil {
		return err
	}
	if *dot {
		return viz.DOT(os.Stdout, n)
	}
	return viz.Summary(os.Stdout, n)
}
