package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"credence/pkg/credence/cpt"
	"credence/pkg/credence/inference"
	"credence/pkg/credence/network"
)

// LoadCSV reads a network from a directory in the tabular layout:
//
//	edges.csv          header parent,child; one edge per row
//	cpt_<Variable>.csv header <parent columns...>,value,prob
//
// Domains are derived from each table's value column in first-appearance
// order, so the row order of a CPT file fixes the enumeration order.
// Variables that appear only in edges.csv load without a table; Validate
// reports them.
func LoadCSV(dir string) (*network.Network, inference.Domains, error) {
	net := network.New(filepath.Base(filepath.Clean(dir)))

	if err := readEdges(filepath.Join(dir, "edges.csv"), net); err != nil {
		return nil, nil, err
	}

	paths, err := filepath.Glob(filepath.Join(dir, "cpt_*.csv"))
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no cpt_*.csv files in %s", dir)
	}
	sort.Strings(paths)

	domains := make(inference.Domains, len(paths))
	for _, path := range paths {
		base := filepath.Base(path)
		name := strings.TrimSuffix(strings.TrimPrefix(base, "cpt_"), ".csv")
		if name == "" {
			return nil, nil, fmt.Errorf("%s names no variable", base)
		}

		table, err := readCPT(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", base, err)
		}
		net.SetCPT(name, table)
		domains[name] = table.Values()
	}

	return net, domains, nil
}

func readEdges(path string, net *network.Network) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read edges: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("read edges: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("edges.csv is empty")
	}

	parentCol, childCol := -1, -1
	for i, col := range records[0] {
		switch strings.TrimSpace(col) {
		case "parent":
			parentCol = i
		case "child":
			childCol = i
		}
	}
	if parentCol < 0 || childCol < 0 {
		return fmt.Errorf("edges.csv needs parent and child columns, got %v", records[0])
	}

	for i, record := range records[1:] {
		parent := strings.TrimSpace(record[parentCol])
		child := strings.TrimSpace(record[childCol])
		if parent == "" || child == "" {
			return fmt.Errorf("edges.csv line %d: empty variable name", i+2)
		}
		net.AddEdge(parent, child)
	}
	return nil
}

func readCPT(path string) (*cpt.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("need a header and at least one row")
	}

	header := records[0]
	valueCol, probCol := -1, -1
	parentCols := make(map[int]string)
	for i, col := range header {
		col = strings.TrimSpace(col)
		switch col {
		case "value":
			valueCol = i
		case "prob":
			probCol = i
		case "":
			return nil, fmt.Errorf("empty column name in header %v", header)
		default:
			parentCols[i] = col
		}
	}
	if valueCol < 0 || probCol < 0 {
		return nil, fmt.Errorf("needs value and prob columns, got %v", header)
	}

	rows := make([]cpt.Row, 0, len(records)-1)
	for i, record := range records[1:] {
		prob, err := strconv.ParseFloat(strings.TrimSpace(record[probCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad probability %q", i+2, record[probCol])
		}

		row := cpt.Row{
			Value: strings.TrimSpace(record[valueCol]),
			Prob:  prob,
		}
		if len(parentCols) > 0 {
			row.Given = make(map[string]string, len(parentCols))
			for col, parent := range parentCols {
				row.Given[parent] = strings.TrimSpace(record[col])
			}
		}
		rows = append(rows, row)
	}
	return cpt.New(rows...), nil
}
