package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"credence/pkg/credence/inference"
	"credence/pkg/credence/network"
)

// Load reads a network from disk, picking the format from the path: a
// directory is the CSV layout (edges.csv plus cpt_<Variable>.csv files), a
// .yaml or .yml file is the single-document format. Returns the network
// together with the domain of every variable.
func Load(path string) (*network.Network, inference.Domains, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		return LoadCSV(path)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	}
	return nil, nil, fmt.Errorf("unsupported network format %s: want a CSV directory or a .yaml file", path)
}
