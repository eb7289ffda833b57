package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"credence/pkg/credence/cpt"
	"credence/pkg/credence/inference"
	"credence/pkg/credence/network"
)

// yamlNetwork is the on-disk YAML document
type yamlNetwork struct {
	Name      string         `yaml:"name"`
	Variables []yamlVariable `yaml:"variables"`
}

type yamlVariable struct {
	Name    string    `yaml:"name"`
	Domain  []string  `yaml:"domain"`
	Parents []string  `yaml:"parents"`
	CPT     []yamlRow `yaml:"cpt"`
}

type yamlRow struct {
	Given map[string]string `yaml:"given"`
	Value string            `yaml:"value"`
	P     float64           `yaml:"p"`
}

// LoadYAML reads a network from a single YAML document.
// Format:
//
//	name: sprinkler
//	variables:
//	  - name: Rain
//	    domain: ["true", "false"]
//	    cpt:
//	      - {value: "true", p: 0.2}
//	      - {value: "false", p: 0.8}
//	  - name: GrassWet
//	    parents: [Sprinkler, Rain]
//	    cpt:
//	      - {given: {Sprinkler: "true", Rain: "true"}, value: "true", p: 0.99}
//	      ...
//
// An omitted domain defaults to true/false. An omitted name defaults to the
// file name.
func LoadYAML(path string) (*network.Network, inference.Domains, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	base := filepath.Base(path)
	var doc yamlNetwork
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", base, err)
	}
	if len(doc.Variables) == 0 {
		return nil, nil, fmt.Errorf("%s declares no variables", base)
	}

	name := doc.Name
	if name == "" {
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	net := network.New(name)
	domains := make(inference.Domains, len(doc.Variables))
	for i, v := range doc.Variables {
		if v.Name == "" {
			return nil, nil, fmt.Errorf("%s: variable %d has no name", base, i+1)
		}
		net.AddVariable(v.Name)
		for _, parent := range v.Parents {
			net.AddEdge(parent, v.Name)
		}

		domain := v.Domain
		if len(domain) == 0 {
			domain = inference.DefaultDomain()
		}
		domains[v.Name] = domain

		if len(v.CPT) == 0 {
			return nil, nil, fmt.Errorf("%s: variable %s has no cpt", base, v.Name)
		}
		rows := make([]cpt.Row, len(v.CPT))
		for j, r := range v.CPT {
			rows[j] = cpt.Row{Given: r.Given, Value: r.Value, Prob: r.P}
		}
		net.SetCPT(v.Name, cpt.New(rows...))
	}

	return net, domains, nil
}
