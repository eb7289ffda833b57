package network

import (
	"fmt"
	"sort"

	"credence/pkg/credence/cpt"
)

// node holds the adjacency and local distribution for one variable
type node struct {
	parents  []string
	children []string
	table    *cpt.Table
}

// Network is a directed acyclic graph of named variables, each carrying a
// conditional probability table. Build one with New, AddEdge and SetCPT;
// after that it is a read-only model for the inference engines.
type Network struct {
	name  string
	nodes map[string]*node
	order []string // insertion order, keeps iteration deterministic
}

// New creates an empty network
func New(name string) *Network {
	return &Network{
		name:  name,
		nodes: make(map[string]*node),
	}
}

// Name returns the network's label
func (n *Network) Name() string {
	return n.name
}

// AddVariable registers a variable. Registering an existing one is a no-op.
func (n *Network) AddVariable(name string) {
	if _, ok := n.nodes[name]; ok {
		return
	}
	n.nodes[name] = &node{}
	n.order = append(n.order, name)
}

// AddEdge adds a parent → child dependency, registering both endpoints.
// Duplicate edges are ignored.
func (n *Network) AddEdge(parent, child string) {
	n.AddVariable(parent)
	n.AddVariable(child)

	for _, p := range n.nodes[child].parents {
		if p == parent {
			return
		}
	}
	n.nodes[child].parents = append(n.nodes[child].parents, parent)
	n.nodes[parent].children = append(n.nodes[parent].children, child)
}

// SetCPT attaches the conditional probability table for a variable,
// registering the variable if needed
func (n *Network) SetCPT(name string, t *cpt.Table) {
	n.AddVariable(name)
	n.nodes[name].table = t
}

// Has reports whether the variable exists
func (n *Network) Has(name string) bool {
	_, ok := n.nodes[name]
	return ok
}

// Variables returns every variable name in insertion order
func (n *Network) Variables() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// Parents returns the direct parents of a variable in edge insertion order
func (n *Network) Parents(name string) []string {
	nd, ok := n.nodes[name]
	if !ok {
		return nil
	}
	out := make([]string, len(nd.parents))
	copy(out, nd.parents)
	return out
}

// Children returns the direct children of a variable
func (n *Network) Children(name string) []string {
	nd, ok := n.nodes[name]
	if !ok {
		return nil
	}
	out := make([]string, len(nd.children))
	copy(out, nd.children)
	return out
}

// CPT returns the table attached to a variable
func (n *Network) CPT(name string) (*cpt.Table, bool) {
	nd, ok := n.nodes[name]
	if !ok || nd.table == nil {
		return nil, false
	}
	return nd.table, true
}

// TopologicalOrder returns the variables ordered with every parent before
// its children. Ties are broken lexically so repeated calls agree. Returns
// an error when the edges contain a cycle.
func (n *Network) TopologicalOrder() ([]string, error) {
	indegree := make(map[string]int, len(n.nodes))
	for name, nd := range n.nodes {
		indegree[name] = len(nd.parents)
	}

	var ready []string
	for name, deg := range indegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	out := make([]string, 0, len(n.nodes))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		out = append(out, next)

		released := false
		for _, child := range n.nodes[next].children {
			indegree[child]--
			if indegree[child] == 0 {
				ready = append(ready, child)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}

	if len(out) != len(n.nodes) {
		var stuck []string
		for name, deg := range indegree {
			if deg > 0 {
				stuck = append(stuck, name)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("network %s has a cycle through %v", n.name, stuck)
	}
	return out, nil
}
