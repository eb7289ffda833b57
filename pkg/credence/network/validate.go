package network

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// sumTolerance is how far the probabilities for one parent assignment may
// drift from summing to 1
const sumTolerance = 1e-9

// Validate checks that the network is a well-formed inference model:
// acyclic, fully parameterized, with tables that cover every parent
// assignment and value exactly once and sum to 1. domains may be nil, in
// which case coverage is checked against the values each table itself uses.
// The first defect found is returned. The inference engines never call
// this; callers decide when a check is worth its cost.
func (n *Network) Validate(domains map[string][]string) error {
	if _, err := n.TopologicalOrder(); err != nil {
		return err
	}

	for _, name := range n.order {
		if err := n.validateVariable(name, domains); err != nil {
			return err
		}
	}
	return nil
}

func (n *Network) validateVariable(name string, domains map[string][]string) error {
	table, ok := n.CPT(name)
	if !ok {
		return fmt.Errorf("variable %s has no CPT", name)
	}

	parents := n.Parents(name)
	parentSet := make(map[string]struct{}, len(parents))
	for _, p := range parents {
		parentSet[p] = struct{}{}
	}

	domain := domains[name]
	if len(domain) == 0 {
		domain = table.Values()
	}
	domainSet := make(map[string]struct{}, len(domain))
	for _, v := range domain {
		domainSet[v] = struct{}{}
	}

	groups := make(map[string]map[string]int) // parent assignment → value → row count
	sums := make(map[string]float64)

	for i, row := range table.Rows() {
		if row.Prob < 0 || row.Prob > 1 {
			return fmt.Errorf("CPT for %s row %d: probability %g outside [0,1]", name, i+1, row.Prob)
		}
		if _, ok := domainSet[row.Value]; !ok {
			return fmt.Errorf("CPT for %s row %d: value %s is not in the domain %v", name, i+1, row.Value, domain)
		}
		if len(row.Given) != len(parents) {
			return fmt.Errorf("CPT for %s row %d: conditions on %d variables, want the %d parents %v", name, i+1, len(row.Given), len(parents), parents)
		}
		for p := range row.Given {
			if _, ok := parentSet[p]; !ok {
				return fmt.Errorf("CPT for %s row %d: conditions on %s, which is not a parent", name, i+1, p)
			}
		}

		key := assignmentKey(parents, row.Given)
		if groups[key] == nil {
			groups[key] = make(map[string]int)
		}
		groups[key][row.Value]++
		if groups[key][row.Value] > 1 {
			return fmt.Errorf("CPT for %s: duplicate row for %s=%s given %s", name, name, row.Value, key)
		}
		sums[key] += row.Prob
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, v := range domain {
			if groups[key][v] == 0 {
				return fmt.Errorf("CPT for %s: no row for %s=%s given %s", name, name, v, key)
			}
		}
		if math.Abs(sums[key]-1) > sumTolerance {
			return fmt.Errorf("CPT for %s given %s: probabilities sum to %g, want 1", name, key, sums[key])
		}
	}

	if want := expectedAssignments(parents, domains); want > 0 && len(groups) != want {
		return fmt.Errorf("CPT for %s: covers %d parent assignments, want %d", name, len(groups), want)
	}
	return nil
}

// assignmentKey renders a parent assignment as {Rain=true, Sprinkler=false}
// in declared parent order
func assignmentKey(parents []string, given map[string]string) string {
	var b strings.Builder
	b.WriteString("{")
	for i, p := range parents {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p)
		b.WriteString("=")
		b.WriteString(given[p])
	}
	b.WriteString("}")
	return b.String()
}

// expectedAssignments is the size of the parent-domain product, or 0 when
// some parent's domain is unknown and the count cannot be checked
func expectedAssignments(parents []string, domains map[string][]string) int {
	want := 1
	for _, p := range parents {
		dom := domains[p]
		if len(dom) == 0 {
			return 0
		}
		want *= len(dom)
	}
	return want
}
