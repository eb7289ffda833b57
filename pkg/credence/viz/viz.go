package viz

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"credence/pkg/credence/cpt"
	"credence/pkg/credence/network"
)

// DOT writes the network in Graphviz dot format, variables and edges in
// deterministic order. Rendering to an image stays external:
//
//	credencectl graph -network net.yaml -dot net.dot && dot -Tpng net.dot
func DOT(w io.Writer, n *network.Network) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "digraph %q {\n", n.Name())
	fmt.Fprintln(bw, "\trankdir=TB;")
	for _, v := range n.Variables() {
		fmt.Fprintf(bw, "\t%q;\n", v)
	}
	for _, v := range n.Variables() {
		for _, child := range n.Children(v) {
			fmt.Fprintf(bw, "\t%q -> %q;\n", v, child)
		}
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}

// tablePreview is how many CPT rows Summary prints per variable
const tablePreview = 5

// Summary writes a text description of the network: every variable with
// its parents and the head of its table.
func Summary(w io.Writer, n *network.Network) error {
	bw := bufio.NewWriter(w)

	vars := n.Variables()
	fmt.Fprintf(bw, "Network %s: %d variables\n", n.Name(), len(vars))

	for _, v := range vars {
		fmt.Fprintln(bw)
		if parents := n.Parents(v); len(parents) > 0 {
			fmt.Fprintf(bw, "%s <- %s\n", v, strings.Join(parents, ", "))
		} else {
			fmt.Fprintf(bw, "%s\n", v)
		}

		table, ok := n.CPT(v)
		if !ok {
			fmt.Fprintln(bw, "  (no CPT)")
			continue
		}
		rows := table.Rows()
		for i, r := range rows {
			if i == tablePreview {
				fmt.Fprintf(bw, "  ... %d more rows\n", len(rows)-tablePreview)
				break
			}
			fmt.Fprintf(bw, "  %s\n", renderRow(n, v, r))
		}
	}

	return bw.Flush()
}

func renderRow(n *network.Network, variable string, r cpt.Row) string {
	parents := n.Parents(variable)
	if len(parents) == 0 {
		return fmt.Sprintf("P(%s=%s) = %.4f", variable, r.Value, r.Prob)
	}

	conds := make([]string, 0, len(parents))
	for _, p := range parents {
		conds = append(conds, fmt.Sprintf("%s=%s", p, r.Given[p]))
	}
	return fmt.Sprintf("P(%s=%s | %s) = %.4f", variable, r.Value, strings.Join(conds, ", "), r.Prob)
}
