package viz

import (
	"strings"
	"testing"

	"credence/pkg/credence/cpt"
	"credence/pkg/credence/network"
)

func sprinklerNetwork() *network.Network {
	n := network.New("sprinkler")
	n.AddEdge("Rain", "GrassWet")
	n.AddEdge("Sprinkler", "GrassWet")

	n.SetCPT("Rain", cpt.New(
		cpt.Row{Value: "true", Prob: 0.2},
		cpt.Row{Value: "false", Prob: 0.8},
	))
	n.SetCPT("Sprinkler", cpt.New(
		cpt.Row{Value: "true", Prob: 0.1},
		cpt.Row{Value: "false", Prob: 0.9},
	))
	n.SetCPT("GrassWet", cpt.New(
		cpt.Row{Given: map[string]string{"Sprinkler": "true", "Rain": "true"}, Value: "true", Prob: 0.99},
		cpt.Row{Given: map[string]string{"Sprinkler": "true", "Rain": "true"}, Value: "false", Prob: 0.01},
		cpt.Row{Given: map[string]string{"Sprinkler": "true", "Rain": "false"}, Value: "true", Prob: 0.9},
		cpt.Row{Given: map[string]string{"Sprinkler": "true", "Rain": "false"}, Value: "false", Prob: 0.1},
		cpt.Row{Given: map[string]string{"Sprinkler": "false", "Rain": "true"}, Value: "true", Prob: 0.8},
		cpt.Row{Given: map[string]string{"Sprinkler": "false", "Rain": "true"}, Value: "false", Prob: 0.2},
		cpt.Row{Given: map[string]string{"Sprinkler": "false", "Rain": "false"}, Value: "true", Prob: 0.0},
		cpt.Row{Given: map[string]string{"Sprinkler": "false", "Rain": "false"}, Value: "false", Prob: 1.0},
	))
	return n
}

func TestDOT(t *testing.T) {
	var b strings.Builder
	if err := DOT(&b, sprinklerNetwork()); err != nil {
		t.Fatalf("DOT: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		`digraph "sprinkler" {`,
		`"Rain";`,
		`"Sprinkler";`,
		`"GrassWet";`,
		`"Rain" -> "GrassWet";`,
		`"Sprinkler" -> "GrassWet";`,
		"}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output is missing %q:\n%s", want, out)
		}
	}
}

func TestDOTDeterministic(t *testing.T) {
	n := sprinklerNetwork()

	var first strings.Builder
	if err := DOT(&first, n); err != nil {
		t.Fatalf("DOT: %v", err)
	}
	for i := 0; i < 5; i++ {
		var again strings.Builder
		if err := DOT(&again, n); err != nil {
			t.Fatalf("DOT: %v", err)
		}
		if again.String() != first.String() {
			t.Fatal("DOT output changed between calls")
		}
	}
}

func TestSummary(t *testing.T) {
	var b strings.Builder
	if err := Summary(&b, sprinklerNetwork()); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"Network sprinkler: 3 variables",
		"GrassWet <- Rain, Sprinkler",
		"P(Rain=true) = 0.2000",
		"P(GrassWet=true | Rain=true, Sprinkler=true) = 0.9900",
		"... 3 more rows",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary is missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryVariableWithoutCPT(t *testing.T) {
	n := network.New("partial")
	n.AddEdge("A", "B")

	var b strings.Builder
	if err := Summary(&b, n); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !strings.Contains(b.String(), "(no CPT)") {
		t.Errorf("summary should flag missing tables:\n%s", b.String())
	}
}
