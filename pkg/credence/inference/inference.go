package inference

import (
	"errors"
	"sort"
	"strings"

	"credence/pkg/credence/cpt"
)

// Model is the read-only view of a Bayesian network that inference engines
// consume. *network.Network satisfies it.
type Model interface {
	// Variables returns every variable name in the network
	Variables() []string

	// Parents returns the direct parents of a variable
	Parents(name string) []string

	// CPT returns the conditional probability table for a variable
	CPT(name string) (*cpt.Table, bool)

	// TopologicalOrder returns the variables with every parent before its
	// children, or an error when the network is cyclic
	TopologicalOrder() ([]string, error)
}

// Evidence maps observed variables to their observed values
type Evidence map[string]string

// Clone returns an independent copy of the evidence
func (e Evidence) Clone() Evidence {
	out := make(Evidence, len(e)+1)
	for name, value := range e {
		out[name] = value
	}
	return out
}

// With returns a copy of the evidence extended by one assignment. The
// receiver is never modified, so every recursion branch sees its own map.
func (e Evidence) With(name, value string) Evidence {
	out := e.Clone()
	out[name] = value
	return out
}

// String renders the evidence as {A=v, B=w} with names sorted
func (e Evidence) String() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("{")
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(e[name])
	}
	b.WriteString("}")
	return b.String()
}

// Domains maps each variable to its ordered value set. The order is the
// order engines enumerate values in, so it also fixes trace and result
// ordering.
type Domains map[string][]string

// DefaultDomain is the domain assumed for every variable when no domains
// are supplied at all
func DefaultDomain() []string {
	return []string{"true", "false"}
}

// Distribution is a normalized posterior: value → probability
type Distribution map[string]float64

// Engine failures. Call sites wrap these with context; callers match with
// errors.Is.
var (
	// ErrMissingEvidence reports that a table lookup needed a variable with
	// no value in the current evidence. With a topologically ordered
	// enumeration this indicates a network whose declared parents and CPT
	// columns disagree.
	ErrMissingEvidence = errors.New("missing evidence")

	// ErrCPTLookup reports that no single table row matches an assignment
	ErrCPTLookup = errors.New("cpt lookup failed")

	// ErrZeroEvidenceProbability reports that the evidence has probability
	// zero under the model, so no posterior exists
	ErrZeroEvidenceProbability = errors.New("evidence has zero probability")

	// ErrInvalidQuery reports a malformed query: an unknown variable, a
	// variable already observed in the evidence, or an empty domain
	ErrInvalidQuery = errors.New("invalid query")
)
