package exact

import (
	"fmt"

	"credence/pkg/credence/inference"
	"credence/pkg/credence/trace"
)

// Engine computes exact posteriors by enumeration: every unobserved
// variable is summed out in topological order, so each table lookup finds
// its parents already bound. Exact for any discrete network, exponential in
// the number of hidden variables.
type Engine struct {
	model   inference.Model
	domains inference.Domains
	sink    trace.Sink
}

// Options configures an Engine
type Options struct {
	// Domains assigns each variable its ordered value set. Nil means every
	// variable uses inference.DefaultDomain(). A non-nil map must cover
	// every variable in the network; partial maps are rejected rather than
	// silently mixed with the default.
	Domains inference.Domains

	// Sink receives the computation trace. Nil disables tracing.
	Sink trace.Sink
}

// New creates an engine over the given model
func New(model inference.Model, opts Options) *Engine {
	return &Engine{
		model:   model,
		domains: opts.Domains,
		sink:    opts.Sink,
	}
}

// Ask computes P(query | evidence): one probability per domain value of the
// query variable, normalized to sum to 1. The evidence map is never
// modified. The sink is reset at the start, so afterwards it holds exactly
// this computation, complete on success and up to the failing step on
// error. Query validation happens before the reset, so an invalid query
// leaves the sink untouched.
func (e *Engine) Ask(query string, evidence inference.Evidence) (inference.Distribution, error) {
	domains, err := e.resolveDomains()
	if err != nil {
		return nil, err
	}
	if err := validateQuery(query, evidence, domains); err != nil {
		return nil, err
	}

	order, err := e.model.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("order network: %w", err)
	}

	rec := trace.NewRecorder(e.sink)
	rec.Stepf("Computing P(%s | %s)", query, evidence)
	rec.Stepf("Variables in topological order: %v", order)

	unnormalized := make(map[string]float64, len(domains[query]))
	for _, value := range domains[query] {
		rec.Blank()
		rec.Stepf("Computing P(%s=%s, e)", query, value)
		p, err := e.enumerateAll(order, evidence.With(query, value), domains, rec)
		if err != nil {
			return nil, err
		}
		rec.Stepf("P(%s=%s, e) = %.4f", query, value, p)
		unnormalized[value] = p
	}

	// Summing in domain order keeps repeated runs bit-identical
	var total float64
	for _, value := range domains[query] {
		total += unnormalized[value]
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: %s is impossible under the model", inference.ErrZeroEvidenceProbability, evidence)
	}

	posterior := make(inference.Distribution, len(unnormalized))
	rec.Blank()
	for _, value := range domains[query] {
		posterior[value] = unnormalized[value] / total
		rec.Stepf("P(%s=%s | e) = %.4f", query, value, posterior[value])
	}

	if err := rec.Err(); err != nil {
		return nil, fmt.Errorf("write trace: %w", err)
	}
	return posterior, nil
}

// resolveDomains returns a domain for every variable in the model
func (e *Engine) resolveDomains() (inference.Domains, error) {
	vars := e.model.Variables()
	out := make(inference.Domains, len(vars))
	for _, v := range vars {
		if e.domains == nil {
			out[v] = inference.DefaultDomain()
			continue
		}
		dom := e.domains[v]
		if len(dom) == 0 {
			return nil, fmt.Errorf("%w: no domain for variable %s", inference.ErrInvalidQuery, v)
		}
		out[v] = dom
	}
	return out, nil
}

func validateQuery(query string, evidence inference.Evidence, domains inference.Domains) error {
	if query == "" {
		return fmt.Errorf("%w: empty query variable", inference.ErrInvalidQuery)
	}
	if _, ok := domains[query]; !ok {
		return fmt.Errorf("%w: unknown variable %s", inference.ErrInvalidQuery, query)
	}
	if value, ok := evidence[query]; ok {
		return fmt.Errorf("%w: %s is already observed as %s", inference.ErrInvalidQuery, query, value)
	}
	return nil
}

// enumerateAll computes the joint probability of the evidence over vars,
// summing out every variable the evidence does not bind. vars must be
// topologically ordered so parents are bound before their children are
// looked up.
func (e *Engine) enumerateAll(vars []string, ev inference.Evidence, domains inference.Domains, rec *trace.Recorder) (float64, error) {
	if len(vars) == 0 {
		return 1.0, nil
	}

	head, rest := vars[0], vars[1:]
	rec.Blank()
	rec.Stepf("Enumerating over %s", head)
	rec.Stepf("  Current evidence: %s", ev)

	if value, ok := ev[head]; ok {
		p, err := e.probability(head, ev)
		if err != nil {
			return 0, err
		}
		rec.Stepf("  %s in evidence, P(%s=%s|parents) = %.4f", head, head, value, p)
		tail, err := e.enumerateAll(rest, ev, domains, rec)
		if err != nil {
			return 0, err
		}
		result := p * tail
		rec.Stepf("  Returning %.4f", result)
		return result, nil
	}

	rec.Stepf("  Summing over values of %s: %v", head, domains[head])
	var total float64
	for _, value := range domains[head] {
		branch := ev.With(head, value)
		p, err := e.probability(head, branch)
		if err != nil {
			return 0, err
		}
		rec.Stepf("    P(%s=%s|parents) = %.4f", head, value, p)
		tail, err := e.enumerateAll(rest, branch, domains, rec)
		if err != nil {
			return 0, err
		}
		term := p * tail
		rec.Stepf("    Term for %s=%s: %.4f", head, value, term)
		total += term
	}
	rec.Stepf("  Sum for %s: %.4f", head, total)
	return total, nil
}

// probability resolves P(variable = ev[variable] | parents) from the
// variable's table by progressive narrowing: one parent at a time, then the
// variable's own value. Exactly one row may remain; none means the table
// has a gap, several means it is ambiguous, and both are lookup failures.
func (e *Engine) probability(variable string, ev inference.Evidence) (float64, error) {
	value, ok := ev[variable]
	if !ok {
		return 0, fmt.Errorf("%w: %s has no value in %s", inference.ErrMissingEvidence, variable, ev)
	}

	table, ok := e.model.CPT(variable)
	if !ok {
		return 0, fmt.Errorf("%w: no table for %s", inference.ErrCPTLookup, variable)
	}

	parents := e.model.Parents(variable)
	given := make(inference.Evidence, len(parents))

	rows := table
	for _, parent := range parents {
		parentValue, ok := ev[parent]
		if !ok {
			return 0, fmt.Errorf("%w: parent %s of %s has no value in %s", inference.ErrMissingEvidence, parent, variable, ev)
		}
		given[parent] = parentValue
		rows = rows.FilterGiven(parent, parentValue)
	}
	rows = rows.FilterValue(value)

	switch rows.Len() {
	case 1:
		return rows.Rows()[0].Prob, nil
	case 0:
		return 0, fmt.Errorf("%w: no row for %s=%s given %s", inference.ErrCPTLookup, variable, value, given)
	default:
		return 0, fmt.Errorf("%w: %d rows for %s=%s given %s", inference.ErrCPTLookup, rows.Len(), variable, value, given)
	}
}
