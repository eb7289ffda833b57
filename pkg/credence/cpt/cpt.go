package cpt

import "sort"

// Row is one entry of a conditional probability table: the probability that
// the variable takes Value given the parent assignment in Given.
type Row struct {
	Given map[string]string // parent name → parent value, empty for root variables
	Value string
	Prob  float64
}

// Table is a conditional probability table. Tables are read-only after
// construction; the filter methods derive narrower tables instead of
// modifying the receiver.
type Table struct {
	rows []Row
}

// New builds a table from rows, kept in the given order
func New(rows ...Row) *Table {
	return &Table{rows: rows}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the rows in table order. Callers must treat them as read-only.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// FilterGiven returns the rows whose parent assignment binds parent to value.
// Rows that do not mention the parent at all never match.
func (t *Table) FilterGiven(parent, value string) *Table {
	var out []Row
	for _, r := range t.rows {
		bound, ok := r.Given[parent]
		if ok && bound == value {
			out = append(out, r)
		}
	}
	return &Table{rows: out}
}

// FilterValue returns the rows for one value of the variable itself
func (t *Table) FilterValue(value string) *Table {
	var out []Row
	for _, r := range t.rows {
		if r.Value == value {
			out = append(out, r)
		}
	}
	return &Table{rows: out}
}

// Values returns the distinct values the table assigns probabilities to, in
// first-appearance order. This is the variable's domain as the table sees it.
func (t *Table) Values() []string {
	seen := make(map[string]struct{}, len(t.rows))
	var out []string
	for _, r := range t.rows {
		if _, ok := seen[r.Value]; ok {
			continue
		}
		seen[r.Value] = struct{}{}
		out = append(out, r.Value)
	}
	return out
}

// Parents returns the distinct parent names the rows condition on, sorted
func (t *Table) Parents() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.rows {
		for parent := range r.Given {
			if _, ok := seen[parent]; ok {
				continue
			}
			seen[parent] = struct{}{}
			out = append(out, parent)
		}
	}
	sort.Strings(out)
	return out
}
