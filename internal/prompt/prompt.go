// Package prompt collects evidence interactively, one variable at a time.
package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"credence/pkg/credence/inference"
)

// Question asks for the observed value of one variable.
type Question struct {
	Variable string
	Domain   []string
}

// Questions builds one question per network variable except the query
// variable, in network order.
func Questions(variables []string, domains inference.Domains, query string) []Question {
	questions := make([]Question, 0, len(variables))
	for _, name := range variables {
		if name == query {
			continue
		}
		domain := domains[name]
		if len(domain) == 0 {
			domain = inference.DefaultDomain()
		}
		questions = append(questions, Question{Variable: name, Domain: domain})
	}
	return questions
}

// Answers turns raw input into evidence. Blank answers mean the variable
// was not observed; anything else must be a value from the variable's
// domain.
func Answers(questions []Question, raw []string) (inference.Evidence, error) {
	if len(raw) != len(questions) {
		return nil, fmt.Errorf("got %d answers for %d questions", len(raw), len(questions))
	}
	evidence := inference.Evidence{}
	for i, q := range questions {
		value := strings.TrimSpace(raw[i])
		if value == "" {
			continue
		}
		var known bool
		for _, v := range q.Domain {
			if v == value {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%s: %q is not one of %v", q.Variable, value, q.Domain)
		}
		evidence[q.Variable] = value
	}
	return evidence, nil
}

// model is a bubbletea model that asks one question at a time.
type model struct {
	questions []Question
	idx       int
	inputs    []textinput.Model
	done      bool
}

func newModel(questions []Question) model {
	inputs := make([]textinput.Model, len(questions))
	for i, q := range questions {
		ti := textinput.New()
		ti.Placeholder = strings.Join(q.Domain, "/")
		ti.CharLimit = 64
		inputs[i] = ti
	}
	m := model{
		questions: questions,
		inputs:    inputs,
	}
	if len(inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.idx < len(m.inputs)-1 {
				m.inputs[m.idx].Blur()
				m.idx++
				m.inputs[m.idx].Focus()
				return m, textinput.Blink
			}
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.inputs[m.idx], cmd = m.inputs[m.idx].Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.done || len(m.questions) == 0 {
		return ""
	}
	q := m.questions[m.idx]
	return fmt.Sprintf("%s (blank to skip): %s\n", q.Variable, m.inputs[m.idx].View())
}

// Collect runs the TUI and returns the evidence it gathered.
func Collect(questions []Question) (inference.Evidence, error) {
	if len(questions) == 0 {
		return inference.Evidence{}, nil
	}
	m := newModel(questions)
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final, ok := result.(model)
	if !ok || !final.done {
		return nil, fmt.Errorf("prompt cancelled")
	}
	raw := make([]string, len(questions))
	for i := range final.inputs {
		raw[i] = final.inputs[i].Value()
	}
	return Answers(questions, raw)
}
