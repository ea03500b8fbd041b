package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wirebound/gdext/classdb"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	methodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	ex       *explorer
	classes  []string
	methods  []string
	result   string
	inputs   []textinput.Model
	selClass int
	selMeth  int
	focusIdx int
	state    modelState
}

type modelState int

const (
	stateSelectClass modelState = iota
	stateSelectMethod
	stateInputArgs
	stateShowResult
)

func newInteractiveModel(ex *explorer) *interactiveModel {
	return &interactiveModel{
		ex:      ex,
		classes: ex.ext.Registry().Classes(),
		state:   stateSelectClass,
	}
}

type callResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) class() *classdb.Class {
	c, _ := m.ex.ext.Registry().Class(m.classes[m.selClass])
	return c
}

func (m *interactiveModel) method() *classdb.Method {
	meth, _ := m.class().Method(m.methods[m.selMeth])
	return meth
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInputArgs || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectClass && m.selClass > 0 {
				m.selClass--
			}
			if m.state == stateSelectMethod && m.selMeth > 0 {
				m.selMeth--
			}

		case "down", "j":
			if m.state == stateSelectClass && m.selClass < len(m.classes)-1 {
				m.selClass++
			}
			if m.state == stateSelectMethod && m.selMeth < len(m.methods)-1 {
				m.selMeth++
			}

		case "enter":
			switch m.state {
			case stateSelectClass:
				m.methods = m.class().Methods()
				m.selMeth = 0
				m.state = stateSelectMethod

			case stateSelectMethod:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callMethod
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callMethod

			case stateShowResult:
				m.state = stateSelectMethod
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateSelectMethod:
				m.state = stateSelectClass
			case stateInputArgs:
				m.state = stateSelectMethod
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectMethod
				m.result = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	meth := m.method()
	m.inputs = make([]textinput.Model, len(meth.Args))
	for i, a := range meth.Args {
		ti := textinput.New()
		ti.Placeholder = a.Kind.String()
		ti.Prompt = a.Name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callMethod() tea.Msg {
	meth := m.method()

	tokens := make([]string, 0, len(m.inputs))
	for _, input := range m.inputs {
		tokens = append(tokens, input.Value())
	}
	// empty trailing fields fall back to declared defaults
	for len(tokens) > 0 && tokens[len(tokens)-1] == "" &&
		len(tokens) > len(meth.Args)-len(meth.Default) {
		tokens = tokens[:len(tokens)-1]
	}

	vals, err := parseArgs(meth, tokens)
	if err != nil {
		return callResultMsg{err: err}
	}

	out, err := m.ex.call(m.classes[m.selClass], meth.Name, vals)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: out.String()}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("gdxplore"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectClass:
		b.WriteString("Select a class:\n\n")
		for i, name := range m.classes {
			c, _ := m.ex.ext.Registry().Class(name)
			line := fmt.Sprintf("%s (extends %s)", name, c.Parent())
			if i == m.selClass {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • q quit"))

	case stateSelectMethod:
		b.WriteString(fmt.Sprintf("Methods of %s:\n\n", methodStyle.Render(m.classes[m.selClass])))
		for i, name := range m.methods {
			meth, _ := m.class().Method(name)
			if i == m.selMeth {
				b.WriteString(selectedStyle.Render("> " + signature(meth)))
			} else {
				b.WriteString("  " + m.formatMethod(meth))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • esc back • q quit"))

	case stateInputArgs:
		meth := m.method()
		b.WriteString(fmt.Sprintf("Calling %s.%s\n\n",
			m.classes[m.selClass], methodStyle.Render(meth.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(kindStyle.Render(meth.Args[i].Kind.String()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("Result of %s.%s:\n\n",
			m.classes[m.selClass], methodStyle.Render(m.methods[m.selMeth])))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • esc back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatMethod(meth *classdb.Method) string {
	var params []string
	for _, a := range meth.Args {
		params = append(params, a.Name+": "+kindStyle.Render(a.Kind.String()))
	}
	if meth.Vararg() {
		params = append(params, "...")
	}
	ret := ""
	if meth.Return != nil {
		ret = " -> " + kindStyle.Render(meth.Return.Kind.String())
	}
	prefix := ""
	if meth.Static() {
		prefix = "static "
	}
	return prefix + methodStyle.Render(meth.Name) + "(" + strings.Join(params, ", ") + ")" + ret
}

func runInteractive(ex *explorer) error {
	p := tea.NewProgram(newInteractiveModel(ex), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
