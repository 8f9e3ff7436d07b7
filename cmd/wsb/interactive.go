package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/websharper/wsc/bundle"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	artifactStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	sizeStyle = lipgloss.NewStyle().
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

type modelState int

const (
	stateSelectArtifact modelState = iota
	stateOutputPath
	stateShowResult
)

type artifactInfo struct {
	label    string
	file     string
	artifact *bundle.Artifact
	size     int
	err      error
}

type interactiveModel struct {
	err        error
	modules    []string
	configFile string
	b          *bundle.Bundle
	artifacts  []artifactInfo
	output     textinput.Model
	result     string
	selected   int
	state      modelState
}

func newInteractiveModel(modules []string, configFile string) *interactiveModel {
	return &interactiveModel{
		modules:    modules,
		configFile: configFile,
		state:      stateSelectArtifact,
	}
}

type loadedMsg struct {
	err       error
	b         *bundle.Bundle
	artifacts []artifactInfo
}

type writtenMsg struct {
	err  error
	path string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadBundle
}

func (m *interactiveModel) loadBundle() tea.Msg {
	b, _, err := loadBundle(m.modules, m.configFile, "")
	if err != nil {
		return loadedMsg{err: err}
	}

	artifacts := []artifactInfo{
		{label: "readable script", file: "bundle.js", artifact: b.JavaScript()},
		{label: "minified script", file: "bundle.min.js", artifact: b.MinifiedJavaScript()},
		{label: "style sheet", file: "bundle.css", artifact: b.CSS()},
		{label: "html headers", file: "bundle.head.html", artifact: b.HtmlHeaders()},
		{label: "html headers script", file: "bundle.head.js", artifact: b.HtmlHeadersScript()},
		{label: "declarations", file: "bundle.d.ts", artifact: b.TypeScript()},
	}
	for i := range artifacts {
		text, err := artifacts[i].artifact.Content()
		if err != nil {
			artifacts[i].err = err
			continue
		}
		artifacts[i].size = len(text)
	}

	return loadedMsg{b: b, artifacts: artifacts}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateOutputPath || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectArtifact && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectArtifact && m.selected < len(m.artifacts)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectArtifact:
				if len(m.artifacts) == 0 || m.artifacts[m.selected].err != nil {
					return m, nil
				}
				m.prepareOutput()
				m.state = stateOutputPath

			case stateOutputPath:
				return m, m.writeArtifact

			case stateShowResult:
				m.state = stateSelectArtifact
				m.result = ""
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateOutputPath:
				m.state = stateSelectArtifact
			case stateShowResult:
				m.state = stateSelectArtifact
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.b = msg.b
		m.artifacts = msg.artifacts

	case writtenMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.result = "Wrote " + msg.path
		}
		m.state = stateShowResult
	}

	if m.state == stateOutputPath {
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) prepareOutput() {
	ti := textinput.New()
	ti.Prompt = "path: "
	ti.SetValue(m.artifacts[m.selected].file)
	ti.Width = 40
	ti.Focus()
	m.output = ti
}

func (m *interactiveModel) writeArtifact() tea.Msg {
	a := m.artifacts[m.selected]
	path := m.output.Value()
	if path == "" {
		path = a.file
	}
	if err := a.artifact.WriteFile(path); err != nil {
		return writtenMsg{err: err}
	}
	return writtenMsg{path: path}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if len(m.artifacts) == 0 {
		return "Resolving modules..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Bundle Writer"))
	b.WriteString(" ")
	b.WriteString(strings.Join(m.modules, " "))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectArtifact:
		b.WriteString(fmt.Sprintf("%d modules resolved. Select an artifact to write:\n\n", len(m.b.References())))
		for i, a := range m.artifacts {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + m.formatArtifact(a)))
			} else {
				b.WriteString(cursor + m.formatArtifact(a))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter write • q quit"))

	case stateOutputPath:
		a := m.artifacts[m.selected]
		b.WriteString(fmt.Sprintf("Writing %s\n\n", artifactStyle.Render(a.label)))
		b.WriteString(m.output.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter write • esc back"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatArtifact(a artifactInfo) string {
	if a.err != nil {
		return artifactStyle.Render(a.label) + " " + errorStyle.Render(a.err.Error())
	}
	return artifactStyle.Render(a.label) + " " + sizeStyle.Render(fmt.Sprintf("(%d bytes)", a.size))
}

func runInteractive(modules []string, configFile string) error {
	p := tea.NewProgram(newInteractiveModel(modules, configFile), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
