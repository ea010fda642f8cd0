// Package tui shows live render progress when stdout is a terminal.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PerekhodovAnton/Tg-Music-Generator/render"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	barDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	barRestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const barWidth = 30

// ProgressMsg carries a pipeline progress event into the model.
type ProgressMsg render.Progress

// DoneMsg signals that the pipeline finished (successfully or not).
type DoneMsg struct {
	Err    error
	Output string
}

type sourceState struct {
	name  string
	done  int
	total int
}

type Model struct {
	sources  []sourceState
	index    map[string]int
	finished bool
	err      error
	output   string
	quitting bool
}

// NewModel creates a progress model for the given source names, shown in
// render order.
func NewModel(names []string) Model {
	m := Model{index: make(map[string]int, len(names))}
	for i, name := range names {
		m.sources = append(m.sources, sourceState{name: name})
		m.index[name] = i
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case ProgressMsg:
		if i, ok := m.index[msg.Source]; ok {
			m.sources[i].done = msg.Done
			m.sources[i].total = msg.Total
		}

	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		m.output = msg.Output
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Rendering sources"))
	b.WriteString("\n\n")

	for _, src := range m.sources {
		b.WriteString("  ")
		b.WriteString(sourceStyle.Render(src.name))
		b.WriteString("  ")
		b.WriteString(bar(src.done, src.total))
		if src.total > 0 {
			fmt.Fprintf(&b, "  %d/%d notes", src.done, src.total)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	case m.finished:
		b.WriteString(okStyle.Render("final mix saved as " + m.output))
		b.WriteString("\n")
	default:
		b.WriteString("press q to abort\n")
	}
	return b.String()
}

// Err returns the pipeline error, if any, once the program has quit.
func (m Model) Err() error {
	return m.err
}

// Aborted reports whether the user quit before rendering finished.
func (m Model) Aborted() bool {
	return m.quitting && !m.finished
}

func bar(done, total int) string {
	if total <= 0 {
		return barRestStyle.Render(strings.Repeat("-", barWidth))
	}
	filled := done * barWidth / total
	if filled > barWidth {
		filled = barWidth
	}
	return barDoneStyle.Render(strings.Repeat("#", filled)) +
		barRestStyle.Render(strings.Repeat("-", barWidth-filled))
}
