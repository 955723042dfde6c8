package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/flowlines/renderer"
	"github.com/pthm-cable/flowlines/sketch"
)

// Rows reserved under the canvas for the status block.
const statusRows = 4

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TickMsg advances the sketch by one tick.
type TickMsg time.Time

// Model runs a sketch inside a bubbletea program.
type Model struct {
	sketch   *sketch.Sketch
	term     *renderer.Terminal
	title    string
	interval time.Duration
	paused   bool
}

// NewModel wraps s. fps sets the tick rate; values below 1 mean 30.
func NewModel(s *sketch.Sketch, title string, fps int) Model {
	if fps < 1 {
		fps = 30
	}
	return Model{
		sketch:   s,
		term:     renderer.NewTerminal(80, 24-statusRows, nil),
		title:    title,
		interval: time.Second / time.Duration(fps),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles keys, resizes and ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "n":
			if m.paused && !m.sketch.Stopped() {
				m.sketch.Tick()
			}
		}
	case tea.WindowSizeMsg:
		m.term.Resize(msg.Width, msg.Height-statusRows)
	case TickMsg:
		if !m.paused && !m.sketch.Stopped() {
			m.sketch.Tick()
		}
		return m, m.tick()
	}
	return m, nil
}

// View renders the latest frame and the status block.
func (m Model) View() string {
	data := HUDDataOf(m.sketch, m.title)
	data.Paused = m.paused

	var b strings.Builder
	b.WriteString(m.term.Render(m.sketch.Frame()))
	b.WriteByte('\n')
	b.WriteString(titleStyle.Render(m.title))
	lines := StatusLines(data)
	b.WriteByte('\n')
	b.WriteString(statusStyle.Render(strings.Join(lines[:2], "  ") + "  " + lines[2]))
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("space pause · n step · q quit"))
	return b.String()
}

// Paused reports whether ticking is suspended.
func (m Model) Paused() bool { return m.paused }
