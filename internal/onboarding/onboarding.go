package onboarding

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mattwhite/yearposter/internal/config"
	"github.com/mattwhite/yearposter/internal/units"
)

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle    = blurredStyle

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

const (
	fieldData = iota
	fieldUnit
	fieldAPIKey
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Activity data (activities.json, data.db or a FIT folder)",
	"Unit (metric or imperial)",
	"Anthropic API key for recaps (optional)",
}

// Model is the interactive first-run form that writes config.toml.
type Model struct {
	inputs [fieldCount]textinput.Model
	focus  int
	path   string
	cfg    config.Config
	err    error
	saved  bool
}

// NewModel prefills the form from cfg; answers are saved to path.
func NewModel(path string, cfg config.Config) Model {
	m := Model{path: path, cfg: cfg}
	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 200
		ti.Width = 60
		m.inputs[i] = ti
	}
	m.inputs[fieldData].SetValue(cfg.Data)
	m.inputs[fieldUnit].SetValue(cfg.Unit)
	m.inputs[fieldAPIKey].Placeholder = "sk-ant-api03-..."
	m.inputs[fieldAPIKey].EchoMode = textinput.EchoPassword
	m.inputs[fieldAPIKey].EchoCharacter = '•'
	m.inputs[fieldData].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case tea.KeyEnter:
			if m.focus < fieldCount-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			if err := m.save(); err != nil {
				m.err = err
				return m, nil
			}
			m.saved = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *Model) save() error {
	unit, err := units.Parse(m.inputs[fieldUnit].Value())
	if err != nil {
		return err
	}
	cfg := m.cfg
	cfg.Unit = string(unit)
	if data := strings.TrimSpace(m.inputs[fieldData].Value()); data != "" {
		cfg.Data = data
	}
	if key := strings.TrimSpace(m.inputs[fieldAPIKey].Value()); key != "" {
		cfg.AnthropicAPIKey = key
	}
	if err := config.Save(m.path, cfg); err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

// Saved reports whether the form was written.
func (m Model) Saved() bool { return m.saved }

func (m Model) View() string {
	if m.saved {
		return successStyle.Render(fmt.Sprintf("\n✅ Settings saved to %s\n\nTry:\n  • yearposter poster\n  • yearposter view\n\n", m.path))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🏃 yearposter setup"))
	b.WriteString("\n")

	for i, in := range m.inputs {
		style := blurredStyle
		if i == m.focus {
			style = focusedStyle
		}
		b.WriteString(style.Render(fieldLabels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	if m.err != nil {
		b.WriteString(warningStyle.Render(fmt.Sprintf("Error: %v\n", m.err)))
	}

	b.WriteString(helpStyle.Render("(Tab to move, Enter on the last field to save, Esc to cancel)"))
	return b.String()
}

// Run shows the form and reports whether settings were saved.
func Run(path string, cfg config.Config) (bool, error) {
	final, err := tea.NewProgram(NewModel(path, cfg)).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.Saved(), nil
}
