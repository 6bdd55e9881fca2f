// Package viewer previews the year summary grid in the terminal.
package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mattwhite/yearposter/internal/activity"
	"github.com/mattwhite/yearposter/internal/poster"
	"github.com/mattwhite/yearposter/internal/summary"
)

const dotGlyph = "●"

type keymap struct {
	Prev key.Binding
	Next key.Binding
	Help key.Binding
	Quit key.Binding
}

func newKeymap() keymap {
	return keymap{
		Prev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous year")),
		Next: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next year")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keymap) ShortHelp() []key.Binding { return []key.Binding{k.Prev, k.Next, k.Quit} }
func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next}, {k.Help, k.Quit}}
}

// Model is the bubbletea model for the preview.
type Model struct {
	load    func() ([]activity.Activity, error)
	host    poster.Host
	tracks  []activity.Activity
	year    int
	stats   summary.YearStats
	loading bool
	err     error
	loader  spinner.Model
	help    help.Model
	keys    keymap
	width   int
	height  int
}

// New builds a preview that loads its activities with load.
func New(load func() ([]activity.Activity, error), host poster.Host, year int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(host.Palette().Track.Hex()))

	return Model{
		load:    load,
		host:    host,
		year:    year,
		loading: true,
		loader:  sp,
		help:    help.New(),
		keys:    newKeymap(),
	}
}

type tracksLoadedMsg struct{ tracks []activity.Activity }
type loadErrorMsg struct{ err error }

func loadCmd(load func() ([]activity.Activity, error)) tea.Cmd {
	return func() tea.Msg {
		tracks, err := load()
		if err != nil {
			return loadErrorMsg{err}
		}
		return tracksLoadedMsg{tracks}
	}
}

func (m Model) Init() tea.Cmd { return tea.Batch(loadCmd(m.load), m.loader.Tick) }

func (m *Model) recompute() {
	m.stats = summary.Calculate(activity.FilterYear(m.tracks, m.year), m.host)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case tracksLoadedMsg:
		m.tracks = msg.tracks
		m.loading = false
		m.recompute()
	case loadErrorMsg:
		m.err = msg.err
		m.loading = false
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Prev):
			if !m.loading {
				m.year--
				m.recompute()
			}
		case key.Matches(msg, m.keys.Next):
			if !m.loading {
				m.year++
				m.recompute()
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.loader.View() + " Loading activities...")
	}
	if m.err != nil {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Foreground(lipgloss.Color("#FF0000")).
			Render(fmt.Sprintf("Error loading activities: %v", m.err))
	}

	palette := m.host.Palette()
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(palette.Track.Hex())).
		Render(fmt.Sprintf("%d Year Summary", m.year))

	grid := RenderGrid(activity.FilterYear(m.tracks, m.year), m.year, m.host)
	side := RenderStats(m.stats, m.host.UnitLabel())

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		grid,
		lipgloss.NewStyle().MarginLeft(4).Render(side),
	)

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", m.help.View(m.keys)),
	)
}

var monthInitials = []string{"J", "F", "M", "A", "M", "J", "J", "A", "S", "O", "N", "D"}

// RenderGrid draws the month-by-day grid with one colored glyph per date,
// colored exactly like the poster dots.
func RenderGrid(tracks []activity.Activity, year int, host poster.Host) string {
	days := poster.GroupByDay(tracks, host)
	palette := host.Palette()
	special := host.SpecialDistance()
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))

	var b strings.Builder
	b.WriteString("   ")
	for _, m := range monthInitials {
		b.WriteString(" " + label.Render(m))
	}
	b.WriteString("\n")

	for day := 1; day <= 31; day++ {
		b.WriteString(label.Render(fmt.Sprintf("%3d", day)))
		for month := 1; month <= 12; month++ {
			b.WriteString(" ")
			if !poster.ValidDate(year, month, day) {
				b.WriteString(" ")
				continue
			}
			c := poster.DotColor(days.Get(month, day), special, palette)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(dotGlyph))
		}
		if day < 31 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderStats is the labelled list of year statistics.
func RenderStats(stats summary.YearStats, unit string) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#999"))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFF"))

	rows := [][2]string{
		{"Runs", fmt.Sprint(stats.TotalRuns)},
		{"Distance", fmt.Sprintf("%.1f %s", stats.TotalDistance, unit)},
		{"Time", summary.FormatDuration(stats.TotalTime)},
		{"Avg pace", fmt.Sprintf("%s /%s", stats.AvgPace, unit)},
		{"Streak", fmt.Sprintf("%d days", stats.Streak)},
		{"Active days", fmt.Sprint(stats.ActiveDays)},
		{"Longest run", fmt.Sprintf("%.1f %s", stats.LongestRun, unit)},
		{"Marathons", fmt.Sprint(stats.MarathonCount)},
		{"Half marathons", fmt.Sprint(stats.HalfMarathonCount)},
		{"10K+", fmt.Sprint(stats.TenKCount)},
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, labelStyle.Width(16).Render(r[0])+valueStyle.Render(r[1]))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444")).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
