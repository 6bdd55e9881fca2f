package viewer

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattwhite/yearposter/internal/activity"
	"github.com/mattwhite/yearposter/internal/poster"
	"github.com/mattwhite/yearposter/internal/units"
)

func host(t *testing.T) *poster.Settings {
	t.Helper()
	h, err := poster.NewSettings(units.Metric, nil, 0)
	require.NoError(t, err)
	return h
}

func TestRenderGrid_DotCount(t *testing.T) {
	assert.Equal(t, 365, strings.Count(RenderGrid(nil, 2023, host(t)), dotGlyph))
	assert.Equal(t, 366, strings.Count(RenderGrid(nil, 2024, host(t)), dotGlyph))
}

func TestModel_LoadAndNavigate(t *testing.T) {
	tracks := []activity.Activity{
		{StartLocal: time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC), Length: 12000},
		{StartLocal: time.Date(2023, 3, 1, 7, 0, 0, 0, time.UTC), Length: 5000},
		{StartLocal: time.Date(2023, 3, 2, 7, 0, 0, 0, time.UTC), Length: 5000},
	}
	m := New(func() ([]activity.Activity, error) { return tracks, nil }, host(t), 2024)

	msg := loadCmd(m.load)()
	next, _ := m.Update(msg)
	m = next.(Model)
	assert.False(t, m.loading)
	assert.Equal(t, 1, m.stats.TotalRuns)
	assert.Equal(t, 1, m.stats.TenKCount)
	assert.Contains(t, m.View(), "2024 Year Summary")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	assert.Equal(t, 2023, m.year)
	assert.Equal(t, 2, m.stats.TotalRuns)
	assert.Equal(t, 2, m.stats.Streak)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_LoadError(t *testing.T) {
	m := New(func() ([]activity.Activity, error) { return nil, errors.New("boom") }, host(t), 2024)
	next, _ := m.Update(loadCmd(m.load)())
	m = next.(Model)
	assert.Contains(t, m.View(), "boom")
}
