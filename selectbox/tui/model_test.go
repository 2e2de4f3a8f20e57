package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/evantbyrne/vessel/selectbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func apply(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func newModel() Model {
	return New([]selectbox.Option{
		{Value: "teaser", Label: "Teaser"},
		{Value: "list", Label: "List"},
		{Value: "wide", Label: "Wide"},
	})
}

func TestPickWithKeyboard(t *testing.T) {
	m := newModel()
	assert.Equal(t, "teaser", m.Box.Selected())

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.Box.IsOpen())
	assert.Contains(t, m.View(), "List")

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	state := m.Box.State()
	assert.False(t, state.Options[1].Hover)
	assert.True(t, state.Options[2].Hover)

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Box.IsOpen())
	assert.Equal(t, "wide", m.Box.Selected())
	assert.Equal(t, []string{"wide"}, m.Picked())
	assert.False(t, m.Box.State().Options[2].Hover)
}

func TestEscapeDismisses(t *testing.T) {
	m := newModel()
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.Box.IsOpen())
	assert.Equal(t, "teaser", m.Box.Selected())
	assert.Empty(t, m.Picked())
	for _, option := range m.Box.State().Options {
		assert.False(t, option.Hover)
	}
}

func TestReset(t *testing.T) {
	m := newModel()
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter}, key("r"))

	assert.Equal(t, "teaser", m.Box.Selected())
	assert.Equal(t, []string{"list", "teaser"}, m.Picked())
}

func TestWindowSizeTruncates(t *testing.T) {
	m := New([]selectbox.Option{{Value: "long", Label: "A label that does not fit"}})
	m = apply(t, m, tea.WindowSizeMsg{Width: 16, Height: 10})

	assert.Equal(t, "A label that do…", m.Box.State().OpenerLabel)
	assert.Equal(t, "A label …", m.Box.State().Options[0].Display)
}

func TestQuit(t *testing.T) {
	m := newModel()
	next, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, "", next.View())
}
