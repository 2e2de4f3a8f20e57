// Package tui presents a select box in the terminal.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evantbyrne/vessel/selectbox"
)

const (
	metricsPrefix = "tui"
	defaultWidth  = 40
)

const (
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorRed      lipgloss.Color = "#f38ba8"
)

var (
	openerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorOverlay0).
			Foreground(colorText).
			Padding(0, 1)
	openerPressedStyle = openerStyle.BorderForeground(colorBlue)
	disabledStyle      = openerStyle.Foreground(colorOverlay0)
	cellStyle          = lipgloss.NewStyle().Foreground(colorSubtext0).PaddingLeft(2)
	hoverStyle         = cellStyle.Foreground(colorText).Background(colorSurface1)
	selectedStyle      = cellStyle.Foreground(colorBlue)
	errorStyle         = lipgloss.NewStyle().Foreground(colorRed)
	helpStyle          = lipgloss.NewStyle().Foreground(colorOverlay0)
)

// surface records what the select box asks to draw. The trigger is one
// line high inside a one cell border.
type surface struct {
	width    int
	state    selectbox.State
	geometry selectbox.Geometry
}

func (s *surface) OpenerBox() selectbox.Box {
	return selectbox.Box{BorderLeft: 1, BorderRight: 1, Width: s.width - 2, Height: 3}
}

func (s *surface) PositionPopup(g selectbox.Geometry) {
	s.geometry = g
}

func (s *surface) Render(state selectbox.State) {
	s.state = state
}

// Model is a bubbletea model driving a select box with the keyboard.
type Model struct {
	Box *selectbox.SelectBox

	surface *surface
	cursor  int
	picked  *[]string
	done    bool
}

// New returns a model offering options, the first one selected.
func New(options []selectbox.Option) Model {
	s := &surface{width: defaultWidth}
	box := selectbox.New(&selectbox.LabelOpener{}, s)
	for _, option := range options {
		box.AddOption(option)
	}
	box.Truncate(metricsPrefix, s.width)

	picked := &[]string{}
	box.AddValueChangeHandler(func(e selectbox.ValueChangeEvent) {
		*picked = append(*picked, e.Value)
	})
	return Model{Box: box, surface: s, cursor: -1, picked: picked}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Picked returns every value chosen interactively, in order.
func (m Model) Picked() []string {
	return *m.picked
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.surface.width = msg.Width
		m.Box.Truncate(metricsPrefix, msg.Width)
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	values := m.Box.Values()
	switch msg.String() {
	case "ctrl+c", "q":
		m.done = true
		return m, tea.Quit
	case "esc":
		m.Box.Dismiss()
		m.cursor = m.leave(values)
	case "r":
		m.Box.Reset()
		m.cursor = m.leave(values)
	case "up", "k":
		if m.Box.IsOpen() && len(values) > 0 {
			m.move(values, (m.cursor-1+len(values))%len(values))
		}
	case "down", "j":
		if m.Box.IsOpen() && len(values) > 0 {
			m.move(values, (m.cursor+1)%len(values))
		}
	case "enter", " ":
		if m.Box.IsOpen() && m.cursor >= 0 && m.cursor < len(values) {
			m.Box.HandleCell(values[m.cursor], selectbox.CellClick)
			m.cursor = -1
			return m, nil
		}
		m.Box.ClickOpener()
		if m.Box.IsOpen() {
			m.move(values, indexOf(values, m.Box.Selected()))
		}
	}
	return m, nil
}

// move hands pointer hover from the current cell to cell i.
func (m *Model) move(values []string, i int) {
	if m.cursor >= 0 && m.cursor < len(values) {
		m.Box.HandleCell(values[m.cursor], selectbox.CellPointerLeave)
	}
	if i < 0 {
		i = 0
	}
	m.cursor = i
	if i < len(values) {
		m.Box.HandleCell(values[i], selectbox.CellPointerEnter)
	}
}

func (m Model) leave(values []string) int {
	if m.cursor >= 0 && m.cursor < len(values) {
		m.Box.HandleCell(values[m.cursor], selectbox.CellPointerLeave)
	}
	return -1
}

func (m Model) View() string {
	if m.done {
		return ""
	}
	state := m.surface.state

	style := openerStyle
	switch {
	case !state.Enabled:
		style = disabledStyle
	case state.Pressed:
		style = openerPressedStyle
	}
	icon := "▸"
	if state.Open {
		icon = "▾"
	}
	width := m.surface.width - 2
	if width < 1 {
		width = 1
	}

	var b strings.Builder
	b.WriteString(style.Width(width).Render(icon + " " + state.OpenerLabel))
	b.WriteString("\n")
	if state.Open {
		for _, option := range state.Options {
			cell := cellStyle
			switch {
			case option.Hover:
				cell = hoverStyle
			case option.Value == state.Selected:
				cell = selectedStyle
			}
			b.WriteString(cell.Width(m.surface.geometry.Width).Render(option.Display))
			b.WriteString("\n")
		}
	}
	if state.Error != "" {
		b.WriteString(errorStyle.Render(state.Error))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter: open/choose  ↑/↓: move  esc: close  r: reset  q: quit"))
	return b.String()
}

func indexOf(values []string, value string) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return 0
}
