// Package selectbox is a select box state machine: a list of options, a
// popup that opens below a trigger, a selected value and value change
// notifications. Presentation is supplied by an Opener, which draws the
// trigger, and a Surface, which draws everything else.
package selectbox

import (
	"github.com/charmbracelet/x/ansi"
)

const (
	// optionMetrics is appended to the truncation prefix for option cells.
	optionMetrics = "Option"
	// optionAllowance is taken off the widget width for option labels:
	// a border on each side plus the left margin.
	optionAllowance = 2 + 5
	ellipsis        = "…"
)

type FieldType string

const FieldTypeString FieldType = "string"

// Corner is the corner rounding applied to the trigger.
type Corner int

const (
	CornerAll Corner = iota
	CornerTop
)

func (c Corner) String() string {
	if c == CornerTop {
		return "corner-top"
	}
	return "corner-all"
}

// CellEvent is a pointer interaction with an option cell.
type CellEvent int

const (
	CellClick CellEvent = iota
	CellPointerEnter
	CellPointerLeave
)

// Box is the measured trigger.
type Box struct {
	BorderLeft  int
	BorderRight int
	Width       int
	Height      int
}

// Geometry places the popup relative to the widget's top left corner.
type Geometry struct {
	Left  int
	Top   int
	Width int
}

// Opener draws the trigger showing the selected value.
type Opener interface {
	InitOpener(box *SelectBox)
	UpdateOpener(value string)
	TruncateOpener(prefix string, width int)
}

// Surface draws the popup and reports the trigger's measurements.
type Surface interface {
	OpenerBox() Box
	PositionPopup(Geometry)
	Render(State)
}

// Labeler is implemented by openers that display text.
type Labeler interface {
	Label() string
}

// Option is a value and the label shown for it.
type Option struct {
	Value string
	Label string
}

// OptionState is an option as drawn: Display is the possibly truncated
// label and Metrics the text metrics key used to measure it.
type OptionState struct {
	Value   string
	Label   string
	Display string
	Metrics string
	Hover   bool
}

// State is a snapshot of everything a surface needs to draw.
type State struct {
	Options     []OptionState
	Selected    string
	OpenerLabel string
	Open        bool
	Enabled     bool
	Pressed     bool
	Corner      Corner
	Error       string
}

// ValueChangeEvent is sent to handlers after an interactive selection.
type ValueChangeEvent struct {
	Value string
}

// Unsubscribe removes a handler added with AddValueChangeHandler.
type Unsubscribe func()

type cell struct {
	Option
	display string
	metrics string
	hover   bool
}

type handler struct {
	id int
	fn func(ValueChangeEvent)
}

// SelectBox is a single-choice select widget independent of how it is drawn.
type SelectBox struct {
	opener  Opener
	surface Surface

	cells    map[string]*cell
	list     []*cell
	first    string
	selected string

	enabled      bool
	open         bool
	pressed      bool
	corner       Corner
	errorMessage string

	metricsPrefix string
	width         int
	truncated     bool

	handlers []handler
	nextID   int
}

// New returns an empty, enabled and closed select box. A nil surface
// discards all drawing.
func New(opener Opener, surface Surface) *SelectBox {
	if surface == nil {
		surface = nopSurface{}
	}
	s := &SelectBox{
		opener:  opener,
		surface: surface,
		cells:   make(map[string]*cell),
		enabled: true,
		corner:  CornerAll,
	}
	opener.InitOpener(s)
	s.render()
	return s
}

// AddOption appends an option to the popup. The first option added to an
// empty box is selected and becomes the value Reset returns to. Adding a
// value twice replaces it for lookups but lists it twice.
func (s *SelectBox) AddOption(option Option) {
	c := &cell{Option: option, display: option.Label}
	first := len(s.cells) == 0
	s.cells[option.Value] = c
	s.list = append(s.list, c)
	if s.truncated {
		s.truncateCell(c)
	}
	if first {
		s.selectValue(option.Value)
		s.first = option.Value
	}
	s.render()
}

// AddValueChangeHandler registers fn for interactive selections.
func (s *SelectBox) AddValueChangeHandler(fn func(ValueChangeEvent)) Unsubscribe {
	id := s.nextID
	s.nextID++
	s.handlers = append(s.handlers, handler{id: id, fn: fn})
	return func() {
		for i, h := range s.handlers {
			if h.id == id {
				s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
				return
			}
		}
	}
}

// SelectValue selects value without notifying handlers and closes the
// popup.
func (s *SelectBox) SelectValue(value string) {
	s.selectValue(value)
	s.render()
}

func (s *SelectBox) selectValue(value string) {
	s.opener.UpdateOpener(value)
	if s.truncated {
		s.truncate(s.metricsPrefix, s.width)
	}
	s.selected = value
	s.close()
}

// OnValueSelect selects value and notifies handlers once.
func (s *SelectBox) OnValueSelect(value string) {
	s.selectValue(value)
	s.render()
	s.fire(ValueChangeEvent{Value: value})
}

func (s *SelectBox) fire(event ValueChangeEvent) {
	handlers := make([]handler, len(s.handlers))
	copy(handlers, s.handlers)
	for _, h := range handlers {
		h.fn(event)
	}
}

func (s *SelectBox) ToggleOpen() {
	if !s.enabled {
		return
	}
	if s.open {
		s.close()
	} else {
		s.openPopup()
	}
	s.render()
}

// Open shows the popup below the trigger, as wide as the trigger including
// its borders.
func (s *SelectBox) Open() {
	s.openPopup()
	s.render()
}

func (s *SelectBox) openPopup() {
	if !s.enabled {
		return
	}
	s.pressed = true
	box := s.surface.OpenerBox()
	s.surface.PositionPopup(Geometry{
		Left:  0,
		Top:   box.Height,
		Width: box.BorderLeft + box.BorderRight + box.Width,
	})
	s.open = true
	s.corner = CornerTop
}

func (s *SelectBox) Close() {
	s.close()
	s.render()
}

func (s *SelectBox) close() {
	if !s.enabled {
		return
	}
	s.pressed = false
	s.open = false
	s.corner = CornerAll
}

// Reset closes the popup and interactively selects the first value.
func (s *SelectBox) Reset() {
	s.close()
	s.OnValueSelect(s.first)
}

// SetEnabled closes the popup, then sets the enabled flag.
func (s *SelectBox) SetEnabled(enabled bool) {
	s.close()
	s.enabled = enabled
	s.render()
}

// ClearItems removes every option and clears the selection without
// notifying handlers.
func (s *SelectBox) ClearItems() {
	s.cells = make(map[string]*cell)
	s.list = nil
	s.selected = ""
	s.render()
}

// Truncate fits the trigger into width and option labels into width less
// the cell borders and margin. It is applied again on every selection.
func (s *SelectBox) Truncate(prefix string, width int) {
	s.truncate(prefix, width)
	s.render()
}

func (s *SelectBox) truncate(prefix string, width int) {
	s.metricsPrefix = prefix
	s.width = width
	s.truncated = true
	s.opener.TruncateOpener(prefix, width)
	for _, c := range s.list {
		s.truncateCell(c)
	}
}

func (s *SelectBox) truncateCell(c *cell) {
	c.metrics = s.metricsPrefix + optionMetrics
	c.display = TruncateLabel(c.Label, s.width-optionAllowance)
}

func (s *SelectBox) SetErrorMessage(message string) {
	s.errorMessage = message
	s.render()
}

// ClickOpener handles a click on the trigger.
func (s *SelectBox) ClickOpener() {
	s.ToggleOpen()
}

// ClickButton handles a click on the open/close button.
func (s *SelectBox) ClickButton() {
	if s.open {
		s.Close()
	} else {
		s.Open()
	}
}

// Dismiss handles the popup being closed from outside, e.g. a click
// elsewhere on the page.
func (s *SelectBox) Dismiss() {
	s.Close()
}

// HandleCell handles a pointer event on the cell for value. Events for
// unknown values and events on a disabled box are ignored.
func (s *SelectBox) HandleCell(value string, event CellEvent) {
	c, ok := s.cells[value]
	if !ok || !s.enabled {
		return
	}
	switch event {
	case CellClick:
		c.hover = false
		s.OnValueSelect(c.Value)
	case CellPointerEnter:
		c.hover = true
		s.render()
	case CellPointerLeave:
		c.hover = false
		s.render()
	}
}

func (s *SelectBox) FieldType() FieldType {
	return FieldTypeString
}

func (s *SelectBox) FormValue() string {
	return s.selected
}

// SetFormValue interactively selects value. Nil selects the empty value;
// anything other than a string is ignored.
func (s *SelectBox) SetFormValue(value any) {
	if value == nil {
		value = ""
	}
	if str, ok := value.(string); ok {
		s.OnValueSelect(str)
	}
}

func (s *SelectBox) Selected() string {
	return s.selected
}

// FirstValue is the value Reset selects.
func (s *SelectBox) FirstValue() string {
	return s.first
}

func (s *SelectBox) IsOpen() bool {
	return s.open
}

func (s *SelectBox) Enabled() bool {
	return s.enabled
}

// Label returns the label of the option for value, or value itself when
// there is no such option.
func (s *SelectBox) Label(value string) string {
	if c, ok := s.cells[value]; ok {
		return c.Label
	}
	return value
}

// Values returns option values in popup order.
func (s *SelectBox) Values() []string {
	values := make([]string, len(s.list))
	for i, c := range s.list {
		values[i] = c.Value
	}
	return values
}

func (s *SelectBox) State() State {
	state := State{
		Options:  make([]OptionState, len(s.list)),
		Selected: s.selected,
		Open:     s.open,
		Enabled:  s.enabled,
		Pressed:  s.pressed,
		Corner:   s.corner,
		Error:    s.errorMessage,
	}
	for i, c := range s.list {
		state.Options[i] = OptionState{
			Value:   c.Value,
			Label:   c.Label,
			Display: c.display,
			Metrics: c.metrics,
			Hover:   c.hover,
		}
	}
	if l, ok := s.opener.(Labeler); ok {
		state.OpenerLabel = l.Label()
	}
	return state
}

func (s *SelectBox) render() {
	s.surface.Render(s.State())
}

// TruncateLabel shortens label to width cells, ending it with an ellipsis
// when anything was cut. A width below one yields the empty string.
func TruncateLabel(label string, width int) string {
	if width < 1 {
		return ""
	}
	return ansi.Truncate(label, width, ellipsis)
}

type nopSurface struct{}

func (nopSurface) OpenerBox() Box         { return Box{} }
func (nopSurface) PositionPopup(Geometry) {}
func (nopSurface) Render(State)           {}
