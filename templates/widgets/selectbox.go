// Package widgets renders form widgets as templ components.
package widgets

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/evantbyrne/vessel/selectbox"
)

const (
	iconClosed = "▸"
	iconOpen   = "▾"
)

var widgetTpl = template.Must(template.New("vessel.widgets").Parse(
	`{{define "vessel.widgets.selectbox"}}` +
		`<div id="{{.ID}}" class="{{.Classes}}" data-value="{{.State.Selected}}">` +
		`<div class="{{.OpenerClasses}}">{{.State.OpenerLabel}}</div>` +
		`<button type="button" class="select-icon" aria-pressed="{{.State.Pressed}}"{{if not .State.Enabled}} disabled{{end}}>{{.Icon}}</button>` +
		`<div class="selector-popup" style="left:{{.Geometry.Left}}px;top:{{.Geometry.Top}}px;width:{{.Geometry.Width}}px"{{if not .State.Open}} hidden{{end}}>` +
		`<div class="select-box-selector corner-bottom text-medium">` +
		`{{range .Cells}}<div class="{{.Classes}}" data-value="{{.Value}}" title="{{.Label}}">{{.Display}}</div>{{end}}` +
		`</div></div>` +
		`{{with .State.Error}}<div class="error">{{.}}</div>{{end}}` +
		`</div>` +
		`{{end}}`,
))

type selectBoxCell struct {
	selectbox.OptionState
	Classes string
}

type selectBoxData struct {
	ID            string
	Classes       string
	OpenerClasses string
	Icon          string
	State         selectbox.State
	Geometry      selectbox.Geometry
	Cells         []selectBoxCell
}

// HTMLSurface is a selectbox.Surface that keeps the last drawn state for
// rendering as HTML. Box is the trigger size reported to the select box.
type HTMLSurface struct {
	ID  string
	Box selectbox.Box

	state    selectbox.State
	geometry selectbox.Geometry
}

func (s *HTMLSurface) OpenerBox() selectbox.Box {
	return s.Box
}

func (s *HTMLSurface) PositionPopup(geometry selectbox.Geometry) {
	s.geometry = geometry
}

func (s *HTMLSurface) Render(state selectbox.State) {
	s.state = state
}

func (s *HTMLSurface) Component() templ.Component {
	return SelectBox(s.ID, s.state, s.geometry)
}

// SelectBox renders the trigger, the open/close button, the option popup
// and the error text. The popup is hidden while closed.
func SelectBox(id string, state selectbox.State, geometry selectbox.Geometry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tpl := widgetTpl.Lookup("vessel.widgets.selectbox")
		if tpl == nil {
			return fmt.Errorf("widgets: template 'vessel.widgets.selectbox' not found")
		}
		data := selectBoxData{
			ID:            id,
			Classes:       templ.Classes("select-box", templ.KV("select-box-disabled", !state.Enabled)).String(),
			OpenerClasses: templ.Classes("select-box-opener", "select-box-selected", state.Corner.String()).String(),
			Icon:          iconClosed,
			State:         state,
			Geometry:      geometry,
		}
		if state.Pressed {
			data.Icon = iconOpen
		}
		for _, option := range state.Options {
			data.Cells = append(data.Cells, selectBoxCell{
				OptionState: option,
				Classes:     templ.Classes("select-box-cell", templ.KV("select-hover", option.Hover)).String(),
			})
		}
		return tpl.Execute(w, data)
	})
}
