package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/evantbyrne/vessel/cms"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// TemplateData is what html/template formatters execute against.
type TemplateData struct {
	ClientID   string
	Content    string
	DirectEdit DirectEdit
	Element    *cms.Resource
	Locale     string
	PageURI    string
	Properties map[string]string
	Settings   map[string]string
	SitePath   string
}

// TemplateLoader parses the formatter's content as an html/template.
type TemplateLoader struct {
	Funcs template.FuncMap
}

func (loader TemplateLoader) Dump(ctx context.Context, rc RenderContext, formatter, element *cms.Resource, enc encoding.Encoding) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	funcs := template.FuncMap{
		"directEdit": func() template.HTML {
			if !rc.DirectEdit.Enabled {
				return ""
			}
			return template.HTML(fmt.Sprintf(`<div class="cms-editable" data-uri="%s"></div>`,
				template.HTMLEscapeString(rc.DirectEdit.SitePath)))
		},
	}
	for name, fn := range loader.Funcs {
		funcs[name] = fn
	}
	tmpl, err := template.New(formatter.RootPath).Funcs(funcs).Parse(string(formatter.Content))
	if err != nil {
		return nil, fmt.Errorf("parsing formatter %s: %w", formatter.RootPath, err)
	}

	data := TemplateData{
		ClientID:   rc.Element.ClientID,
		Content:    string(element.Content),
		DirectEdit: rc.DirectEdit,
		Element:    element,
		Locale:     rc.Locale.String(),
		PageURI:    rc.PageURI,
		Properties: rc.Properties,
		Settings:   rc.Settings,
		SitePath:   element.SitePath(),
	}

	var buf bytes.Buffer
	w := transform.NewWriter(&buf, encoding.HTMLEscapeUnsupported(enc.NewEncoder()))
	if err := tmpl.Execute(w, data); err != nil {
		return nil, fmt.Errorf("executing formatter %s: %w", formatter.RootPath, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encoding output of %s: %w", formatter.RootPath, err)
	}
	return buf.Bytes(), nil
}

// StaticLoader emits the formatter content unchanged.
type StaticLoader struct{}

func (StaticLoader) Dump(ctx context.Context, rc RenderContext, formatter, element *cms.Resource, enc encoding.Encoding) ([]byte, error) {
	return formatter.Content, nil
}
