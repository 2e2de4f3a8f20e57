// Package render turns a content resource into HTML by running a formatter
// resource through the loader registered for the formatter's type.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evantbyrne/vessel/cms"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/language"
)

const (
	// TemplateFormatterType is the resource type of html/template formatters.
	TemplateFormatterType = "formatter"
	// StaticFormatterType is the resource type of formatters emitted verbatim.
	StaticFormatterType = "static"
)

var ErrNoLoader = errors.New("no loader for formatter type")

// DirectEdit tells the formatter to emit direct edit markup for the element
// at SitePath.
type DirectEdit struct {
	Enabled  bool
	SitePath string
}

// RenderContext carries everything a formatter can observe about the page
// it renders into. It is built per call and never stored.
type RenderContext struct {
	PageURI        string
	Element        cms.ContainerElement
	Locale         language.Tag
	DirectEdit     DirectEdit
	PropertyConfig cms.PropertyConfig
	// Properties are the element resource's own properties.
	Properties map[string]string
	// Settings are the element placement's property values, defaults applied.
	Settings map[string]string
}

// Loader produces the raw output of a formatter for an element, encoded in
// enc.
type Loader interface {
	Dump(ctx context.Context, rc RenderContext, formatter, element *cms.Resource, enc encoding.Encoding) ([]byte, error)
}

type Engine struct {
	DefaultEncoding string

	loaders map[string]Loader
}

// NewEngine returns an engine with the template and static loaders
// registered.
func NewEngine(defaultEncoding string) *Engine {
	e := &Engine{DefaultEncoding: defaultEncoding, loaders: make(map[string]Loader)}
	e.Register(TemplateFormatterType, TemplateLoader{})
	e.Register(StaticFormatterType, StaticLoader{})
	return e
}

func (e *Engine) Register(formatterType string, loader Loader) {
	e.loaders[formatterType] = loader
}

// Render runs formatter for element and returns the output decoded from the
// element's encoding.
func (e *Engine) Render(ctx context.Context, rc RenderContext, formatter, element *cms.Resource) (string, error) {
	loader, ok := e.loaders[formatter.TypeName]
	if !ok {
		return "", fmt.Errorf("%w: %q (%s)", ErrNoLoader, formatter.TypeName, formatter.RootPath)
	}
	enc, err := e.Encoding(rc.Properties)
	if err != nil {
		return "", err
	}
	raw, err := loader.Dump(ctx, rc, formatter, element, enc)
	if err != nil {
		return "", err
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding output of %s: %w", formatter.RootPath, err)
	}
	return string(decoded), nil
}

// Encoding returns the encoding named by the content-encoding property, or
// the engine default.
func (e *Engine) Encoding(properties map[string]string) (encoding.Encoding, error) {
	name := strings.TrimSpace(properties[cms.PropertyEncoding])
	if name == "" {
		name = e.DefaultEncoding
	}
	if name == "" {
		name = "utf-8"
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}
