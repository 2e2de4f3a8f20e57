// Package element assembles the JSON document the container page editor
// requests for a placed element: resource metadata, the element rendered
// once per container type, and sub-container structure.
package element

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/evantbyrne/vessel/cms"
	"github.com/evantbyrne/vessel/render"
	"github.com/go-logr/logr"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
)

const (
	// ObjectType is the objtype of every element document.
	ObjectType = "Element"

	// placeholderFormatter stands in for a formatter uri where sub-container
	// content is not rendered through the formatter pipeline.
	placeholderFormatter = "formatter"
	emptySubContainer    = "<div>NEW AND EMPTY</div>"
	unusedSubContainer   = "<div>should not be used</div>"
)

// ErrUnsupportedSubContainer is returned for a sub-container that lists
// child elements but declares no container types.
var ErrUnsupportedSubContainer = errors.New("sub-container has elements but no types")

// Util assembles element documents for one container page request.
type Util struct {
	Store  cms.Store
	Engine *render.Engine
	Logger logr.Logger

	// PageURI is the container page the elements are rendered into.
	PageURI string
	// Locale is the request locale used for rendering and sub-container
	// lookups.
	Locale language.Tag
	// WorkplaceLocale localizes workplace texts such as the no-edit reason.
	WorkplaceLocale language.Tag
	// User is the user making the request. It may be nil.
	User *cms.User
}

// Data is the element document. SubContainerData is nil for plain elements.
type Data struct {
	ObjType      string            `json:"objtype"`
	ID           string            `json:"id"`
	File         string            `json:"file"`
	Date         int64             `json:"date"`
	User         string            `json:"user"`
	NavText      string            `json:"navText"`
	Title        string            `json:"title"`
	NoEditReason string            `json:"noEditReason"`
	Status       string            `json:"status"`
	Contents     map[string]string `json:"contents"`
	Formatters   map[string]string `json:"formatters"`

	*SubContainerData
}

type SubContainerData struct {
	Description string   `json:"description"`
	Types       []string `json:"types"`
	SubItems    []string `json:"subItems"`
}

// GetElementData builds the document for element, rendering it for each of
// the requested container types and for the default type. Failing to read
// the element is fatal. Failing to render one type only drops that type.
func (u *Util) GetElementData(ctx context.Context, element cms.ContainerElement, types []string) (*Data, error) {
	resource, err := u.Store.ReadResource(ctx, element.ElementID)
	if err != nil {
		return nil, err
	}
	resUtil, err := cms.NewResourceUtil(ctx, u.Store, resource, u.User)
	if err != nil {
		return nil, err
	}
	user, err := u.Store.ReadUser(ctx, resource.UserLastModified)
	if err != nil {
		return nil, fmt.Errorf("reading last modifier of %s: %w", resource.RootPath, err)
	}

	data := &Data{
		ObjType:      ObjectType,
		ID:           element.ClientID,
		File:         resUtil.FullPath(),
		Date:         resource.DateLastModified.UnixMilli(),
		User:         user.Name,
		NavText:      resUtil.NavText(),
		Title:        resUtil.Title(),
		NoEditReason: html.EscapeString(resUtil.NoEditReason(cms.WorkplaceMessages(u.WorkplaceLocale))),
		Status:       resUtil.StateAbbreviation(),
		Contents:     make(map[string]string),
		Formatters:   make(map[string]string),
	}

	if resource.IsSubContainer() {
		if err := u.subContainerData(ctx, data, element, resource, types); err != nil {
			return nil, err
		}
		return data, nil
	}

	for _, containerType := range types {
		formatterURI, err := u.Store.FormatterFor(ctx, resource.TypeName, containerType)
		if err != nil {
			return nil, fmt.Errorf("formatter lookup for %s: %w", resource.RootPath, err)
		}
		if strings.TrimSpace(formatterURI) == "" {
			continue
		}
		data.Formatters[containerType] = formatterURI
		if content, ok := u.formattedContent(ctx, element, resource, formatterURI, containerType); ok {
			data.Contents[containerType] = content
		}
	}
	if err := u.defaultContent(ctx, data, element, resource); err != nil {
		return nil, err
	}
	return data, nil
}

func (u *Util) subContainerData(ctx context.Context, data *Data, element cms.ContainerElement, resource *cms.Resource, types []string) error {
	sub, err := cms.UnmarshalSubContainer(resource.Content, u.Locale)
	if err != nil {
		return fmt.Errorf("reading sub-container %s: %w", resource.RootPath, err)
	}
	data.SubContainerData = &SubContainerData{
		Description: sub.Description,
		Types:       []string{},
		SubItems:    make([]string, 0, len(sub.Elements)),
	}

	if len(sub.Types) == 0 {
		if len(sub.Elements) > 0 {
			return fmt.Errorf("%w: %s", ErrUnsupportedSubContainer, resource.RootPath)
		}
		for _, containerType := range types {
			data.Formatters[containerType] = placeholderFormatter
			data.Contents[containerType] = emptySubContainer
		}
	} else {
		for _, containerType := range sub.Types {
			data.Types = append(data.Types, containerType)
			if slices.Contains(types, containerType) {
				data.Formatters[containerType] = placeholderFormatter
				data.Contents[containerType] = unusedSubContainer
			}
		}
	}

	if err := u.defaultContent(ctx, data, element, resource); err != nil {
		return err
	}
	for _, child := range sub.Elements {
		data.SubItems = append(data.SubItems, child.ClientID)
	}
	return nil
}

// defaultContent renders the default formatter type. Both the formatter and
// the content are recorded only when rendering succeeds.
func (u *Util) defaultContent(ctx context.Context, data *Data, element cms.ContainerElement, resource *cms.Resource) error {
	formatterURI, err := u.Store.FormatterFor(ctx, resource.TypeName, cms.DefaultFormatterType)
	if err != nil {
		return fmt.Errorf("formatter lookup for %s: %w", resource.RootPath, err)
	}
	if content, ok := u.formattedContent(ctx, element, resource, formatterURI, cms.DefaultFormatterType); ok {
		data.Formatters[cms.DefaultFormatterType] = formatterURI
		data.Contents[cms.DefaultFormatterType] = content
	}
	return nil
}

func (u *Util) formattedContent(ctx context.Context, element cms.ContainerElement, resource *cms.Resource, formatterURI, containerType string) (string, bool) {
	content, err := u.renderFormatter(ctx, element, resource, formatterURI)
	if err != nil {
		u.Logger.Error(err, "generating formatted element",
			"site_path", resource.SitePath(), "formatter", formatterURI, "type", containerType)
		renderFailures.WithLabelValues(containerType).Inc()
		return "", false
	}
	return content, true
}

func (u *Util) renderFormatter(ctx context.Context, element cms.ContainerElement, resource *cms.Resource, formatterURI string) (string, error) {
	if strings.TrimSpace(formatterURI) == "" {
		return "", fmt.Errorf("%w: no formatter configured", cms.ErrResourceNotFound)
	}
	formatter, err := u.Store.ReadResourceByPath(ctx, formatterURI)
	if err != nil {
		return "", err
	}
	return u.content(ctx, element, resource, formatter)
}

// GetElementContent renders element with formatter.
func (u *Util) GetElementContent(ctx context.Context, element cms.ContainerElement, formatter *cms.Resource) (string, error) {
	resource, err := u.Store.ReadResource(ctx, element.ElementID)
	if err != nil {
		return "", err
	}
	return u.content(ctx, element, resource, formatter)
}

func (u *Util) content(ctx context.Context, element cms.ContainerElement, resource *cms.Resource, formatter *cms.Resource) (string, error) {
	properties, err := u.Store.ReadProperties(ctx, resource.ID)
	if err != nil {
		return "", fmt.Errorf("reading properties of %s: %w", resource.RootPath, err)
	}
	conf, err := u.Store.PropertyConfiguration(ctx, resource.TypeName)
	if err != nil {
		return "", fmt.Errorf("reading property configuration of %s: %w", resource.TypeName, err)
	}
	stored, err := u.Store.ElementProperties(ctx, element.ClientID)
	if err != nil {
		return "", fmt.Errorf("reading element properties of %s: %w", element.ClientID, err)
	}

	rc := render.RenderContext{
		PageURI:        u.PageURI,
		Element:        element,
		Locale:         u.Locale,
		DirectEdit:     render.DirectEdit{Enabled: true, SitePath: resource.SitePath()},
		PropertyConfig: conf,
		Properties:     properties,
		Settings:       conf.Resolve(stored),
	}
	return u.Engine.Render(ctx, rc, formatter, resource)
}

func isNotFound(err error) bool {
	return errors.Is(err, cms.ErrResourceNotFound)
}
