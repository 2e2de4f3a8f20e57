package vessel

import (
	"errors"
	"strconv"
	"strings"

	"github.com/evantbyrne/vessel/cms"
	"github.com/evantbyrne/vessel/element"
	"github.com/evantbyrne/vessel/render"
	"github.com/evantbyrne/vessel/selectbox"
	"github.com/evantbyrne/vessel/templates/widgets"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
)

// Elements serves element documents for container pages.
//
//	GET /elements/{clientID}?types=a,b&page=/index.html&locale=de&user={id}
//	GET /elements/{clientID}/properties
//	GET /elements/{clientID}/types?types=a,b&selected=a&width=150
type Elements struct {
	Store         cms.Store
	Engine        *render.Engine
	Logger        logr.Logger
	DefaultLocale language.Tag
}

func (h *Elements) AddHandlers(app *App) {
	app.Get("/elements/{clientID}", h.Data)
	app.Get("/elements/{clientID}/properties", h.Properties)
	app.Get("/elements/{clientID}/types", h.Types)
}

// elementRequest is the element a request addresses and the util bound to
// its page, locale and user.
type elementRequest struct {
	util    *element.Util
	element cms.ContainerElement
}

func (h *Elements) Data(strand *Strand) error {
	stream := (&JSONStreamer{}).
		Then(h.request(strand)).
		Then(func(value any) (any, error) {
			req := value.(*elementRequest)
			return req.util.GetElementData(strand.Context, req.element, splitTypes(strand.Query("types")))
		}).
		OnError(conflict)
	return strand.WriteJsonStream(stream)
}

func (h *Elements) Properties(strand *Strand) error {
	stream := (&JSONStreamer{}).
		Then(h.request(strand)).
		Then(func(value any) (any, error) {
			req := value.(*elementRequest)
			return req.util.GetElementPropertyInfo(strand.Context, req.element)
		})
	return strand.WriteJsonStream(stream)
}

// Types renders a select box of the requested container types the element
// can be rendered for.
func (h *Elements) Types(strand *Strand) error {
	util, containerElement, err := h.util(strand)
	if err != nil {
		return err
	}
	requested := splitTypes(strand.Query("types"))
	data, err := util.GetElementData(strand.Context, containerElement, requested)
	if err != nil {
		return conflict(err)
	}

	var available []string
	if data.SubContainerData != nil {
		available = data.Types
	} else {
		for _, containerType := range requested {
			if _, ok := data.Formatters[containerType]; ok && !slices.Contains(available, containerType) {
				available = append(available, containerType)
			}
		}
	}

	surface := &widgets.HTMLSurface{
		ID:  "types-" + containerElement.ElementID.String(),
		Box: selectbox.Box{BorderLeft: 1, BorderRight: 1, Width: 150, Height: 22},
	}
	box := selectbox.New(&selectbox.LabelOpener{}, surface)
	for _, containerType := range available {
		box.AddOption(selectbox.Option{Value: containerType, Label: containerType})
	}
	if width := strand.Query("width"); width != "" {
		w, err := strconv.Atoi(width)
		if err != nil {
			return ErrorBadRequest{Message: "Invalid width"}
		}
		box.Truncate("types", w)
	}
	if selected := strand.Query("selected"); slices.Contains(available, selected) {
		box.SelectValue(selected)
	}
	if len(available) == 0 {
		box.SetErrorMessage("No container types available")
	}
	return strand.WriteComponent(surface.Component())
}

func (h *Elements) request(strand *Strand) func(any) (any, error) {
	return func(any) (any, error) {
		util, containerElement, err := h.util(strand)
		if err != nil {
			return nil, err
		}
		return &elementRequest{util: util, element: containerElement}, nil
	}
}

// conflict turns a sub-container that cannot be listed into a 409.
func conflict(err error) error {
	if errors.Is(err, element.ErrUnsupportedSubContainer) {
		return ErrorConflict{Message: err.Error()}
	}
	return err
}

func (h *Elements) util(strand *Strand) (*element.Util, cms.ContainerElement, error) {
	containerElement, err := cms.ParseClientID(strand.Vars()["clientID"])
	if err != nil {
		return nil, cms.ContainerElement{}, ErrorBadRequest{Message: "Invalid client id"}
	}

	locale := h.DefaultLocale
	if value := strand.Query("locale"); value != "" {
		if locale, err = language.Parse(value); err != nil {
			return nil, cms.ContainerElement{}, ErrorBadRequest{Message: "Invalid locale"}
		}
	}

	util := &element.Util{
		Store:           h.Store,
		Engine:          h.Engine,
		Logger:          h.Logger,
		PageURI:         strand.Query("page"),
		Locale:          locale,
		WorkplaceLocale: locale,
	}
	if value := strand.Query("user"); value != "" {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, cms.ContainerElement{}, ErrorBadRequest{Message: "Invalid user"}
		}
		user, err := h.Store.ReadUser(strand.Context, id)
		if errors.Is(err, cms.ErrUserNotFound) {
			return nil, cms.ContainerElement{}, ErrorBadRequest{Message: "Unknown user"}
		} else if err != nil {
			return nil, cms.ContainerElement{}, err
		}
		util.User = user
		if tag, err := language.Parse(user.Locale); err == nil {
			util.WorkplaceLocale = tag
		}
	}
	return util, containerElement, nil
}

func splitTypes(value string) []string {
	var types []string
	for _, t := range strings.Split(value, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}
