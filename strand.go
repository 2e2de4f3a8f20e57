package vessel

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-logr/logr"
	"github.com/gorilla/mux"
)

type requestKey struct{}

// Strand carries one request through middleware and its handler.
type Strand struct {
	Context  context.Context
	Error    error
	Logger   logr.Logger
	Response http.ResponseWriter
}

func (strand *Strand) Request() *http.Request {
	return strand.Context.Value(requestKey{}).(*http.Request)
}

// Query returns the first value of a query string parameter.
func (strand *Strand) Query(name string) string {
	return strand.Request().URL.Query().Get(name)
}

// Vars returns the route variables of the request.
func (strand *Strand) Vars() map[string]string {
	return mux.Vars(strand.Request())
}

func (strand *Strand) WriteComponent(component templ.Component) error {
	strand.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(strand.Context, strand.Response)
}

func (strand *Strand) WriteJson(body any) error {
	return strand.WriteJsonStream(&JSONStreamer{Value: body})
}

// WriteJsonStream encodes the stream's value, or returns its error without
// writing anything.
func (strand *Strand) WriteJsonStream(stream *JSONStreamer) error {
	body, err := stream.Collect()
	if err != nil {
		return err
	}
	strand.Response.Header().Set("Content-Type", "application/json")
	_, err = strand.Response.Write(body)
	return err
}
