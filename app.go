// Package vessel serves element documents for the container page editor.
package vessel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evantbyrne/vessel/cms"
	"github.com/go-logr/logr"
	"github.com/gorilla/mux"
)

type App struct {
	ErrorHandler func(*Strand)
	Logger       logr.Logger
	Middleware   []func(*Strand) error
	Router       *mux.Router
}

func NewApp(logger logr.Logger) *App {
	return &App{Logger: logger, Router: mux.NewRouter()}
}

// errorStatus maps err to an HTTP status and the message safe to show.
func errorStatus(err error) (int, string) {
	var errWithStatus ErrorWithStatus
	switch {
	case errors.As(err, &errWithStatus):
		if errWithStatus.Status() == http.StatusInternalServerError {
			return http.StatusInternalServerError, ErrorInternalServer{}.Error()
		}
		return errWithStatus.Status(), errWithStatus.Error()
	case errors.Is(err, cms.ErrResourceNotFound):
		return http.StatusNotFound, ErrorNotFound{}.Error()
	}
	return http.StatusInternalServerError, ErrorInternalServer{}.Error()
}

func (app *App) defaultErrorHandler(strand *Strand) {
	if strand.Error == nil {
		return
	}
	status, message := errorStatus(strand.Error)
	if status == http.StatusInternalServerError {
		strand.Logger.Error(strand.Error, "handling request", "path", strand.Request().URL.Path)
	}

	if strand.Response.Header().Get("Content-Type") == "application/json" || strand.Request().Header.Get("Content-Type") == "application/json" {
		strand.Response.Header().Set("Content-Type", "application/json")
		strand.Response.WriteHeader(status)
		var jsonError json.Marshaler
		if errors.As(strand.Error, &jsonError) {
			encoded, _ := json.Marshal(jsonError)
			strand.Response.Write(encoded)
		} else {
			encoded, _ := json.Marshal(map[string]string{"error": message})
			strand.Response.Write(encoded)
		}
	} else {
		http.Error(strand.Response, message, status)
	}
}

func (app *App) Get(path string, handler func(*Strand) error) {
	app.routeRequireMethod(http.MethodGet, path, handler)
}

func (app *App) Route(path string, handler func(*Strand) error) {
	if app.ErrorHandler == nil {
		app.ErrorHandler = app.defaultErrorHandler
	}
	if app.Router == nil {
		app.Router = mux.NewRouter()
	}
	app.Router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		strand := &Strand{
			Context:  context.WithValue(r.Context(), requestKey{}, r),
			Logger:   app.Logger,
			Response: w,
		}
		for _, middleware := range app.Middleware {
			if strand.Error = middleware(strand); strand.Error != nil {
				app.ErrorHandler(strand)
				return
			}
		}
		if strand.Error = handler(strand); strand.Error != nil {
			app.ErrorHandler(strand)
		}
	})
}

func (app *App) routeRequireMethod(method string, path string, handler func(*Strand) error) {
	app.Route(path, func(strand *Strand) error {
		if strand.Request().Method != method {
			return ErrorMethodNotAllowed{AllowedMethod: method}
		}
		return handler(strand)
	})
}

func (app *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	app.Router.ServeHTTP(w, r)
}

func (app *App) UseMiddleware(middleware ...func(*Strand) error) {
	app.Middleware = append(app.Middleware, middleware...)
}
