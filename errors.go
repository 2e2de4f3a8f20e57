package vessel

import (
	"encoding/json"
	"net/http"
)

type ErrorBadRequest struct {
	Message string
}

func (err ErrorBadRequest) Error() string {
	if err.Message != "" {
		return err.Message
	}
	return "Bad request"
}

func (err ErrorBadRequest) Status() int {
	return http.StatusBadRequest
}

type ErrorConflict struct {
	Message string
}

func (err ErrorConflict) Error() string {
	if err.Message != "" {
		return err.Message
	}
	return "Conflict"
}

func (err ErrorConflict) Status() int {
	return http.StatusConflict
}

type ErrorInternalServer struct {
	Message string
}

func (err ErrorInternalServer) Error() string {
	if err.Message != "" {
		return err.Message
	}
	return "Internal server error"
}

func (err ErrorInternalServer) Status() int {
	return http.StatusInternalServerError
}

type ErrorMethodNotAllowed struct {
	AllowedMethod string
}

func (err ErrorMethodNotAllowed) Error() string {
	if err.AllowedMethod != "" {
		return "Method not allowed. Must be " + err.AllowedMethod
	}
	return "Method not allowed"
}

func (err ErrorMethodNotAllowed) Status() int {
	return http.StatusMethodNotAllowed
}

type ErrorNotFound struct{}

func (err ErrorNotFound) Error() string {
	return "Not found"
}

func (err ErrorNotFound) Status() int {
	return http.StatusNotFound
}

type ErrorWithStatus interface {
	error
	Status() int
}

// StatusOK is returned by handlers that only report success.
type StatusOK struct{}

func (err StatusOK) Error() string {
	return ""
}

func (err StatusOK) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]bool{"ok": true})
}

func (err StatusOK) Status() int {
	return http.StatusOK
}
