// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

var exposeStoreErrors = true

// SetExposeStoreErrors controls whether 500 bodies carry the underlying
// error text. Disabled in production.
func SetExposeStoreErrors(expose bool) {
	exposeStoreErrors = expose
}

type ErrorBody struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

type MessageBody struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, MessageBody{Message: message})
}

// JSONError writes err using the single {kind, message} envelope.
func JSONError(w http.ResponseWriter, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = ToAppError(err, "resource")
	}

	if appErr.Status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", appErr.Err)
	}

	JSON(w, appErr.Status, ErrorBody{
		Kind:    appErr.Kind,
		Message: appErr.Message,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, ValidationError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func InternalServerError(w http.ResponseWriter, err error) {
	JSONError(w, StoreFailureError(err, exposeStoreErrors))
}
