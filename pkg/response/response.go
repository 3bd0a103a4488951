// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/orgs-directory-service/internal/repository"
	"github.com/maxviazov/orgs-directory-service/internal/service"
	"github.com/maxviazov/orgs-directory-service/pkg/pagination"
)

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

// Data wraps a single resource or a plain list: {"data": ...}.
type Data[T any] struct {
	Data T `json:"data"`
}

// SavedMeta is the envelope for successful writes: {"meta": {"saved": ...}}.
type SavedMeta[T any] struct {
	Meta struct {
		Saved T `json:"saved"`
	} `json:"meta"`
}

// DeletedMeta is the envelope for deletions: {"meta": {"deleted": id}}.
type DeletedMeta struct {
	Meta struct {
		Deleted string `json:"deleted"`
	} `json:"meta"`
}

// Saved builds a SavedMeta around v.
func Saved[T any](v T) SavedMeta[T] {
	var out SavedMeta[T]
	out.Meta.Saved = v
	return out
}

// Deleted builds a DeletedMeta for id.
func Deleted(id string) DeletedMeta {
	var out DeletedMeta
	out.Meta.Deleted = id
	return out
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Extend here as new domain error categories emerge.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	var perr *pagination.ParamError
	switch {
	case errors.As(err, &perr):
		fe := make([]service.FieldError, 0, len(perr.Fields))
		for i, f := range perr.Fields {
			fe = append(fe, service.FieldError{Field: f, Message: perr.Messages[i]})
		}
		return http.StatusBadRequest, ErrorPayload{Error: "invalid_input", Message: "invalid pagination parameters", FieldErrors: fe}
	case errors.Is(err, pagination.ErrPageOutOfRange):
		return http.StatusBadRequest, ErrorPayload{Error: "page_out_of_range"}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found"}
	default:
		// store read/write failures land here too; 503 is reserved for /ready.
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

// WriteError writes an error response and aborts the context.
// Missing resources answer with a bare 404 and no body.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	_ = c.Error(err)
	if status == http.StatusNotFound {
		c.AbortWithStatus(status)
		return
	}
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
