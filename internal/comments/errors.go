package comments

import (
	"errors"
	"net/http"
)

// Domain errors for comment operations.
var (
	ErrNotFound          = errors.New("comment not found")
	ErrDuplicate         = errors.New("comment already exists")
	ErrNoneUnannotated   = errors.New("no unannotated comments")
	ErrInvalidID         = errors.New("invalid comment id")
	ErrInvalidFilter     = errors.New("invalid filter")
	ErrInvalidAnnotation = errors.New("invalid annotation")
	ErrMissingVideoID    = errors.New("video id is required")
)

// MapHTTPStatus maps comment domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidFilter),
		errors.Is(err, ErrMissingVideoID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
