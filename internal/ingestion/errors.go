package ingestion

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/chorus/pkg/youtube"
)

var (
	// ErrMissingVideoID indicates neither the request nor the config named a video.
	ErrMissingVideoID = errors.New("video id is required")
	// ErrInvalidVideoID indicates a video id with characters outside [A-Za-z0-9_-].
	ErrInvalidVideoID = errors.New("invalid video id")
	// ErrFetch wraps failures talking to the comment API.
	ErrFetch = errors.New("fetch comments failed")
)

// MapHTTPStatus maps ingestion errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingVideoID), errors.Is(err, ErrInvalidVideoID):
		return http.StatusBadRequest
	case errors.Is(err, youtube.ErrMissingAPIKey):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrFetch):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
