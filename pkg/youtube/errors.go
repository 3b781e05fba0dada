package youtube

import "errors"

var (
	// ErrMissingAPIKey indicates no Data API key was configured.
	ErrMissingAPIKey = errors.New("youtube api key is missing")
	// ErrMissingVideoID indicates an empty video identifier.
	ErrMissingVideoID = errors.New("video id is required")
	// ErrMalformedResponse indicates an item without snippet.topLevelComment.snippet.textDisplay.
	ErrMalformedResponse = errors.New("malformed comment thread response")
)
