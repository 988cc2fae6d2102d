package fetcher

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrEmptyURL          = errors.New("please enter a YouTube URL")
	ErrInvalidURL        = errors.New("please enter a valid YouTube URL")
	ErrNoVideoID         = errors.New("could not extract a video ID from the URL")
	ErrNotPlayable       = errors.New("video is not accessible or playable")
	ErrCredentialMissing = errors.New("please enter your Gemini API key in the settings")
	ErrEmptyGeneration   = errors.New("no summary generated")
)

// MetadataError is a non-success answer of a metadata endpoint.
type MetadataError struct {
	StatusCode int
	Message    string
}

func (e *MetadataError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch video info: %d - %s", e.StatusCode, msg)
}

// APIError is a non-success answer of a summary endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Unknown error"
	}
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, msg)
}

type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindIdentifier        ErrorKind = "identifier_extraction"
	KindMetadata          ErrorKind = "metadata_fetch"
	KindCredentialMissing ErrorKind = "credential_missing"
	KindSummaryEndpoint   ErrorKind = "summary_endpoint"
	KindEmptyGeneration   ErrorKind = "empty_generation"
	KindInternal          ErrorKind = "internal"
)

// Kind classifies err for clients.
func Kind(err error) ErrorKind {
	var (
		mdErr  *MetadataError
		apiErr *APIError
	)
	switch {
	case errors.Is(err, ErrEmptyURL), errors.Is(err, ErrInvalidURL):
		return KindValidation
	case errors.Is(err, ErrNoVideoID):
		return KindIdentifier
	case errors.Is(err, ErrNotPlayable), errors.As(err, &mdErr):
		return KindMetadata
	case errors.Is(err, ErrCredentialMissing):
		return KindCredentialMissing
	case errors.As(err, &apiErr):
		return KindSummaryEndpoint
	case errors.Is(err, ErrEmptyGeneration):
		return KindEmptyGeneration
	default:
		return KindInternal
	}
}

// StatusCode is the HTTP status the web surface answers with for err.
func StatusCode(err error) int {
	switch Kind(err) {
	case KindValidation, KindIdentifier:
		return http.StatusBadRequest
	case KindCredentialMissing:
		return http.StatusUnauthorized
	case KindMetadata, KindSummaryEndpoint, KindEmptyGeneration:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
