package services

import (
	"context"
	"errors"

	"geekseek/models"
	"geekseek/providers/geekseek"
)

var (
	ErrEmptyQuery       = errors.New("empty query")
	ErrSuperseded       = errors.New("search superseded by a newer request")
	ErrUnknownSession   = errors.New("unknown search session")
	ErrLocationRequired = errors.New("location required for near-me query")
)

// UserMessage übersetzt Fehler in den Text, den die Suchseite anzeigt.
func UserMessage(err error) string {
	var statusErr *geekseek.StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyQuery):
		return "Enter a query to start."
	case errors.Is(err, ErrLocationRequired):
		return "Location permission is required for 'near me' queries."
	case errors.Is(err, ErrSuperseded):
		return "A newer search replaced this one."
	case errors.Is(err, ErrUnknownSession):
		return "Search session not found."
	case errors.Is(err, models.ErrUnknownMode):
		return "Unknown search mode."
	case errors.As(err, &statusErr):
		return statusErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "The search service did not respond in time."
	default:
		return err.Error()
	}
}
