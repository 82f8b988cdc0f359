package geekseek

import "fmt"

// StatusError meldet eine Nicht-2xx-Antwort des Upstreams.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Request failed with status %d", e.StatusCode)
}
