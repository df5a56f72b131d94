package publish

import (
	"net/http"
	"strings"
)

// StatusError reports a non-success HTTP status from the publish backend or
// the LinkedIn API. The message carries the status text only; response
// bodies are not parsed.
type StatusError struct {
	StatusCode int
	StatusText string
}

func (e *StatusError) Error() string {
	return e.StatusText
}

func newStatusError(resp *http.Response) *StatusError {
	text := strings.TrimSpace(resp.Status)
	if _, rest, ok := strings.Cut(text, " "); ok {
		text = rest
	}
	return &StatusError{
		StatusCode: resp.StatusCode,
		StatusText: text,
	}
}
