package gateway

import (
	"net/http"
	"strings"
)

// RequestError is returned for any non-2xx response from the API.
// The message is the HTTP status text; no structured error body is parsed.
type RequestError struct {
	StatusCode int
	StatusText string
}

func (e *RequestError) Error() string {
	return e.StatusText
}

func newRequestError(resp *http.Response) *RequestError {
	// resp.Status is "404 Not Found"; keep only the text part.
	text := strings.TrimSpace(resp.Status)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		text = text[i+1:]
	}
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &RequestError{
		StatusCode: resp.StatusCode,
		StatusText: text,
	}
}
