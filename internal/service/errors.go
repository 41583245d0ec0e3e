package service

import "fmt"

// HTTPError is a service failure carrying the status the API answers with.
// Message is the short summary shown to users ("Token not found"), Wrapped the detail.
type HTTPError struct {
	StatusCode int
	Message    string
	Wrapped    error
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return e.Wrapped.Error()
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Wrapped.Error())
}

func (e *HTTPError) Unwrap() error {
	return e.Wrapped
}

func httpError(statusCode int, message string, err error) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Wrapped:    err,
	}
}
