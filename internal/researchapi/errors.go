package researchapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FetchError is returned for every failed API call: transport failures carry
// a zero StatusCode and the underlying Cause, non-success responses carry the
// HTTP status and whatever the backend put into its error body.
type FetchError struct {
	StatusCode  int
	Code        string
	Message     string
	FieldErrors map[string][]string
	Cause       error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (code %s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the backend answered 404.
func (e *FetchError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err wraps a FetchError with a 404 status.
func IsNotFound(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr) && fetchErr.IsNotFound()
}

type errorBody struct {
	Message     string              `json:"message"`
	Code        string              `json:"code"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func newTransportError(err error) *FetchError {
	return &FetchError{Message: "request failed", Cause: err}
}

// newStatusError builds the error for a non-success response. The backend
// message is surfaced when present, otherwise a generic one tied to the status.
func newStatusError(status int, body []byte) *FetchError {
	fetchErr := &FetchError{
		StatusCode: status,
		Message:    fmt.Sprintf("HTTP error! status: %d", status),
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fetchErr
	}

	if msg := strings.TrimSpace(parsed.Message); msg != "" {
		fetchErr.Message = msg
	}
	fetchErr.Code = strings.TrimSpace(parsed.Code)
	if len(parsed.FieldErrors) > 0 {
		fetchErr.FieldErrors = parsed.FieldErrors
	}

	return fetchErr
}
