package assistant

import (
	"errors"
	"fmt"
)

// Protocol-level failures. Each one ends the run.
var (
	ErrNoChoices       = errors.New("no choices in response")
	ErrInvalidResponse = errors.New("invalid JSON response")
)

// HTTPStatusError reports a non-2xx answer from the provider.
type HTTPStatusError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *HTTPStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP error: %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP error: %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPStatusError) Unwrap() error {
	return e.Err
}

// toolNotFound is the result text for a call naming an unregistered tool.
const toolNotFound = "ERROR: TOOL NOT FOUND"

// ToolErrorText renders a tool failure as conversation content.
func ToolErrorText(err error) string {
	return "ERROR: " + err.Error()
}
