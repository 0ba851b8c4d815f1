package ascendry

import "fmt"

// RemoteError represents a non-success response returned by the
// Ascendry API.
type RemoteError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the primary error message from the response body, if any.
	Message string

	// Errors contains additional error messages from the response body.
	Errors []string

	// RequestID is the X-Request-Id sent with the failed request.
	RequestID string

	// Body is the raw response body.
	Body []byte
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("ascendry: %s (HTTP %d)", e.Message, e.StatusCode)
	case len(e.Errors) == 1:
		return fmt.Sprintf("ascendry: %s (HTTP %d)", e.Errors[0], e.StatusCode)
	case len(e.Errors) > 1:
		return fmt.Sprintf("ascendry: %v (HTTP %d)", e.Errors, e.StatusCode)
	default:
		return fmt.Sprintf("ascendry: HTTP %d", e.StatusCode)
	}
}
