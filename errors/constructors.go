package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *CellError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *CellError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// Transport creates an error for a call that produced no response.
func Transport(endpoint string, err error) *CellError {
	return Wrap(err, ErrCodeTransport, fmt.Sprintf("request to %s failed", endpoint)).
		WithDetail("endpoint", endpoint)
}

// Backend creates an error for a non-2xx backend answer. body is the decoded
// error body when the backend sent JSON, otherwise the raw text.
func Backend(endpoint string, status int, body interface{}) *CellError {
	return New(ErrCodeBackend, fmt.Sprintf("%s returned HTTP %d", endpoint, status)).
		WithDetail("endpoint", endpoint).
		WithDetail("status", status).
		WithDetail("body", body)
}

// Decode creates an error for a response body that could not be parsed.
func Decode(endpoint string, err error) *CellError {
	return Wrap(err, ErrCodeDecode, fmt.Sprintf("malformed response from %s", endpoint)).
		WithDetail("endpoint", endpoint)
}

// Timeout creates an error for a call cut off by the client-side deadline.
func Timeout(endpoint string, after string) *CellError {
	return New(ErrCodeTimeout, fmt.Sprintf("%s did not answer within %s", endpoint, after)).
		WithDetail("endpoint", endpoint).
		WithDetail("timeout", after)
}

// Precondition creates an error for a request refused before it was sent.
func Precondition(message string) *CellError {
	return New(ErrCodePrecondition, message)
}
