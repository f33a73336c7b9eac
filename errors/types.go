package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Backend communication errors
	ErrCodeTransport ErrorCode = "TRANSPORT"
	ErrCodeBackend   ErrorCode = "BACKEND"
	ErrCodeDecode    ErrorCode = "DECODE"
	ErrCodeTimeout   ErrorCode = "TIMEOUT"

	// Checked before a request is issued
	ErrCodePrecondition ErrorCode = "PRECONDITION"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// CellError represents a structured error with context
type CellError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *CellError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CellError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *CellError) WithDetail(key string, value interface{}) *CellError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *CellError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new CellError
func New(code ErrorCode, message string) *CellError {
	return &CellError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a CellError
func Wrap(err error, code ErrorCode, message string) *CellError {
	return &CellError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// As returns the first CellError in err's chain.
func As(err error) (*CellError, bool) {
	for err != nil {
		if cellErr, ok := err.(*CellError); ok {
			return cellErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

// Is checks if an error is a specific CellError code
func Is(err error, code ErrorCode) bool {
	cellErr, ok := As(err)
	return ok && cellErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	cellErr, ok := As(err)
	if !ok {
		return ""
	}
	return cellErr.Code
}
