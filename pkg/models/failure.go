package models

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/cellconsole/errors"
)

// Failure is the payload of every failure action. Message is always set;
// Body carries the backend's structured error body when there was one.
type Failure struct {
	Message string           `json:"message"`
	Code    errors.ErrorCode `json:"code,omitempty"`
	Body    interface{}      `json:"body,omitempty"`
}

func (f Failure) Error() string {
	return f.Message
}

// FailureFrom normalizes any error. A structured backend body is preferred,
// with its "detail" lifted into Message; otherwise the transport message is used.
func FailureFrom(err error) Failure {
	if err == nil {
		return Failure{Message: "unknown error", Code: errors.ErrCodeInternal}
	}
	if f, ok := err.(Failure); ok {
		return f
	}

	cellErr, ok := errors.As(err)
	if !ok {
		return Failure{Message: err.Error()}
	}

	f := Failure{Code: cellErr.Code, Message: cellErr.Message}
	switch cellErr.Code {
	case errors.ErrCodeBackend:
		body := cellErr.Details["body"]
		f.Body = body
		if msg := detailMessage(body); msg != "" {
			f.Message = msg
		}
	case errors.ErrCodeTransport, errors.ErrCodeDecode:
		if cellErr.Cause != nil {
			f.Message = cellErr.Cause.Error()
		}
	}
	return f
}

// NewFailure builds a precondition failure.
func NewFailure(message string) Failure {
	return Failure{Message: message, Code: errors.ErrCodePrecondition}
}

func detailMessage(body interface{}) string {
	switch b := body.(type) {
	case nil:
		return ""
	case string:
		return b
	case map[string]interface{}:
		switch d := b["detail"].(type) {
		case nil:
		case string:
			return d
		default:
			if data, err := json.Marshal(d); err == nil {
				return string(data)
			}
		}
		if msg, ok := b["message"].(string); ok {
			return msg
		}
		if msg, ok := b["error"].(string); ok {
			return msg
		}
	}
	return fmt.Sprintf("%v", body)
}
