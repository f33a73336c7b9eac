package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/cellconsole/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	cellErr, _ := errors.As(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "❌ Configuration not found: %v\n", cellErr.Details["path"])
		fmt.Fprintf(h.Out, "Run 'cellconsole config show' to see the defaults in effect.\n")

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(h.Out, "❌ %v\n", err)
		fmt.Fprintf(h.Out, "Run 'cellconsole config validate' for details.\n")

	case errors.ErrCodeTransport:
		if endpoint, ok := cellErr.Details["endpoint"]; ok {
			fmt.Fprintf(h.Out, "❌ Backend unreachable (%v)\n", endpoint)
		} else {
			fmt.Fprintf(h.Out, "❌ Backend unreachable: %s\n", cellErr.Message)
		}
		fmt.Fprintf(h.Out, "Check backend.host in cellconsole.yml or CELLCONSOLE_HOST.\n")

	case errors.ErrCodeTimeout:
		fmt.Fprintf(h.Out, "❌ %s\n", cellErr.Message)

	case errors.ErrCodeBackend:
		fmt.Fprintf(h.Out, "❌ Backend error: %v\n", err)
		if body, ok := cellErr.Details["body"]; ok && body != nil {
			fmt.Fprintf(h.Out, "%v\n", body)
		}

	default:
		fmt.Fprintf(h.Out, "❌ Error: %v\n", err)
	}

	if h.Verbose && cellErr != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", cellErr.ToJSON())
	}
	return err
}
