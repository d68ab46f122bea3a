package errors

import (
	"sync"
	"time"
)

// Handler receives errors and diagnostics reported by listkit components.
type Handler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandleDiagnostic is called for non-fatal integrator-facing notices,
	// such as a dropped direct-items render.
	HandleDiagnostic(op, msg string)
}

var (
	// DefaultHandler is the global error handler.
	// It defaults to a LogHandler writing to stderr.
	DefaultHandler Handler = NewLogHandler()

	handlerMu sync.RWMutex
)

// SetHandler configures the global error handler.
// Pass nil to restore the default LogHandler.
func SetHandler(h Handler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		DefaultHandler = NewLogHandler()
	} else {
		DefaultHandler = h
	}
}

// getHandler returns the current error handler.
func getHandler() Handler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report sends an error to the global handler.
// If err.Timestamp is zero, it is set to the current time.
func Report(err *Error) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandleError(err)
	}
}

// Diagnostic sends a non-fatal notice to the global handler.
func Diagnostic(op, msg string) {
	if h := getHandler(); h != nil {
		h.HandleDiagnostic(op, msg)
	}
}
