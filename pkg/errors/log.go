package errors

import (
	"os"

	"github.com/rs/zerolog"
)

// LogHandler is a Handler that logs through zerolog.
type LogHandler struct {
	// Logger receives all reported errors and diagnostics.
	Logger zerolog.Logger
}

// NewLogHandler returns a LogHandler writing to stderr with timestamps.
func NewLogHandler() *LogHandler {
	return &LogHandler{
		Logger: zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
}

// HandleError logs a structured Error.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	ev := h.Logger.Error().
		Str("op", err.Op).
		Str("kind", err.Kind.String())
	if err.Path != "" {
		ev = ev.Str("path", err.Path)
	}
	ev.Err(err.Err).Msg("listkit error")
}

// HandleDiagnostic logs a non-fatal notice at warn level.
func (h *LogHandler) HandleDiagnostic(op, msg string) {
	h.Logger.Warn().Str("op", op).Msg(msg)
}
