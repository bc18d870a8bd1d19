package logging

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Setup initializes a zerolog.Logger writing to w based on the requested format.
// format can be "text" (human-friendly console) or "json" (structured).
func Setup(format string, w io.Writer) zerolog.Logger {
	if format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// WithRun tags every event of log with a fresh run id and returns both.
func WithRun(log zerolog.Logger) (zerolog.Logger, uuid.UUID) {
	id := uuid.New()
	return log.With().Str("run_id", id.String()).Logger(), id
}
