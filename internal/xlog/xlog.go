// Package xlog threads one zerolog.Logger per process through
// constructors as a field, the same way the teacher threads a plain
// *log.Logger, but with structured fields (run_id, board_id, app_id)
// a caller can attach per request instead of formatting them into a
// message string.
package xlog

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger behind the small surface the rest of
// this repo needs, so call sites read like the teacher's Printf/Fatalf
// logger without giving up structured output.
type Logger struct {
	z zerolog.Logger
}

// New builds a process logger tagged with the owning service's name.
func New(service string) Logger {
	z := zerolog.New(os.Stdout).With().Timestamp().Str("service", service).Logger()
	return Logger{z: z}
}

// With returns a derived logger carrying one additional string field,
// for tagging a connection or request with its room/run/app id.
func (l Logger) With(key, value string) Logger {
	return Logger{z: l.z.With().Str(key, value).Logger()}
}

// Printf logs an info-level line built the same way log.Printf would.
func (l Logger) Printf(format string, args ...any) {
	l.z.Info().Msgf(format, args...)
}

// Fatalf logs a fatal-level line then exits the process, matching
// the teacher's log.Fatalf call sites.
func (l Logger) Fatalf(format string, args ...any) {
	l.z.Fatal().Msgf(format, args...)
}
