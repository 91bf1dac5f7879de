package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns the service logger. Records carry the service name; dev
// writes human readable lines with the caller, prod writes JSON. level is
// one of zerolog's level names and falls back to info.
func New(w io.Writer, service, env, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var ctx zerolog.Context
	switch env {
	case "prod":
		ctx = zerolog.New(w).With()
	default:
		ctx = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}).With().Caller()
	}
	return ctx.Timestamp().Str("service", service).Logger().Level(lvl)
}
