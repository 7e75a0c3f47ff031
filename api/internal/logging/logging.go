// Package logging configures the process-wide zerolog logger.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global level and writer. Unknown levels fall back to info.
func Init(level string, pretty bool) {
	var w io.Writer = os.Stdout
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(level))
	log.Logger = zerolog.New(w).With().Timestamp().Str("service", "descrivi-bot").Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithRequest attaches a child logger with a fresh request id to ctx.
func WithRequest(ctx context.Context) (context.Context, *zerolog.Logger) {
	l := log.Logger.With().Str("request_id", uuid.NewString()).Logger()
	ctx = l.WithContext(ctx)
	return ctx, zerolog.Ctx(ctx)
}
