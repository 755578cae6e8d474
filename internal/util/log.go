package util

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogFromContext returns the request scoped logger stored in ctx, or the global logger if there is none.
func LogFromContext(ctx context.Context) *zerolog.Logger {
	l := log.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		l = &log.Logger
	}

	return l
}

// ContextWithComponent attaches a logger tagged with component to ctx.
func ContextWithComponent(ctx context.Context, component string) context.Context {
	l := LogFromContext(ctx).With().Str("component", component).Logger()
	return l.WithContext(ctx)
}

// ConfigureLogger sets the global log level and output format.
func ConfigureLogger(level zerolog.Level, prettyPrintConsole bool) {
	zerolog.SetGlobalLevel(level)

	if prettyPrintConsole {
		log.Logger = log.Output(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = "15:04:05"
			w.Out = os.Stderr
		}))
	}
}
