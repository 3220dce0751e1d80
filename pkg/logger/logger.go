// Package logger provides the application's structured, levelled logger
// built on log/slog.
//
// Handlers should log through WithCtx so every line carries the request ID
// (and the acting user once authenticated):
//
//	log := logger.WithCtx(r.Context())
//	log.Info("donation recorded", "donation_id", d.ID)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/bloodbank/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

var L *slog.Logger

func init() {
	L = New(config.AppEnv(), config.LogFile())
	slog.SetDefault(L)
}

// New builds a logger for the given environment. Production gets JSON at
// INFO, everything else human-readable text at DEBUG. When logFile is set the
// output is also written to a size-rotated file.
func New(env, logFile string) *slog.Logger {
	var out io.Writer = os.Stdout
	if logFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	switch env {
	case "production", "prod":
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "testing", "test":
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	default:
		return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored by the Logger middleware,
// or the base logger when there is none.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx for WithCtx to find.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
