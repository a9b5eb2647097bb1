// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog.Logger for the gateway worker.
//
// Every worker process logs JSON lines tagged with its role and pid, so lines
// from several workers behind one supervisor can be told apart. Components
// receive a *Logger at construction; per-request code reads the logger the
// transport attached to the context with FromContext or FromRequest.
// Pipeline diagnostics (connects, rejections, anonymous access) go to Debug.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger embeds zerolog.Logger so the whole zerolog API is available on it.
type Logger struct {
	zerolog.Logger
}

// Option customises NewLogger.
type Option func(*options)

type options struct {
	out io.Writer
	pid bool
}

// WithWriter sends output to w instead of os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithoutPID omits the "pid" field.
func WithoutPID() Option {
	return func(o *options) { o.pid = false }
}

// NewLogger builds the process logger for role. Entries carry role, pid, a
// timestamp, and the calling function under "func". The global level is left
// at Debug; WithLevel narrows it per logger once the configuration is known.
func NewLogger(role string, opts ...Option) *Logger {
	o := options{out: os.Stdout, pid: true}
	for _, opt := range opts {
		opt(&o)
	}

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerFieldName = "func"
	zerolog.CallerMarshalFunc = func(pc uintptr, _ string, _ int) string {
		return runtime.FuncForPC(pc).Name()
	}

	ctx := zerolog.New(o.out).With().Str("role", role)
	if o.pid {
		ctx = ctx.Int("pid", os.Getpid())
	}

	return &Logger{ctx.Timestamp().Caller().Logger()}
}

// Nop discards everything. Used by tests and optional collaborators.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// WithLevel returns a logger that drops entries below level. An empty or
// unknown level name returns l itself; the unknown case is logged.
func (l *Logger) WithLevel(level string) *Logger {
	if level == "" {
		return l
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		l.Warn().Str("level", level).Msg("unknown log level, keeping current one")
		return l
	}

	return &Logger{l.Level(lvl)}
}

// Tagged returns a child logger with key=value added to every entry. The
// receiver is not changed.
func (l *Logger) Tagged(key, value string) *Logger {
	return &Logger{l.With().Str(key, value).Logger()}
}

// FromRequest returns the logger attached to r's context.
func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext returns the logger attached to ctx. Without one, zerolog's
// default context logger is returned (disabled unless configured), never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
