package logger

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// watermillAdapter lets watermill components (the in-process push bus) write
// through the application logger.
type watermillAdapter struct {
	logger zerolog.Logger
}

// Watermill adapts l to watermill.LoggerAdapter. Watermill's Info level is
// mapped to Debug: the bus reports every subscription and publish, which is
// diagnostic noise at Info.
func Watermill(l *Logger) watermill.LoggerAdapter {
	return &watermillAdapter{logger: l.Logger}
}

func (w *watermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	w.logger.Error().Err(err).Fields(map[string]any(fields)).Msg(msg)
}

func (w *watermillAdapter) Info(msg string, fields watermill.LogFields) {
	w.logger.Debug().Fields(map[string]any(fields)).Msg(msg)
}

func (w *watermillAdapter) Debug(msg string, fields watermill.LogFields) {
	w.logger.Debug().Fields(map[string]any(fields)).Msg(msg)
}

func (w *watermillAdapter) Trace(msg string, fields watermill.LogFields) {
	w.logger.Trace().Fields(map[string]any(fields)).Msg(msg)
}

func (w *watermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillAdapter{logger: w.logger.With().Fields(map[string]any(fields)).Logger()}
}
