package db

import (
	"context"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// QueryLogger forwards pgx trace events to zerolog
type QueryLogger struct {
	log zerolog.Logger
}

// NewQueryLogger tags every event with component=sql
func NewQueryLogger(log zerolog.Logger) *QueryLogger {
	return &QueryLogger{log: log.With().Str("component", "sql").Logger()}
}

// Log implements tracelog.Logger
func (l *QueryLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	var event *zerolog.Event
	switch level {
	case tracelog.LogLevelTrace:
		event = l.log.Trace()
	case tracelog.LogLevelDebug:
		event = l.log.Debug()
	case tracelog.LogLevelInfo:
		event = l.log.Info()
	case tracelog.LogLevelWarn:
		event = l.log.Warn()
	case tracelog.LogLevelError:
		event = l.log.Error()
	default:
		event = l.log.Debug()
	}
	event.Fields(data).Msg(msg)
}
