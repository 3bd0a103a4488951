package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// pgxLogger adapts zerolog.Logger to pgx's tracelog interface.
type pgxLogger struct {
	logger zerolog.Logger
}

// newPgxLogger builds a child logger tagged with the pgx component so SQL noise stays filterable.
func newPgxLogger(logger zerolog.Logger) *pgxLogger {
	l := logger.With().Str("module", "repository").Str("component", "pgx").Logger()
	return &pgxLogger{logger: l}
}

// Log maps pgx levels to zerolog. At trace level the statement and its args are lifted into
// dedicated fields; the document body itself is never logged.
func (l *pgxLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	var event *zerolog.Event
	switch level {
	case tracelog.LogLevelNone:
		return
	case tracelog.LogLevelTrace:
		event = l.logger.Trace()
		if s, ok := data["sql"].(string); ok {
			event = event.Str("sql", s)
			delete(data, "sql")
		}
		// args carry the whole JSON document on writes; keep only their count.
		if args, ok := data["args"].([]any); ok {
			event = event.Int("args", len(args))
			delete(data, "args")
		}
	case tracelog.LogLevelDebug:
		event = l.logger.Debug()
	case tracelog.LogLevelInfo:
		event = l.logger.Info()
	case tracelog.LogLevelWarn:
		event = l.logger.Warn()
	case tracelog.LogLevelError:
		event = l.logger.Error()
	default:
		event = l.logger.Info().Str("pgx_log_level", level.String())
	}
	delete(data, "args")
	if len(data) > 0 {
		event = event.Fields(data)
	}
	event.Msg(msg)
}

// traceLevel picks the pgx trace level matching the logger's verbosity.
func traceLevel(logger zerolog.Logger) tracelog.LogLevel {
	switch lvl := logger.GetLevel(); {
	case lvl <= zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case lvl <= zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case lvl <= zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case lvl <= zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	default:
		return tracelog.LogLevelError
	}
}
