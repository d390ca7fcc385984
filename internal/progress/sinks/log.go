package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/progress"
)

// LogSink writes every launch event to a structured logger.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs each event in the batch using structured fields.
func (s *LogSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		fields := []zap.Field{
			zap.Stringer("launch_id", evt.LaunchUUID()),
			zap.String("stage", string(evt.Stage)),
			zap.String("method", evt.Token),
			zap.String("script", evt.Script),
		}
		if evt.PID > 0 {
			fields = append(fields, zap.Int("pid", evt.PID))
		}
		if evt.Stage == progress.StageLaunchExit {
			fields = append(fields, zap.Int("exit_code", evt.ExitCode), zap.Duration("dur", evt.Dur))
		}
		if evt.Note != "" {
			fields = append(fields, zap.String("note", evt.Note))
		}
		s.logger.Debug("launch event", fields...)
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
