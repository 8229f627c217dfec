package events

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapSink renders events as structured log lines, console-formatted for humans and
// JSON-lines for machine consumption (spec §6: "Serialized as one JSON object per line").
type ZapSink struct {
	logger *zap.Logger
}

// NewConsoleSink builds a sink that writes human-readable lines to stdout.
func NewConsoleSink() *ZapSink {
	cfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(os.Stdout), zapcore.DebugLevel)
	return &ZapSink{logger: zap.New(core)}
}

// NewJSONSink builds a sink that writes one JSON object per line to w, per §6's
// machine-consumption format.
func NewJSONSink(w zapcore.WriteSyncer) *ZapSink {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, zapcore.DebugLevel)
	return &ZapSink{logger: zap.New(core)}
}

// Emit implements Sink. Every field of the tagged event is logged structurally — no
// free-form message carries semantic content, only the event Kind names what happened.
func (z *ZapSink) Emit(e Event) {
	fields := []zap.Field{
		zap.String("policy", e.Policy),
		zap.Uint64("task_id", uint64(e.TaskID)),
	}
	switch e.Kind {
	case KindSliceRecorded:
		fields = append(fields, zap.Int64("start", e.Start), zap.Int64("end", e.End), zap.String("state", e.State.String()))
	case KindTaskFinished:
		fields = append(fields, zap.Int64("end", e.End))
	case KindDeadlockDetected:
		fields = append(fields, zap.Any("cycle", e.Cycle))
	case KindForcedRelease:
		fields = append(fields, zap.String("lock", e.LockName), zap.Uint64("victim", uint64(e.Victim)))
	case KindPriorityAdjusted:
		fields = append(fields, zap.Int("old_priority", e.OldPriority), zap.Int("new_priority", e.NewPriority))
	case KindDemoted:
		fields = append(fields, zap.Int("old_level", e.OldLevel), zap.Int("new_level", e.NewLevel))
	case KindDeadlineMiss:
		fields = append(fields, zap.Int64("deadline", e.Deadline), zap.Int64("end", e.End))
	case KindBoosted:
		fields = append(fields, zap.Int("old_level", e.OldLevel), zap.Int("new_level", e.NewLevel))
	}
	z.logger.Info(e.Kind.String(), fields...)
}

// Sync flushes any buffered log entries.
func (z *ZapSink) Sync() error {
	return z.logger.Sync()
}
