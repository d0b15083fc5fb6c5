// Package zaplog routes resolver and default-evaluation logs to zap.
package zaplog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	props "github.com/goliatone/go-props"
	"github.com/goliatone/go-props/defaults"
)

// Logger implements props.Logger and defaults.EvaluatorLogger. Successful
// writes log at Debug, rejected writes and failed evaluations at Warn.
type Logger struct {
	z *zap.Logger
}

// New wraps z. A nil z uses zap.NewNop.
func New(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z.Named("props")}
}

var (
	_ props.Logger             = (*Logger)(nil)
	_ defaults.EvaluatorLogger = (*Logger)(nil)
)

func (l *Logger) LogWrite(e props.WriteEvent) {
	level := zapcore.DebugLevel
	if e.Err != nil {
		level = zapcore.WarnLevel
	}
	ce := l.z.Check(level, "property write")
	if ce == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", e.Op),
		zap.String("object", e.Object),
		zap.String("property", e.Property),
		zap.Stringer("source", e.Source),
		zap.Stringer("old_source", e.OldSource),
		zap.Bool("changed", e.Changed),
		zap.Duration("duration", e.Duration),
	}
	if e.Forced {
		fields = append(fields, zap.Bool("forced", true))
	}
	if e.Animated {
		fields = append(fields, zap.Bool("animated", true))
	}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}
	ce.Write(fields...)
}

func (l *Logger) LogEvaluation(e defaults.EvaluatorLogEvent) {
	level := zapcore.DebugLevel
	if e.Err != nil {
		level = zapcore.WarnLevel
	}
	ce := l.z.Check(level, "default evaluated")
	if ce == nil {
		return
	}
	fields := []zap.Field{
		zap.String("engine", e.Engine),
		zap.String("expr", e.Expr),
		zap.String("property", e.Property),
		zap.Duration("duration", e.Duration),
	}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}
	ce.Write(fields...)
}
