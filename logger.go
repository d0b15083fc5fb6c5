package props

import "time"

// WriteEvent describes a resolver write for logging.
type WriteEvent struct {
	Op        string
	Object    string
	Property  string
	Source    BaseValueSource
	OldSource BaseValueSource
	Forced    bool
	Changed   bool
	Animated  bool
	Duration  time.Duration
	Err       error
}

// Logger records resolver writes.
type Logger interface {
	LogWrite(WriteEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(WriteEvent)

// LogWrite implements Logger.
func (f LoggerFunc) LogWrite(event WriteEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogWrite(WriteEvent) {}
