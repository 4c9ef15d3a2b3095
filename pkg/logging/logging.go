package logging

// Logger is the audit-log sink used by the lifecycle controller. Calls are
// fire-and-forget: implementations must not fail the caller.
type Logger interface {
	Log(message string)
	Info(message string)
	Warn(message string)
	Error(message string)
}

// NopLogger discards every message.
type NopLogger struct{}

func (NopLogger) Log(string)   {}
func (NopLogger) Info(string)  {}
func (NopLogger) Warn(string)  {}
func (NopLogger) Error(string) {}
