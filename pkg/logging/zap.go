package logging

import "go.uber.org/zap"

// ZapLogger adapts a zap logger to the audit Logger contract.
type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger}
}

// NewProductionLogger builds a ZapLogger on zap's production config.
func NewProductionLogger() (*ZapLogger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(logger), nil
}

func (l *ZapLogger) Log(message string)   { l.logger.Debug(message) }
func (l *ZapLogger) Info(message string)  { l.logger.Info(message) }
func (l *ZapLogger) Warn(message string)  { l.logger.Warn(message) }
func (l *ZapLogger) Error(message string) { l.logger.Error(message) }

// Sync flushes buffered entries. Call on shutdown.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
