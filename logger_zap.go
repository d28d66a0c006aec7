// logger_zap.go: Logger adapter for go.uber.org/zap
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fixmap

import "go.uber.org/zap"

// ZapLogger adapts a *zap.Logger to the Logger interface. Key-value pairs are
// passed to the sugared logger, so keys must be strings.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps l. A nil l yields a logger that discards everything.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{sugar: l.Sugar()}
}

// Debug logs at zap's debug level.
func (z *ZapLogger) Debug(msg string, keyvals ...interface{}) {
	z.sugar.Debugw(msg, keyvals...)
}

// Info logs at zap's info level.
func (z *ZapLogger) Info(msg string, keyvals ...interface{}) {
	z.sugar.Infow(msg, keyvals...)
}

// Warn logs at zap's warn level.
func (z *ZapLogger) Warn(msg string, keyvals ...interface{}) {
	z.sugar.Warnw(msg, keyvals...)
}

// Error logs at zap's error level.
func (z *ZapLogger) Error(msg string, keyvals ...interface{}) {
	z.sugar.Errorw(msg, keyvals...)
}

// Sync flushes any buffered log entries.
func (z *ZapLogger) Sync() error {
	return z.sugar.Sync()
}

var _ Logger = (*ZapLogger)(nil)
