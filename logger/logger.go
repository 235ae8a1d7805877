package logger

import (
	"context"
	"sync/atomic"
)

const (
	PanicLevel uint = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

type Logger interface {
	Log(ctx context.Context, level uint, fields map[string]interface{}, v ...interface{})
}

var std atomic.Value

func init() {
	std.Store(holder{NewLog()})
}

type holder struct {
	Logger
}

// SetDefault replaces the package level logger used by Log.
func SetDefault(l Logger) {
	if l == nil {
		l = Discard
	}
	std.Store(holder{l})
}

func Default() Logger {
	return std.Load().(holder).Logger
}

func Log(ctx context.Context, level uint, fields map[string]interface{}, v ...interface{}) {
	Default().Log(ctx, level, fields, v...)
}

// Discard drops every entry.
var Discard Logger = discard{}

type discard struct{}

func (discard) Log(context.Context, uint, map[string]interface{}, ...interface{}) {}
