package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const logName = "log-name"

type log struct {
	*logrus.Logger
}

func NewLog(opts ...FuncOpts) Logger {
	le := &logEntity{
		name:   "proptree",
		level:  logrus.InfoLevel,
		levels: logrus.AllLevels,
		formatter: &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
		},
		writer: os.Stderr,
	}
	for _, opt := range opts {
		opt(le)
	}
	l := logrus.New()
	l.SetFormatter(le.formatter)
	l.SetLevel(le.level)
	l.SetOutput(le.writer)
	l.SetReportCaller(le.reportCaller)
	l.AddHook(le)
	return &log{Logger: l}
}

func (l *log) Log(ctx context.Context, level uint, fields map[string]interface{}, v ...interface{}) {
	var logrusLevel logrus.Level
	switch level {
	case DebugLevel:
		logrusLevel = logrus.DebugLevel
	case InfoLevel:
		logrusLevel = logrus.InfoLevel
	case WarnLevel:
		logrusLevel = logrus.WarnLevel
	case ErrorLevel:
		logrusLevel = logrus.ErrorLevel
	case FatalLevel:
		logrusLevel = logrus.FatalLevel
	case PanicLevel:
		logrusLevel = logrus.PanicLevel
	case TraceLevel:
		logrusLevel = logrus.TraceLevel
	default:
		logrusLevel = logrus.DebugLevel
	}
	if !l.IsLevelEnabled(logrusLevel) {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	l.WithContext(ctx).WithFields(fields).Log(logrusLevel, v...)
}

// logrus opt

type logEntity struct {
	name         string
	level        logrus.Level
	levels       []logrus.Level
	formatter    logrus.Formatter
	writer       io.Writer
	writers      map[logrus.Level]io.Writer
	reportCaller bool
}

type FuncOpts func(*logEntity)

func WithSrvName(name string) FuncOpts {
	return func(l *logEntity) {
		l.name = name
	}
}

func WithLevel(level string) FuncOpts {
	return func(l *logEntity) {
		lv, err := logrus.ParseLevel(level)
		if err != nil {
			panic(fmt.Errorf("logrus parse level fail, level:%s, err:%+v", level, err))
		}
		l.level = lv
	}
}

func WithFormatter(formatter logrus.Formatter) FuncOpts {
	return func(l *logEntity) {
		l.formatter = formatter
	}
}

func WithWriter(writer io.Writer) FuncOpts {
	return func(l *logEntity) {
		l.writer = writer
	}
}

// WithDispatcher copies entries of the given levels to extra writers.
func WithDispatcher(dispatcher map[string]io.Writer) FuncOpts {
	return func(l *logEntity) {
		l.levels = make([]logrus.Level, 0, len(dispatcher))
		l.writers = make(map[logrus.Level]io.Writer, len(dispatcher))
		for level, writer := range dispatcher {
			lv, err := logrus.ParseLevel(level)
			if err != nil {
				continue
			}
			l.writers[lv] = writer
			l.levels = append(l.levels, lv)
		}
	}
}

func WithReportCaller(caller bool) FuncOpts {
	return func(l *logEntity) {
		l.reportCaller = caller
	}
}

func (l *logEntity) Levels() []logrus.Level {
	return l.levels
}

func (l *logEntity) Fire(entry *logrus.Entry) error {
	entry.Data[logName] = l.name

	writer, ok := l.writers[entry.Level]
	if !ok {
		return nil
	}
	eb, err := entry.Bytes()
	if err != nil {
		return err
	}
	_, err = writer.Write(eb)
	return err
}
