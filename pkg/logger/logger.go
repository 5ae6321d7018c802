// Package logger задаёт интерфейс логирования сервиса и его реализацию поверх logrus.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger — интерфейс логгера, которым пользуются все слои приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
	With(key string, value any) Logger
}

type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger создаёт логгер с заданным уровнем (debug, info, warn, error) и форматом (json, text).
// Неизвестный уровень трактуется как info.
func NewLogrusLogger(level, format string) Logger {
	return newLogrusLogger(os.Stdout, level, format)
}

func newLogrusLogger(out io.Writer, level, format string) Logger {
	l := logrus.New()
	l.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.EqualFold(format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debugf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l *logrusLogger) Infof(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *logrusLogger) Warnf(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *logrusLogger) Errorf(err error, format string, args ...any) {
	l.entry.WithError(err).Errorf(format, args...)
}

func (l *logrusLogger) With(key string, value any) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

// NewNopLogger возвращает логгер, отбрасывающий все сообщения. Используется в тестах.
func NewNopLogger() Logger {
	return newLogrusLogger(io.Discard, "panic", "text")
}
