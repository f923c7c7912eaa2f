// Package logging is a thin leveled wrapper around the standard library's
// log package, matching the teacher's own convention of plain stderr
// logging with timestamps disabled (see cmd/lsp/main.go's
// log.SetFlags(0)/log.SetOutput(os.Stderr)) rather than reaching for a
// structured-logging dependency no repo in the corpus pulls in.
package logging

import (
	"io"
	"log"
	"os"
)

// Level selects which messages Logger.log actually emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is a leveled logger wrapping *log.Logger. The zero value is not
// usable; construct with New.
type Logger struct {
	std   *log.Logger
	level Level
}

// New builds a Logger writing to w with timestamps disabled, mirroring
// the teacher's cmd/lsp setup. Pass os.Stderr for normal CLI use.
func New(w io.Writer, level Level) *Logger {
	return &Logger{std: log.New(w, "", 0), level: level}
}

// Default writes to os.Stderr at LevelInfo, the teacher's own default.
func Default() *Logger {
	return New(os.Stderr, LevelInfo)
}

func (l *Logger) log(level Level, prefix, format string, args []interface{}) {
	if level < l.level {
		return
	}
	l.std.Printf(prefix+format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.log(LevelDebug, "debug: ", format, args) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(LevelInfo, "info: ", format, args) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(LevelWarn, "warn: ", format, args) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(LevelError, "error: ", format, args) }
