package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is a leveled, asynchronous logger. Lines are handed to a worker
// goroutine over a buffered channel; a full buffer drops the line instead of
// blocking the event path.
type Logger struct {
	level Level
	file  *os.File
	out   io.Writer
	lines chan string
	wg    sync.WaitGroup
}

// New opens (or creates) the log file at path and starts the writer worker.
// When echo is true, every line is also mirrored to stdout.
func New(level Level, path string, echo bool) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	var out io.Writer = file
	if echo {
		out = io.MultiWriter(file, os.Stdout)
	}

	l := &Logger{
		level: level,
		file:  file,
		out:   out,
		lines: make(chan string, 8192),
	}

	l.wg.Add(1)
	go l.worker()

	return l, nil
}

func (l *Logger) worker() {
	defer l.wg.Done()
	for line := range l.lines {
		io.WriteString(l.out, line)
	}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	line := fmt.Sprintf("[%s] [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05.000"),
		levelName(level),
		fmt.Sprintf(format, args...))

	select {
	case l.lines <- line:
	default:
		// Buffer full; drop rather than stall a handler.
	}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.log(LevelError, format, args...) }

func levelName(level Level) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Close drains queued lines and closes the log file.
func (l *Logger) Close() error {
	close(l.lines)
	l.wg.Wait()
	return l.file.Close()
}

var global *Logger

// InitGlobal installs the process-wide logger used by the package helpers.
func InitGlobal(level Level, path string, echo bool) error {
	logger, err := New(level, path, echo)
	if err != nil {
		return err
	}
	global = logger
	return nil
}

// CloseGlobal flushes and closes the process-wide logger.
func CloseGlobal() {
	if global != nil {
		global.Close()
		global = nil
	}
}

func Debug(format string, args ...interface{}) {
	if global != nil {
		global.Debug(format, args...)
	}
}

func Info(format string, args ...interface{}) {
	if global != nil {
		global.Info(format, args...)
	}
}

func Warn(format string, args ...interface{}) {
	if global != nil {
		global.Warn(format, args...)
	}
}

func Error(format string, args ...interface{}) {
	if global != nil {
		global.Error(format, args...)
	}
}
