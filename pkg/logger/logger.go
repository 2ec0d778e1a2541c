package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Level уровень логирования
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ErrUnknownLevel возвращается при неизвестном уровне логирования
var ErrUnknownLevel = errors.New("logger: unknown level")

// ParseLevel конвертирует строку из конфига в Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// Logger printf-логгер поверх logr
// Формат сообщений: "Operation: message key=value"
type Logger struct {
	sink  logr.Logger
	level Level
	file  *os.File
	mu    sync.Mutex
	out   io.Writer
}

// New создает логгер, пишущий в stdout и (если указан) в файл
func New(filePath string, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var file *os.File
	var out io.Writer = os.Stdout
	if filePath != "" {
		if dir := filepath.Dir(filePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("logger: create log dir: %w", err)
			}
		}
		file, err = os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logger: open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	l := NewWithWriter(out, lvl)
	l.file = file
	return l, nil
}

// NewWithWriter создает логгер с произвольным writer (используется в тестах)
func NewWithWriter(w io.Writer, level Level) *Logger {
	l := &Logger{level: level, out: w}
	l.sink = funcr.New(l.write, funcr.Options{
		LogTimestamp:    true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		Verbosity:       1,
	})
	return l
}

func (l *Logger) write(prefix, args string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if prefix != "" {
		fmt.Fprintln(l.out, prefix, args)
		return
	}
	fmt.Fprintln(l.out, args)
}

// Debug пишет отладочное сообщение
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.level > LevelDebug {
		return
	}
	l.sink.V(1).Info(fmt.Sprintf(format, v...), "severity", "debug")
}

// Info пишет информационное сообщение
func (l *Logger) Info(format string, v ...interface{}) {
	if l.level > LevelInfo {
		return
	}
	l.sink.Info(fmt.Sprintf(format, v...), "severity", "info")
}

// Warn пишет предупреждение
func (l *Logger) Warn(format string, v ...interface{}) {
	if l.level > LevelWarn {
		return
	}
	l.sink.Info(fmt.Sprintf(format, v...), "severity", "warn")
}

// Error пишет сообщение об ошибке
func (l *Logger) Error(format string, v ...interface{}) {
	l.sink.Error(nil, fmt.Sprintf(format, v...), "severity", "error")
}

// Fatal пишет сообщение об ошибке и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.sink.Error(nil, fmt.Sprintf(format, v...), "severity", "fatal")
	l.Close()
	os.Exit(1)
}

// Close закрывает файл логов
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
