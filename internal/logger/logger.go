package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/palemoky/road-race/internal/config"
)

var (
	base    = logrus.New()
	logFile *os.File
)

// Init 按配置设置日志级别、格式与输出
func Init(cfg config.LogConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	base.SetLevel(level)

	if cfg.Format == "json" {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.File == "" {
		base.SetOutput(os.Stderr)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	Close()
	logFile = f
	base.SetOutput(io.MultiWriter(os.Stderr, f))
	return nil
}

// Close closes the log file if one is open
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// L 返回根 logger
func L() *logrus.Logger {
	return base
}

// Component 返回带组件字段的日志入口
func Component(name string) *logrus.Entry {
	return base.WithField("component", name)
}

// Discard 返回丢弃输出的日志入口（测试用）
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// LogPanic logs a panic with stack trace
func LogPanic(entry *logrus.Entry, r any) {
	if entry == nil {
		entry = logrus.NewEntry(base)
	}
	entry.WithField("stack", string(debug.Stack())).Errorf("panic: %v", r)
}
