// Package logging provides structured logging with zap.
package logging

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.Mutex
	globalLogger *zap.Logger
	globalLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Config holds logging configuration.
type Config struct {
	Level string // debug, info, warn, error
	// LaunchLogPath receives a JSON copy of every entry. Empty disables it.
	LaunchLogPath string
}

// DefaultLaunchLogPath is the launch log in the OS temp dir. It exists so
// "opened a file and nothing happened" reports can be diagnosed without a
// console attached.
func DefaultLaunchLogPath() string {
	return filepath.Join(os.TempDir(), "filebridge-launch.log")
}

// Init builds the global logger: console output on stderr, plus the launch
// log file when configured and writable.
func Init(cfg Config) *zap.Logger {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	globalLevel.SetLevel(level)

	consoleEnc := zap.NewDevelopmentEncoderConfig()
	consoleEnc.EncodeLevel = zapcore.CapitalLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEnc), zapcore.Lock(os.Stderr), globalLevel),
	}

	if cfg.LaunchLogPath != "" {
		f, err := os.OpenFile(cfg.LaunchLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			fileEnc := zap.NewProductionEncoderConfig()
			fileEnc.EncodeTime = zapcore.RFC3339TimeEncoder
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEnc), zapcore.Lock(f), globalLevel))
		}
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel))
	mu.Lock()
	globalLogger = logger
	mu.Unlock()
	return logger
}

// Sync flushes any buffered log entries.
func Sync() error {
	mu.Lock()
	l := globalLogger
	mu.Unlock()
	if l != nil {
		return l.Sync()
	}
	return nil
}

// SetLevel changes the level of every logger built by Init. An unknown level
// is rejected and the current level stays.
func SetLevel(level string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return err
	}
	globalLevel.SetLevel(l)
	return nil
}

// Level reports the current level name.
func Level() string {
	return globalLevel.Level().String()
}
