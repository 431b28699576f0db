package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger = zap.NewNop()

// InitLogger initializes the Zap logger with Lumberjack log rotation inside logDir.
// Output goes to the rotated file and to stdout.
func InitLogger(logDir string, level zapcore.Level) {
	// Ensure the logs directory exists
	err := os.MkdirAll(logDir, os.ModePerm)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logs directory: %v", err))
	}

	// Set up log rotation using Lumberjack
	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, time.Now().Format("2006-01-02")+".log"), // Logs will be named by date
		MaxSize:    10,                                                           // Megabytes before rotation
		MaxBackups: 7,                                                            // Keep the last 7 backups
		MaxAge:     28,                                                           // Days
		Compress:   true,
	}

	// Human-readable encoder for both sinks
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.AddSync(logFile), level),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	)

	Logger = zap.New(core, zap.AddCaller())
}

// ParseLogLevel maps LOG_LEVEL values onto zap levels.
func ParseLogLevel(raw string) (zapcore.Level, error) {
	if raw == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
	}
	return level, nil
}
