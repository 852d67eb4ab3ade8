// Package logger builds the zap logger used for diagnostics. Status lines
// for the user go through the console reporter instead.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// VerbosityToLevel maps -v flag counts to zap levels.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity >= 2:
		return zapcore.DebugLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// New returns a sugared logger writing to stderr and, when logFile is set,
// to that file in plain text. The returned cleanup flushes the logger and
// closes the file.
func New(verbosity int, logFile string) (*zap.SugaredLogger, func(), error) {
	level := VerbosityToLevel(verbosity)

	consoleConfig := zap.NewDevelopmentEncoderConfig()
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stderr), level),
	}

	closeFile := func() {}
	if logFile != "" {
		fileCore, closeFn, err := createFileCore(logFile)
		if err != nil {
			return nil, nil, err
		}
		cores = append(cores, fileCore)
		closeFile = closeFn
	}

	log := zap.New(zapcore.NewTee(cores...)).Sugar()
	cleanup := func() {
		_ = log.Sync()
		closeFile()
	}
	return log, cleanup, nil
}

// createFileCore creates a zap core for file logging without colors. The
// file always receives debug output.
func createFileCore(path string) (zapcore.Core, func(), error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	sink, closeSink, err := zap.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, zapcore.DebugLevel), closeSink, nil
}
