package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"panicwipe/internal/config"
)

// New builds the process logger: console output on stderr plus an optional
// JSON file sink. A file sink that cannot be opened degrades to console-only
// rather than failing startup.
func New(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	level := parseLevel(cfg.Logging.Level)
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleEnc := zapcore.NewConsoleEncoder(encCfg)
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), level),
	}

	if cfg.Logging.File != "" {
		logDir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] cannot create log directory %s: %v, logging to stderr only\n", logDir, err)
		} else {
			f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] cannot open log file %s: %v, logging to stderr only\n", cfg.Logging.File, err)
			} else {
				fileEnc := zapcore.NewJSONEncoder(encCfg)
				cores = append(cores, zapcore.NewCore(fileEnc, zapcore.Lock(f), level))
			}
		}
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
