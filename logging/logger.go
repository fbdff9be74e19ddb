// api/logging/logger.go

package util

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op logger until InitLogger runs, so packages can log from
// tests without any setup.
var Log = zap.NewNop()

// Options selects where one fleet process writes its logs. Every entry
// carries the service role so the usuarios, proyectos, tareas and gateway
// logs can be merged.
type Options struct {
	Dir     string
	Service string
	Level   string
}

func fileNames(opts Options) (string, string) {
	name := opts.Service
	if name == "" {
		name = "fleet"
	}
	return filepath.Join(opts.Dir, name+".log"), filepath.Join(opts.Dir, name+"_error.log")
}

// InitLogger builds the process logger. LOG_LEVEL overrides opts.Level.
func InitLogger(opts Options) error {
	config := zap.NewProductionConfig()

	level := opts.Level
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		config.Level.SetLevel(parsed)
	}

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		logFile, errorFile := fileNames(opts)
		config.OutputPaths = append(config.OutputPaths, logFile)
		config.ErrorOutputPaths = append(config.ErrorOutputPaths, errorFile)
	}

	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.StacktraceKey = "stacktrace"
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if opts.Service != "" {
		config.InitialFields = map[string]interface{}{"service": opts.Service}
	}

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	Log = built
	zap.ReplaceGlobals(Log)
	return nil
}

func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}

func Sync() error {
	return Log.Sync()
}
