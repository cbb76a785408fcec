package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  *zap.Logger
	once sync.Once
)

// Init configures the global logger. Safe to call once from server
// startup; anything logging before Init gets a production default.
func Init(level string, development bool) {
	once.Do(func() {
		log = build(level, development)
	})
}

func get() *zap.Logger {
	if log == nil {
		Init("info", false)
	}
	return log
}

func build(level string, development bool) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if development {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), parseLevel(level))
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debug(msg string, args ...any) {
	get().Debug(msg, fields(args)...)
}

func Info(msg string, args ...any) {
	get().Info(msg, fields(args)...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, fields(args)...)
}

func Error(msg string, args ...any) {
	get().Error(msg, fields(args)...)
}

// Sync flushes buffered log entries; called on shutdown.
func Sync() {
	_ = get().Sync()
}

// fields converts loosely-typed call-site args into zap fields.
// Accepts alternating key/value pairs; bare error values become the
// "error" field so callers can write Error("Repo:Method", err).
func fields(args []any) []zap.Field {
	fs := make([]zap.Field, 0, len(args)/2+1)
	i := 0
	for i < len(args) {
		if err, ok := args[i].(error); ok {
			fs = append(fs, zap.Error(err))
			i++
			continue
		}
		key, ok := args[i].(string)
		if !ok || i+1 >= len(args) {
			fs = append(fs, zap.Any("arg", args[i]))
			i++
			continue
		}
		fs = append(fs, zap.Any(key, args[i+1]))
		i += 2
	}
	return fs
}
