package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide sugared logger. It is a no-op logger until one of
// the Init functions runs, so packages can log safely from tests.
var Log = zap.NewNop().Sugar()

// InitLogger initializes the global logger with JSON production output
func InitLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	Log = logger.Sugar()
}

// InitLoggerDev initializes logger in development mode (more readable output)
func InitLoggerDev() {
	config := zap.NewDevelopmentConfig()

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	Log = logger.Sugar()
}

// Init picks the logger flavour from the configured log mode
func Init(mode string) {
	if mode == "production" {
		InitLogger()
		return
	}
	InitLoggerDev()
}

// Sync flushes buffered logs
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
