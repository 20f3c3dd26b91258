package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// Init builds the process logger and installs it as zap's global, so every
// component can log through zap.L().Named("Component").
func Init(level string, development bool) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	logger.Named("Logging").Info("Logger initialized", zap.String("level", lvl.String()), zap.Bool("development", development))
	return logger, nil
}

// gormWriter feeds gorm's printf-style logger into zap.
type gormWriter struct {
	sugar *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.sugar.Infof(format, args...)
}

// NewGormLogger returns a gorm logger backed by the global zap logger.
// Record-not-found is expected traffic for by-id lookups and is not logged.
func NewGormLogger(level gormlogger.LogLevel) gormlogger.Interface {
	return gormlogger.New(
		gormWriter{sugar: zap.L().Named("Database").Sugar()},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
