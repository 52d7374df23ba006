// Package logger builds the zap logger shared by the HTTP layer, services and GORM.
package logger

import (
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"

	"recipebox/internal/config"
)

// New returns a sugared logger. Production uses the JSON encoder, everything
// else the human readable development encoder.
func New(cfg *config.Config) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.LogLevel, err)
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.Sugar(), nil
}

// Gorm adapts the zap logger to GORM's logger interface. SQL statements are
// only traced at debug level.
func Gorm(l *zap.SugaredLogger, cfg *config.Config) gormlogger.Interface {
	level := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		level = gormlogger.Info
	}

	return gormlogger.New(stdLog(l), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		Colorful:                  !cfg.IsProduction(),
		IgnoreRecordNotFoundError: true,
	})
}

func stdLog(l *zap.SugaredLogger) *log.Logger {
	return zap.NewStdLog(l.Desugar().Named("gorm"))
}
