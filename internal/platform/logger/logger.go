package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/imoveis/catalog/config"
)

// New builds the process logger. JSON output is the default; "console" or
// "text" switches to the human readable encoder used in development.
func New(cfg config.LogConfig) *zap.Logger {
	format := strings.ToLower(cfg.Format)

	var zapConfig zap.Config
	if format == "console" || format == "text" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	if err := zapConfig.Level.UnmarshalText([]byte(level)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid LOG_LEVEL %q, using info: %v\n", level, err)
		zapConfig.Level.SetLevel(zapcore.InfoLevel)
	}

	log, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger, falling back to production defaults: %v\n", err)
		log, _ = zap.NewProduction()
	}
	return log
}
