// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Modes accepted by New.
const (
	ModeQuiet = "quiet"
	ModeDev   = "dev"
	ModeProd  = "prod"
	ModeOff   = "off"
)

// New builds a logger for mode. Every mode writes to stderr so command
// output on stdout stays clean.
//
//	quiet (default)  console encoding, warnings and errors only
//	dev, debug       console encoding, debug level, caller info
//	prod, json       JSON encoding, info level
//	off              discards everything
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeQuiet:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.Development = false
		cfg.DisableCaller = true
		cfg.DisableStacktrace = true
		cfg.EncoderConfig.TimeKey = ""
	case ModeDev, "debug", "development":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case ModeProd, "json", "production":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case ModeOff, "none":
		return zap.NewNop(), nil
	default:
		return nil, fmt.Errorf("unknown log mode %q (want quiet, dev, prod or off)", mode)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
