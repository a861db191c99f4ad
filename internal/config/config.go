// Package config handles application configuration and setup
package config

import (
	"os"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// LogLevelEnv is the environment variable that overrides the log level
// flags, supported values are debug and error.
const LogLevelEnv = "RETRO6502_LOG"

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()

	debug, quiet = applyLevelOverride(os.Getenv(LogLevelEnv), debug, quiet)
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func applyLevelOverride(level string, debug, quiet bool) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return true, false
	case "error":
		return false, true
	default:
		return debug, quiet
	}
}
