// Package config holds process-level defaults for commands built on
// top of pkg/bptreeidx — the library itself takes an explicit
// bptreeidx.Options instead of reaching for global config.
package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Config is the set of defaults an application entrypoint (cmd/idxinspect)
// falls back to when the user hasn't overridden them via flags.
type Config struct {
	// FileMode is used when a command creates a new index file.
	FileMode os.FileMode

	// LogLevel controls the verbosity of the default logger.
	LogLevel logrus.Level
}

// New returns the default Config.
func New() *Config {
	return &Config{
		FileMode: 0644,
		LogLevel: logrus.InfoLevel,
	}
}
