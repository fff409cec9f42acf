package config

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

// NewLogger returns a console logger at the configured level.
func NewLogger(cfg LoggingConfig) arbor.ILogger {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	return arbor.NewLogger().WithConsoleWriter(models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		TextOutput:       true,
		DisableTimestamp: false,
	}).WithLevelFromString(level)
}
