package app

import (
	"os"

	"service-delivery/internal/config"
	"service-delivery/internal/logx"
)

// NewLogger returns the JSON stdout logger at the configured level.
func NewLogger(cfg *config.Config) logx.Logger {
	return logx.NewJSON(os.Stdout, cfg.LogLevel).With(logx.String("service", "service-delivery"))
}
