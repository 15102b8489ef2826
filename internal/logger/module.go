package logger

import (
	"log/slog"
	"os"

	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/config"
)

// Module wires slog logger for dependency injection.
var Module = fx.Provide(newLogger)

func newLogger(cfg *config.Config) *slog.Logger {
	return New(os.Stdout, cfg.LogLevel)
}
