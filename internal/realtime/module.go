package realtime

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/config"
)

// Module provides the fan-out hub and closes it on shutdown.
var Module = fx.Options(
	fx.Provide(newHub),
	fx.Invoke(registerLifecycle),
)

func newHub(cfg *config.Config, logger *slog.Logger) *Hub {
	return NewHub(cfg.SubscriberBuffer, logger)
}

func registerLifecycle(lc fx.Lifecycle, hub *Hub) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			hub.Close()
			return nil
		},
	})
}
