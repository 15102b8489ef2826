package worker

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/realtime"
)

// Module provides the event dispatcher and ties it to the application lifecycle.
var Module = fx.Options(
	fx.Provide(newEventDispatcher),
	fx.Invoke(registerLifecycle),
)

func newEventDispatcher(cfg *config.Config, hub *realtime.Hub, logger *slog.Logger) *EventDispatcher {
	return NewEventDispatcher(hub, cfg.FanoutWorkers, cfg.FanoutQueueSize, logger)
}

func registerLifecycle(lc fx.Lifecycle, dispatcher *EventDispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			dispatcher.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			dispatcher.Stop()
			return nil
		},
	})
}
