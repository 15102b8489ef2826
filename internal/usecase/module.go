package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/worker"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	newPolicy,
	newEventSink,
	NewOrderUseCase,
)

func newPolicy(cfg *config.Config) model.Policy {
	return cfg.Policy()
}

func newEventSink(dispatcher *worker.EventDispatcher) EventSink {
	return dispatcher
}
