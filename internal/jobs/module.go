package jobs

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/usecase"
	"github.com/polkiloo/ordertrack/internal/worker"
)

// Module provides scheduled background jobs.
var Module = fx.Options(
	fx.Provide(newStatsReportJob),
	fx.Invoke(registerLifecycle),
)

func newStatsReportJob(cfg *config.Config, orders *usecase.OrderUseCase, dispatcher *worker.EventDispatcher, logger *slog.Logger) *StatsReportJob {
	return NewStatsReportJob(orders, dispatcher, cfg.StatsReportSchedule, logger)
}

func registerLifecycle(lc fx.Lifecycle, job *StatsReportJob) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return job.Start()
		},
		OnStop: func(context.Context) error {
			job.Stop()
			return nil
		},
	})
}
