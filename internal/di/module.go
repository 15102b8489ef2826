package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/app"
	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/jobs"
	"github.com/polkiloo/ordertrack/internal/logger"
	"github.com/polkiloo/ordertrack/internal/pkg/auth"
	"github.com/polkiloo/ordertrack/internal/realtime"
	"github.com/polkiloo/ordertrack/internal/server/http/router"
	"github.com/polkiloo/ordertrack/internal/storage"
	"github.com/polkiloo/ordertrack/internal/usecase"
	"github.com/polkiloo/ordertrack/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		storage.Module,
		realtime.Module,
		worker.Module,
		usecase.Module,
		jobs.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
