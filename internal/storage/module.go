// Package storage selects the repository backend from configuration.
package storage

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
	"github.com/polkiloo/ordertrack/internal/storage/memory"
	"github.com/polkiloo/ordertrack/internal/storage/postgres"
)

// Module wires the storage backend and its repositories.
var Module = fx.Options(
	fx.Provide(newFactory),
	fx.Provide(
		func(f repository.Factory) repository.UserRepository { return f.Users() },
		func(f repository.Factory) repository.OrderRepository { return f.Orders() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newFactory(p storageParams) (repository.Factory, error) {
	if p.Config.DatabaseURI == "" {
		p.Logger.Warn("DATABASE_URI is empty, using in-memory storage")
		return memory.New(), nil
	}
	return postgres.New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, factory repository.Factory) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			factory.Close()
			return nil
		},
	})
}
