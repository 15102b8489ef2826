package test

import (
	"context"

	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
	"github.com/polkiloo/ordertrack/internal/storage/memory"
)

// SeedUsers registers users in order and returns them with assigned IDs.
func SeedUsers(ctx context.Context, repo repository.UserRepository, users ...model.User) ([]model.Identity, error) {
	out := make([]model.Identity, 0, len(users))
	for _, u := range users {
		created, err := repo.Create(ctx, u)
		if err != nil {
			return nil, err
		}
		out = append(out, created.Identity())
	}
	return out, nil
}

// UserRepositoryStub wraps a real repository with error injection.
type UserRepositoryStub struct {
	repository.UserRepository
	Err error
}

// NewUserRepositoryStub constructs stub backed by an in-memory store.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{UserRepository: memory.New().Users()}
}

// Create registers user unless the stub has an explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.UserRepository.Create(ctx, user)
}

// GetByEmail fetches user by email unless the stub has an explicit error.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.UserRepository.GetByEmail(ctx, email)
}

// GetByID fetches user by identifier unless the stub has an explicit error.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.UserRepository.GetByID(ctx, id)
}

// OrderRepositoryStub delegates to an embedded repository unless an override is set.
type OrderRepositoryStub struct {
	repository.OrderRepository

	CreateFn func(context.Context, *model.Order, model.ActionLogEntry) error
	UpdateFn func(context.Context, int64, repository.Mutation) (*model.Order, error)
	DeleteFn func(context.Context, int64, func(*model.Order) error) (*model.Order, error)
	ListFn   func(context.Context, repository.OrderFilter) ([]model.Order, error)
	LogsFn   func(context.Context, int64) ([]model.ActionLogEntry, error)
}

// NewOrderRepositoryStub constructs stub backed by an in-memory store.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{OrderRepository: memory.New().Orders()}
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, entry model.ActionLogEntry) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, entry)
	}
	return s.OrderRepository.Create(ctx, order, entry)
}

func (s *OrderRepositoryStub) Update(ctx context.Context, id int64, fn repository.Mutation) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, fn)
	}
	return s.OrderRepository.Update(ctx, id, fn)
}

func (s *OrderRepositoryStub) Delete(ctx context.Context, id int64, check func(*model.Order) error) (*model.Order, error) {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id, check)
	}
	return s.OrderRepository.Delete(ctx, id, check)
}

func (s *OrderRepositoryStub) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	return s.OrderRepository.List(ctx, filter)
}

func (s *OrderRepositoryStub) Logs(ctx context.Context, id int64) ([]model.ActionLogEntry, error) {
	if s.LogsFn != nil {
		return s.LogsFn(ctx, id)
	}
	return s.OrderRepository.Logs(ctx, id)
}

var _ repository.UserRepository = (*UserRepositoryStub)(nil)
var _ repository.OrderRepository = (*OrderRepositoryStub)(nil)
