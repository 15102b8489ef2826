package usecase

import (
	"context"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
)

// BuyerOrder returns the most recent order placed by or assigned to the buyer.
func (u *OrderUseCase) BuyerOrder(ctx context.Context, actor model.Identity) (*model.Order, error) {
	if !actor.Is(model.RoleBuyer) {
		return nil, domainErrors.Forbidden("only buyers have a current order")
	}
	orders, err := u.orders.List(ctx, repository.OrderFilter{BuyerID: &actor.ID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domainErrors.NotFound("buyer %d has no orders", actor.ID)
	}
	return &orders[0], nil
}

// SellerOrders lists orders assigned to the seller, newest first.
func (u *OrderUseCase) SellerOrders(ctx context.Context, actor model.Identity) ([]model.Order, error) {
	if !actor.Is(model.RoleSeller) {
		return nil, domainErrors.Forbidden("only sellers have assigned orders")
	}
	return u.orders.List(ctx, repository.OrderFilter{SellerID: &actor.ID})
}

// AllOrders lists every order, newest first.
func (u *OrderUseCase) AllOrders(ctx context.Context, actor model.Identity) ([]model.Order, error) {
	if !actor.Is(model.RoleAdmin) {
		return nil, domainErrors.Forbidden("only admins may list all orders")
	}
	return u.orders.List(ctx, repository.OrderFilter{})
}

// Details returns the order with stage durations and log entries.
func (u *OrderUseCase) Details(ctx context.Context, actor model.Identity, key int64) (*model.OrderDetails, error) {
	order, err := u.orders.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !order.VisibleTo(actor) {
		return nil, domainErrors.Forbidden("order is not visible to this identity")
	}

	logs, err := u.orders.Logs(ctx, key)
	if err != nil {
		return nil, err
	}

	return &model.OrderDetails{
		Order:     *order,
		Durations: order.StageDurations(),
		Logs:      logs,
	}, nil
}

// Stats aggregates the current order set for the admin dashboard.
func (u *OrderUseCase) Stats(ctx context.Context, actor model.Identity) (model.DerivedStats, error) {
	if !actor.Is(model.RoleAdmin) {
		return model.DerivedStats{}, domainErrors.Forbidden("only admins may view stats")
	}
	return u.Snapshot(ctx)
}

// Snapshot computes stats without an acting identity, for background reporting.
func (u *OrderUseCase) Snapshot(ctx context.Context) (model.DerivedStats, error) {
	orders, err := u.orders.List(ctx, repository.OrderFilter{})
	if err != nil {
		return model.DerivedStats{}, err
	}
	return ComputeStats(orders), nil
}
