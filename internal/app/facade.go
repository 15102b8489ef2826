package app

import (
	"context"

	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
	"github.com/polkiloo/ordertrack/internal/realtime"
	"github.com/polkiloo/ordertrack/internal/usecase"
)

// TrackingFacade adapts the use cases to the operations the HTTP layer consumes.
type TrackingFacade struct {
	auth    *usecase.AuthUseCase
	orders  *usecase.OrderUseCase
	hub     *realtime.Hub
	storage repository.Factory
}

func NewTrackingFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, hub *realtime.Hub, storage repository.Factory) *TrackingFacade {
	return &TrackingFacade{auth: auth, orders: orders, hub: hub, storage: storage}
}

func (f *TrackingFacade) Register(ctx context.Context, name, email, password string, role model.Role) (*model.User, string, error) {
	return f.auth.Register(ctx, usecase.Registration{Name: name, Email: email, Password: password, Role: role})
}

func (f *TrackingFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *TrackingFacade) Identify(ctx context.Context, token string) (model.Identity, error) {
	return f.auth.Identify(ctx, token)
}

func (f *TrackingFacade) CreateOrder(ctx context.Context, actor model.Identity, items []string) (*model.Order, error) {
	return f.orders.Create(ctx, actor, items)
}

func (f *TrackingFacade) AssociateBuyer(ctx context.Context, actor model.Identity, key, buyerID int64) (*model.Order, error) {
	return f.orders.AssociateBuyer(ctx, actor, key, buyerID)
}

func (f *TrackingFacade) AssociateSeller(ctx context.Context, actor model.Identity, key, sellerID int64) (*model.Order, error) {
	return f.orders.AssociateSeller(ctx, actor, key, sellerID)
}

func (f *TrackingFacade) AdvanceStage(ctx context.Context, actor model.Identity, key int64) (*model.Order, error) {
	return f.orders.Advance(ctx, actor, key)
}

func (f *TrackingFacade) DeleteOrder(ctx context.Context, actor model.Identity, key int64) error {
	return f.orders.Delete(ctx, actor, key)
}

func (f *TrackingFacade) BuyerOrder(ctx context.Context, actor model.Identity) (*model.Order, error) {
	return f.orders.BuyerOrder(ctx, actor)
}

func (f *TrackingFacade) SellerOrders(ctx context.Context, actor model.Identity) ([]model.Order, error) {
	return f.orders.SellerOrders(ctx, actor)
}

func (f *TrackingFacade) AllOrders(ctx context.Context, actor model.Identity) ([]model.Order, error) {
	return f.orders.AllOrders(ctx, actor)
}

func (f *TrackingFacade) OrderDetails(ctx context.Context, actor model.Identity, key int64) (*model.OrderDetails, error) {
	return f.orders.Details(ctx, actor, key)
}

func (f *TrackingFacade) Stats(ctx context.Context, actor model.Identity) (model.DerivedStats, error) {
	return f.orders.Stats(ctx, actor)
}

// Subscribe opens a push subscription; cancel releases it.
func (f *TrackingFacade) Subscribe(identity model.Identity) (<-chan model.ChangeEvent, func()) {
	sub := f.hub.Subscribe(identity)
	return sub.Events(), sub.Close
}

func (f *TrackingFacade) HealthCheck(ctx context.Context) error {
	return f.storage.HealthCheck(ctx)
}
