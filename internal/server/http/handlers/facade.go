package handlers

import (
	"context"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, name, email, password string, role model.Role) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	Identify(ctx context.Context, token string) (model.Identity, error)
}

// OrderFacade exposes order transitions and reads. Every call takes the acting identity explicitly.
type OrderFacade interface {
	CreateOrder(ctx context.Context, actor model.Identity, items []string) (*model.Order, error)
	AssociateBuyer(ctx context.Context, actor model.Identity, key, buyerID int64) (*model.Order, error)
	AssociateSeller(ctx context.Context, actor model.Identity, key, sellerID int64) (*model.Order, error)
	AdvanceStage(ctx context.Context, actor model.Identity, key int64) (*model.Order, error)
	DeleteOrder(ctx context.Context, actor model.Identity, key int64) error
	BuyerOrder(ctx context.Context, actor model.Identity) (*model.Order, error)
	SellerOrders(ctx context.Context, actor model.Identity) ([]model.Order, error)
	AllOrders(ctx context.Context, actor model.Identity) ([]model.Order, error)
	OrderDetails(ctx context.Context, actor model.Identity, key int64) (*model.OrderDetails, error)
	Stats(ctx context.Context, actor model.Identity) (model.DerivedStats, error)
}

// EventFacade opens push subscriptions.
type EventFacade interface {
	Subscribe(identity model.Identity) (events <-chan model.ChangeEvent, cancel func())
}

// HealthFacade reports storage availability.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// TrackingFacade aggregates the full set of operations used across handlers.
type TrackingFacade interface {
	AuthFacade
	OrderFacade
	EventFacade
	HealthFacade
}
