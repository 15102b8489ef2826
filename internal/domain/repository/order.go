package repository

import (
	"context"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// Mutation changes a locked order in place and returns the log entry describing the change.
// Returning an error aborts the update without persisting anything.
type Mutation func(order *model.Order) (model.ActionLogEntry, error)

// OrderRepository persists orders together with their action logs.
type OrderRepository interface {
	// NextKey reserves an unused internal key.
	NextKey(ctx context.Context) (int64, error)
	// Create stores a new order and its first log entry atomically. A zero order.ID is assigned.
	Create(ctx context.Context, order *model.Order, entry model.ActionLogEntry) error
	// Get returns the order with the given internal key.
	Get(ctx context.Context, id int64) (*model.Order, error)
	// Update locks the order, applies fn and stores the result with the returned entry atomically.
	Update(ctx context.Context, id int64, fn Mutation) (*model.Order, error)
	// Delete removes the order and its log atomically after check approves the locked order.
	Delete(ctx context.Context, id int64, check func(*model.Order) error) (*model.Order, error)
	// List returns orders newest first, optionally filtered.
	List(ctx context.Context, filter OrderFilter) ([]model.Order, error)
	// Logs returns the order's action log ordered by timestamp ascending.
	Logs(ctx context.Context, id int64) ([]model.ActionLogEntry, error)
}

// OrderFilter narrows List. Zero value lists everything.
type OrderFilter struct {
	// BuyerID matches orders placed by or associated to the buyer.
	BuyerID  *int64
	SellerID *int64
	Limit    int
}
