package test

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// Identities used across HTTP tests. Tokens are "token-<id>".
var (
	Buyer  = model.Identity{ID: 1, Name: "Ann", Email: "ann@example.com", Role: model.RoleBuyer}
	Seller = model.Identity{ID: 2, Name: "Sam", Email: "sam@example.com", Role: model.RoleSeller}
	Admin  = model.Identity{ID: 3, Name: "Root", Email: "root@example.com", Role: model.RoleAdmin}
)

// SampleOrder returns a placed order owned by Buyer.
func SampleOrder(key int64) *model.Order {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Order{
		ID:              key,
		OrderID:         "ORD-00000000000A",
		Items:           []string{"A", "B"},
		Stage:           model.StagePlaced,
		PlacedBy:        Buyer.ID,
		StageTimestamps: model.StageTimestamps{model.StagePlaced: at},
		Version:         1,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
}

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string, string, model.Role) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	IdentifyFn     func(context.Context, string) (model.Identity, error)
}

// Register returns a user with the requested fields.
func (s AuthFacadeStub) Register(ctx context.Context, name, email, password string, role model.Role) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, name, email, password, role)
	}
	return &model.User{ID: 10, Name: name, Email: email, Role: role}, "token-10", nil
}

// Authenticate returns Buyer for any credentials.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return &model.User{ID: Buyer.ID, Name: Buyer.Name, Email: Buyer.Email, Role: Buyer.Role}, "token-1", nil
}

// Identify maps token-1, token-2 and token-3 to Buyer, Seller and Admin.
func (s AuthFacadeStub) Identify(ctx context.Context, token string) (model.Identity, error) {
	if s.IdentifyFn != nil {
		return s.IdentifyFn(ctx, token)
	}
	switch token {
	case "token-1":
		return Buyer, nil
	case "token-2":
		return Seller, nil
	case "token-3":
		return Admin, nil
	}
	return model.Identity{}, domainErrors.ErrUnauthenticated
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn          func(context.Context, model.Identity, []string) (*model.Order, error)
	AssociateBuyerFn  func(context.Context, model.Identity, int64, int64) (*model.Order, error)
	AssociateSellerFn func(context.Context, model.Identity, int64, int64) (*model.Order, error)
	AdvanceFn         func(context.Context, model.Identity, int64) (*model.Order, error)
	DeleteFn          func(context.Context, model.Identity, int64) error
	BuyerOrderFn      func(context.Context, model.Identity) (*model.Order, error)
	SellerOrdersFn    func(context.Context, model.Identity) ([]model.Order, error)
	AllOrdersFn       func(context.Context, model.Identity) ([]model.Order, error)
	DetailsFn         func(context.Context, model.Identity, int64) (*model.OrderDetails, error)
	StatsFn           func(context.Context, model.Identity) (model.DerivedStats, error)
}

func (s OrderFacadeStub) CreateOrder(ctx context.Context, actor model.Identity, items []string) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, actor, items)
	}
	order := SampleOrder(1)
	order.Items = items
	return order, nil
}

func (s OrderFacadeStub) AssociateBuyer(ctx context.Context, actor model.Identity, key, buyerID int64) (*model.Order, error) {
	if s.AssociateBuyerFn != nil {
		return s.AssociateBuyerFn(ctx, actor, key, buyerID)
	}
	order := SampleOrder(key)
	order.BuyerID = &buyerID
	order.Stage = model.StageBuyerAssociated
	return order, nil
}

func (s OrderFacadeStub) AssociateSeller(ctx context.Context, actor model.Identity, key, sellerID int64) (*model.Order, error) {
	if s.AssociateSellerFn != nil {
		return s.AssociateSellerFn(ctx, actor, key, sellerID)
	}
	order := SampleOrder(key)
	order.SellerID = &sellerID
	order.Stage = model.StageBuyerAssociated
	return order, nil
}

func (s OrderFacadeStub) AdvanceStage(ctx context.Context, actor model.Identity, key int64) (*model.Order, error) {
	if s.AdvanceFn != nil {
		return s.AdvanceFn(ctx, actor, key)
	}
	order := SampleOrder(key)
	order.Stage = model.StageProcessing
	return order, nil
}

func (s OrderFacadeStub) DeleteOrder(ctx context.Context, actor model.Identity, key int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, actor, key)
	}
	return nil
}

func (s OrderFacadeStub) BuyerOrder(ctx context.Context, actor model.Identity) (*model.Order, error) {
	if s.BuyerOrderFn != nil {
		return s.BuyerOrderFn(ctx, actor)
	}
	return SampleOrder(1), nil
}

func (s OrderFacadeStub) SellerOrders(ctx context.Context, actor model.Identity) ([]model.Order, error) {
	if s.SellerOrdersFn != nil {
		return s.SellerOrdersFn(ctx, actor)
	}
	return []model.Order{*SampleOrder(1)}, nil
}

func (s OrderFacadeStub) AllOrders(ctx context.Context, actor model.Identity) ([]model.Order, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx, actor)
	}
	return []model.Order{*SampleOrder(2), *SampleOrder(1)}, nil
}

func (s OrderFacadeStub) OrderDetails(ctx context.Context, actor model.Identity, key int64) (*model.OrderDetails, error) {
	if s.DetailsFn != nil {
		return s.DetailsFn(ctx, actor, key)
	}
	order := SampleOrder(key)
	return &model.OrderDetails{
		Order: *order,
		Logs: []model.ActionLogEntry{{
			ID: 1, OrderKey: key, Action: model.ActionPlaced,
			Actor: model.ActorOf(Buyer), Timestamp: order.CreatedAt,
		}},
	}, nil
}

func (s OrderFacadeStub) Stats(ctx context.Context, actor model.Identity) (model.DerivedStats, error) {
	if s.StatsFn != nil {
		return s.StatsFn(ctx, actor)
	}
	return model.DerivedStats{TotalOrders: 1, OrdersByStage: []model.StageCount{{Stage: model.StagePlaced, Count: 1}}}, nil
}

// EventFacadeStub hands out a caller-controlled channel.
type EventFacadeStub struct {
	SubscribeFn func(model.Identity) (<-chan model.ChangeEvent, func())
}

func (s EventFacadeStub) Subscribe(identity model.Identity) (<-chan model.ChangeEvent, func()) {
	if s.SubscribeFn != nil {
		return s.SubscribeFn(identity)
	}
	ch := make(chan model.ChangeEvent)
	close(ch)
	return ch, func() {}
}

// HealthFacadeStub returns Err from HealthCheck.
type HealthFacadeStub struct {
	Err error
}

func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// TrackingFacadeStub aggregates facade dependencies for HTTP layer tests.
type TrackingFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	EventFacadeStub
	HealthFacadeStub
}

// ErrBoom is a generic infrastructure failure for tests.
var ErrBoom = errors.New("boom")
