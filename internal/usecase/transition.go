package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
)

// EventSink receives change events once the transition that produced them is durable.
type EventSink interface {
	Enqueue(event model.ChangeEvent)
}

// OrderUseCase is the single entry point for order transitions and reads.
//
// Every transition on an existing order runs under that order's lock:
// authorization, mutation and log append commit together, and the change
// event is handed to the sink before the lock is released so sinks observe
// events for one order in commit order.
type OrderUseCase struct {
	orders repository.OrderRepository
	users  repository.UserRepository
	events EventSink
	policy model.Policy
	locks  *keyedLocker
	now    func() time.Time
	logger *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, users repository.UserRepository, events EventSink, policy model.Policy, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{
		orders: orders,
		users:  users,
		events: events,
		policy: policy,
		locks:  newKeyedLocker(),
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With("component", "transition_engine"),
	}
}

// Create places a new order on behalf of a buyer.
func (u *OrderUseCase) Create(ctx context.Context, actor model.Identity, items []string) (*model.Order, error) {
	if !u.policy.Permits(model.TransitionCreate, actor.Role) {
		return nil, domainErrors.Forbidden("role %q may not place orders", actor.Role)
	}

	now := u.now()
	order, err := model.NewOrder(items, actor, now)
	if err != nil {
		return nil, err
	}

	// The key is locked before the order becomes visible so its placement
	// event is handed off ahead of any later transition.
	key, err := u.orders.NextKey(ctx)
	if err != nil {
		return nil, err
	}
	unlock := u.locks.Lock(key)
	defer unlock()

	order.ID = key
	if err := u.orders.Create(ctx, order, model.NewLogEntry(order, model.ActionPlaced, actor, now)); err != nil {
		return nil, err
	}

	u.logger.InfoContext(ctx, "order placed", "order", order.OrderID, "actor", actor.ID)
	u.emit(model.EventOrderChanged, order)
	return order, nil
}

// AssociateBuyer attaches buyerID to a placed order.
func (u *OrderUseCase) AssociateBuyer(ctx context.Context, actor model.Identity, key, buyerID int64) (*model.Order, error) {
	if !u.policy.Permits(model.TransitionAssociateBuyer, actor.Role) {
		return nil, domainErrors.Forbidden("only admins may associate a buyer")
	}
	if err := u.requireParticipant(ctx, buyerID, model.RoleBuyer); err != nil {
		return nil, err
	}

	return u.transition(ctx, key, func(o *model.Order, now time.Time) (string, error) {
		if err := o.AssociateBuyer(buyerID, actor, now); err != nil {
			return "", err
		}
		return model.ActionBuyerAssociated, nil
	}, actor)
}

// AssociateSeller attaches sellerID to an order that already has a buyer.
func (u *OrderUseCase) AssociateSeller(ctx context.Context, actor model.Identity, key, sellerID int64) (*model.Order, error) {
	if !u.policy.Permits(model.TransitionAssociateSeller, actor.Role) {
		return nil, domainErrors.Forbidden("only admins may associate a seller")
	}
	if err := u.requireParticipant(ctx, sellerID, model.RoleSeller); err != nil {
		return nil, err
	}

	return u.transition(ctx, key, func(o *model.Order, now time.Time) (string, error) {
		if err := o.AssociateSeller(sellerID, actor, now); err != nil {
			return "", err
		}
		return model.ActionSellerAssociated, nil
	}, actor)
}

// Advance moves the order to its next stage.
func (u *OrderUseCase) Advance(ctx context.Context, actor model.Identity, key int64) (*model.Order, error) {
	if !u.policy.Permits(model.TransitionAdvance, actor.Role) {
		return nil, domainErrors.Forbidden("role %q may not advance orders", actor.Role)
	}

	return u.transition(ctx, key, func(o *model.Order, now time.Time) (string, error) {
		next, err := o.Advance(actor, u.policy, now)
		if err != nil {
			return "", err
		}
		return model.ActionAdvanced(next), nil
	}, actor)
}

// Delete removes the order together with its action log.
func (u *OrderUseCase) Delete(ctx context.Context, actor model.Identity, key int64) error {
	if !u.policy.Permits(model.TransitionDelete, actor.Role) {
		return domainErrors.Forbidden("role %q may not delete orders", actor.Role)
	}

	unlock := u.locks.Lock(key)
	defer unlock()

	deleted, err := u.orders.Delete(ctx, key, func(o *model.Order) error {
		return o.AuthorizeDelete(actor, u.policy)
	})
	if err != nil {
		return err
	}

	u.logger.InfoContext(ctx, "order deleted", "order", deleted.OrderID, "actor", actor.ID)
	u.emit(model.EventOrderDeleted, deleted)
	return nil
}

type mutation func(o *model.Order, now time.Time) (action string, err error)

func (u *OrderUseCase) transition(ctx context.Context, key int64, apply mutation, actor model.Identity) (*model.Order, error) {
	unlock := u.locks.Lock(key)
	defer unlock()

	now := u.now()
	order, err := u.orders.Update(ctx, key, func(o *model.Order) (model.ActionLogEntry, error) {
		action, err := apply(o, now)
		if err != nil {
			return model.ActionLogEntry{}, err
		}
		return model.NewLogEntry(o, action, actor, o.UpdatedAt), nil
	})
	if err != nil {
		u.logRejection(ctx, key, actor, err)
		return nil, err
	}

	u.logger.InfoContext(ctx, "order transitioned", "order", order.OrderID, "stage", order.Stage.String(), "version", order.Version, "actor", actor.ID)
	u.emit(model.EventOrderChanged, order)
	return order, nil
}

func (u *OrderUseCase) emit(kind model.EventKind, order *model.Order) {
	if u.events == nil {
		return
	}
	u.events.Enqueue(model.NewChangeEvent(kind, order))
}

func (u *OrderUseCase) requireParticipant(ctx context.Context, id int64, role model.Role) error {
	user, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.NotFound("%s %d does not exist", role, id)
		}
		return err
	}
	if user.Role != role {
		return domainErrors.Validation("user %d is a %s, not a %s", id, user.Role, role)
	}
	return nil
}

func (u *OrderUseCase) logRejection(ctx context.Context, key int64, actor model.Identity, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrForbidden),
		errors.Is(err, domainErrors.ErrStage),
		errors.Is(err, domainErrors.ErrValidation),
		errors.Is(err, domainErrors.ErrNotFound):
		u.logger.DebugContext(ctx, "transition rejected", "order_key", key, "actor", actor.ID, "reason", err.Error())
	default:
		u.logger.ErrorContext(ctx, "transition failed", "order_key", key, "actor", actor.ID, "error", err)
	}
}
