package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
)

// Order is the aggregate tracked through the delivery pipeline.
//
// Mutations go through the methods below; each checks authorization before stage
// preconditions and leaves the order untouched on failure.
type Order struct {
	ID              int64
	OrderID         string
	Items           []string
	Stage           Stage
	BuyerID         *int64
	SellerID        *int64
	PlacedBy        int64
	StageTimestamps StageTimestamps
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrderID returns a fresh human-facing order identifier.
func NewOrderID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(raw[:12])
}

// NewOrder places an order on behalf of owner.
func NewOrder(items []string, owner Identity, now time.Time) (*Order, error) {
	if !(Policy{}).Permits(TransitionCreate, owner.Role) {
		return nil, domainErrors.Forbidden("role %q may not place orders", owner.Role)
	}

	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	if len(cleaned) == 0 {
		return nil, domainErrors.Validation("order must contain at least one item")
	}

	return &Order{
		OrderID:         NewOrderID(),
		Items:           cleaned,
		Stage:           StagePlaced,
		PlacedBy:        owner.ID,
		StageTimestamps: StageTimestamps{StagePlaced: now},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// AssociateBuyer attaches a buyer and moves the order to BuyerAssociated.
func (o *Order) AssociateBuyer(buyerID int64, actor Identity, now time.Time) error {
	if !(Policy{}).Permits(TransitionAssociateBuyer, actor.Role) {
		return domainErrors.Forbidden("only admins may associate a buyer")
	}
	if o.Stage != StagePlaced {
		return domainErrors.Stage("buyer can only be associated while the order is %q, it is %q", StagePlaced, o.Stage)
	}

	o.BuyerID = &buyerID
	o.enter(StageBuyerAssociated, now)
	return nil
}

// AssociateSeller attaches a seller. The stage is left unchanged; the seller advances it explicitly.
func (o *Order) AssociateSeller(sellerID int64, actor Identity, now time.Time) error {
	if !(Policy{}).Permits(TransitionAssociateSeller, actor.Role) {
		return domainErrors.Forbidden("only admins may associate a seller")
	}
	if o.Stage != StageBuyerAssociated {
		return domainErrors.Stage("seller can only be associated while the order is %q, it is %q", StageBuyerAssociated, o.Stage)
	}
	if o.SellerID != nil {
		return domainErrors.Stage("order already has a seller")
	}

	o.SellerID = &sellerID
	o.touch(now)
	return nil
}

// Advance moves the order to the next pipeline stage and returns it.
func (o *Order) Advance(actor Identity, policy Policy, now time.Time) (Stage, error) {
	if !policy.Permits(TransitionAdvance, actor.Role) {
		return o.Stage, domainErrors.Forbidden("role %q may not advance orders", actor.Role)
	}
	if actor.Is(RoleSeller) && !o.SoldBy(actor.ID) {
		return o.Stage, domainErrors.Forbidden("order is not assigned to this seller")
	}
	next, ok := o.Stage.Next()
	if !ok {
		return o.Stage, domainErrors.Stage("order is already %q", o.Stage)
	}
	if o.SellerID == nil {
		return o.Stage, domainErrors.Stage("order has no seller yet")
	}

	o.enter(next, now)
	return next, nil
}

// AuthorizeDelete checks whether actor may remove the order.
func (o *Order) AuthorizeDelete(actor Identity, policy Policy) error {
	if !policy.Permits(TransitionDelete, actor.Role) {
		return domainErrors.Forbidden("role %q may not delete orders", actor.Role)
	}
	if actor.Is(RoleSeller) && !o.SoldBy(actor.ID) {
		return domainErrors.Forbidden("order is not assigned to this seller")
	}
	if policy.DeleteBeforeDeliveredOnly && o.Stage.IsTerminal() {
		return domainErrors.Stage("delivered orders cannot be deleted")
	}
	return nil
}

// SoldBy reports whether sellerID is the order's seller.
func (o *Order) SoldBy(sellerID int64) bool {
	return o.SellerID != nil && *o.SellerID == sellerID
}

// BoughtBy reports whether buyerID placed the order or is associated to it.
func (o *Order) BoughtBy(buyerID int64) bool {
	return o.PlacedBy == buyerID || (o.BuyerID != nil && *o.BuyerID == buyerID)
}

// VisibleTo reports whether the identity may read the order.
func (o *Order) VisibleTo(id Identity) bool {
	switch id.Role {
	case RoleAdmin:
		return true
	case RoleSeller:
		return o.SoldBy(id.ID)
	case RoleBuyer:
		return o.BoughtBy(id.ID)
	}
	return false
}

// Clone returns a deep copy safe to hand to other goroutines.
func (o *Order) Clone() Order {
	c := *o
	c.Items = append([]string(nil), o.Items...)
	if o.BuyerID != nil {
		id := *o.BuyerID
		c.BuyerID = &id
	}
	if o.SellerID != nil {
		id := *o.SellerID
		c.SellerID = &id
	}
	c.StageTimestamps = make(StageTimestamps, len(o.StageTimestamps))
	for k, v := range o.StageTimestamps {
		c.StageTimestamps[k] = v
	}
	return c
}

// enter stamps the stage at the order's effective mutation time.
func (o *Order) enter(stage Stage, now time.Time) {
	now = o.effective(now)
	if o.StageTimestamps == nil {
		o.StageTimestamps = StageTimestamps{}
	}
	o.Stage = stage
	o.StageTimestamps[stage] = now
	o.touch(now)
}

func (o *Order) touch(now time.Time) {
	o.UpdatedAt = o.effective(now)
	o.Version++
}

// effective clamps now so mutation times never go backwards for one order.
// UpdatedAt is never earlier than any stage timestamp.
func (o *Order) effective(now time.Time) time.Time {
	if now.Before(o.UpdatedAt) {
		return o.UpdatedAt
	}
	return now
}
