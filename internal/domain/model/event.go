package model

// EventKind distinguishes pushes that replace an order from pushes that remove it.
type EventKind string

const (
	EventOrderChanged EventKind = "order-changed"
	EventOrderDeleted EventKind = "order-deleted"
)

// Audience is the set of identities entitled to a change event.
type Audience struct {
	Identities []int64
	AllAdmins  bool
}

// Includes reports whether identity id is addressed directly.
func (a Audience) Includes(id int64) bool {
	for _, candidate := range a.Identities {
		if candidate == id {
			return true
		}
	}
	return false
}

// ChangeEvent is emitted after every committed transition.
type ChangeEvent struct {
	Kind     EventKind
	Order    Order
	Affected Audience
}

// AudienceOf returns the buyer who placed the order, the associated buyer and
// seller (when set), plus all admins.
func AudienceOf(o *Order) Audience {
	a := Audience{AllAdmins: true}
	add := func(id int64) {
		if id != 0 && !a.Includes(id) {
			a.Identities = append(a.Identities, id)
		}
	}
	add(o.PlacedBy)
	if o.BuyerID != nil {
		add(*o.BuyerID)
	}
	if o.SellerID != nil {
		add(*o.SellerID)
	}
	return a
}

// NewChangeEvent snapshots the order into an event of the given kind.
func NewChangeEvent(kind EventKind, o *Order) ChangeEvent {
	return ChangeEvent{Kind: kind, Order: o.Clone(), Affected: AudienceOf(o)}
}
