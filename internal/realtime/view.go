package realtime

import (
	"sort"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// View is a viewer's local order collection indexed by order key, kept
// current by applying order-changed and order-deleted frames from the push channel.
// It is not safe for concurrent use; each connection owns one.
type View struct {
	orders map[int64]model.Order
	// gone remembers deleted keys so a late snapshot cannot resurrect them.
	gone map[int64]struct{}
}

// NewView seeds a view with a freshly fetched order list.
func NewView(orders []model.Order) *View {
	v := &View{
		orders: make(map[int64]model.Order, len(orders)),
		gone:   make(map[int64]struct{}),
	}
	for _, o := range orders {
		v.orders[o.ID] = o.Clone()
	}
	return v
}

// Apply reconciles event into the view and reports whether it changed.
// A changed order replaces the held copy unless the held copy is newer;
// a deleted order is removed. Applying the same event twice is a no-op.
func (v *View) Apply(event model.ChangeEvent) bool {
	key := event.Order.ID
	held, ok := v.orders[key]

	switch event.Kind {
	case model.EventOrderDeleted:
		v.gone[key] = struct{}{}
		if !ok {
			return false
		}
		delete(v.orders, key)
		return true
	case model.EventOrderChanged:
		if _, deleted := v.gone[key]; deleted {
			return false
		}
		if ok && held.Version >= event.Order.Version {
			return false
		}
		v.orders[key] = event.Order.Clone()
		return true
	}
	return false
}

// Get returns the held copy of an order.
func (v *View) Get(key int64) (model.Order, bool) {
	o, ok := v.orders[key]
	return o, ok
}

// Len returns the number of held orders.
func (v *View) Len() int {
	return len(v.orders)
}

// Orders returns the held orders, newest first.
func (v *View) Orders() []model.Order {
	out := make([]model.Order, 0, len(v.orders))
	for _, o := range v.orders {
		out = append(out, o.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
