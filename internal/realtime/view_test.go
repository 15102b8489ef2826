package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

func TestViewApplyInsertsAndReplaces(t *testing.T) {
	view := NewView(nil)

	first := orderFor(1, 1, nil, nil)
	assert.True(t, view.Apply(changed(first)))
	assert.Equal(t, 1, view.Len())

	next := orderFor(1, 2, nil, nil)
	next.Stage = model.StageProcessing
	assert.True(t, view.Apply(changed(next)))
	assert.Equal(t, 1, view.Len(), "same order must be replaced, not inserted twice")

	got, ok := view.Get(1)
	require.True(t, ok)
	assert.Equal(t, model.StageProcessing, got.Stage)
}

func TestViewApplyIsIdempotent(t *testing.T) {
	seed := orderFor(2, 1, nil, nil)
	view := NewView([]model.Order{seed})

	ev := changed(orderFor(2, 3, nil, nil))
	assert.True(t, view.Apply(ev))
	before := view.Orders()

	assert.False(t, view.Apply(ev))
	assert.Equal(t, before, view.Orders())
}

func TestViewIgnoresStaleSnapshots(t *testing.T) {
	view := NewView([]model.Order{orderFor(3, 5, nil, nil)})
	assert.False(t, view.Apply(changed(orderFor(3, 4, nil, nil))))

	got, _ := view.Get(3)
	assert.Equal(t, int64(5), got.Version)
}

func TestViewDelete(t *testing.T) {
	o := orderFor(4, 2, nil, nil)
	view := NewView([]model.Order{o})

	deleted := model.NewChangeEvent(model.EventOrderDeleted, &o)
	assert.True(t, view.Apply(deleted))
	assert.False(t, view.Apply(deleted))
	assert.Equal(t, 0, view.Len())

	assert.False(t, view.Apply(changed(orderFor(4, 3, nil, nil))), "deleted orders stay deleted")
	_, ok := view.Get(4)
	assert.False(t, ok)
}

func TestViewOrdersNewestFirstAndDetached(t *testing.T) {
	older := orderFor(5, 1, nil, nil)
	newer := orderFor(6, 1, nil, nil)
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	view := NewView([]model.Order{older, newer})

	orders := view.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, int64(6), orders[0].ID)

	orders[0].Items[0] = "mutated"
	held, _ := view.Get(6)
	assert.Equal(t, "A", held.Items[0])
}
