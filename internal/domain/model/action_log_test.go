package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

func TestStageDurationsAreAdditive(t *testing.T) {
	o := fullyAssociated(t)
	at := t0.Add(time.Hour)
	for i := 0; i < 3; i++ {
		at = at.Add(time.Duration(i+1) * 17 * time.Minute)
		_, err := o.Advance(seller, model.Policy{}, at)
		require.NoError(t, err)
	}

	durations := o.StageDurations()
	require.Len(t, durations, 4)
	assert.Equal(t, "Order Placed -> Buyer Associated", durations[0].Key())
	assert.Equal(t, "Packed -> Shipped", durations[3].Key())

	var total time.Duration
	for _, d := range durations {
		total += d.Elapsed
	}
	assert.Equal(t, o.StageTimestamps[model.StageShipped].Sub(o.StageTimestamps[model.StagePlaced]), total)
}

func TestStageDurationsOmitUnreachedStages(t *testing.T) {
	o, err := model.NewOrder([]string{"A"}, buyer, t0)
	require.NoError(t, err)

	assert.Empty(t, o.StageDurations())
}

func TestNewLogEntry(t *testing.T) {
	o := fullyAssociated(t)
	o.ID = 9

	entry := model.NewLogEntry(o, model.ActionAdvanced(model.StagePacked), seller, t0)

	assert.EqualValues(t, 9, entry.OrderKey)
	assert.Equal(t, "stage advanced to Packed", entry.Action)
	assert.Equal(t, model.Actor{ID: seller.ID, Name: seller.Name, Role: model.RoleSeller}, entry.Actor)
	assert.Equal(t, t0, entry.Timestamp)
}

func TestAudienceOf(t *testing.T) {
	placed, err := model.NewOrder([]string{"A"}, buyer, t0)
	require.NoError(t, err)

	audience := model.AudienceOf(placed)
	assert.True(t, audience.AllAdmins)
	assert.Equal(t, []int64{buyer.ID}, audience.Identities)

	o := fullyAssociated(t)
	event := model.NewChangeEvent(model.EventOrderChanged, o)
	assert.ElementsMatch(t, []int64{buyer.ID, seller.ID}, event.Affected.Identities)
	assert.True(t, event.Affected.Includes(seller.ID))
	assert.False(t, event.Affected.Includes(admin.ID))

	o.Items[0] = "mutated"
	assert.Equal(t, "A", event.Order.Items[0], "event must carry a snapshot")
}
