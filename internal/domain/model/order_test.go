package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
)

var (
	buyer  = model.Identity{ID: 1, Name: "Bea", Email: "bea@example.com", Role: model.RoleBuyer}
	seller = model.Identity{ID: 2, Name: "Sol", Email: "sol@example.com", Role: model.RoleSeller}
	admin  = model.Identity{ID: 3, Name: "Ada", Email: "ada@example.com", Role: model.RoleAdmin}
	t0     = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
)

// assertPrefixInvariant checks that stage timestamps cover exactly the stages up to the current one.
func assertPrefixInvariant(t *testing.T, o *model.Order) {
	t.Helper()
	require.Len(t, o.StageTimestamps, int(o.Stage)+1)
	var prev time.Time
	for _, stage := range model.Stages()[:o.Stage+1] {
		at, ok := o.StageTimestamps[stage]
		require.True(t, ok, "missing timestamp for %s", stage)
		assert.False(t, at.Before(prev), "timestamp for %s goes backwards", stage)
		prev = at
	}
}

func fullyAssociated(t *testing.T) *model.Order {
	t.Helper()
	o, err := model.NewOrder([]string{"A", "B"}, buyer, t0)
	require.NoError(t, err)
	require.NoError(t, o.AssociateBuyer(buyer.ID, admin, t0.Add(time.Minute)))
	require.NoError(t, o.AssociateSeller(seller.ID, admin, t0.Add(2*time.Minute)))
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("trims blank items", func(t *testing.T) {
		o, err := model.NewOrder([]string{" A ", "", "  ", "B"}, buyer, t0)

		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, o.Items)
		assert.Equal(t, model.StagePlaced, o.Stage)
		assert.Equal(t, buyer.ID, o.PlacedBy)
		assert.Nil(t, o.BuyerID)
		assert.Nil(t, o.SellerID)
		assert.Equal(t, t0, o.StageTimestamps[model.StagePlaced])
		assert.Regexp(t, `^ORD-[0-9A-F]{12}$`, o.OrderID)
		assert.EqualValues(t, 1, o.Version)
		assertPrefixInvariant(t, o)
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		o, err := model.NewOrder([]string{" ", ""}, buyer, t0)

		assert.Nil(t, o)
		assert.ErrorIs(t, err, domainErrors.ErrValidation)
	})

	t.Run("rejects non buyers", func(t *testing.T) {
		_, err := model.NewOrder([]string{"A"}, seller, t0)
		assert.ErrorIs(t, err, domainErrors.ErrForbidden)
	})
}

func TestAssociateBuyer(t *testing.T) {
	t.Run("advances exactly one stage", func(t *testing.T) {
		o, err := model.NewOrder([]string{"A"}, buyer, t0)
		require.NoError(t, err)

		require.NoError(t, o.AssociateBuyer(10, admin, t0.Add(time.Minute)))

		assert.Equal(t, model.StageBuyerAssociated, o.Stage)
		require.NotNil(t, o.BuyerID)
		assert.EqualValues(t, 10, *o.BuyerID)
		assert.Equal(t, t0.Add(time.Minute), o.UpdatedAt)
		assertPrefixInvariant(t, o)
	})

	t.Run("requires admin and leaves order untouched", func(t *testing.T) {
		o, err := model.NewOrder([]string{"A"}, buyer, t0)
		require.NoError(t, err)
		before := o.Clone()

		err = o.AssociateBuyer(10, seller, t0.Add(time.Minute))

		assert.ErrorIs(t, err, domainErrors.ErrForbidden)
		assert.Equal(t, before, o.Clone())
	})

	t.Run("fails outside Placed", func(t *testing.T) {
		o := fullyAssociated(t)
		before := o.Clone()

		err := o.AssociateBuyer(11, admin, t0.Add(time.Hour))

		assert.ErrorIs(t, err, domainErrors.ErrStage)
		assert.Equal(t, before, o.Clone())
	})
}

func TestAssociateSellerDoesNotAdvance(t *testing.T) {
	o := fullyAssociated(t)

	assert.Equal(t, model.StageBuyerAssociated, o.Stage)
	require.NotNil(t, o.SellerID)
	assert.Equal(t, seller.ID, *o.SellerID)
	assertPrefixInvariant(t, o)

	err := o.AssociateSeller(99, admin, t0.Add(time.Hour))
	assert.ErrorIs(t, err, domainErrors.ErrStage)

	fresh, err := model.NewOrder([]string{"A"}, buyer, t0)
	require.NoError(t, err)
	assert.ErrorIs(t, fresh.AssociateSeller(seller.ID, admin, t0), domainErrors.ErrStage)
	assert.ErrorIs(t, fresh.AssociateSeller(seller.ID, buyer, t0), domainErrors.ErrForbidden)
}

func TestAdvanceWalksPipeline(t *testing.T) {
	o := fullyAssociated(t)
	want := []model.Stage{
		model.StageProcessing,
		model.StagePacked,
		model.StageShipped,
		model.StageOutForDelivery,
		model.StageDelivered,
	}

	at := t0.Add(time.Hour)
	for _, stage := range want {
		got, err := o.Advance(seller, model.Policy{}, at)
		require.NoError(t, err)
		assert.Equal(t, stage, got)
		assertPrefixInvariant(t, o)
		at = at.Add(time.Hour)
	}

	before := o.Clone()
	_, err := o.Advance(seller, model.Policy{}, at)
	assert.ErrorIs(t, err, domainErrors.ErrStage)
	assert.Equal(t, before, o.Clone(), "failed advance must not touch the order")
}

func TestAdvanceAuthorization(t *testing.T) {
	o := fullyAssociated(t)

	_, err := o.Advance(admin, model.Policy{}, t0.Add(time.Hour))
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)

	other := model.Identity{ID: 77, Role: model.RoleSeller}
	_, err = o.Advance(other, model.Policy{}, t0.Add(time.Hour))
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)

	_, err = o.Advance(buyer, model.Policy{}, t0.Add(time.Hour))
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)

	stage, err := o.Advance(admin, model.Policy{AdminStageOverride: true}, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.StageProcessing, stage)
}

func TestAdvanceRequiresSeller(t *testing.T) {
	o, err := model.NewOrder([]string{"A"}, buyer, t0)
	require.NoError(t, err)
	require.NoError(t, o.AssociateBuyer(buyer.ID, admin, t0))

	_, err = o.Advance(admin, model.Policy{AdminStageOverride: true}, t0.Add(time.Minute))
	assert.ErrorIs(t, err, domainErrors.ErrStage)
}

func TestAdvanceClampsClockSkew(t *testing.T) {
	o := fullyAssociated(t)

	_, err := o.Advance(seller, model.Policy{}, t0.Add(-time.Hour))
	require.NoError(t, err)

	assert.Equal(t, t0.Add(2*time.Minute), o.StageTimestamps[model.StageProcessing])
	assert.Equal(t, o.UpdatedAt, o.StageTimestamps[model.StageProcessing])
	assertPrefixInvariant(t, o)
}

func TestAssociateSellerClampsClockSkew(t *testing.T) {
	o, err := model.NewOrder([]string{"A"}, buyer, t0)
	require.NoError(t, err)
	require.NoError(t, o.AssociateBuyer(buyer.ID, admin, t0.Add(time.Minute)))

	require.NoError(t, o.AssociateSeller(seller.ID, admin, t0.Add(-time.Hour)))

	assert.Equal(t, t0.Add(time.Minute), o.UpdatedAt)
	assert.Equal(t, int64(3), o.Version)
}

func TestAuthorizeDelete(t *testing.T) {
	o := fullyAssociated(t)

	assert.NoError(t, o.AuthorizeDelete(seller, model.Policy{}))
	assert.NoError(t, o.AuthorizeDelete(admin, model.Policy{}))
	assert.ErrorIs(t, o.AuthorizeDelete(buyer, model.Policy{}), domainErrors.ErrForbidden)
	assert.ErrorIs(t, o.AuthorizeDelete(model.Identity{ID: 50, Role: model.RoleSeller}, model.Policy{}), domainErrors.ErrForbidden)

	for i := 0; i < 5; i++ {
		_, err := o.Advance(seller, model.Policy{}, t0.Add(time.Hour))
		require.NoError(t, err)
	}
	assert.NoError(t, o.AuthorizeDelete(admin, model.Policy{}))
	assert.ErrorIs(t, o.AuthorizeDelete(admin, model.Policy{DeleteBeforeDeliveredOnly: true}), domainErrors.ErrStage)
}

func TestVisibility(t *testing.T) {
	o := fullyAssociated(t)

	assert.True(t, o.VisibleTo(admin))
	assert.True(t, o.VisibleTo(buyer))
	assert.True(t, o.VisibleTo(seller))
	assert.False(t, o.VisibleTo(model.Identity{ID: 50, Role: model.RoleSeller}))
	assert.False(t, o.VisibleTo(model.Identity{ID: 51, Role: model.RoleBuyer}))
}

func TestCloneIsDeep(t *testing.T) {
	o := fullyAssociated(t)
	c := o.Clone()

	c.Items[0] = "changed"
	*c.BuyerID = 500
	c.StageTimestamps[model.StagePacked] = t0

	assert.Equal(t, "A", o.Items[0])
	assert.Equal(t, buyer.ID, *o.BuyerID)
	_, ok := o.StageTimestamps[model.StagePacked]
	assert.False(t, ok)
}
