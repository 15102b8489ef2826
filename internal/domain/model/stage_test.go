package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

func TestStageNext(t *testing.T) {
	expected := []model.Stage{
		model.StageBuyerAssociated,
		model.StageProcessing,
		model.StagePacked,
		model.StageShipped,
		model.StageOutForDelivery,
		model.StageDelivered,
	}

	stage := model.StagePlaced
	for _, want := range expected {
		next, ok := stage.Next()
		require.True(t, ok, "expected %s to have a successor", stage)
		assert.Equal(t, want, next)
		stage = next
	}

	_, ok := model.StageDelivered.Next()
	assert.False(t, ok)
	assert.True(t, model.StageDelivered.IsTerminal())
	assert.False(t, model.StageOutForDelivery.IsTerminal())
}

func TestStageLabels(t *testing.T) {
	assert.Equal(t, "Order Placed", model.StagePlaced.String())
	assert.Equal(t, "Out for Delivery", model.StageOutForDelivery.String())
	assert.Equal(t, "Stage(42)", model.Stage(42).String())

	for _, stage := range model.Stages() {
		parsed, err := model.ParseStage(stage.String())
		require.NoError(t, err)
		assert.Equal(t, stage, parsed)
	}

	parsed, err := model.ParseStage("  out for delivery ")
	require.NoError(t, err)
	assert.Equal(t, model.StageOutForDelivery, parsed)

	_, err = model.ParseStage("Returned")
	assert.Error(t, err)
}

func TestStageTimestampsJSONUsesLabels(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ts := model.StageTimestamps{model.StagePlaced: at, model.StageBuyerAssociated: at.Add(time.Hour)}

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Order Placed"`)
	assert.Contains(t, string(data), `"Buyer Associated"`)

	var decoded model.StageTimestamps
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded[model.StageBuyerAssociated].Equal(at.Add(time.Hour)))
}

func TestPolicyRequiredRoles(t *testing.T) {
	strict := model.Policy{}
	assert.Equal(t, []model.Role{model.RoleAdmin}, strict.RequiredRoles(model.TransitionAssociateBuyer))
	assert.Equal(t, []model.Role{model.RoleAdmin}, strict.RequiredRoles(model.TransitionAssociateSeller))
	assert.Equal(t, []model.Role{model.RoleSeller}, strict.RequiredRoles(model.TransitionAdvance))
	assert.ElementsMatch(t, []model.Role{model.RoleSeller, model.RoleAdmin}, strict.RequiredRoles(model.TransitionDelete))
	assert.Equal(t, []model.Role{model.RoleBuyer}, strict.RequiredRoles(model.TransitionCreate))
	assert.Nil(t, strict.RequiredRoles(model.Transition("unknown")))

	override := model.Policy{AdminStageOverride: true}
	assert.True(t, override.Permits(model.TransitionAdvance, model.RoleAdmin))
	assert.False(t, strict.Permits(model.TransitionAdvance, model.RoleAdmin))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, model.RoleBuyer.Valid())
	assert.True(t, model.RoleSeller.Valid())
	assert.True(t, model.RoleAdmin.Valid())
	assert.False(t, model.Role("courier").Valid())
}
