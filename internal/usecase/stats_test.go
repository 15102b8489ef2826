package usecase

import (
	"testing"
	"time"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

func deliveredOrder(placed time.Time, took time.Duration) model.Order {
	return model.Order{
		Stage: model.StageDelivered,
		StageTimestamps: model.StageTimestamps{
			model.StagePlaced:    placed,
			model.StageDelivered: placed.Add(took),
		},
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.TotalOrders != 0 || len(stats.OrdersByStage) != 0 {
		t.Fatalf("unexpected stats for empty set: %+v", stats)
	}
	if stats.AvgDeliveryTime != nil {
		t.Fatalf("expected no average, got %v", *stats.AvgDeliveryTime)
	}
}

func TestComputeStatsCountsAndAverage(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := []model.Order{
		deliveredOrder(base, 2*time.Hour),
		deliveredOrder(base, 4*time.Hour),
		{Stage: model.StageShipped},
		{Stage: model.StagePlaced},
		{Stage: model.StageShipped},
	}

	stats := ComputeStats(orders)
	if stats.TotalOrders != 5 {
		t.Fatalf("expected 5 orders, got %d", stats.TotalOrders)
	}

	want := []model.StageCount{
		{Stage: model.StagePlaced, Count: 1},
		{Stage: model.StageShipped, Count: 2},
		{Stage: model.StageDelivered, Count: 2},
	}
	if len(stats.OrdersByStage) != len(want) {
		t.Fatalf("expected %d stage buckets, got %+v", len(want), stats.OrdersByStage)
	}
	for i := range want {
		if stats.OrdersByStage[i] != want[i] {
			t.Fatalf("bucket %d: expected %+v, got %+v", i, want[i], stats.OrdersByStage[i])
		}
	}

	if stats.AvgDeliveryTime == nil || *stats.AvgDeliveryTime != 3*time.Hour {
		t.Fatalf("expected 3h average, got %v", stats.AvgDeliveryTime)
	}
}

func TestComputeStatsSkipsDeliveredWithoutTimestamps(t *testing.T) {
	orders := []model.Order{{Stage: model.StageDelivered}}

	stats := ComputeStats(orders)
	if stats.TotalOrders != 1 {
		t.Fatalf("expected 1 order, got %d", stats.TotalOrders)
	}
	if stats.AvgDeliveryTime != nil {
		t.Fatalf("expected no average without timestamps, got %v", *stats.AvgDeliveryTime)
	}
}
