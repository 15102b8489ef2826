package usecase

import (
	"time"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// ComputeStats derives fleet totals from a snapshot of orders. Stages with no
// orders are omitted; AvgDeliveryTime is nil until some order is delivered.
func ComputeStats(orders []model.Order) model.DerivedStats {
	counts := make(map[model.Stage]int, len(model.Stages()))
	var (
		total     time.Duration
		delivered int
	)

	for i := range orders {
		o := &orders[i]
		counts[o.Stage]++
		if o.Stage != model.StageDelivered {
			continue
		}
		placedAt, okPlaced := o.StageTimestamps[model.StagePlaced]
		deliveredAt, okDelivered := o.StageTimestamps[model.StageDelivered]
		if !okPlaced || !okDelivered {
			continue
		}
		total += deliveredAt.Sub(placedAt)
		delivered++
	}

	stats := model.DerivedStats{TotalOrders: len(orders)}
	for _, stage := range model.Stages() {
		if n := counts[stage]; n > 0 {
			stats.OrdersByStage = append(stats.OrdersByStage, model.StageCount{Stage: stage, Count: n})
		}
	}
	if delivered > 0 {
		avg := total / time.Duration(delivered)
		stats.AvgDeliveryTime = &avg
	}
	return stats
}
