package model

import "time"

// StageCount is the number of orders currently at Stage.
type StageCount struct {
	Stage Stage
	Count int
}

// DerivedStats is recomputed on demand and never persisted.
type DerivedStats struct {
	TotalOrders   int
	OrdersByStage []StageCount
	// AvgDeliveryTime is nil when no order has been delivered.
	AvgDeliveryTime *time.Duration
}
