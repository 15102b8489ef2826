package model

// OrderDetails bundles an order with its derived durations and audit trail.
type OrderDetails struct {
	Order     Order
	Durations []StageDuration
	Logs      []ActionLogEntry
}
