package dto

import "time"

// CreateOrderRequest lists the items of a new order.
type CreateOrderRequest struct {
	Items []string `json:"items" binding:"required,min=1"`
}

// AssociateBuyerRequest names the buyer to attach.
type AssociateBuyerRequest struct {
	BuyerID int64 `json:"buyerId" binding:"required,gt=0"`
}

// AssociateSellerRequest names the seller to attach.
type AssociateSellerRequest struct {
	SellerID int64 `json:"sellerId" binding:"required,gt=0"`
}

// OrderResponse is the wire form of an order.
type OrderResponse struct {
	ID              int64                `json:"id"`
	OrderID         string               `json:"orderId"`
	Items           []string             `json:"items"`
	CurrentStage    string               `json:"currentStage"`
	BuyerID         *int64               `json:"buyerId,omitempty"`
	SellerID        *int64               `json:"sellerId,omitempty"`
	PlacedBy        int64                `json:"placedBy"`
	StageTimestamps map[string]time.Time `json:"stageTimestamps"`
	Version         int64                `json:"version"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// OrderEnvelope wraps a single order.
type OrderEnvelope struct {
	Order OrderResponse `json:"order"`
}

// OrderListResponse wraps a list of orders.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// PerformerResponse identifies who recorded a log entry.
type PerformerResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// LogResponse is one action log entry.
type LogResponse struct {
	ID          int64             `json:"id"`
	Action      string            `json:"action"`
	PerformedBy PerformerResponse `json:"performedBy"`
	Timestamp   time.Time         `json:"timestamp"`
}

// DetailsResponse carries an order with stage durations in milliseconds keyed "<from> -> <to>".
type DetailsResponse struct {
	Order          OrderResponse    `json:"order"`
	StageDurations map[string]int64 `json:"stageDurations"`
	Logs           []LogResponse    `json:"logs"`
}

// StageCountResponse is the number of orders at one stage.
type StageCountResponse struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// StatsResponse is the admin dashboard summary. AvgDeliveryTime is in milliseconds.
type StatsResponse struct {
	TotalOrders     int                  `json:"totalOrders"`
	OrdersByStage   []StageCountResponse `json:"ordersByStage"`
	AvgDeliveryTime *int64               `json:"avgDeliveryTime"`
}

// DeletedOrderEvent is pushed when an order is removed.
type DeletedOrderEvent struct {
	ID      int64  `json:"id"`
	OrderID string `json:"orderId"`
}

// ErrorResponse carries a human-readable failure reason.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports storage availability.
type HealthResponse struct {
	Status string `json:"status"`
}
