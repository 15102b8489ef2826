package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/server/http/dto"
	"github.com/polkiloo/ordertrack/internal/server/http/middleware"
)

// CurrentIdentity extracts the authenticated identity from context.
func CurrentIdentity(c *gin.Context) model.Identity {
	identity, _ := middleware.CurrentIdentity(c)
	return identity
}

func orderKey(c *gin.Context) (int64, bool) {
	key, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || key <= 0 {
		respondMessage(c, http.StatusBadRequest, "order id must be a positive integer")
		return 0, false
	}
	return key, true
}

func respondMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Message: message})
}

// respondError maps a domain error to its status code.
func respondError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrUnauthenticated),
		errors.Is(err, domainErrors.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domainErrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainErrors.ErrStage),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		status = http.StatusConflict
	default:
		_ = c.Error(err)
		respondMessage(c, http.StatusInternalServerError, "internal server error")
		return
	}
	respondMessage(c, status, domainErrors.Message(err))
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

func toIdentityResponse(id model.Identity) dto.UserResponse {
	return dto.UserResponse{ID: id.ID, Name: id.Name, Email: id.Email, Role: string(id.Role)}
}

func toOrderResponse(o *model.Order) dto.OrderResponse {
	stamps := make(map[string]time.Time, len(o.StageTimestamps))
	for stage, at := range o.StageTimestamps {
		stamps[stage.String()] = at
	}
	items := o.Items
	if items == nil {
		items = []string{}
	}
	return dto.OrderResponse{
		ID:              o.ID,
		OrderID:         o.OrderID,
		Items:           items,
		CurrentStage:    o.Stage.String(),
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		PlacedBy:        o.PlacedBy,
		StageTimestamps: stamps,
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderList(orders []model.Order) dto.OrderListResponse {
	resp := dto.OrderListResponse{Orders: make([]dto.OrderResponse, 0, len(orders))}
	for i := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(&orders[i]))
	}
	return resp
}

func toDetailsResponse(d *model.OrderDetails) dto.DetailsResponse {
	resp := dto.DetailsResponse{
		Order:          toOrderResponse(&d.Order),
		StageDurations: make(map[string]int64, len(d.Durations)),
		Logs:           make([]dto.LogResponse, 0, len(d.Logs)),
	}
	for _, span := range d.Durations {
		resp.StageDurations[span.Key()] = span.Elapsed.Milliseconds()
	}
	for _, entry := range d.Logs {
		resp.Logs = append(resp.Logs, dto.LogResponse{
			ID:     entry.ID,
			Action: entry.Action,
			PerformedBy: dto.PerformerResponse{
				ID:   entry.Actor.ID,
				Name: entry.Actor.Name,
				Role: string(entry.Actor.Role),
			},
			Timestamp: entry.Timestamp,
		})
	}
	return resp
}

func toStatsResponse(s model.DerivedStats) dto.StatsResponse {
	resp := dto.StatsResponse{
		TotalOrders:   s.TotalOrders,
		OrdersByStage: make([]dto.StageCountResponse, 0, len(s.OrdersByStage)),
	}
	for _, c := range s.OrdersByStage {
		resp.OrdersByStage = append(resp.OrdersByStage, dto.StageCountResponse{Stage: c.Stage.String(), Count: c.Count})
	}
	if s.AvgDeliveryTime != nil {
		ms := s.AvgDeliveryTime.Milliseconds()
		resp.AvgDeliveryTime = &ms
	}
	return resp
}
