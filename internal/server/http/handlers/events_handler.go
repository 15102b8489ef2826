package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/server/http/dto"
)

const (
	eventPing  = "ping"
	eventReady = "ready"
)

// EventHandler streams change events to a connected viewer over Server-Sent Events.
type EventHandler struct {
	facade    EventFacade
	heartbeat time.Duration
}

// NewEventHandler constructs EventHandler; heartbeat is the ping interval.
func NewEventHandler(facade EventFacade, heartbeat time.Duration) *EventHandler {
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &EventHandler{facade: facade, heartbeat: heartbeat}
}

// Stream handles GET /api/events. The stream ends when the client leaves or
// the subscription is closed by the server, after which the client re-fetches.
func (h *EventHandler) Stream(c *gin.Context) {
	identity := CurrentIdentity(c)
	events, cancel := h.facade.Subscribe(identity)
	defer cancel()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Render(-1, sse.Event{Event: eventReady, Data: toIdentityResponse(identity)})
	c.Writer.Flush()

	c.Stream(func(io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.Render(-1, toSSE(ev))
			return true
		case at := <-ticker.C:
			c.Render(-1, sse.Event{Event: eventPing, Data: at.UTC().Unix()})
			return true
		}
	})
}

func toSSE(ev model.ChangeEvent) sse.Event {
	out := sse.Event{
		Id:    strconv.FormatInt(ev.Order.ID, 10) + "-" + strconv.FormatInt(ev.Order.Version, 10),
		Event: string(ev.Kind),
	}
	if ev.Kind == model.EventOrderDeleted {
		out.Data = dto.DeletedOrderEvent{ID: ev.Order.ID, OrderID: ev.Order.OrderID}
		return out
	}
	out.Data = toOrderResponse(&ev.Order)
	return out
}
