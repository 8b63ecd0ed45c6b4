package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockview-backend/internal/middleware"
	"github.com/stemsi/mockview-backend/internal/response"
)

const keepAliveInterval = 30 * time.Second

// EventSubscriber opens a user's interview event subscription.
type EventSubscriber interface {
	Subscribe(ctx context.Context, userID string) *redis.PubSub
}

// EventHandler streams interview events to the browser over SSE so that
// other tabs and devices follow along.
type EventHandler struct {
	events EventSubscriber
	log    zerolog.Logger
}

func NewEventHandler(events EventSubscriber, log zerolog.Logger) *EventHandler {
	return &EventHandler{
		events: events,
		log:    log.With().Str("component", "event_handler").Logger(),
	}
}

// InterviewEventsSSE godoc
// GET /api/v1/interview/events
func (h *EventHandler) InterviewEventsSSE(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	reqCtx := c.Request.Context()

	pubsub := h.events.Subscribe(reqCtx, userID)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed so no event published after
	// the headers are sent is lost.
	if _, err := pubsub.Receive(reqCtx); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Subscribe to interview events failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	ch := pubsub.Channel()

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()

	pingPayload, _ := json.Marshal(map[string]string{"type": "ping"})

	h.log.Debug().Str("user_id", userID).Msg("Attached to interview events SSE")

	for {
		select {
		case <-reqCtx.Done():
			h.log.Debug().Str("user_id", userID).Msg("Detached from interview events SSE")
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			// Forward raw JSON directly, no deserialization needed
			writeSSE(c, []byte(msg.Payload))

		case <-keepAliveTicker.C:
			writeSSE(c, pingPayload)
		}
	}
}

func writeSSE(c *gin.Context, payload []byte) {
	_, _ = c.Writer.Write([]byte("data: "))
	_, _ = c.Writer.Write(payload)
	_, _ = c.Writer.Write([]byte("\n\n"))
	c.Writer.Flush()
}
