package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockview-backend/internal/middleware"
	"github.com/stemsi/mockview-backend/internal/model"
	"github.com/stemsi/mockview-backend/internal/response"
	"github.com/stemsi/mockview-backend/internal/service"
	ws "github.com/stemsi/mockview-backend/internal/websocket"
)

const maxAnswerLength = 10000

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams answers and navigation over a WebSocket. Speech clients
// use it to push transcripts as they are finalized.
type WSHandler struct {
	interviewService *service.InterviewService
	submitLimiter    *middleware.RateLimiter
	log              zerolog.Logger
	upgrader         websocket.Upgrader
}

// NewWSHandler creates a new WSHandler. Submissions draw from submitLimiter,
// the same per-user budget as POST /interview/answers; nil disables limiting.
func NewWSHandler(interviewService *service.InterviewService, log zerolog.Logger, allowedOrigins []string, submitLimiter *middleware.RateLimiter) *WSHandler {
	return &WSHandler{
		interviewService: interviewService,
		submitLimiter:    submitLimiter,
		log:              log.With().Str("component", "ws_handler").Logger(),
		upgrader:         buildUpgrader(allowedOrigins),
	}
}

// InterviewStream godoc
// WS /ws/v1/interview/stream
// Upgrades to WebSocket for answer submission and navigation.
func (h *WSHandler) InterviewStream(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctrl := h.interviewService.Controller(userID)
	wsLog := h.log.With().Str("user_id", userID).Logger()
	wsLog.Info().Msg("Candidate connected")

	// Requests are handled in order; a slow evaluation holds back later messages.
	ctx := c.Request.Context()
	for {
		var msg ws.Request
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var werr error
		switch msg.Action {
		case ws.ActionSubmit:
			werr = h.handleSubmit(ctx, conn, wsLog, userID, ctrl, &msg)
		case ws.ActionNext:
			werr = writeState(conn, ctrl.Next(ctx))
		case ws.ActionPrevious:
			werr = writeState(conn, ctrl.Previous(ctx))
		case ws.ActionState:
			werr = writeState(conn, ctrl.Current())
		case ws.ActionPing:
			werr = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			werr = ws.WriteError(conn, string(response.ErrInvalidPayload), "unknown action: "+string(msg.Action))
		}
		if werr != nil {
			wsLog.Debug().Err(werr).Msg("Write failed, closing")
			return
		}
	}
}

func (h *WSHandler) handleSubmit(ctx context.Context, conn *websocket.Conn, wsLog zerolog.Logger, userID string, ctrl *service.InterviewController, msg *ws.Request) error {
	if h.submitLimiter != nil && !h.submitLimiter.Allow(middleware.UserKey(userID)) {
		return ws.WriteError(conn, string(response.ErrRateLimitExceeded), response.GetMessage(response.ErrRateLimitExceeded))
	}

	text := strings.TrimSpace(msg.Answer)
	if msg.QID == "" || text == "" {
		return ws.WriteError(conn, string(response.ErrValidation), "q_id and ans are required")
	}
	if len(text) > maxAnswerLength {
		return ws.WriteError(conn, string(response.ErrValidation), "ans is too long")
	}

	answer, iv, err := ctrl.SubmitAnswer(ctx, msg.QID, text)
	switch {
	case errors.Is(err, service.ErrUnknownQuestion):
		return ws.WriteError(conn, string(response.ErrUnknownQuestion), response.GetMessage(response.ErrUnknownQuestion))
	case errors.Is(err, service.ErrEvaluationInProgress):
		return ws.WriteError(conn, string(response.ErrEvaluationInProgress), response.GetMessage(response.ErrEvaluationInProgress))
	case err != nil:
		wsLog.Error().Err(err).Str("question_id", msg.QID).Msg("Submit answer failed")
		return ws.WriteError(conn, string(response.ErrInternal), response.GetMessage(response.ErrInternal))
	}

	out := ws.ScoredResponse{Event: ws.EventScored, Answer: answer}
	if iv != nil {
		p := iv.Progress()
		out.Progress = &p
	}
	return ws.WriteTyped(conn, out)
}

func writeState(conn *websocket.Conn, iv *model.Interview) error {
	return ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, Interview: viewOf(iv)})
}
