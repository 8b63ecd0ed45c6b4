package websocket

import "github.com/stemsi/mockview-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSubmit   Action = "submit"
	ActionNext     Action = "next"
	ActionPrevious Action = "previous"
	ActionState    Action = "state"
	ActionPing     Action = "ping"
)

// Request is every client message. QID and Answer are only read for submit;
// speech clients send the final transcript as ans.
type Request struct {
	Action Action `json:"action"`
	QID    string `json:"q_id,omitempty"`
	Answer string `json:"ans,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventScored Event = "scored"
	EventState  Event = "state"
	EventPong   Event = "pong"
)

// ScoredResponse carries the evaluated answer. Answer is null when there was
// no active interview to record it in.
type ScoredResponse struct {
	Event    Event           `json:"event"`
	Answer   *model.Answer   `json:"answer"`
	Progress *model.Progress `json:"progress,omitempty"`
}

// StateResponse carries the current interview, or null.
type StateResponse struct {
	Event     Event                `json:"event"`
	Interview *model.InterviewView `json:"interview"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
