package websocket

import "github.com/stemsi/facetrack-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionFrame  Action = "frame"
	ActionFinish Action = "finish"
	ActionPing   Action = "ping"
)

// Request is a client message. Image is only used by frame actions and holds
// a camera capture as a data URL.
type Request struct {
	Action Action `json:"action"`
	Image  string `json:"image,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventReady   Event = "ready"
	EventMatched Event = "matched"
	EventSaved   Event = "saved"
	EventError   Event = "error"
	EventPong    Event = "pong"
)

// ReadyResponse is sent once the live session is open.
type ReadyResponse struct {
	Event     Event  `json:"event"`
	SessionID string `json:"session_id"`
}

// MatchedResponse reports the students found in one frame and in the whole session so far.
type MatchedResponse struct {
	Event Event `json:"event"`
	model.LiveFrameResult
}

// SavedResponse carries the persisted session after a finish action.
type SavedResponse struct {
	Event   Event                    `json:"event"`
	Session *model.AttendanceSession `json:"session"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
