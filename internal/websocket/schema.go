package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError Event = "error"
	EventTick  Event = "tick"
	EventPhase Event = "phase"
	EventPong  Event = "pong"
)

// TickEvent carries the remaining session time, pushed once per second so
// every connected client counts down from the same server clock.
type TickEvent struct {
	Event            Event `json:"event"`
	RemainingSeconds int   `json:"time_remaining_seconds"`
}

// PhaseEvent announces a session lifecycle change, including the forced
// completion at the deadline.
type PhaseEvent struct {
	Event Event  `json:"event"`
	Phase string `json:"phase"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
