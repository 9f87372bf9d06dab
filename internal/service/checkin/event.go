package checkin

import "time"

// Event is a single agent availability event.
type Event struct {
	Type       string    `json:"type"`
	AgentID    string    `json:"agent_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	// TypeCheckIn marks the agent as available for allocation.
	TypeCheckIn = "check_in"
	// TypeCheckOut clears the agent's availability.
	TypeCheckOut = "check_out"
)
