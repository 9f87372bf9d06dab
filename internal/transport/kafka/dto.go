package kafka

import (
	"strings"
	"time"

	"delivery-allocation/internal/service/checkin"
)

// EventDTO is the wire form of checkin.Event.
type EventDTO struct {
	Type       string    `json:"type"`
	AgentID    string    `json:"agent_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ToDomain converts EventDTO to checkin.Event.
func ToDomain(dto EventDTO) checkin.Event {
	return checkin.Event{
		Type:       strings.ToLower(strings.TrimSpace(dto.Type)),
		AgentID:    strings.TrimSpace(dto.AgentID),
		OccurredAt: dto.OccurredAt,
	}
}
