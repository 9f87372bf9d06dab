package domain

import "time"

// Warehouse is a depot that orders ship from and routes start at.
type Warehouse struct {
	ID       WarehouseID
	Name     string
	City     string
	Location Coordinate
}

// Agent represents a delivery agent.
// CheckedIn marks the agent as available for today's allocation.
type Agent struct {
	ID          AgentID
	Name        string
	Phone       string
	WarehouseID WarehouseID
	CheckedIn   bool
	CheckedInAt *time.Time
}
