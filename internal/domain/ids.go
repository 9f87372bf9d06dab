package domain

type (
	// WarehouseID identifies a warehouse.
	WarehouseID string
	// AgentID identifies a delivery agent.
	AgentID string
	// OrderID identifies an order.
	OrderID string
	// AssignmentID identifies an assignment.
	AssignmentID string
)

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}
