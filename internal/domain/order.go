package domain

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

// List of possible order statuses
const (
	OrderPending   OrderStatus = "pending"
	OrderAssigned  OrderStatus = "assigned"
	OrderDeferred  OrderStatus = "deferred"
	OrderDelivered OrderStatus = "delivered"
)

var allowedOrderStatuses = [...]OrderStatus{
	OrderPending, OrderAssigned, OrderDeferred, OrderDelivered,
}

// Valid checks if the OrderStatus is valid
func (s OrderStatus) Valid() bool {
	for _, v := range allowedOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Order is a single delivery request tied to one warehouse.
type Order struct {
	ID              OrderID
	ExternalRef     string
	CustomerName    string
	DeliveryAddress string
	Location        Coordinate
	WarehouseID     WarehouseID
	Status          OrderStatus
	AssignedAgentID *AgentID
	AssignedAt      *time.Time
}

// OrderIDs returns the identifiers of orders in input order.
func OrderIDs(orders []Order) []OrderID {
	ids := make([]OrderID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}
