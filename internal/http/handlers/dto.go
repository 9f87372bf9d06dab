package handlers

type summaryDTO struct {
	Date              string  `json:"date"`
	TotalAgents       int     `json:"total_agents"`
	TotalOrders       int     `json:"total_orders"`
	TotalDistance     float64 `json:"total_distance"`
	TotalCost         int     `json:"total_cost"`
	AvgOrdersPerAgent float64 `json:"avg_orders_per_agent"`
	DeferredOrders    int     `json:"deferred_orders"`
}

type warehouseReportDTO struct {
	WarehouseID string `json:"warehouse_id"`
	Agents      int    `json:"agents"`
	Pending     int    `json:"pending"`
	Assigned    int    `json:"assigned"`
	Deferred    int    `json:"deferred"`
	Skipped     bool   `json:"skipped,omitempty"`
	Error       string `json:"error,omitempty"`
}

type runResponse struct {
	Status        string               `json:"status"`
	Date          string               `json:"date"`
	Message       string               `json:"message"`
	TotalAssigned int                  `json:"total_assigned"`
	TotalDeferred int                  `json:"total_deferred"`
	Summary       summaryDTO           `json:"summary"`
	Warehouses    []warehouseReportDTO `json:"warehouses"`
}

type orderDetailDTO struct {
	OrderID         string `json:"order_id"`
	ExternalRef     string `json:"external_ref"`
	CustomerName    string `json:"customer_name"`
	DeliveryAddress string `json:"delivery_address"`
}

type assignmentDTO struct {
	ID              string           `json:"id"`
	AgentID         string           `json:"agent_id"`
	AgentName       string           `json:"agent_name,omitempty"`
	OrderIDs        []string         `json:"order_ids"`
	OrderDetails    []orderDetailDTO `json:"order_details,omitempty"`
	Date            string           `json:"date"`
	TotalOrders     int              `json:"total_orders"`
	TotalDistanceKm float64          `json:"total_distance_km"`
	TotalTimeHours  float64          `json:"total_time_hours"`
	EarningPerOrder int              `json:"earning_per_order"`
	TotalEarning    int              `json:"total_earning"`
}

type assignmentsResponse struct {
	Date        string          `json:"date"`
	Assignments []assignmentDTO `json:"assignments"`
}

type agentDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	WarehouseID string  `json:"warehouse_id"`
	CheckedIn   bool    `json:"checked_in"`
	CheckedInAt *string `json:"checked_in_at,omitempty"`
}

type agentsResponse struct {
	Agents []agentDTO `json:"agents"`
}

type warehouseDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type warehousesResponse struct {
	Warehouses []warehouseDTO `json:"warehouses"`
}

type orderDTO struct {
	ID              string  `json:"id"`
	ExternalRef     string  `json:"external_ref"`
	CustomerName    string  `json:"customer_name"`
	DeliveryAddress string  `json:"delivery_address"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	WarehouseID     string  `json:"warehouse_id"`
	Status          string  `json:"status"`
	AssignedAgentID *string `json:"assigned_agent_id,omitempty"`
}

type ordersResponse struct {
	Orders []orderDTO `json:"orders"`
}
