package handlers

import (
	"time"

	"delivery-allocation/internal/domain"
)

func toSummaryDTO(s domain.Summary) summaryDTO {
	return summaryDTO{
		Date:              s.Date.Format(time.DateOnly),
		TotalAgents:       s.TotalAgents,
		TotalOrders:       s.TotalOrders,
		TotalDistance:     s.TotalDistanceKm,
		TotalCost:         s.TotalCost,
		AvgOrdersPerAgent: s.AvgOrdersPerAgent,
		DeferredOrders:    s.DeferredOrders,
	}
}

func toRunResponse(res domain.RunResult) runResponse {
	out := runResponse{
		Status:        string(res.Status),
		Date:          res.Date.Format(time.DateOnly),
		Message:       res.Message,
		TotalAssigned: res.TotalAssigned,
		TotalDeferred: res.TotalDeferred,
		Summary:       toSummaryDTO(res.Summary),
		Warehouses:    make([]warehouseReportDTO, 0, len(res.Warehouses)),
	}
	for _, w := range res.Warehouses {
		out.Warehouses = append(out.Warehouses, warehouseReportDTO{
			WarehouseID: string(w.WarehouseID),
			Agents:      w.Agents,
			Pending:     w.Pending,
			Assigned:    w.Assigned,
			Deferred:    w.Deferred,
			Skipped:     w.Skipped,
			Error:       w.Error,
		})
	}
	return out
}

func toAssignmentDTO(a domain.Assignment) assignmentDTO {
	ids := make([]string, 0, len(a.OrderIDs))
	for _, id := range a.OrderIDs {
		ids = append(ids, string(id))
	}
	return assignmentDTO{
		ID:              string(a.ID),
		AgentID:         string(a.AgentID),
		OrderIDs:        ids,
		Date:            a.Date.Format(time.DateOnly),
		TotalOrders:     a.OrderCount(),
		TotalDistanceKm: a.TotalDistanceKm,
		TotalTimeHours:  a.TotalTimeHours,
		EarningPerOrder: a.EarningPerOrder,
		TotalEarning:    a.TotalEarning,
	}
}

func toAssignmentDetailDTO(d domain.AssignmentDetail) assignmentDTO {
	out := toAssignmentDTO(d.Assignment)
	out.AgentName = d.AgentName
	out.OrderDetails = make([]orderDetailDTO, 0, len(d.Orders))
	for _, o := range d.Orders {
		out.OrderDetails = append(out.OrderDetails, orderDetailDTO{
			OrderID:         string(o.ID),
			ExternalRef:     o.ExternalRef,
			CustomerName:    o.CustomerName,
			DeliveryAddress: o.DeliveryAddress,
		})
	}
	return out
}

func toWarehouseDTO(w domain.Warehouse) warehouseDTO {
	return warehouseDTO{
		ID:        string(w.ID),
		Name:      w.Name,
		City:      w.City,
		Latitude:  w.Location.Lat,
		Longitude: w.Location.Lng,
	}
}

func toOrderDTO(o domain.Order) orderDTO {
	out := orderDTO{
		ID:              string(o.ID),
		ExternalRef:     o.ExternalRef,
		CustomerName:    o.CustomerName,
		DeliveryAddress: o.DeliveryAddress,
		Latitude:        o.Location.Lat,
		Longitude:       o.Location.Lng,
		WarehouseID:     string(o.WarehouseID),
		Status:          string(o.Status),
	}
	if o.AssignedAgentID != nil {
		s := string(*o.AssignedAgentID)
		out.AssignedAgentID = &s
	}
	return out
}

func toAgentDTO(a domain.Agent) agentDTO {
	out := agentDTO{
		ID:          string(a.ID),
		Name:        a.Name,
		Phone:       a.Phone,
		WarehouseID: string(a.WarehouseID),
		CheckedIn:   a.CheckedIn,
	}
	if a.CheckedInAt != nil {
		s := a.CheckedInAt.UTC().Format(time.RFC3339)
		out.CheckedInAt = &s
	}
	return out
}
