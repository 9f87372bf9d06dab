package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"delivery-allocation/internal/domain"
)

type textWriter interface {
	writeText(w io.Writer) error
}

type summaryView struct {
	Date              string  `yaml:"date"`
	TotalAgents       int     `yaml:"total_agents"`
	TotalOrders       int     `yaml:"total_orders"`
	TotalDistanceKm   float64 `yaml:"total_distance_km"`
	TotalCost         int     `yaml:"total_cost"`
	AvgOrdersPerAgent float64 `yaml:"avg_orders_per_agent"`
	DeferredOrders    int     `yaml:"deferred_orders"`
}

func newSummaryView(s domain.Summary) summaryView {
	return summaryView{
		Date:              s.Date.Format(domain.DateLayout),
		TotalAgents:       s.TotalAgents,
		TotalOrders:       s.TotalOrders,
		TotalDistanceKm:   s.TotalDistanceKm,
		TotalCost:         s.TotalCost,
		AvgOrdersPerAgent: s.AvgOrdersPerAgent,
		DeferredOrders:    s.DeferredOrders,
	}
}

func (v summaryView) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "date\t%s\n", v.Date)
	fmt.Fprintf(tw, "agents\t%d\n", v.TotalAgents)
	fmt.Fprintf(tw, "orders\t%d\n", v.TotalOrders)
	fmt.Fprintf(tw, "distance km\t%.2f\n", v.TotalDistanceKm)
	fmt.Fprintf(tw, "cost\t%d\n", v.TotalCost)
	fmt.Fprintf(tw, "orders per agent\t%.2f\n", v.AvgOrdersPerAgent)
	fmt.Fprintf(tw, "deferred\t%d\n", v.DeferredOrders)
	return tw.Flush()
}

type warehouseView struct {
	WarehouseID string `yaml:"warehouse_id"`
	Agents      int    `yaml:"agents"`
	Pending     int    `yaml:"pending"`
	Assigned    int    `yaml:"assigned"`
	Deferred    int    `yaml:"deferred"`
	Skipped     bool   `yaml:"skipped,omitempty"`
	Error       string `yaml:"error,omitempty"`
}

type runView struct {
	Status        string          `yaml:"status"`
	Date          string          `yaml:"date"`
	Message       string          `yaml:"message,omitempty"`
	TotalAssigned int             `yaml:"total_assigned"`
	TotalDeferred int             `yaml:"total_deferred"`
	Summary       summaryView     `yaml:"summary"`
	Warehouses    []warehouseView `yaml:"warehouses,omitempty"`
}

func newRunView(r domain.RunResult) runView {
	v := runView{
		Status:        string(r.Status),
		Date:          r.Date.Format(domain.DateLayout),
		Message:       r.Message,
		TotalAssigned: r.TotalAssigned,
		TotalDeferred: r.TotalDeferred,
		Summary:       newSummaryView(r.Summary),
	}
	for _, wh := range r.Warehouses {
		v.Warehouses = append(v.Warehouses, warehouseView{
			WarehouseID: string(wh.WarehouseID),
			Agents:      wh.Agents,
			Pending:     wh.Pending,
			Assigned:    wh.Assigned,
			Deferred:    wh.Deferred,
			Skipped:     wh.Skipped,
			Error:       wh.Error,
		})
	}
	return v
}

func (v runView) writeText(w io.Writer) error {
	fmt.Fprintf(w, "run %s: %s", v.Date, v.Status)
	if v.Message != "" {
		fmt.Fprintf(w, " (%s)", v.Message)
	}
	fmt.Fprintf(w, "\nassigned %d, deferred %d\n", v.TotalAssigned, v.TotalDeferred)
	if len(v.Warehouses) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WAREHOUSE\tAGENTS\tPENDING\tASSIGNED\tDEFERRED\tNOTE")
	for _, wh := range v.Warehouses {
		note := wh.Error
		if note == "" && wh.Skipped {
			note = "skipped"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n",
			wh.WarehouseID, wh.Agents, wh.Pending, wh.Assigned, wh.Deferred, note)
	}
	return tw.Flush()
}

type assignmentView struct {
	AgentID         string   `yaml:"agent_id"`
	OrderIDs        []string `yaml:"order_ids"`
	TotalDistanceKm float64  `yaml:"total_distance_km"`
	TotalTimeHours  float64  `yaml:"total_time_hours"`
	EarningPerOrder int      `yaml:"earning_per_order"`
	TotalEarning    int      `yaml:"total_earning"`
}

type assignmentsView struct {
	Date        string           `yaml:"date"`
	Assignments []assignmentView `yaml:"assignments"`
}

func newAssignmentsView(day time.Time, list []domain.Assignment) assignmentsView {
	v := assignmentsView{
		Date:        day.Format(domain.DateLayout),
		Assignments: make([]assignmentView, 0, len(list)),
	}
	for _, a := range list {
		ids := make([]string, 0, len(a.OrderIDs))
		for _, id := range a.OrderIDs {
			ids = append(ids, string(id))
		}
		v.Assignments = append(v.Assignments, assignmentView{
			AgentID:         string(a.AgentID),
			OrderIDs:        ids,
			TotalDistanceKm: a.TotalDistanceKm,
			TotalTimeHours:  a.TotalTimeHours,
			EarningPerOrder: a.EarningPerOrder,
			TotalEarning:    a.TotalEarning,
		})
	}
	return v
}

func (v assignmentsView) writeText(w io.Writer) error {
	if len(v.Assignments) == 0 {
		_, err := fmt.Fprintf(w, "no assignments for %s\n", v.Date)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "AGENT\tORDERS\tKM\tHOURS\tPER ORDER\tEARNING\tORDER IDS")
	for _, a := range v.Assignments {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%d\t%d\t%s\n",
			a.AgentID, len(a.OrderIDs), a.TotalDistanceKm, a.TotalTimeHours,
			a.EarningPerOrder, a.TotalEarning, strings.Join(a.OrderIDs, ","))
	}
	return tw.Flush()
}

type resetView struct {
	Date        string `yaml:"date"`
	Assignments int64  `yaml:"assignments_deleted"`
	Released    int64  `yaml:"orders_released"`
	Undeferred  int64  `yaml:"orders_undeferred"`
}

func (v resetView) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "reset %s: %d assignments deleted, %d orders released, %d undeferred\n",
		v.Date, v.Assignments, v.Released, v.Undeferred)
	return err
}
