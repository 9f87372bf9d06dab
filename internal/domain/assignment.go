package domain

import "time"

// DateLayout is the civil date format used for run dates.
const DateLayout = "2006-01-02"

// Assignment binds one agent to a set of orders for one date.
// It is immutable once created; TotalEarning always equals
// len(OrderIDs) * EarningPerOrder.
type Assignment struct {
	ID              AssignmentID
	AgentID         AgentID
	OrderIDs        []OrderID
	Date            time.Time
	TotalDistanceKm float64
	TotalTimeHours  float64
	EarningPerOrder int
	TotalEarning    int
	CreatedAt       time.Time
}

// OrderCount returns the number of orders in the assignment.
func (a Assignment) OrderCount() int { return len(a.OrderIDs) }

// Day truncates t to a civil date in UTC, keeping the calendar day of t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// ResetResult counts what a per-date reset undid.
type ResetResult struct {
	Assignments int64
	Released    int64
	Undeferred  int64
}

// AssignmentDetail is an assignment joined with its agent's name and its orders.
// Orders follow the assignment's order; ids that no longer resolve are omitted.
type AssignmentDetail struct {
	Assignment
	AgentName string
	Orders    []Order
}
