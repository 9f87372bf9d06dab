package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrNoAgentsAvailable is returned by an allocation run when nobody is checked in.
var ErrNoAgentsAvailable = errors.New("no agents available")

// ErrWarehouseNotFound signals that agents reference a warehouse that does not exist.
var ErrWarehouseNotFound = errors.New("warehouse not found")

// ErrAgentNotFound signals that an agent could not be resolved.
var ErrAgentNotFound = errors.New("agent not found")
