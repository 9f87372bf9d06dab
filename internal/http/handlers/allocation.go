package handlers

import (
	"errors"
	"net/http"
	"time"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/logx"
)

// Today returns the current instant in the service's business time zone.
type Today func() time.Time

// AllocationHandler serves the run trigger and its read models.
type AllocationHandler struct {
	logger    logx.Logger
	runner    allocationRunner
	queries   allocationQueries
	describer assignmentDescriber
	today     Today
}

// NewAllocationHandler wires the allocation endpoints. A nil describer serves
// assignments without agent names and order details.
func NewAllocationHandler(
	logger logx.Logger,
	runner allocationRunner,
	queries allocationQueries,
	describer assignmentDescriber,
	today Today,
) *AllocationHandler {
	if today == nil {
		today = time.Now
	}
	return &AllocationHandler{
		logger:    logger,
		runner:    runner,
		queries:   queries,
		describer: describer,
		today:     today,
	}
}

// Run handles POST /allocation/run[?date=YYYY-MM-DD].
// An empty roster is reported as a failed run with 200, like any other outcome.
func (h *AllocationHandler) Run(w http.ResponseWriter, r *http.Request) {
	day, err := dayFromQuery(r, "date", h.today)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.runner.Run(r.Context(), day)
	switch {
	case err == nil, errors.Is(err, apperr.ErrNoAgentsAvailable):
		writeJSON(h.logger, w, r, http.StatusOK, toRunResponse(res))
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "allocation already running for this date")
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	default:
		h.logger.Error("allocation run failed", logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Assignments handles GET /assignments/{date}.
func (h *AllocationHandler) Assignments(w http.ResponseWriter, r *http.Request) {
	day, err := dayFromURL(r, "date")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	list, err := h.queries.Assignments(ctx, day)
	if err != nil {
		h.logger.Error("list assignments failed", logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}

	resp := assignmentsResponse{
		Date:        day.Format(time.DateOnly),
		Assignments: make([]assignmentDTO, 0, len(list)),
	}
	if h.describer == nil {
		for _, a := range list {
			resp.Assignments = append(resp.Assignments, toAssignmentDTO(a))
		}
		writeJSON(h.logger, w, r, http.StatusOK, resp)
		return
	}

	details, err := h.describer.Describe(ctx, list)
	if err != nil {
		h.logger.Error("describe assignments failed", logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	for _, d := range details {
		resp.Assignments = append(resp.Assignments, toAssignmentDetailDTO(d))
	}
	writeJSON(h.logger, w, r, http.StatusOK, resp)
}

// Summary handles GET /summary/{date}.
func (h *AllocationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	day, err := dayFromURL(r, "date")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	s, err := h.queries.Summary(ctx, day)
	if err != nil {
		h.logger.Error("summary failed", logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toSummaryDTO(s))
}
