package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/logx"
)

// AgentHandler serves agent availability endpoints.
type AgentHandler struct {
	logger logx.Logger
	uc     agentUsecase
}

// NewAgentHandler wires an agentUsecase into HTTP handlers.
func NewAgentHandler(logger logx.Logger, uc agentUsecase) *AgentHandler {
	return &AgentHandler{logger: logger, uc: uc}
}

// List handles GET /agents.
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	list, err := h.uc.List(ctx)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	resp := agentsResponse{Agents: make([]agentDTO, 0, len(list))}
	for _, a := range list {
		resp.Agents = append(resp.Agents, toAgentDTO(a))
	}
	writeJSON(h.logger, w, r, http.StatusOK, resp)
}

// CheckIn handles POST /agents/{id}/check-in.
func (h *AgentHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id := domain.AgentID(chi.URLParam(r, "id"))

	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	err := h.uc.CheckIn(ctx, id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{
			"message": "agent " + string(id) + " checked in",
		})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid agent id")
	case errors.Is(err, apperr.ErrAgentNotFound), errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "agent not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
