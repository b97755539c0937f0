package handlers

import (
	"net/http"
	"strings"

	"service-delivery/internal/identity"
	"service-delivery/internal/logx"
)

// AgentHandler serves the delivery agent endpoints.
type AgentHandler struct {
	uc     agentUsecase
	logger logx.Logger
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(logger logx.Logger, uc agentUsecase) *AgentHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &AgentHandler{uc: uc, logger: logger}
}

// Register handles POST /agents. Only callers with the delivery_person role may register.
func (h *AgentHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(h.logger, w, r)
	if !ok {
		return
	}
	if id.Role != identity.RoleDeliveryPerson {
		writeError(h.logger, w, r, http.StatusForbidden, "only delivery personnel can register as agents")
		return
	}

	var req registerAgentRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if strings.TrimSpace(req.VehicleType) == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "vehicle_type is required")
		return
	}

	a, err := h.uc.Register(r.Context(), id.UserID, req.VehicleType)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, agentToResponse(*a))
}

// UpdateLocation handles PUT /agents/location.
func (h *AgentHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(h.logger, w, r)
	if !ok {
		return
	}

	var req updateLocationRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	a, err := h.uc.UpdateLocation(r.Context(), id.UserID, *req.Latitude, *req.Longitude)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, agentToResponse(*a))
}

// Me handles GET /agents/me.
func (h *AgentHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(h.logger, w, r)
	if !ok {
		return
	}

	a, err := h.uc.Get(r.Context(), id.UserID)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, agentToResponse(*a))
}
