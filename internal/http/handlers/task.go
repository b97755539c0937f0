package handlers

import (
	"net/http"
	"strings"

	"service-delivery/internal/logx"
)

// TaskHandler serves the delivery task endpoints.
type TaskHandler struct {
	uc     taskUsecase
	logger logx.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(logger logx.Logger, uc taskUsecase) *TaskHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &TaskHandler{uc: uc, logger: logger}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(h.logger, w, r); !ok {
		return
	}

	var req createTaskRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	orderID := strings.TrimSpace(string(req.OrderID))
	if orderID == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "order_id is required")
		return
	}

	t, err := h.uc.Create(r.Context(), orderID)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, taskToResponse(*t))
}

// UpdateStatus handles PUT /tasks/{id}/status.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(h.logger, w, r)
	if !ok {
		return
	}
	taskID, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	t, err := h.uc.UpdateStatus(r.Context(), taskID, id.UserID, req.Status)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, taskToResponse(*t))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.uc.Get(r.Context(), taskID)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, taskToResponse(*t))
}
