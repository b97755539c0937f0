package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"service-delivery/internal/apperr"
	"service-delivery/internal/identity"
	"service-delivery/internal/logx"
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Error("json encode error",
			logx.String("request_id", reqID(r.Context())),
			logx.Err(err),
		)
	}
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeErrorBody(logger, w, r, status, msg, nil)
}

func writeErrorBody(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string, details map[string]any) {
	logger.Debug("http error",
		logx.String("request_id", reqID(r.Context())),
		logx.Int("status", status),
		logx.String("msg", msg),
	)
	body := make(map[string]any, len(details)+1)
	for k, v := range details {
		body[k] = v
	}
	body["error"] = msg
	writeJSON(logger, w, r, status, body)
}

type errorMapping struct {
	target error
	status int
	msg    string
}

// Order matters: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{apperr.ErrInvalid, http.StatusBadRequest, "invalid input"},
	{apperr.ErrIncompleteOrder, http.StatusBadRequest, "incomplete order data"},
	{apperr.ErrIllegalTransition, http.StatusBadRequest, "illegal status transition"},
	{apperr.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
	{apperr.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
	{apperr.ErrNotFound, http.StatusNotFound, "not found"},
	{apperr.ErrConflict, http.StatusConflict, "conflict"},
	{apperr.ErrNoAgentAvailable, http.StatusConflict, "no delivery agent available"},
	{apperr.ErrDependency, http.StatusBadGateway, "order service unavailable"},
}

// writeAppError maps a service error onto the HTTP error taxonomy.
func writeAppError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg, details := m.msg, map[string]any(nil)
		var d *apperr.Detailed
		if errors.As(err, &d) {
			if d.Msg != "" {
				msg = d.Msg
			}
			details = d.Details
		}
		writeErrorBody(logger, w, r, m.status, msg, details)
		return
	}

	logger.Error("request failed",
		logx.String("request_id", reqID(r.Context())),
		logx.String("path", r.URL.Path),
		logx.Err(err),
	)
	writeError(logger, w, r, http.StatusInternalServerError, "internal error")
}

const (
	bodyLimit = 1 << 20
)

func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	return true
}

func idFromURL(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// caller returns the authenticated identity, writing a 401 when there is none.
func caller(logger logx.Logger, w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	id, ok := identity.FromContext(r.Context())
	if !ok || id.UserID == "" {
		writeError(logger, w, r, http.StatusUnauthorized, "authentication required")
		return identity.Identity{}, false
	}
	return id, true
}
