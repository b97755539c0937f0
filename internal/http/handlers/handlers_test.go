package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"service-delivery/internal/apperr"
	testlog "service-delivery/internal/testutil"
)

func TestHandlers_Ping(t *testing.T) {
	t.Parallel()

	h := New(nil)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()

	h.Ping(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if body["message"] != "pong" {
		t.Fatalf(`expected message "pong", got %q`, body["message"])
	}
}

func TestHandlers_HealthcheckHead(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	New(nil).HealthcheckHead(rr, httptest.NewRequest(http.MethodHead, "/healthcheck", nil))

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Zero(t, rr.Body.Len())
}

func TestHandlers_NotFound(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	New(nil).NotFound(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.JSONEq(t, `{"error":"route not found"}`, rr.Body.String())
}

func TestWriteAppError_Mapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"invalid", apperr.ErrInvalid, http.StatusBadRequest, `{"error":"invalid input"}`},
		{"not found wrapped", fmt.Errorf("get task: %w", apperr.ErrNotFound), http.StatusNotFound, `{"error":"not found"}`},
		{"unauthorized", apperr.ErrUnauthorized, http.StatusForbidden, `{"error":"unauthorized"}`},
		{"unauthenticated", apperr.ErrUnauthenticated, http.StatusUnauthorized, `{"error":"authentication required"}`},
		{"conflict", apperr.WithDetails(apperr.ErrConflict, "delivery agent already registered", nil), http.StatusConflict, `{"error":"delivery agent already registered"}`},
		{"no agent", apperr.ErrNoAgentAvailable, http.StatusConflict, `{"error":"no delivery agent available"}`},
		{"dependency", apperr.ErrDependency, http.StatusBadGateway, `{"error":"order service unavailable"}`},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, `{"error":"internal error"}`},
		{
			"transition details",
			apperr.WithDetails(apperr.ErrIllegalTransition, "illegal status transition", map[string]any{"from": "delivered", "to": "cancelled"}),
			http.StatusBadRequest,
			`{"error":"illegal status transition","from":"delivered","to":"cancelled"}`,
		},
		{
			"incomplete order",
			apperr.WithDetails(apperr.ErrIncompleteOrder, "order is missing coordinates", map[string]any{"missing_fields": []string{"delivery_latitude"}}),
			http.StatusBadRequest,
			`{"error":"order is missing coordinates","missing_fields":["delivery_latitude"]}`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			writeAppError(New(nil).Logger, rr, httptest.NewRequest(http.MethodGet, "/x", nil), tc.err)

			require.Equal(t, tc.status, rr.Code)
			require.JSONEq(t, tc.body, rr.Body.String())
		})
	}
}

func TestWriteAppError_LogsInternalErrors(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	rr := httptest.NewRecorder()
	writeAppError(rec.Logger(), rr, httptest.NewRequest(http.MethodGet, "/api/delivery/tasks/1", nil), errors.New("db down"))

	entries := rec.Find("error", "request failed")
	require.Len(t, entries, 1)
	v, ok := entries[0].Field("err")
	require.True(t, ok)
	require.Equal(t, "db down", v)
}

func TestOrderRef_Unmarshal(t *testing.T) {
	t.Parallel()

	var req createTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"order_id":42}`), &req))
	require.Equal(t, orderRef("42"), req.OrderID)

	require.NoError(t, json.Unmarshal([]byte(`{"order_id":"ord-7"}`), &req))
	require.Equal(t, orderRef("ord-7"), req.OrderID)

	require.Error(t, json.Unmarshal([]byte(`{"order_id":true}`), &req))
}
