package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/identity"
)

// StatusError is returned when the orders service answers with an unexpected status code.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("orders service responded %d: %s", e.Code, e.Body)
}

// HTTPGateway is an orders gateway backed by the orders service REST API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient returns a traced client bounded by timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// NewHTTPGateway creates an orders gateway. It returns nil when baseURL is empty.
func NewHTTPGateway(baseURL string, client *http.Client) *HTTPGateway {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGateway{baseURL: baseURL, client: client}
}

// orderDTO mirrors the orders service payload. Ids may arrive as numbers or strings.
type orderDTO struct {
	ID                  flexString `json:"id"`
	CustomerID          flexString `json:"customer_id"`
	RestaurantLatitude  *float64   `json:"restaurant_latitude"`
	RestaurantLongitude *float64   `json:"restaurant_longitude"`
	DeliveryLatitude    *float64   `json:"delivery_latitude"`
	DeliveryLongitude   *float64   `json:"delivery_longitude"`
}

type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// GetByID fetches an order by ID, forwarding the caller's bearer token.
// A 404 maps to apperr.ErrNotFound.
func (g *HTTPGateway) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	endpoint := g.baseURL + "/api/orders/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("order gateway: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if caller, ok := identity.FromContext(ctx); ok && caller.Token != "" {
		req.Header.Set("Authorization", "Bearer "+caller.Token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order gateway: GetByID: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var dto orderDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("order gateway: decode order %s: %w", id, err)
	}
	o := &domain.Order{
		ID:                  string(dto.ID),
		CustomerID:          string(dto.CustomerID),
		RestaurantLatitude:  dto.RestaurantLatitude,
		RestaurantLongitude: dto.RestaurantLongitude,
		DeliveryLatitude:    dto.DeliveryLatitude,
		DeliveryLongitude:   dto.DeliveryLongitude,
	}
	if o.ID == "" {
		o.ID = id
	}
	return o, nil
}
