package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"service-delivery/internal/domain"
)

type agentDTO struct {
	ID                 int64      `json:"id"`
	UserID             string     `json:"user_id"`
	VehicleType        string     `json:"vehicle_type"`
	Latitude           *float64   `json:"latitude"`
	Longitude          *float64   `json:"longitude"`
	IsAvailable        bool       `json:"is_available"`
	LastLocationUpdate *time.Time `json:"last_location_update"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type registerAgentRequest struct {
	VehicleType string `json:"vehicle_type"`
}

type updateLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type taskDTO struct {
	ID                int64             `json:"id"`
	OrderID           string            `json:"order_id"`
	AgentID           *int64            `json:"agent_id"`
	PickupLatitude    float64           `json:"pickup_latitude"`
	PickupLongitude   float64           `json:"pickup_longitude"`
	DeliveryLatitude  float64           `json:"delivery_latitude"`
	DeliveryLongitude float64           `json:"delivery_longitude"`
	Status            domain.TaskStatus `json:"status"`
	PickupTime        *time.Time        `json:"pickup_time"`
	DeliveryTime      *time.Time        `json:"delivery_time"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type createTaskRequest struct {
	OrderID orderRef `json:"order_id"`
}

type updateStatusRequest struct {
	Status domain.TaskStatus `json:"status"`
}

// orderRef accepts an order id sent either as a JSON string or a number.
type orderRef string

func (o *orderRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*o = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*o = orderRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("order_id must be a string or a number")
	}
	*o = orderRef(n.String())
	return nil
}
