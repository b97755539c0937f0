package kafka

import (
	"time"

	"service-delivery/internal/domain"
)

// EventDTO is the wire form of domain.StatusEvent on the notification topic.
type EventDTO struct {
	EventID        string    `json:"event_id"`
	TaskID         int64     `json:"task_id"`
	OrderID        string    `json:"order_id"`
	DeliveryStatus string    `json:"delivery_status"`
	Timestamp      time.Time `json:"timestamp"`
}

// FromDomain converts a status event, tagging it with eventID.
func FromDomain(ev domain.StatusEvent, eventID string) EventDTO {
	return EventDTO{
		EventID:        eventID,
		TaskID:         ev.TaskID,
		OrderID:        ev.OrderID,
		DeliveryStatus: string(ev.Status),
		Timestamp:      ev.Timestamp.UTC(),
	}
}
