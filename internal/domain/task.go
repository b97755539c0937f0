package domain

import (
	"time"

	"service-delivery/internal/geo"
)

// Task - a delivery assignment tied to exactly one external order.
type Task struct {
	ID                int64
	OrderID           string
	AgentID           *int64
	PickupLatitude    float64
	PickupLongitude   float64
	DeliveryLatitude  float64
	DeliveryLongitude float64
	Status            TaskStatus
	PickupTime        *time.Time
	DeliveryTime      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Coordinates are the fixed endpoints of a task.
type Coordinates struct {
	PickupLatitude    float64
	PickupLongitude   float64
	DeliveryLatitude  float64
	DeliveryLongitude float64
}

// NewTask builds a pending task. Coordinates are never changed afterwards.
func NewTask(orderID string, c Coordinates, now time.Time) *Task {
	return &Task{
		OrderID:           orderID,
		PickupLatitude:    c.PickupLatitude,
		PickupLongitude:   c.PickupLongitude,
		DeliveryLatitude:  c.DeliveryLatitude,
		DeliveryLongitude: c.DeliveryLongitude,
		Status:            TaskPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Pickup returns the pickup point.
func (t *Task) Pickup() geo.Point {
	return geo.NewPoint(t.PickupLatitude, t.PickupLongitude)
}

// Assign binds the task to an agent and moves it to assigned.
func (t *Task) Assign(agentID int64, now time.Time) bool {
	if !t.Status.CanTransitionTo(TaskAssigned) {
		return false
	}
	id := agentID
	t.AgentID = &id
	t.Status = TaskAssigned
	t.UpdatedAt = now
	return true
}

// BoundTo reports whether agentID is the agent currently referenced by the task.
func (t *Task) BoundTo(agentID int64) bool {
	return t.AgentID != nil && *t.AgentID == agentID
}

// Apply moves the task to status and stamps the matching timestamp.
// It returns the allow-listed column changes to persist, or false if the state machine forbids it.
func (t *Task) Apply(status TaskStatus, now time.Time) (StatusChange, bool) {
	if !t.Status.CanTransitionTo(status) {
		return StatusChange{}, false
	}
	t.Status = status
	t.UpdatedAt = now
	switch status {
	case TaskPickedUp:
		t.PickupTime = &now
	case TaskDelivered:
		t.DeliveryTime = &now
	}
	return StatusChange{
		TaskID:       t.ID,
		Status:       t.Status,
		PickupTime:   t.PickupTime,
		DeliveryTime: t.DeliveryTime,
		UpdatedAt:    now,
	}, true
}

// Event returns the notification describing the task's current status.
func (t *Task) Event(at time.Time) StatusEvent {
	return StatusEvent{
		TaskID:    t.ID,
		OrderID:   t.OrderID,
		Status:    t.Status,
		Timestamp: at,
	}
}

// StatusChange lists the task columns a status update is allowed to write.
type StatusChange struct {
	TaskID       int64
	Status       TaskStatus
	PickupTime   *time.Time
	DeliveryTime *time.Time
	UpdatedAt    time.Time
}

// StatusEvent is published to the order-tracking consumer after a transition commits.
type StatusEvent struct {
	TaskID    int64
	OrderID   string
	Status    TaskStatus
	Timestamp time.Time
}
