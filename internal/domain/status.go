package domain

// TaskStatus is a delivery task state.
type TaskStatus string

// List of task statuses
const (
	TaskPending   TaskStatus = "pending"
	TaskAssigned  TaskStatus = "assigned"
	TaskPickedUp  TaskStatus = "picked_up"
	TaskDelivered TaskStatus = "delivered"
	TaskCancelled TaskStatus = "cancelled"
)

var transitions = map[TaskStatus][]TaskStatus{
	TaskPending:  {TaskAssigned},
	TaskAssigned: {TaskPickedUp, TaskDelivered, TaskCancelled},
	TaskPickedUp: {TaskDelivered, TaskCancelled},
}

// settable statuses may be requested through a status update.
var settable = [...]TaskStatus{TaskPickedUp, TaskDelivered, TaskCancelled}

// Valid checks if the TaskStatus is known
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskAssigned, TaskPickedUp, TaskDelivered, TaskCancelled:
		return true
	}
	return false
}

// Settable reports whether callers may request s explicitly.
func (s TaskStatus) Settable() bool {
	for _, v := range settable {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s TaskStatus) Terminal() bool {
	return s == TaskDelivered || s == TaskCancelled
}

// CanTransitionTo reports whether the state machine allows s -> to.
func (s TaskStatus) CanTransitionTo(to TaskStatus) bool {
	for _, v := range transitions[s] {
		if v == to {
			return true
		}
	}
	return false
}
