package handlers

import "service-delivery/internal/domain"

func agentToResponse(a domain.Agent) agentDTO {
	return agentDTO{
		ID:                 a.ID,
		UserID:             a.UserID,
		VehicleType:        a.VehicleType,
		Latitude:           a.Latitude,
		Longitude:          a.Longitude,
		IsAvailable:        a.IsAvailable,
		LastLocationUpdate: a.LastLocationUpdate,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func taskToResponse(t domain.Task) taskDTO {
	return taskDTO{
		ID:                t.ID,
		OrderID:           t.OrderID,
		AgentID:           t.AgentID,
		PickupLatitude:    t.PickupLatitude,
		PickupLongitude:   t.PickupLongitude,
		DeliveryLatitude:  t.DeliveryLatitude,
		DeliveryLongitude: t.DeliveryLongitude,
		Status:            t.Status,
		PickupTime:        t.PickupTime,
		DeliveryTime:      t.DeliveryTime,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}
