package domain

// Order is the slice of an external order the delivery service needs.
type Order struct {
	ID                  string
	CustomerID          string
	RestaurantLatitude  *float64
	RestaurantLongitude *float64
	DeliveryLatitude    *float64
	DeliveryLongitude   *float64
}

// MissingCoordinates lists the wire names of absent coordinate fields, in a fixed order.
func (o Order) MissingCoordinates() []string {
	var missing []string
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"restaurant_latitude", o.RestaurantLatitude},
		{"restaurant_longitude", o.RestaurantLongitude},
		{"delivery_latitude", o.DeliveryLatitude},
		{"delivery_longitude", o.DeliveryLongitude},
	} {
		if f.v == nil {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Coordinates returns the task endpoints; ok is false if any field is missing.
func (o Order) Coordinates() (Coordinates, bool) {
	if len(o.MissingCoordinates()) > 0 {
		return Coordinates{}, false
	}
	return Coordinates{
		PickupLatitude:    *o.RestaurantLatitude,
		PickupLongitude:   *o.RestaurantLongitude,
		DeliveryLatitude:  *o.DeliveryLatitude,
		DeliveryLongitude: *o.DeliveryLongitude,
	}, true
}
