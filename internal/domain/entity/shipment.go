package entity

import (
	"time"
)

const (
	ShipmentStatusNotShipped = "not_shipped"
	ShipmentStatusInTransit  = "in_transit"
)

// OrderShipment is one physical place of an order. The container/status
// coupling (in_transit requires a container) is enforced here and by a
// CHECK constraint, not by callers.
type OrderShipment struct {
	ID              string  `json:"id"`
	OrderID         string  `json:"order_id"`
	PlaceNumber     int     `json:"place_number"`
	ContainerNumber *string `json:"container_number,omitempty"`
	ShipmentStatus  string  `json:"shipment_status"`
	Description     string  `json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the container/status invariant.
func (s *OrderShipment) Validate() bool {
	if s.ShipmentStatus == ShipmentStatusInTransit {
		return s.ContainerNumber != nil && *s.ContainerNumber != ""
	}
	return true
}

// ContainerSummary aggregates shipment status per container for the admin
// container list.
type ContainerSummary struct {
	ContainerNumber string `json:"container_number"`
	TotalPlaces     int    `json:"total_places"`
	InTransit       int    `json:"in_transit"`
	NotShipped      int    `json:"not_shipped"`
}
