package entity

import (
	"time"
)

// EventLog is an append-only audit record; dashboards aggregate over it.
type EventLog struct {
	ID         string                 `json:"id"`
	ActorID    string                 `json:"actor_id,omitempty"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Details    map[string]interface{} `json:"details,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// Dashboard aggregates for the admin analytics view.
type DashboardStats struct {
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	OffersPerDay   []DayCount       `json:"offers_per_day"`
	TopProducts    []ProductViews   `json:"top_products"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type ProductViews struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Views     int    `json:"views"`
}
