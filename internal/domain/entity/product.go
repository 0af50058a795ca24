package entity

import (
	"time"
)

const (
	ProductStatusPending  = "pending"
	ProductStatusActive   = "active"
	ProductStatusSold     = "sold"
	ProductStatusArchived = "archived"
)

type ProductImage struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
}

type Product struct {
	ID          string  `json:"id"`
	SellerID    string  `json:"seller_id"`
	Title       string  `json:"title"`
	Brand       string  `json:"brand,omitempty"`
	Model       string  `json:"model,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`

	// DeliveryPrice is the per-item shipping cost the seller quotes; a
	// buyer's offer can confirm or dispute it.
	DeliveryPrice float64 `json:"delivery_price"`

	Status      string         `json:"status"`
	PlaceNumber int            `json:"place_number"`
	Images      []ProductImage `json:"images"`
	Views       int            `json:"views"`

	// Embedding is the vector produced by the embeddings module; empty
	// until generated.
	Embedding []float32 `json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// AcceptsOffers reports whether new price offers may target the product.
// Sold is terminal for negotiation.
func (p *Product) AcceptsOffers() bool {
	return p.Status == ProductStatusActive
}
