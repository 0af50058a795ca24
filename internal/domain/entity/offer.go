package entity

import (
	"time"
)

const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusRejected  = "rejected"
	OfferStatusCancelled = "cancelled"
	OfferStatusExpired   = "expired"
)

// OfferTTL is how long a newly created (or re-submitted) offer stays
// pending before lazy expiry kicks in.
const OfferTTL = 6 * time.Hour

// PriceOffer is a buyer's bid on a product. At most one pending offer may
// exist per (product, buyer); the partial unique index in the database is
// the authoritative guard for that invariant.
type PriceOffer struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	BuyerID      string  `json:"buyer_id"`
	SellerID     string  `json:"seller_id"`
	OfferedPrice float64 `json:"offered_price"`

	DeliveryPriceConfirmed bool   `json:"delivery_price_confirmed"`
	Message                string `json:"message,omitempty"`
	Status                 string `json:"status"`

	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *PriceOffer) IsExpired(now time.Time) bool {
	return o.Status == OfferStatusPending && now.After(o.ExpiresAt)
}

// CompetitiveOffer is the masked per-product view shown to other buyers:
// prices are visible, identities are not.
type CompetitiveOffer struct {
	ProductID    string    `json:"product_id"`
	OfferedPrice float64   `json:"offered_price"`
	IsOwn        bool      `json:"is_own"`
	CreatedAt    time.Time `json:"created_at"`
}
