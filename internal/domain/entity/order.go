package entity

import (
	"time"
)

const (
	OrderStatusCreated         = "created"
	OrderStatusSellerConfirmed = "seller_confirmed"
	OrderStatusAdminConfirmed  = "admin_confirmed"
	OrderStatusProcessed       = "processed"
	OrderStatusShipped         = "shipped"
	OrderStatusDelivered       = "delivered"
	OrderStatusCancelled       = "cancelled"
)

type Order struct {
	ID          string `json:"id"`
	OrderNumber int    `json:"order_number"`
	Status      string `json:"status"`

	ProductID string `json:"product_id"`
	BuyerID   string `json:"buyer_id"`
	SellerID  string `json:"seller_id"`

	Title         string  `json:"title"`
	Brand         string  `json:"brand,omitempty"`
	Model         string  `json:"model,omitempty"`
	Price         float64 `json:"price"`
	DeliveryPrice float64 `json:"delivery_price"`
	PlaceNumber   int     `json:"place_number"`

	Description string `json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// orderTransitions is the role-agnostic transition table; role gating
// happens in the usecase.
var orderTransitions = map[string][]string{
	OrderStatusCreated:         {OrderStatusSellerConfirmed, OrderStatusCancelled},
	OrderStatusSellerConfirmed: {OrderStatusAdminConfirmed, OrderStatusCancelled},
	OrderStatusAdminConfirmed:  {OrderStatusProcessed, OrderStatusCancelled},
	OrderStatusProcessed:       {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:         {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:       {},
	OrderStatusCancelled:       {},
}

// CanTransition reports whether an order may move from its current status
// to next.
func (o *Order) CanTransition(next string) bool {
	for _, s := range orderTransitions[o.Status] {
		if s == next {
			return true
		}
	}
	return false
}

func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}
