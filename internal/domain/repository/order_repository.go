package repository

import (
	"context"

	"partsbay/internal/domain/entity"
)

type OrderFilter struct {
	Status   string
	BuyerID  string
	SellerID string
}

type OrderRepository interface {
	// Create allocates the next order number and inserts the order in one
	// transaction; the unique constraint on order_number is the final
	// arbiter under concurrency.
	Create(ctx context.Context, order *entity.Order) error

	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, filter OrderFilter, limit, offset int) ([]*entity.Order, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateOrderNumber(ctx context.Context, id string, orderNumber int) error
	IsOrderNumberUnique(ctx context.Context, orderNumber int, excludeID string) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
