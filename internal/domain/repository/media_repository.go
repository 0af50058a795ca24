package repository

import (
	"context"

	"partsbay/internal/domain/entity"
)

type MediaRepository interface {
	// AttachBatch inserts media rows for an order, skipping URLs already
	// attached to it; returns the number actually inserted.
	AttachBatch(ctx context.Context, orderID string, items []*entity.OrderMedia) (int, error)

	ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderMedia, error)
	Delete(ctx context.Context, id string) error
}
