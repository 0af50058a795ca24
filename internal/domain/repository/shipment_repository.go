package repository

import (
	"context"

	"partsbay/internal/domain/entity"
)

type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.OrderShipment) error
	GetByID(ctx context.Context, id string) (*entity.OrderShipment, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderShipment, error)
	Update(ctx context.Context, shipment *entity.OrderShipment) error
	ListContainers(ctx context.Context) ([]entity.ContainerSummary, error)
}
