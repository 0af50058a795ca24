package usecase

import (
	"context"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	ws "partsbay/internal/infrastructure/websocket"
	"partsbay/pkg/errors"
	"partsbay/pkg/logger"
)

type ShipmentUseCase struct {
	shipmentRepo repository.ShipmentRepository
	orderRepo    repository.OrderRepository
	eventRepo    repository.EventLogRepository
	publisher    InvalidationPublisher
}

func NewShipmentUseCase(
	shipmentRepo repository.ShipmentRepository,
	orderRepo    repository.OrderRepository,
	eventRepo    repository.EventLogRepository,
	publisher    InvalidationPublisher,
) *ShipmentUseCase {
	return &ShipmentUseCase{
		shipmentRepo: shipmentRepo,
		orderRepo:    orderRepo,
		eventRepo:    eventRepo,
		publisher:    publisher,
	}
}

type UpdateShipmentInput struct {
	ContainerNumber *string `json:"container_number"`
	ShipmentStatus  *string `json:"shipment_status"`
	Description     *string `json:"description"`
}

// ListByOrder returns the shipment places of an order, participant or
// admin only.
func (uc *ShipmentUseCase) ListByOrder(ctx context.Context, actor *entity.User, orderID string) ([]*entity.OrderShipment, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != order.BuyerID && actor.ID != order.SellerID {
		return nil, errors.Forbidden("you do not have access to this order", nil)
	}
	return uc.shipmentRepo.ListByOrder(ctx, orderID)
}

// Update edits one shipment place. Assigning a container to a not-shipped
// place auto-advances it to in_transit; moving to in_transit without a
// container is rejected before any write. Admin only.
func (uc *ShipmentUseCase) Update(ctx context.Context, admin *entity.User, shipmentID string, input UpdateShipmentInput) (*entity.OrderShipment, error) {
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("only admins can manage shipments", nil)
	}

	shipment, err := uc.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	if input.ContainerNumber != nil {
		shipment.ContainerNumber = input.ContainerNumber
		if *input.ContainerNumber != "" && shipment.ShipmentStatus == entity.ShipmentStatusNotShipped && input.ShipmentStatus == nil {
			shipment.ShipmentStatus = entity.ShipmentStatusInTransit
		}
	}
	if input.ShipmentStatus != nil {
		switch *input.ShipmentStatus {
		case entity.ShipmentStatusNotShipped, entity.ShipmentStatusInTransit:
			shipment.ShipmentStatus = *input.ShipmentStatus
		default:
			return nil, errors.BadRequest("unknown shipment status", nil)
		}
	}
	if input.Description != nil {
		shipment.Description = *input.Description
	}

	if !shipment.Validate() {
		return nil, errors.BadRequest("a shipment in transit must have a container number", nil)
	}

	if err := uc.shipmentRepo.Update(ctx, shipment); err != nil {
		return nil, err
	}

	uc.logEvent(ctx, admin.ID, "shipment_updated", shipment)
	uc.publisher.Invalidate(shipment.OrderID, "shipment_updated",
		[]string{ws.OrderTag(shipment.OrderID)},
		map[string]interface{}{"order_id": shipment.OrderID, "shipment_id": shipment.ID},
	)
	return shipment, nil
}

// ListContainers is the admin container overview.
func (uc *ShipmentUseCase) ListContainers(ctx context.Context, admin *entity.User) ([]entity.ContainerSummary, error) {
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("only admins can list containers", nil)
	}
	return uc.shipmentRepo.ListContainers(ctx)
}

func (uc *ShipmentUseCase) logEvent(ctx context.Context, actorID, action string, shipment *entity.OrderShipment) {
	err := uc.eventRepo.Append(ctx, &entity.EventLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: "order_shipment",
		EntityID:   shipment.ID,
		Details: map[string]interface{}{
			"order_id": shipment.OrderID,
			"status":   shipment.ShipmentStatus,
		},
	})
	if err != nil {
		logger.Warn("failed to append event log for shipment %s: %v", shipment.ID, err)
	}
}
