package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"partsbay/internal/domain/entity"
	"partsbay/internal/usecase"
)

func newShipmentUseCase(shipments *mockShipmentRepo, orders *mockOrderRepo) *usecase.ShipmentUseCase {
	return usecase.NewShipmentUseCase(shipments, orders, newMockEventLogRepo(), usecase.NoopPublisher)
}

func strPtr(s string) *string { return &s }

func TestShipmentUseCase_Update(t *testing.T) {
	notShipped := func() *entity.OrderShipment {
		return &entity.OrderShipment{
			ID:             "ship-1",
			OrderID:        "order-1",
			PlaceNumber:    1,
			ShipmentStatus: entity.ShipmentStatusNotShipped,
		}
	}

	t.Run("in_transit_without_container_rejected_before_write", func(t *testing.T) {
		shipments := newMockShipmentRepo()
		shipments.getByIDFunc = func(ctx context.Context, id string) (*entity.OrderShipment, error) {
			return notShipped(), nil
		}
		shipments.updateFunc = func(ctx context.Context, shipment *entity.OrderShipment) error {
			t.Error("the invariant must be checked before the repository write")
			return nil
		}

		uc := newShipmentUseCase(shipments, newMockOrderRepo())
		status := entity.ShipmentStatusInTransit
		_, err := uc.Update(context.Background(), adminUser(), "ship-1", usecase.UpdateShipmentInput{
			ShipmentStatus: &status,
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "container")
	})

	t.Run("setting_container_auto_advances_to_in_transit", func(t *testing.T) {
		shipments := newMockShipmentRepo()
		shipments.getByIDFunc = func(ctx context.Context, id string) (*entity.OrderShipment, error) {
			return notShipped(), nil
		}

		uc := newShipmentUseCase(shipments, newMockOrderRepo())
		shipment, err := uc.Update(context.Background(), adminUser(), "ship-1", usecase.UpdateShipmentInput{
			ContainerNumber: strPtr("CONT-7"),
		})

		assert.NoError(t, err)
		assert.Equal(t, entity.ShipmentStatusInTransit, shipment.ShipmentStatus)
		assert.Equal(t, "CONT-7", *shipment.ContainerNumber)
	})

	t.Run("container_with_explicit_status_respects_status", func(t *testing.T) {
		shipments := newMockShipmentRepo()
		shipments.getByIDFunc = func(ctx context.Context, id string) (*entity.OrderShipment, error) {
			return notShipped(), nil
		}

		uc := newShipmentUseCase(shipments, newMockOrderRepo())
		status := entity.ShipmentStatusNotShipped
		shipment, err := uc.Update(context.Background(), adminUser(), "ship-1", usecase.UpdateShipmentInput{
			ContainerNumber: strPtr("CONT-7"),
			ShipmentStatus:  &status,
		})

		assert.NoError(t, err)
		assert.Equal(t, entity.ShipmentStatusNotShipped, shipment.ShipmentStatus)
	})

	t.Run("non_admin_forbidden", func(t *testing.T) {
		uc := newShipmentUseCase(newMockShipmentRepo(), newMockOrderRepo())
		_, err := uc.Update(context.Background(), sellerUser(), "ship-1", usecase.UpdateShipmentInput{})

		assert.Error(t, err)
	})

	t.Run("unknown_status_rejected", func(t *testing.T) {
		shipments := newMockShipmentRepo()
		shipments.getByIDFunc = func(ctx context.Context, id string) (*entity.OrderShipment, error) {
			return notShipped(), nil
		}

		uc := newShipmentUseCase(shipments, newMockOrderRepo())
		status := "lost_at_sea"
		_, err := uc.Update(context.Background(), adminUser(), "ship-1", usecase.UpdateShipmentInput{
			ShipmentStatus: &status,
		})

		assert.Error(t, err)
	})
}

func TestShipmentUseCase_ListByOrder_AccessControl(t *testing.T) {
	orders := newMockOrderRepo()
	orders.getByIDFunc = func(ctx context.Context, id string) (*entity.Order, error) {
		return orderInStatus(entity.OrderStatusCreated), nil
	}

	uc := newShipmentUseCase(newMockShipmentRepo(), orders)

	_, err := uc.ListByOrder(context.Background(), buyerUser(), "order-1")
	assert.NoError(t, err)

	outsider := &entity.User{ID: "stranger", Role: entity.RoleBuyer}
	_, err = uc.ListByOrder(context.Background(), outsider, "order-1")
	assert.Error(t, err)
}
