package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	"partsbay/internal/usecase"
)

func newOrderUseCase(orders *mockOrderRepo, offers *mockOfferRepo, products *mockProductRepo, users *mockUserRepo, queue *recordingQueue) *usecase.OrderUseCase {
	return usecase.NewOrderUseCase(
		orders, offers, products, users, newMockEventLogRepo(),
		usecase.NoopPublisher, queue,
	)
}

func adminUser() *entity.User  { return &entity.User{ID: "admin-1", Role: entity.RoleAdmin} }
func sellerUser() *entity.User { return &entity.User{ID: "seller-1", Role: entity.RoleSeller} }
func buyerUser() *entity.User  { return &entity.User{ID: "buyer-1", Role: entity.RoleBuyer} }

func orderInStatus(status string) *entity.Order {
	return &entity.Order{
		ID:          "order-1",
		OrderNumber: 1001,
		Status:      status,
		ProductID:   "prod-1",
		BuyerID:     "buyer-1",
		SellerID:    "seller-1",
		Title:       "Brake caliper",
	}
}

func TestOrderUseCase_UpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		actor   *entity.User
		from    string
		to      string
		wantErr bool
	}{
		{"seller_confirms_created", sellerUser(), entity.OrderStatusCreated, entity.OrderStatusSellerConfirmed, false},
		{"buyer_cannot_confirm", buyerUser(), entity.OrderStatusCreated, entity.OrderStatusSellerConfirmed, true},
		{"admin_confirms_after_seller", adminUser(), entity.OrderStatusSellerConfirmed, entity.OrderStatusAdminConfirmed, false},
		{"seller_cannot_admin_confirm", sellerUser(), entity.OrderStatusSellerConfirmed, entity.OrderStatusAdminConfirmed, true},
		{"no_status_skipping", adminUser(), entity.OrderStatusCreated, entity.OrderStatusProcessed, true},
		{"admin_processes", adminUser(), entity.OrderStatusAdminConfirmed, entity.OrderStatusProcessed, false},
		{"admin_ships", adminUser(), entity.OrderStatusProcessed, entity.OrderStatusShipped, false},
		{"admin_delivers", adminUser(), entity.OrderStatusShipped, entity.OrderStatusDelivered, false},
		{"delivered_is_terminal", adminUser(), entity.OrderStatusDelivered, entity.OrderStatusCancelled, true},
		{"cancelled_is_terminal", adminUser(), entity.OrderStatusCancelled, entity.OrderStatusCreated, true},
		{"buyer_cancels_unconfirmed", buyerUser(), entity.OrderStatusCreated, entity.OrderStatusCancelled, false},
		{"buyer_cannot_cancel_confirmed", buyerUser(), entity.OrderStatusSellerConfirmed, entity.OrderStatusCancelled, true},
		{"admin_cancels_confirmed", adminUser(), entity.OrderStatusSellerConfirmed, entity.OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := newMockOrderRepo()
			orders.getByIDFunc = func(ctx context.Context, id string) (*entity.Order, error) {
				return orderInStatus(tt.from), nil
			}

			uc := newOrderUseCase(orders, newMockOfferRepo(), newMockProductRepo(), newMockUserRepo(), &recordingQueue{})
			order, err := uc.UpdateStatus(context.Background(), tt.actor, "order-1", tt.to)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, order.Status)
			}
		})
	}
}

func TestOrderUseCase_UpdateStatus_QueuesNotifications(t *testing.T) {
	orders := newMockOrderRepo()
	orders.getByIDFunc = func(ctx context.Context, id string) (*entity.Order, error) {
		return orderInStatus(entity.OrderStatusCreated), nil
	}

	users := newMockUserRepo()
	users.getByIDFunc = func(ctx context.Context, id string) (*entity.User, error) {
		return &entity.User{ID: id, TelegramChatID: 42}, nil
	}

	queue := &recordingQueue{}
	uc := newOrderUseCase(orders, newMockOfferRepo(), newMockProductRepo(), users, queue)

	_, err := uc.UpdateStatus(context.Background(), sellerUser(), "order-1", entity.OrderStatusSellerConfirmed)

	assert.NoError(t, err)
	// One durable send for the buyer and one for the seller.
	assert.Equal(t, []string{"telegram_send", "telegram_send"}, queue.enqueued)
}

func TestOrderUseCase_UpdateStatus_OutsiderForbidden(t *testing.T) {
	orders := newMockOrderRepo()
	orders.getByIDFunc = func(ctx context.Context, id string) (*entity.Order, error) {
		return orderInStatus(entity.OrderStatusCreated), nil
	}

	uc := newOrderUseCase(orders, newMockOfferRepo(), newMockProductRepo(), newMockUserRepo(), &recordingQueue{})
	outsider := &entity.User{ID: "stranger", Role: entity.RoleSeller}
	_, err := uc.UpdateStatus(context.Background(), outsider, "order-1", entity.OrderStatusSellerConfirmed)

	assert.Error(t, err)
}

func TestOrderUseCase_CreateFromOffer(t *testing.T) {
	acceptedOffer := &entity.PriceOffer{
		ID:           "offer-1",
		ProductID:    "prod-1",
		BuyerID:      "buyer-1",
		SellerID:     "seller-1",
		OfferedPrice: 95,
		Status:       entity.OfferStatusAccepted,
	}

	t.Run("snapshot_uses_offer_price", func(t *testing.T) {
		offers := newMockOfferRepo()
		offers.getByIDFunc = func(ctx context.Context, id string) (*entity.PriceOffer, error) {
			return acceptedOffer, nil
		}
		products := newMockProductRepo()
		products.getByIDFunc = func(ctx context.Context, id string) (*entity.Product, error) {
			p := activeProduct("seller-1")
			p.Price = 120
			return p, nil
		}

		uc := newOrderUseCase(newMockOrderRepo(), offers, products, newMockUserRepo(), &recordingQueue{})
		order, err := uc.CreateFromOffer(context.Background(), sellerUser(), "offer-1")

		assert.NoError(t, err)
		assert.Equal(t, float64(95), order.Price)
		assert.Equal(t, "Brake caliper", order.Title)
		assert.Equal(t, entity.OrderStatusCreated, order.Status)
	})

	t.Run("pending_offer_rejected", func(t *testing.T) {
		offers := newMockOfferRepo()
		offers.getByIDFunc = func(ctx context.Context, id string) (*entity.PriceOffer, error) {
			o := *acceptedOffer
			o.Status = entity.OfferStatusPending
			return &o, nil
		}

		uc := newOrderUseCase(newMockOrderRepo(), offers, newMockProductRepo(), newMockUserRepo(), &recordingQueue{})
		_, err := uc.CreateFromOffer(context.Background(), sellerUser(), "offer-1")

		assert.Error(t, err)
	})
}

func TestOrderUseCase_EditOrderNumber(t *testing.T) {
	t.Run("taken_number_conflicts", func(t *testing.T) {
		orders := newMockOrderRepo()
		orders.getByIDFunc = func(ctx context.Context, id string) (*entity.Order, error) {
			return orderInStatus(entity.OrderStatusCreated), nil
		}
		orders.isNumberUniqueFunc = func(ctx context.Context, orderNumber int, excludeID string) (bool, error) {
			return false, nil
		}

		uc := newOrderUseCase(orders, newMockOfferRepo(), newMockProductRepo(), newMockUserRepo(), &recordingQueue{})
		_, err := uc.EditOrderNumber(context.Background(), adminUser(), "order-1", 1002)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "CONFLICT")
	})

	t.Run("non_admin_forbidden", func(t *testing.T) {
		uc := newOrderUseCase(newMockOrderRepo(), newMockOfferRepo(), newMockProductRepo(), newMockUserRepo(), &recordingQueue{})
		_, err := uc.EditOrderNumber(context.Background(), sellerUser(), "order-1", 1002)

		assert.Error(t, err)
	})
}

func TestOrderUseCase_List_ScopesByRole(t *testing.T) {
	var gotBuyer, gotSeller string
	orders := newMockOrderRepo()
	orders.listFunc = func(ctx context.Context, filter repository.OrderFilter, limit, offset int) ([]*entity.Order, int64, error) {
		gotBuyer = filter.BuyerID
		gotSeller = filter.SellerID
		return nil, 0, nil
	}

	uc := newOrderUseCase(orders, newMockOfferRepo(), newMockProductRepo(), newMockUserRepo(), &recordingQueue{})

	_, _, err := uc.List(context.Background(), buyerUser(), repository.OrderFilter{}, 20, 0)
	assert.NoError(t, err)
	assert.Equal(t, "buyer-1", gotBuyer)

	_, _, err = uc.List(context.Background(), sellerUser(), repository.OrderFilter{}, 20, 0)
	assert.NoError(t, err)
	assert.Equal(t, "seller-1", gotSeller)
}
