package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"partsbay/internal/domain/entity"
	"partsbay/internal/usecase"
)

func newOfferUseCase(offers *mockOfferRepo, products *mockProductRepo) *usecase.OfferUseCase {
	return usecase.NewOfferUseCase(
		offers, products, newMockUserRepo(), newMockEventLogRepo(),
		usecase.NoopPublisher, noopNotifier{},
	)
}

func activeProduct(sellerID string) *entity.Product {
	return &entity.Product{
		ID:       "prod-1",
		SellerID: sellerID,
		Title:    "Brake caliper",
		Status:   entity.ProductStatusActive,
		Price:    120,
	}
}

func TestOfferUseCase_Validate(t *testing.T) {
	t.Run("anonymous_caller_rejected_without_queries", func(t *testing.T) {
		offers := newMockOfferRepo()
		offers.expireIfStaleFunc = func(ctx context.Context, productID, buyerID string, now time.Time) (bool, error) {
			t.Error("expiry sweep must not run for anonymous callers")
			return false, nil
		}
		offers.getPendingFunc = func(ctx context.Context, productID, buyerID string) (*entity.PriceOffer, error) {
			t.Error("pending lookup must not run for anonymous callers")
			return nil, nil
		}

		uc := newOfferUseCase(offers, newMockProductRepo())
		result, err := uc.Validate(context.Background(), "prod-1", "")

		assert.NoError(t, err)
		assert.False(t, result.CanCreate)
		assert.Equal(t, "authentication required", result.Reason)
	})

	t.Run("stale_offer_expired_then_create_permitted", func(t *testing.T) {
		expired := false
		offers := newMockOfferRepo()
		offers.expireIfStaleFunc = func(ctx context.Context, productID, buyerID string, now time.Time) (bool, error) {
			expired = true
			return true, nil
		}
		offers.getPendingFunc = func(ctx context.Context, productID, buyerID string) (*entity.PriceOffer, error) {
			// The sweep already flipped the stale row.
			return nil, nil
		}

		uc := newOfferUseCase(offers, newMockProductRepo())
		result, err := uc.Validate(context.Background(), "prod-1", "buyer-1")

		assert.NoError(t, err)
		assert.True(t, expired)
		assert.True(t, result.CanCreate)
		assert.Nil(t, result.ExistingOffer)
	})

	t.Run("active_offer_blocks_with_existing_returned", func(t *testing.T) {
		existing := &entity.PriceOffer{
			ID:        "offer-1",
			ProductID: "prod-1",
			BuyerID:   "buyer-1",
			Status:    entity.OfferStatusPending,
			ExpiresAt: time.Now().Add(time.Hour),
		}
		offers := newMockOfferRepo()
		offers.getPendingFunc = func(ctx context.Context, productID, buyerID string) (*entity.PriceOffer, error) {
			return existing, nil
		}

		uc := newOfferUseCase(offers, newMockProductRepo())
		result, err := uc.Validate(context.Background(), "prod-1", "buyer-1")

		assert.NoError(t, err)
		assert.False(t, result.CanCreate)
		assert.Equal(t, existing, result.ExistingOffer)
	})
}

func TestOfferUseCase_Create(t *testing.T) {
	input := usecase.CreateOfferInput{ProductID: "prod-1", OfferedPrice: 100}

	t.Run("seller_cannot_bid_on_own_product", func(t *testing.T) {
		products := newMockProductRepo()
		products.getByIDFunc = func(ctx context.Context, id string) (*entity.Product, error) {
			return activeProduct("buyer-1"), nil
		}

		uc := newOfferUseCase(newMockOfferRepo(), products)
		_, err := uc.Create(context.Background(), "buyer-1", input, false)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "your own product")
	})

	t.Run("sold_product_rejects_offers", func(t *testing.T) {
		products := newMockProductRepo()
		products.getByIDFunc = func(ctx context.Context, id string) (*entity.Product, error) {
			p := activeProduct("seller-1")
			p.Status = entity.ProductStatusSold
			return p, nil
		}

		uc := newOfferUseCase(newMockOfferRepo(), products)
		_, err := uc.Create(context.Background(), "buyer-1", input, false)

		assert.Error(t, err)
	})

	t.Run("existing_offer_updated_in_place", func(t *testing.T) {
		existing := &entity.PriceOffer{
			ID:           "offer-1",
			ProductID:    "prod-1",
			BuyerID:      "buyer-1",
			SellerID:     "seller-1",
			OfferedPrice: 80,
			Status:       entity.OfferStatusPending,
			ExpiresAt:    time.Now().Add(time.Hour),
		}

		var updated *entity.PriceOffer
		offers := newMockOfferRepo()
		offers.getPendingFunc = func(ctx context.Context, productID, buyerID string) (*entity.PriceOffer, error) {
			return existing, nil
		}
		offers.updateFunc = func(ctx context.Context, offer *entity.PriceOffer) error {
			updated = offer
			return nil
		}
		offers.createFunc = func(ctx context.Context, offer *entity.PriceOffer) error {
			t.Error("an existing active offer must be updated, not recreated")
			return nil
		}

		products := newMockProductRepo()
		products.getByIDFunc = func(ctx context.Context, id string) (*entity.Product, error) {
			return activeProduct("seller-1"), nil
		}

		uc := newOfferUseCase(offers, products)
		offer, err := uc.Create(context.Background(), "buyer-1", input, false)

		assert.NoError(t, err)
		assert.Equal(t, "offer-1", offer.ID)
		assert.Equal(t, float64(100), offer.OfferedPrice)
		assert.Equal(t, entity.OfferStatusPending, offer.Status)
		assert.NotNil(t, updated)
		assert.True(t, updated.ExpiresAt.After(time.Now()))
	})

	t.Run("force_skips_validation", func(t *testing.T) {
		offers := newMockOfferRepo()
		offers.getPendingFunc = func(ctx context.Context, productID, buyerID string) (*entity.PriceOffer, error) {
			t.Error("force create must not consult the pending lookup")
			return nil, nil
		}

		products := newMockProductRepo()
		products.getByIDFunc = func(ctx context.Context, id string) (*entity.Product, error) {
			return activeProduct("seller-1"), nil
		}

		uc := newOfferUseCase(offers, products)
		offer, err := uc.Create(context.Background(), "buyer-1", input, true)

		assert.NoError(t, err)
		assert.Equal(t, "new-offer", offer.ID)
	})
}

func TestOfferUseCase_Accept(t *testing.T) {
	pendingOffer := func() *entity.PriceOffer {
		return &entity.PriceOffer{
			ID:        "offer-1",
			ProductID: "prod-1",
			BuyerID:   "buyer-1",
			SellerID:  "seller-1",
			Status:    entity.OfferStatusPending,
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}

	t.Run("only_the_seller_can_accept", func(t *testing.T) {
		offers := newMockOfferRepo()
		offers.getByIDFunc = func(ctx context.Context, id string) (*entity.PriceOffer, error) {
			return pendingOffer(), nil
		}

		uc := newOfferUseCase(offers, newMockProductRepo())
		_, err := uc.Accept(context.Background(), "someone-else", "offer-1")

		assert.Error(t, err)
	})

	t.Run("expired_offer_cannot_be_accepted", func(t *testing.T) {
		offers := newMockOfferRepo()
		offers.getByIDFunc = func(ctx context.Context, id string) (*entity.PriceOffer, error) {
			o := pendingOffer()
			o.ExpiresAt = time.Now().Add(-time.Minute)
			return o, nil
		}
		offers.acceptFunc = func(ctx context.Context, offerID string) error {
			t.Error("expired offers must be rejected before the transactional accept")
			return nil
		}

		uc := newOfferUseCase(offers, newMockProductRepo())
		_, err := uc.Accept(context.Background(), "seller-1", "offer-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("accept_runs_sibling_rejection", func(t *testing.T) {
		accepted := ""
		offers := newMockOfferRepo()
		offers.getByIDFunc = func(ctx context.Context, id string) (*entity.PriceOffer, error) {
			return pendingOffer(), nil
		}
		offers.acceptFunc = func(ctx context.Context, offerID string) error {
			accepted = offerID
			return nil
		}

		uc := newOfferUseCase(offers, newMockProductRepo())
		offer, err := uc.Accept(context.Background(), "seller-1", "offer-1")

		assert.NoError(t, err)
		assert.Equal(t, "offer-1", accepted)
		assert.Equal(t, entity.OfferStatusAccepted, offer.Status)
	})
}

func TestOfferUseCase_Cancel(t *testing.T) {
	offers := newMockOfferRepo()
	offers.getByIDFunc = func(ctx context.Context, id string) (*entity.PriceOffer, error) {
		return &entity.PriceOffer{
			ID:      "offer-1",
			BuyerID: "buyer-1",
			Status:  entity.OfferStatusPending,
		}, nil
	}

	uc := newOfferUseCase(offers, newMockProductRepo())

	assert.Error(t, uc.Cancel(context.Background(), "someone-else", "offer-1"))
	assert.NoError(t, uc.Cancel(context.Background(), "buyer-1", "offer-1"))
}

func TestOfferUseCase_ListCompetitive_MasksIdentities(t *testing.T) {
	offers := newMockOfferRepo()
	offers.listByProductFunc = func(ctx context.Context, productID string, limit, offset int) ([]*entity.PriceOffer, int64, error) {
		return []*entity.PriceOffer{
			{ProductID: "prod-1", BuyerID: "buyer-1", OfferedPrice: 100, Status: entity.OfferStatusPending},
			{ProductID: "prod-1", BuyerID: "buyer-2", OfferedPrice: 90, Status: entity.OfferStatusPending},
			{ProductID: "prod-1", BuyerID: "buyer-3", OfferedPrice: 80, Status: entity.OfferStatusRejected},
		}, 3, nil
	}

	uc := newOfferUseCase(offers, newMockProductRepo())
	result, _, err := uc.ListCompetitive(context.Background(), "prod-1", "buyer-1", 20, 0)

	assert.NoError(t, err)
	assert.Len(t, result, 2, "non-pending offers are hidden")
	assert.True(t, result[0].IsOwn)
	assert.False(t, result[1].IsOwn)
}
