package repository

import (
	"context"
	"time"

	"partsbay/internal/domain/entity"
)

type OfferRepository interface {
	Create(ctx context.Context, offer *entity.PriceOffer) error
	GetByID(ctx context.Context, id string) (*entity.PriceOffer, error)

	// GetPending returns the newest pending offer for (productID, buyerID)
	// or nil when none exists. Read-only.
	GetPending(ctx context.Context, productID, buyerID string) (*entity.PriceOffer, error)

	// ExpireIfStale flips a pending offer to expired when expires_at is
	// before now. Idempotent; reports whether a row changed.
	ExpireIfStale(ctx context.Context, productID, buyerID string, now time.Time) (bool, error)

	Update(ctx context.Context, offer *entity.PriceOffer) error
	UpdateStatus(ctx context.Context, id, status string) error

	// AcceptAndRejectSiblings marks the offer accepted, rejects every other
	// pending offer on the same product and marks the product sold, all in
	// one transaction.
	AcceptAndRejectSiblings(ctx context.Context, offerID string) error

	ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.PriceOffer, int64, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.PriceOffer, int64, error)
	MaxOfferedPrice(ctx context.Context, productID string) (float64, error)
	CountPerDay(ctx context.Context, days int) ([]entity.DayCount, error)
}
