package usecase

import (
	"context"
	"time"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	ws "partsbay/internal/infrastructure/websocket"
	"partsbay/pkg/errors"
	"partsbay/pkg/logger"
)

// OfferUseCase implements the price negotiation workflow. The database's
// partial unique index is the authoritative at-most-one-pending-offer
// guard; every check here is a fast path for better error messages, never
// the real defense.
type OfferUseCase struct {
	offerRepo   repository.OfferRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	eventRepo   repository.EventLogRepository
	publisher   InvalidationPublisher
	notifier    Notifier
	now         func() time.Time
}

func NewOfferUseCase(
	offerRepo repository.OfferRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	eventRepo repository.EventLogRepository,
	publisher InvalidationPublisher,
	notifier Notifier,
) *OfferUseCase {
	return &OfferUseCase{
		offerRepo:   offerRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		eventRepo:   eventRepo,
		publisher:   publisher,
		notifier:    notifier,
		now:         time.Now,
	}
}

type CreateOfferInput struct {
	ProductID              string  `json:"product_id"`
	OfferedPrice           float64 `json:"offered_price"`
	DeliveryPriceConfirmed bool    `json:"delivery_price_confirmed"`
	Message                string  `json:"message"`
}

// ValidationResult reports whether a new offer may be created and, when it
// may not, the blocking offer so the caller can take the update path.
type ValidationResult struct {
	CanCreate     bool               `json:"can_create"`
	Reason        string             `json:"reason,omitempty"`
	ExistingOffer *entity.PriceOffer `json:"existing_offer,omitempty"`
}

/// CheckActive is the pure read half of validation: the newest pending
// offer for (product, buyer), or nil. It never writes.
func (uc *OfferUseCase) CheckActive(ctx context.Context, productID, buyerID string) (*entity.PriceOffer, error) {
	return uc.offerRepo.GetPending(ctx, productID, buyerID)
}

// ExpireStale is the named, idempotent expiry sweep for one (product,
// buyer) pair. Expiry is lazy: nothing reaps offers in the background, the
// flip happens on the next validation touching the pair.
func (uc *OfferUseCase) ExpireStale(ctx context.Context, productID, buyerID string) (bool, error) {
	return uc.offerRepo.ExpireIfStale(ctx, productID, buyerID, uc.now().UTC())
}

// Validate determines whether buyerID may create a new offer on productID.
// A stale pending offer is expired as part of the call, then the pure check
// runs against the cleaned state.
func (uc *OfferUseCase) Validate(ctx context.Context, productID, buyerID string) (*ValidationResult, error) {
	if buyerID == "" {
		return &ValidationResult{CanCreate: false, Reason: "authentication required"}, nil
	}

	expired, err := uc.ExpireStale(ctx, productID, buyerID)
	if err != nil {
		return nil, err
	}
	if expired {
		uc.invalidateOffers(productID, buyerID, "offer_expired")
	}

	existing, err := uc.CheckActive(ctx, productID, buyerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ValidationResult{
			CanCreate:     false,
			Reason:        "you already have an active offer for this product",
			ExistingOffer: existing,
		}, nil
	}
	return &ValidationResult{CanCreate: true}, nil
}

// Create submits an offer. Without force an existing active offer is
// updated in place (same row id, expiry reset); force skips validation and
// inserts directly, which is the second leg of cancel-then-recreate.
func (uc *OfferUseCase) Create(ctx context.Context, buyerID string, input CreateOfferInput, force bool) (*entity.PriceOffer, error) {
	if buyerID == "" {
		return nil, errors.Unauthorized("authentication required", nil)
	}
	if input.OfferedPrice <= 0 {
		return nil, errors.BadRequest("offered price must be positive", nil)
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.SellerID == buyerID {
		return nil, errors.BadRequest("you cannot bid on your own product", nil)
	}
	if !product.AcceptsOffers() {
		return nil, errors.BadRequest("product is not open for offers", nil)
	}

	if !force {
		validation, err := uc.Validate(ctx, input.ProductID, buyerID)
		if err != nil {
			return nil, err
		}
		if !validation.CanCreate && validation.ExistingOffer != nil {
			return uc.updateInPlace(ctx, validation.ExistingOffer, input)
		}
		if !validation.CanCreate {
			return nil, errors.Unauthorized(validation.Reason, nil)
		}
	}

	offer := &entity.PriceOffer{
		ProductID:              input.ProductID,
		BuyerID:                buyerID,
		SellerID:               product.SellerID,
		OfferedPrice:           input.OfferedPrice,
		DeliveryPriceConfirmed: input.DeliveryPriceConfirmed,
		Message:                input.Message,
		ExpiresAt:              uc.now().UTC().Add(entity.OfferTTL),
	}
	if err := uc.offerRepo.Create(ctx, offer); err != nil {
		// A losing race reaches the unique index, not the pre-check.
		return nil, err
	}

	uc.afterOfferWrite(ctx, offer, product, "offer_created")
	return offer, nil
}

// updateInPlace re-submits an existing active offer: new price and message,
// status back to pending, expiry reset. The row id is preserved.
func (uc *OfferUseCase) updateInPlace(ctx context.Context, existing *entity.PriceOffer, input CreateOfferInput) (*entity.PriceOffer, error) {
	existing.OfferedPrice = input.OfferedPrice
	existing.DeliveryPriceConfirmed = input.DeliveryPriceConfirmed
	existing.Message = input.Message
	existing.Status = entity.OfferStatusPending
	existing.ExpiresAt = uc.now().UTC().Add(entity.OfferTTL)

	if err := uc.offerRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, existing.ProductID)
	if err == nil {
		uc.afterOfferWrite(ctx, existing, product, "offer_updated")
	}
	return existing, nil
}

// CancelAndCreate cancels the buyer's current offer and submits a new one.
// Two sequential writes, not a transaction: a failure between them leaves
// zero active offers, which is a visible degraded state rather than a
// silent inconsistency.
func (uc *OfferUseCase) CancelAndCreate(ctx context.Context, buyerID string, input CreateOfferInput) (*entity.PriceOffer, error) {
	existing, err := uc.CheckActive(ctx, input.ProductID, buyerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := uc.offerRepo.UpdateStatus(ctx, existing.ID, entity.OfferStatusCancelled); err != nil {
			return nil, err
		}
	}
	return uc.Create(ctx, buyerID, input, true)
}

// Cancel withdraws a buyer's own pending offer.
func (uc *OfferUseCase) Cancel(ctx context.Context, buyerID, offerID string) error {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.BuyerID != buyerID {
		return errors.Forbidden("you can only cancel your own offers", nil)
	}
	if offer.Status != entity.OfferStatusPending {
		return errors.BadRequest("only pending offers can be cancelled", nil)
	}

	if err := uc.offerRepo.UpdateStatus(ctx, offerID, entity.OfferStatusCancelled); err != nil {
		return err
	}
	uc.invalidateOffers(offer.ProductID, buyerID, "offer_cancelled")
	uc.logEvent(ctx, buyerID, "offer_cancelled", offer.ID, nil)
	return nil
}

// Accept lets the product's seller take an offer. Sibling pending offers
// are rejected and the product marked sold in the same transaction.
func (uc *OfferUseCase) Accept(ctx context.Context, sellerID, offerID string) (*entity.PriceOffer, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.SellerID != sellerID {
		return nil, errors.Forbidden("only the product's seller can accept this offer", nil)
	}
	if offer.Status != entity.OfferStatusPending {
		return nil, errors.BadRequest("only pending offers can be accepted", nil)
	}
	if offer.IsExpired(uc.now().UTC()) {
		return nil, errors.BadRequest("offer has expired", nil)
	}

	if err := uc.offerRepo.AcceptAndRejectSiblings(ctx, offerID); err != nil {
		return nil, err
	}
	offer.Status = entity.OfferStatusAccepted

	uc.invalidateOffers(offer.ProductID, offer.BuyerID, "offer_accepted")
	uc.logEvent(ctx, sellerID, "offer_accepted", offer.ID, map[string]interface{}{
		"product_id": offer.ProductID,
		"price":      offer.OfferedPrice,
	})
	return offer, nil
}

// Reject lets the seller decline a pending offer.
func (uc *OfferUseCase) Reject(ctx context.Context, sellerID, offerID string) error {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.SellerID != sellerID {
		return errors.Forbidden("only the product's seller can reject this offer", nil)
	}
	if offer.Status != entity.OfferStatusPending {
		return errors.BadRequest("only pending offers can be rejected", nil)
	}

	if err := uc.offerRepo.UpdateStatus(ctx, offerID, entity.OfferStatusRejected); err != nil {
		return err
	}
	uc.invalidateOffers(offer.ProductID, offer.BuyerID, "offer_rejected")
	uc.logEvent(ctx, sellerID, "offer_rejected", offer.ID, nil)
	return nil
}

func (uc *OfferUseCase) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.PriceOffer, int64, error) {
	return uc.offerRepo.ListByBuyer(ctx, buyerID, limit, offset)
}

// ListCompetitive returns the masked per-product view: other buyers see
// prices but not identities.
func (uc *OfferUseCase) ListCompetitive(ctx context.Context, productID, viewerID string, limit, offset int) ([]entity.CompetitiveOffer, int64, error) {
	offers, total, err := uc.offerRepo.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	result := make([]entity.CompetitiveOffer, 0, len(offers))
	for _, offer := range offers {
		if offer.Status != entity.OfferStatusPending {
			continue
		}
		result = append(result, entity.CompetitiveOffer{
			ProductID:    offer.ProductID,
			OfferedPrice: offer.OfferedPrice,
			IsOwn:        offer.BuyerID == viewerID,
			CreatedAt:    offer.CreatedAt,
		})
	}
	return result, total, nil
}

// MaxOfferedPrice is the highest pending offer on a product, 0 when
// there are none. Shown on the product page as the price to beat.
func (uc *OfferUseCase) MaxOfferedPrice(ctx context.Context, productID string) (float64, error) {
	return uc.offerRepo.MaxOfferedPrice(ctx, productID)
}

// afterOfferWrite fans out the non-transactional consequences of a
// successful offer write: audit log, realtime invalidation, seller
// notification.
func (uc *OfferUseCase) afterOfferWrite(ctx context.Context, offer *entity.PriceOffer, product *entity.Product, action string) {
	uc.logEvent(ctx, offer.BuyerID, action, offer.ID, map[string]interface{}{
		"product_id": offer.ProductID,
		"price":      offer.OfferedPrice,
	})
	uc.invalidateOffers(offer.ProductID, offer.BuyerID, action)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		seller, err := uc.userRepo.GetByID(ctx, offer.SellerID)
		if err != nil {
			logger.Warn("failed to load seller %s for notification: %v", offer.SellerID, err)
			return
		}
		uc.notifier.NotifyNewOffer(ctx, seller, offer, product.Title)
	}()
}

func (uc *OfferUseCase) invalidateOffers(productID, buyerID, eventType string) {
	uc.publisher.Invalidate(productID, eventType,
		[]string{
			ws.ProductTag(productID),
			ws.ProductOffersTag(productID),
			ws.BuyerOffersTag(buyerID),
		},
		map[string]interface{}{"product_id": productID},
	)
}

func (uc *OfferUseCase) logEvent(ctx context.Context, actorID, action, offerID string, details map[string]interface{}) {
	err := uc.eventRepo.Append(ctx, &entity.EventLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: "price_offer",
		EntityID:   offerID,
		Details:    details,
	})
	if err != nil {
		logger.Warn("failed to append event log for offer %s: %v", offerID, err)
	}
}
