package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	ws "partsbay/internal/infrastructure/websocket"
	"partsbay/pkg/errors"
)

type MediaUseCase struct {
	mediaRepo repository.MediaRepository
	orderRepo repository.OrderRepository
	uploader  Uploader
	publisher InvalidationPublisher
}

func NewMediaUseCase(
	mediaRepo repository.MediaRepository,
	orderRepo repository.OrderRepository,
	uploader Uploader,
	publisher InvalidationPublisher,
) *MediaUseCase {
	return &MediaUseCase{
		mediaRepo: mediaRepo,
		orderRepo: orderRepo,
		uploader:  uploader,
		publisher: publisher,
	}
}

type SignBatchInput struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
	Count   int    `json:"count" validate:"required,min=1,max=20"`
}

// SignBatch issues signed direct-upload parameter sets so clients talk to
// Cloudinary without the server proxying bytes.
func (uc *MediaUseCase) SignBatch(ctx context.Context, input SignBatchInput) ([]entity.SignedUploadParams, error) {
	if _, err := uc.orderRepo.GetByID(ctx, input.OrderID); err != nil {
		return nil, err
	}

	publicIDs := make([]string, input.Count)
	for i := range publicIDs {
		publicIDs[i] = fmt.Sprintf("%s_%s", input.OrderID, uuid.NewString()[:8])
	}

	return uc.uploader.SignUploadBatch("orders/"+input.OrderID, publicIDs)
}

type AttachMediaItem struct {
	URL       string `json:"url" validate:"required,url"`
	PublicID  string `json:"public_id"`
	MediaType string `json:"media_type" validate:"omitempty,oneof=photo video"`
}

type AttachMediaInput struct {
	OrderID string            `json:"order_id" validate:"required,uuid"`
	Items   []AttachMediaItem `json:"items" validate:"required,min=1"`
}

type AttachMediaResult struct {
	Attached int                  `json:"attached"`
	Skipped  int                  `json:"skipped"`
	Media    []*entity.OrderMedia `json:"media"`
}

// Attach records uploaded assets against an order. Already-attached URLs
// are skipped, which makes retried callbacks (the bot, the action queue)
// idempotent.
func (uc *MediaUseCase) Attach(ctx context.Context, input AttachMediaInput) (*AttachMediaResult, error) {
	if _, err := uc.orderRepo.GetByID(ctx, input.OrderID); err != nil {
		return nil, err
	}

	items := make([]*entity.OrderMedia, 0, len(input.Items))
	for _, item := range input.Items {
		mediaType := item.MediaType
		if mediaType == "" {
			mediaType = entity.MediaTypePhoto
		}
		items = append(items, &entity.OrderMedia{
			OrderID:   input.OrderID,
			URL:       item.URL,
			PublicID:  item.PublicID,
			MediaType: mediaType,
		})
	}

	attached, err := uc.mediaRepo.AttachBatch(ctx, input.OrderID, items)
	if err != nil {
		return nil, err
	}

	media, err := uc.mediaRepo.ListByOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	uc.publisher.Invalidate(input.OrderID, "order_media_attached",
		[]string{ws.OrderTag(input.OrderID)},
		map[string]interface{}{"order_id": input.OrderID, "attached": attached},
	)

	return &AttachMediaResult{
		Attached: attached,
		Skipped:  len(items) - attached,
		Media:    media,
	}, nil
}

// ListByOrder returns attached media, participant or admin only.
func (uc *MediaUseCase) ListByOrder(ctx context.Context, actor *entity.User, orderID string) ([]*entity.OrderMedia, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != order.BuyerID && actor.ID != order.SellerID {
		return nil, errors.Forbidden("you do not have access to this order", nil)
	}
	return uc.mediaRepo.ListByOrder(ctx, orderID)
}

// Delete removes one media row. Admin only; the Cloudinary asset is left
// in place.
func (uc *MediaUseCase) Delete(ctx context.Context, admin *entity.User, mediaID string) error {
	if !admin.IsAdmin() {
		return errors.Forbidden("only admins can delete media", nil)
	}
	return uc.mediaRepo.Delete(ctx, mediaID)
}
