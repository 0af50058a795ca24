package usecase

import (
	"context"
	"fmt"
	"time"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	"partsbay/internal/infrastructure/sticker"
	"partsbay/pkg/errors"
	"partsbay/pkg/logger"
)

type StickerUseCase struct {
	orderRepo    repository.OrderRepository
	shipmentRepo repository.ShipmentRepository
	userRepo     repository.UserRepository
	uploader     Uploader
}

func NewStickerUseCase(
	orderRepo repository.OrderRepository,
	shipmentRepo repository.ShipmentRepository,
	userRepo repository.UserRepository,
	uploader Uploader,
) *StickerUseCase {
	return &StickerUseCase{
		orderRepo:    orderRepo,
		shipmentRepo: shipmentRepo,
		userRepo:     userRepo,
		uploader:     uploader,
	}
}

type GenerateStickersInput struct {
	OrderIDs []string `json:"order_ids" validate:"required,min=1,max=100"`
}

type GenerateStickersResult struct {
	URL        string `json:"url"`
	PageCount  int    `json:"page_count"`
	OrderCount int    `json:"order_count"`
}

// Generate renders one label per shipment place of each order, uploads the
// PDF to Cloudinary and returns its URL. Admin only.
func (uc *StickerUseCase) Generate(ctx context.Context, admin *entity.User, input GenerateStickersInput) (*GenerateStickersResult, error) {
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("only admins can print stickers", nil)
	}

	var labels []sticker.Label
	for _, orderID := range input.OrderIDs {
		order, err := uc.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		optID := ""
		if buyer, err := uc.userRepo.GetByID(ctx, order.BuyerID); err == nil {
			optID = buyer.OptID
		} else {
			logger.Warn("failed to load buyer for order %s: %v", orderID, err)
		}

		shipments, err := uc.shipmentRepo.ListByOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}

		for _, s := range shipments {
			container := ""
			if s.ContainerNumber != nil {
				container = *s.ContainerNumber
			}
			labels = append(labels, sticker.Label{
				OrderNumber: order.OrderNumber,
				Title:       order.Title,
				PlaceNumber: s.PlaceNumber,
				OptID:       optID,
				Container:   container,
			})
		}
	}

	if len(labels) == 0 {
		return nil, errors.BadRequest("selected orders have no shipment places", nil)
	}

	pdf, err := sticker.Generate(labels)
	if err != nil {
		return nil, errors.Internal("failed to render stickers", err)
	}

	publicID := fmt.Sprintf("stickers_%d", time.Now().UTC().Unix())
	url, err := uc.uploader.UploadRaw(ctx, pdf, "stickers", publicID)
	if err != nil {
		return nil, errors.Internal("failed to upload sticker pdf", err)
	}

	return &GenerateStickersResult{
		URL:        url,
		PageCount:  len(labels),
		OrderCount: len(input.OrderIDs),
	}, nil
}
