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

type ProductUseCase struct {
	productRepo repository.ProductRepository
	eventRepo   repository.EventLogRepository
	publisher   InvalidationPublisher
}

func NewProductUseCase(
	productRepo repository.ProductRepository,
	eventRepo repository.EventLogRepository,
	publisher InvalidationPublisher,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		eventRepo:   eventRepo,
		publisher:   publisher,
	}
}

type CreateProductInput struct {
	Title         string                `json:"title" validate:"required"`
	Brand         string                `json:"brand"`
	Model         string                `json:"model"`
	Description   string                `json:"description"`
	Price         float64               `json:"price" validate:"required,gt=0"`
	DeliveryPrice float64               `json:"delivery_price" validate:"min=0"`
	PlaceNumber   int                   `json:"place_number" validate:"min=0"`
	Images        []entity.ProductImage `json:"images"`
}

type UpdateProductInput struct {
	Title         *string  `json:"title"`
	Brand         *string  `json:"brand"`
	Model         *string  `json:"model"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	DeliveryPrice *float64 `json:"delivery_price"`
	PlaceNumber   *int     `json:"place_number"`
}

// Create submits a listing. Seller listings start pending and become
// visible after admin approval; admin-created listings go live directly.
func (uc *ProductUseCase) Create(ctx context.Context, seller *entity.User, input CreateProductInput) (*entity.Product, error) {
	if !seller.IsSeller() && !seller.IsAdmin() {
		return nil, errors.Forbidden("only sellers can list products", nil)
	}

	status := entity.ProductStatusPending
	if seller.IsAdmin() {
		status = entity.ProductStatusActive
	}

	product := &entity.Product{
		SellerID:      seller.ID,
		Title:         input.Title,
		Brand:         input.Brand,
		Model:         input.Model,
		Description:   input.Description,
		Price:         input.Price,
		DeliveryPrice: input.DeliveryPrice,
		PlaceNumber:   input.PlaceNumber,
		Status:        status,
		Images:        input.Images,
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	uc.logEvent(ctx, seller.ID, "product_created", product.ID, nil)
	return product, nil
}

// Approve moves a pending product to active. Admin only.
func (uc *ProductUseCase) Approve(ctx context.Context, admin *entity.User, productID string) (*entity.Product, error) {
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("only admins can approve products", nil)
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != entity.ProductStatusPending {
		return nil, errors.BadRequest("only pending products can be approved", nil)
	}

	if err := uc.productRepo.UpdateStatus(ctx, productID, entity.ProductStatusActive); err != nil {
		return nil, err
	}
	product.Status = entity.ProductStatusActive

	uc.logEvent(ctx, admin.ID, "product_approved", productID, nil)
	uc.invalidate(productID, "product_approved")
	return product, nil
}

// Update edits a listing. Owner or admin.
func (uc *ProductUseCase) Update(ctx context.Context, actor *entity.User, productID string, input UpdateProductInput) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID != actor.ID && !actor.IsAdmin() {
		return nil, errors.Forbidden("you can only edit your own products", nil)
	}
	if product.Status == entity.ProductStatusSold {
		return nil, errors.BadRequest("sold products cannot be edited", nil)
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Model != nil {
		product.Model = *input.Model
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, errors.BadRequest("price must be positive", nil)
		}
		product.Price = *input.Price
	}
	if input.DeliveryPrice != nil {
		product.DeliveryPrice = *input.DeliveryPrice
	}
	if input.PlaceNumber != nil {
		product.PlaceNumber = *input.PlaceNumber
	}

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	uc.logEvent(ctx, actor.ID, "product_updated", productID, nil)
	uc.invalidate(productID, "product_updated")
	return product, nil
}

// GetByID loads a product and bumps its view counter off the request path.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := uc.productRepo.IncrementViews(ctx, id); err != nil {
			logger.Warn("failed to increment views for product %s: %v", id, err)
		}
	}()

	return product, nil
}

func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	return uc.productRepo.List(ctx, filter, limit, offset)
}

// MarkSold closes a listing outside the offer flow (sold off-platform).
func (uc *ProductUseCase) MarkSold(ctx context.Context, actor *entity.User, productID string) error {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.SellerID != actor.ID && !actor.IsAdmin() {
		return errors.Forbidden("you can only manage your own products", nil)
	}
	if product.Status == entity.ProductStatusSold {
		return errors.BadRequest("product is already sold", nil)
	}

	if err := uc.productRepo.UpdateStatus(ctx, productID, entity.ProductStatusSold); err != nil {
		return err
	}

	uc.logEvent(ctx, actor.ID, "product_sold", productID, nil)
	uc.invalidate(productID, "product_sold")
	return nil
}

// Delete soft-deletes a listing; the row stays for orders and audit.
func (uc *ProductUseCase) Delete(ctx context.Context, actor *entity.User, productID string) error {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.SellerID != actor.ID && !actor.IsAdmin() {
		return errors.Forbidden("you can only delete your own products", nil)
	}

	if err := uc.productRepo.SoftDelete(ctx, productID); err != nil {
		return err
	}

	uc.logEvent(ctx, actor.ID, "product_deleted", productID, nil)
	uc.invalidate(productID, "product_deleted")
	return nil
}

func (uc *ProductUseCase) invalidate(productID, eventType string) {
	uc.publisher.Invalidate(productID, eventType,
		[]string{ws.ProductTag(productID), ws.ProductListTag()},
		map[string]interface{}{"product_id": productID},
	)
}

func (uc *ProductUseCase) logEvent(ctx context.Context, actorID, action, productID string, details map[string]interface{}) {
	err := uc.eventRepo.Append(ctx, &entity.EventLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: "product",
		EntityID:   productID,
		Details:    details,
	})
	if err != nil {
		logger.Warn("failed to append event log for product %s: %v", productID, err)
	}
}
