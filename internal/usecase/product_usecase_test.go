package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsbay/internal/domain/entity"
	"partsbay/internal/usecase"
)

func newProductUseCase(products *mockProductRepo) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(products, newMockEventLogRepo(), usecase.NoopPublisher)
}

func TestProductUseCase_Create(t *testing.T) {
	input := usecase.CreateProductInput{Title: "Brake caliper", Price: 120}

	t.Run("seller_listing_starts_pending", func(t *testing.T) {
		uc := newProductUseCase(newMockProductRepo())
		product, err := uc.Create(context.Background(), sellerUser(), input)

		require.NoError(t, err)
		assert.Equal(t, entity.ProductStatusPending, product.Status)
	})

	t.Run("admin_listing_goes_live_directly", func(t *testing.T) {
		uc := newProductUseCase(newMockProductRepo())
		product, err := uc.Create(context.Background(), adminUser(), input)

		require.NoError(t, err)
		assert.Equal(t, entity.ProductStatusActive, product.Status)
	})

	t.Run("buyer_cannot_list", func(t *testing.T) {
		uc := newProductUseCase(newMockProductRepo())
		_, err := uc.Create(context.Background(), buyerUser(), input)

		assert.Error(t, err)
	})
}

func TestProductUseCase_Approve(t *testing.T) {
	pending := func() *entity.Product {
		return &entity.Product{ID: "prod-1", SellerID: "seller-1", Status: entity.ProductStatusPending}
	}

	t.Run("admin_approves_pending", func(t *testing.T) {
		products := newMockProductRepo()
		products.getByIDFunc = func(ctx context.Context, id string) (*entity.Product, error) {
			return pending(), nil
		}

		uc := newProductUseCase(products)
		product, err := uc.Approve(context.Background(), adminUser(), "prod-1")

		require.NoError(t, err)
		assert.Equal(t, entity.ProductStatusActive, product.Status)
	})

	t.Run("active_product_cannot_be_approved_again", func(t *testing.T) {
		products := newMockProductRepo()
		products.getByIDFunc = func(ctx context.Context, id string) (*entity.Product, error) {
			p := pending()
			p.Status = entity.ProductStatusActive
			return p, nil
		}

		uc := newProductUseCase(products)
		_, err := uc.Approve(context.Background(), adminUser(), "prod-1")

		assert.Error(t, err)
	})

	t.Run("seller_cannot_approve", func(t *testing.T) {
		uc := newProductUseCase(newMockProductRepo())
		_, err := uc.Approve(context.Background(), sellerUser(), "prod-1")

		assert.Error(t, err)
	})
}

func TestProductUseCase_Update_Ownership(t *testing.T) {
	products := newMockProductRepo()
	products.getByIDFunc = func(ctx context.Context, id string) (*entity.Product, error) {
		return &entity.Product{ID: "prod-1", SellerID: "seller-1", Status: entity.ProductStatusActive}, nil
	}

	uc := newProductUseCase(products)
	title := "New title"

	t.Run("owner_can_edit", func(t *testing.T) {
		product, err := uc.Update(context.Background(), sellerUser(), "prod-1", usecase.UpdateProductInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "New title", product.Title)
	})

	t.Run("other_seller_forbidden", func(t *testing.T) {
		outsider := &entity.User{ID: "seller-2", Role: entity.RoleSeller}
		_, err := uc.Update(context.Background(), outsider, "prod-1", usecase.UpdateProductInput{Title: &title})
		assert.Error(t, err)
	})

	t.Run("admin_can_edit_any", func(t *testing.T) {
		_, err := uc.Update(context.Background(), adminUser(), "prod-1", usecase.UpdateProductInput{Title: &title})
		assert.NoError(t, err)
	})

	t.Run("sold_product_locked", func(t *testing.T) {
		soldProducts := newMockProductRepo()
		soldProducts.getByIDFunc = func(ctx context.Context, id string) (*entity.Product, error) {
			return &entity.Product{ID: "prod-1", SellerID: "seller-1", Status: entity.ProductStatusSold}, nil
		}
		lockedUC := newProductUseCase(soldProducts)
		_, err := lockedUC.Update(context.Background(), sellerUser(), "prod-1", usecase.UpdateProductInput{Title: &title})
		assert.Error(t, err)
	})
}
