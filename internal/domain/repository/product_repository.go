package repository

import (
	"context"

	"partsbay/internal/domain/entity"
)

// ProductFilter narrows product listings; zero values mean "no filter".
type ProductFilter struct {
	Status   string
	SellerID string
	Search   string
	MinPrice float64
	MaxPrice float64
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, int64, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStatus(ctx context.Context, id, status string) error
	SoftDelete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error

	// Embedding support for the admin embeddings batch job.
	ListWithoutEmbedding(ctx context.Context, statuses []string, limit, offset int) ([]*entity.Product, error)
	SetEmbedding(ctx context.Context, id string, embedding []float32) error

	TopByViews(ctx context.Context, limit int) ([]entity.ProductViews, error)
}
