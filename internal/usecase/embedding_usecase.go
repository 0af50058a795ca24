package usecase

import (
	"context"
	"strings"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	"partsbay/pkg/errors"
	"partsbay/pkg/logger"
)

// Embedder produces embedding vectors for product texts.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type EmbeddingUseCase struct {
	productRepo repository.ProductRepository
	embedder    Embedder
}

func NewEmbeddingUseCase(productRepo repository.ProductRepository, embedder Embedder) *EmbeddingUseCase {
	return &EmbeddingUseCase{productRepo: productRepo, embedder: embedder}
}

type GenerateEmbeddingsInput struct {
	BatchSize int      `json:"batch_size" validate:"min=1,max=100"`
	Statuses  []string `json:"statuses"`
	Offset    int      `json:"offset" validate:"min=0"`
}

type GenerateEmbeddingsResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Errors    int `json:"errors"`
}

// Generate embeds one batch of products that have no vector yet. The
// caller pages through the backlog by re-invoking with the next offset.
// Admin only.
func (uc *EmbeddingUseCase) Generate(ctx context.Context, admin *entity.User, input GenerateEmbeddingsInput) (*GenerateEmbeddingsResult, error) {
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("only admins can generate embeddings", nil)
	}
	if uc.embedder == nil {
		return nil, errors.BadRequest("embeddings are not configured", nil)
	}

	batchSize := input.BatchSize
	if batchSize == 0 {
		batchSize = 25
	}
	statuses := input.Statuses
	if len(statuses) == 0 {
		statuses = []string{entity.ProductStatusActive}
	}

	products, err := uc.productRepo.ListWithoutEmbedding(ctx, statuses, batchSize, input.Offset)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return &GenerateEmbeddingsResult{}, nil
	}

	texts := make([]string, len(products))
	for i, p := range products {
		texts[i] = embeddingText(p)
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, errors.Internal("embedding generation failed", err)
	}

	result := &GenerateEmbeddingsResult{Processed: len(products)}
	for i, p := range products {
		if err := uc.productRepo.SetEmbedding(ctx, p.ID, vectors[i]); err != nil {
			logger.Warn("failed to store embedding for product %s: %v", p.ID, err)
			result.Errors++
			continue
		}
		result.Updated++
	}
	return result, nil
}

// embeddingText concatenates the searchable fields of a product.
func embeddingText(p *entity.Product) string {
	parts := []string{p.Title}
	if p.Brand != "" {
		parts = append(parts, p.Brand)
	}
	if p.Model != "" {
		parts = append(parts, p.Model)
	}
	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	return strings.Join(parts, " ")
}
