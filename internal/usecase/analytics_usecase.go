package usecase

import (
	"context"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	"partsbay/pkg/errors"
)

type AnalyticsUseCase struct {
	orderRepo   repository.OrderRepository
	offerRepo   repository.OfferRepository
	productRepo repository.ProductRepository
	eventRepo   repository.EventLogRepository
}

func NewAnalyticsUseCase(
	orderRepo repository.OrderRepository,
	offerRepo repository.OfferRepository,
	productRepo repository.ProductRepository,
	eventRepo repository.EventLogRepository,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		orderRepo:   orderRepo,
		offerRepo:   offerRepo,
		productRepo: productRepo,
		eventRepo:   eventRepo,
	}
}

// Dashboard assembles the admin overview: order counts per status, offer
// volume per day over the window, most viewed products.
func (uc *AnalyticsUseCase) Dashboard(ctx context.Context, admin *entity.User, days, topN int) (*entity.DashboardStats, error) {
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("only admins can view the dashboard", nil)
	}
	if days <= 0 {
		days = 30
	}
	if topN <= 0 {
		topN = 10
	}

	byStatus, err := uc.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	perDay, err := uc.offerRepo.CountPerDay(ctx, days)
	if err != nil {
		return nil, err
	}
	top, err := uc.productRepo.TopByViews(ctx, topN)
	if err != nil {
		return nil, err
	}

	return &entity.DashboardStats{
		OrdersByStatus: byStatus,
		OffersPerDay:   perDay,
		TopProducts:    top,
	}, nil
}

// EntityHistory returns the audit trail for one entity. Admin only.
func (uc *AnalyticsUseCase) EntityHistory(ctx context.Context, admin *entity.User, entityType, entityID string, limit, offset int) ([]*entity.EventLog, int64, error) {
	if !admin.IsAdmin() {
		return nil, 0, errors.Forbidden("only admins can view event history", nil)
	}
	return uc.eventRepo.ListByEntity(ctx, entityType, entityID, limit, offset)
}
