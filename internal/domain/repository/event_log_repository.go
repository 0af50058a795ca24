package repository

import (
	"context"

	"partsbay/internal/domain/entity"
)

type EventLogRepository interface {
	Append(ctx context.Context, event *entity.EventLog) error
	ListByEntity(ctx context.Context, entityType, entityID string, limit, offset int) ([]*entity.EventLog, int64, error)
}
