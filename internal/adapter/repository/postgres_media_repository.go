package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	"partsbay/pkg/errors"
)

type postgresMediaRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMediaRepository(db *pgxpool.Pool) repository.MediaRepository {
	return &postgresMediaRepository{db: db}
}

func (r *postgresMediaRepository) AttachBatch(ctx context.Context, orderID string, items []*entity.OrderMedia) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, errors.FromPostgres(err, "order media")
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	inserted := 0
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.OrderID = orderID
		item.CreatedAt = now

		// ON CONFLICT keeps re-deliveries of the same URL idempotent.
		tag, err := tx.Exec(ctx, `
			INSERT INTO order_media (id, order_id, url, public_id, media_type, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT ON CONSTRAINT uq_order_media_url DO NOTHING`,
			item.ID, item.OrderID, item.URL, item.PublicID, item.MediaType, item.CreatedAt,
		)
		if err != nil {
			return 0, errors.FromPostgres(err, "order media")
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, errors.FromPostgres(err, "order media")
	}
	return inserted, nil
}

func (r *postgresMediaRepository) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderMedia, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, url, public_id, media_type, created_at
		FROM order_media
		WHERE order_id = $1
		ORDER BY created_at`, orderID)
	if err != nil {
		return nil, errors.FromPostgres(err, "order media")
	}
	defer rows.Close()

	var items []*entity.OrderMedia
	for rows.Next() {
		var m entity.OrderMedia
		if err := rows.Scan(&m.ID, &m.OrderID, &m.URL, &m.PublicID, &m.MediaType, &m.CreatedAt); err != nil {
			return nil, errors.FromPostgres(err, "order media")
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

func (r *postgresMediaRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM order_media WHERE id = $1`, id)
	if err != nil {
		return errors.FromPostgres(err, "order media")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("order media", nil)
	}
	return nil
}
