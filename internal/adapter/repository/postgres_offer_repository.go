package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	apperrors "partsbay/pkg/errors"
)

type postgresOfferRepository struct {
	db *pgxpool.Pool
}

func NewPostgresOfferRepository(db *pgxpool.Pool) repository.OfferRepository {
	return &postgresOfferRepository{db: db}
}

const offerColumns = `id, product_id, buyer_id, seller_id, offered_price,
	delivery_price_confirmed, message, status, expires_at, created_at, updated_at`

func scanOffer(row interface{ Scan(dest ...any) error }) (*entity.PriceOffer, error) {
	var o entity.PriceOffer
	err := row.Scan(
		&o.ID, &o.ProductID, &o.BuyerID, &o.SellerID, &o.OfferedPrice,
		&o.DeliveryPriceConfirmed, &o.Message, &o.Status,
		&o.ExpiresAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresOfferRepository) Create(ctx context.Context, offer *entity.PriceOffer) error {
	if offer.ID == "" {
		offer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	offer.CreatedAt = now
	offer.UpdatedAt = now
	offer.Status = entity.OfferStatusPending
	if offer.ExpiresAt.IsZero() {
		offer.ExpiresAt = now.Add(entity.OfferTTL)
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO price_offers (id, product_id, buyer_id, seller_id, offered_price,
			delivery_price_confirmed, message, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		offer.ID, offer.ProductID, offer.BuyerID, offer.SellerID, offer.OfferedPrice,
		offer.DeliveryPriceConfirmed, offer.Message, offer.Status,
		offer.ExpiresAt, offer.CreatedAt, offer.UpdatedAt,
	)
	if err != nil {
		// The partial unique index carries invariant I1; races between two
		// near-simultaneous submissions land here, not in the pre-check.
		if apperrors.IsUniqueViolation(err) {
			return apperrors.Conflict("you already have an active offer for this product", err)
		}
		return apperrors.FromPostgres(err, "offer")
	}
	return nil
}

func (r *postgresOfferRepository) GetByID(ctx context.Context, id string) (*entity.PriceOffer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+offerColumns+` FROM price_offers WHERE id = $1`, id)
	offer, err := scanOffer(row)
	if err != nil {
		return nil, apperrors.FromPostgres(err, "offer")
	}
	return offer, nil
}

func (r *postgresOfferRepository) GetPending(ctx context.Context, productID, buyerID string) (*entity.PriceOffer, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+offerColumns+` FROM price_offers
		WHERE product_id = $1 AND buyer_id = $2 AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT 1`, productID, buyerID)
	offer, err := scanOffer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.FromPostgres(err, "offer")
	}
	return offer, nil
}

func (r *postgresOfferRepository) ExpireIfStale(ctx context.Context, productID, buyerID string, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE price_offers SET status = 'expired', updated_at = $4
		WHERE product_id = $1 AND buyer_id = $2 AND status = 'pending' AND expires_at < $3`,
		productID, buyerID, now, now,
	)
	if err != nil {
		return false, apperrors.FromPostgres(err, "offer")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresOfferRepository) Update(ctx context.Context, offer *entity.PriceOffer) error {
	offer.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE price_offers
		SET offered_price = $2, delivery_price_confirmed = $3, message = $4,
			status = $5, expires_at = $6, updated_at = $7
		WHERE id = $1`,
		offer.ID, offer.OfferedPrice, offer.DeliveryPriceConfirmed, offer.Message,
		offer.Status, offer.ExpiresAt, offer.UpdatedAt,
	)
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return apperrors.Conflict("you already have an active offer for this product", err)
		}
		return apperrors.FromPostgres(err, "offer")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("offer", nil)
	}
	return nil
}

func (r *postgresOfferRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE price_offers SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return apperrors.FromPostgres(err, "offer")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("offer", nil)
	}
	return nil
}

func (r *postgresOfferRepository) AcceptAndRejectSiblings(ctx context.Context, offerID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperrors.FromPostgres(err, "offer")
	}
	defer tx.Rollback(ctx)

	var productID, status string
	err = tx.QueryRow(ctx,
		`SELECT product_id, status FROM price_offers WHERE id = $1 FOR UPDATE`, offerID,
	).Scan(&productID, &status)
	if err != nil {
		return apperrors.FromPostgres(err, "offer")
	}
	if status != entity.OfferStatusPending {
		return apperrors.BadRequest("offer is not pending", nil)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE price_offers SET status = 'accepted', updated_at = now() WHERE id = $1`,
		offerID,
	); err != nil {
		return apperrors.FromPostgres(err, "offer")
	}

	if _, err := tx.Exec(ctx, `
		UPDATE price_offers SET status = 'rejected', updated_at = now()
		WHERE product_id = $1 AND status = 'pending' AND id <> $2`,
		productID, offerID,
	); err != nil {
		return apperrors.FromPostgres(err, "offer")
	}

	if _, err := tx.Exec(ctx,
		`UPDATE products SET status = 'sold', updated_at = now() WHERE id = $1`,
		productID,
	); err != nil {
		return apperrors.FromPostgres(err, "product")
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.FromPostgres(err, "offer")
	}
	return nil
}

func (r *postgresOfferRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.PriceOffer, int64, error) {
	return r.list(ctx, `buyer_id = $1`, buyerID, limit, offset)
}

func (r *postgresOfferRepository) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.PriceOffer, int64, error) {
	return r.list(ctx, `product_id = $1`, productID, limit, offset)
}

func (r *postgresOfferRepository) list(ctx context.Context, cond string, arg any, limit, offset int) ([]*entity.PriceOffer, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM price_offers WHERE `+cond, arg,
	).Scan(&total); err != nil {
		return nil, 0, apperrors.FromPostgres(err, "offer")
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+offerColumns+` FROM price_offers
		WHERE `+cond+`
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, arg, limit, offset)
	if err != nil {
		return nil, 0, apperrors.FromPostgres(err, "offer")
	}
	defer rows.Close()

	var offers []*entity.PriceOffer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, 0, apperrors.FromPostgres(err, "offer")
		}
		offers = append(offers, offer)
	}
	return offers, total, rows.Err()
}

func (r *postgresOfferRepository) MaxOfferedPrice(ctx context.Context, productID string) (float64, error) {
	var max sql.NullFloat64
	err := r.db.QueryRow(ctx,
		`SELECT max(offered_price) FROM price_offers WHERE product_id = $1 AND status = 'pending'`,
		productID,
	).Scan(&max)
	if err != nil {
		return 0, apperrors.FromPostgres(err, "offer")
	}
	return max.Float64, nil
}

func (r *postgresOfferRepository) CountPerDay(ctx context.Context, days int) ([]entity.DayCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT to_char(created_at::date, 'YYYY-MM-DD'), count(*)
		FROM price_offers
		WHERE created_at >= now() - make_interval(days => $1)
		GROUP BY created_at::date
		ORDER BY created_at::date`, days)
	if err != nil {
		return nil, apperrors.FromPostgres(err, "offer")
	}
	defer rows.Close()

	var result []entity.DayCount
	for rows.Next() {
		var dc entity.DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, apperrors.FromPostgres(err, "offer")
		}
		result = append(result, dc)
	}
	return result, rows.Err()
}
