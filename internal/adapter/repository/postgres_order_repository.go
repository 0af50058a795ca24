package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	"partsbay/pkg/errors"
)

type postgresOrderRepository struct {
	db *pgxpool.Pool
}

func NewPostgresOrderRepository(db *pgxpool.Pool) repository.OrderRepository {
	return &postgresOrderRepository{db: db}
}

const orderColumns = `id, order_number, status, product_id, buyer_id, seller_id,
	title, brand, model, price, delivery_price, place_number, description,
	created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.Status, &o.ProductID, &o.BuyerID, &o.SellerID,
		&o.Title, &o.Brand, &o.Model, &o.Price, &o.DeliveryPrice, &o.PlaceNumber,
		&o.Description, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = entity.OrderStatusCreated
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.FromPostgres(err, "order")
	}
	defer tx.Rollback(ctx)

	if order.OrderNumber == 0 {
		if err := tx.QueryRow(ctx,
			`SELECT nextval('order_number_seq')`,
		).Scan(&order.OrderNumber); err != nil {
			return errors.FromPostgres(err, "order number")
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, status, product_id, buyer_id, seller_id,
			title, brand, model, price, delivery_price, place_number, description,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		order.ID, order.OrderNumber, order.Status, order.ProductID, order.BuyerID,
		order.SellerID, order.Title, order.Brand, order.Model, order.Price,
		order.DeliveryPrice, order.PlaceNumber, order.Description,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if errors.IsUniqueViolation(err) {
			return errors.Conflict("order number already in use", err)
		}
		return errors.FromPostgres(err, "order")
	}

	// Every order starts with one shipment place per place_number.
	for i := 1; i <= order.PlaceNumber; i++ {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_shipments (id, order_id, place_number, shipment_status, created_at, updated_at)
			VALUES ($1, $2, $3, 'not_shipped', $4, $4)`,
			uuid.NewString(), order.ID, i, now,
		)
		if err != nil {
			return errors.FromPostgres(err, "shipment")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.FromPostgres(err, "order")
	}
	return nil
}

func (r *postgresOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, errors.FromPostgres(err, "order")
	}
	return order, nil
}

func (r *postgresOrderRepository) List(ctx context.Context, filter repository.OrderFilter, limit, offset int) ([]*entity.Order, int64, error) {
	where := `TRUE`
	args := []any{}
	idx := 1

	add := func(cond string, val any) {
		where += fmt.Sprintf(" AND "+cond, idx)
		args = append(args, val)
		idx++
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.BuyerID != "" {
		add("buyer_id = $%d", filter.BuyerID)
	}
	if filter.SellerID != "" {
		add("seller_id = $%d", filter.SellerID)
	}

	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, errors.FromPostgres(err, "order")
	}

	query := fmt.Sprintf(`SELECT `+orderColumns+` FROM orders WHERE `+where+
		` ORDER BY order_number DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.FromPostgres(err, "order")
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, errors.FromPostgres(err, "order")
		}
		orders = append(orders, order)
	}
	return orders, total, rows.Err()
}

func (r *postgresOrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return errors.FromPostgres(err, "order")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("order", nil)
	}
	return nil
}

func (r *postgresOrderRepository) UpdateOrderNumber(ctx context.Context, id string, orderNumber int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET order_number = $2, updated_at = now() WHERE id = $1`,
		id, orderNumber,
	)
	if err != nil {
		if errors.IsUniqueViolation(err) {
			return errors.Conflict("order number already in use", err)
		}
		return errors.FromPostgres(err, "order")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("order", nil)
	}
	return nil
}

func (r *postgresOrderRepository) IsOrderNumberUnique(ctx context.Context, orderNumber int, excludeID string) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE order_number = $1 AND id <> $2`,
		orderNumber, excludeID,
	).Scan(&count)
	if err != nil {
		return false, errors.FromPostgres(err, "order")
	}
	return count == 0, nil
}

func (r *postgresOrderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, errors.FromPostgres(err, "order")
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.FromPostgres(err, "order")
		}
		result[status] = count
	}
	return result, rows.Err()
}
