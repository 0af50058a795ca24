package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	"partsbay/pkg/errors"
)

type postgresProductRepository struct {
	db *pgxpool.Pool
}

func NewPostgresProductRepository(db *pgxpool.Pool) repository.ProductRepository {
	return &postgresProductRepository{db: db}
}

const productColumns = `p.id, p.seller_id, p.title, p.brand, p.model, p.description,
	p.price, p.delivery_price, p.status, p.place_number, p.views,
	p.created_at, p.updated_at, p.deleted_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SellerID, &p.Title, &p.Brand, &p.Model, &p.Description,
		&p.Price, &p.DeliveryPrice, &p.Status, &p.PlaceNumber, &p.Views,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.FromPostgres(err, "product")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO products (id, seller_id, title, brand, model, description, price,
			delivery_price, status, place_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		product.ID, product.SellerID, product.Title, product.Brand, product.Model,
		product.Description, product.Price, product.DeliveryPrice, product.Status,
		product.PlaceNumber, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return errors.FromPostgres(err, "product")
	}

	for i := range product.Images {
		img := &product.Images[i]
		if img.ID == "" {
			img.ID = uuid.NewString()
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO product_images (id, product_id, url, display_order, is_primary)
			VALUES ($1, $2, $3, $4, $5)`,
			img.ID, product.ID, img.URL, img.DisplayOrder, img.IsPrimary,
		)
		if err != nil {
			return errors.FromPostgres(err, "product image")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.FromPostgres(err, "product")
	}
	return nil
}

func (r *postgresProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.id = $1 AND p.deleted_at IS NULL`, id)
	product, err := scanProduct(row)
	if err != nil {
		return nil, errors.FromPostgres(err, "product")
	}

	if err := r.loadImages(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *postgresProductRepository) loadImages(ctx context.Context, product *entity.Product) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, url, display_order, is_primary
		FROM product_images WHERE product_id = $1
		ORDER BY display_order`, product.ID)
	if err != nil {
		return errors.FromPostgres(err, "product image")
	}
	defer rows.Close()

	for rows.Next() {
		var img entity.ProductImage
		if err := rows.Scan(&img.ID, &img.URL, &img.DisplayOrder, &img.IsPrimary); err != nil {
			return errors.FromPostgres(err, "product image")
		}
		product.Images = append(product.Images, img)
	}
	return rows.Err()
}

func (r *postgresProductRepository) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	where := `p.deleted_at IS NULL`
	args := []any{}
	idx := 1

	add := func(cond string, val any) {
		where += fmt.Sprintf(" AND "+cond, idx)
		args = append(args, val)
		idx++
	}

	if filter.Status != "" {
		add("p.status = $%d", filter.Status)
	}
	if filter.SellerID != "" {
		add("p.seller_id = $%d", filter.SellerID)
	}
	if filter.Search != "" {
		add("(p.title ILIKE $%d OR p.brand ILIKE $%[1]d OR p.model ILIKE $%[1]d)", "%"+filter.Search+"%")
	}
	if filter.MinPrice > 0 {
		add("p.price >= $%d", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		add("p.price <= $%d", filter.MaxPrice)
	}

	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM products p WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, errors.FromPostgres(err, "product")
	}

	query := fmt.Sprintf(`SELECT `+productColumns+` FROM products p WHERE `+where+
		` ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.FromPostgres(err, "product")
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, errors.FromPostgres(err, "product")
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.FromPostgres(err, "product")
	}

	for _, product := range products {
		if err := r.loadImages(ctx, product); err != nil {
			return nil, 0, err
		}
	}
	return products, total, nil
}

func (r *postgresProductRepository) Update(ctx context.Context, product *entity.Product) error {
	product.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET title = $2, brand = $3, model = $4, description = $5, price = $6,
			delivery_price = $7, status = $8, place_number = $9, updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL`,
		product.ID, product.Title, product.Brand, product.Model, product.Description,
		product.Price, product.DeliveryPrice, product.Status, product.PlaceNumber,
		product.UpdatedAt,
	)
	if err != nil {
		return errors.FromPostgres(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("product", nil)
	}
	return nil
}

func (r *postgresProductRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET status = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id, status,
	)
	if err != nil {
		return errors.FromPostgres(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("product", nil)
	}
	return nil
}

func (r *postgresProductRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET status = 'archived', deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return errors.FromPostgres(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("product", nil)
	}
	return nil
}

func (r *postgresProductRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE products SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return errors.FromPostgres(err, "product")
	}
	return nil
}

func (r *postgresProductRepository) ListWithoutEmbedding(ctx context.Context, statuses []string, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+` FROM products p
		WHERE p.embedding IS NULL AND p.deleted_at IS NULL AND p.status = ANY($1)
		ORDER BY p.created_at
		LIMIT $2 OFFSET $3`, statuses, limit, offset)
	if err != nil {
		return nil, errors.FromPostgres(err, "product")
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, errors.FromPostgres(err, "product")
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *postgresProductRepository) SetEmbedding(ctx context.Context, id string, embedding []float32) error {
	data, err := json.Marshal(embedding)
	if err != nil {
		return errors.Internal("failed to encode embedding", err)
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET embedding = $2, updated_at = now() WHERE id = $1`,
		id, data,
	)
	if err != nil {
		return errors.FromPostgres(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("product", nil)
	}
	return nil
}

func (r *postgresProductRepository) TopByViews(ctx context.Context, limit int) ([]entity.ProductViews, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, views FROM products
		WHERE deleted_at IS NULL
		ORDER BY views DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, errors.FromPostgres(err, "product")
	}
	defer rows.Close()

	var result []entity.ProductViews
	for rows.Next() {
		var pv entity.ProductViews
		if err := rows.Scan(&pv.ProductID, &pv.Title, &pv.Views); err != nil {
			return nil, errors.FromPostgres(err, "product")
		}
		result = append(result, pv)
	}
	return result, rows.Err()
}
