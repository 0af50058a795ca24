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

type postgresShipmentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShipmentRepository(db *pgxpool.Pool) repository.ShipmentRepository {
	return &postgresShipmentRepository{db: db}
}

const shipmentColumns = `id, order_id, place_number, container_number,
	shipment_status, description, created_at, updated_at`

func scanShipment(row interface{ Scan(dest ...any) error }) (*entity.OrderShipment, error) {
	var s entity.OrderShipment
	err := row.Scan(
		&s.ID, &s.OrderID, &s.PlaceNumber, &s.ContainerNumber,
		&s.ShipmentStatus, &s.Description, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresShipmentRepository) Create(ctx context.Context, shipment *entity.OrderShipment) error {
	if shipment.ID == "" {
		shipment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	shipment.CreatedAt = now
	shipment.UpdatedAt = now
	if shipment.ShipmentStatus == "" {
		shipment.ShipmentStatus = entity.ShipmentStatusNotShipped
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO order_shipments (id, order_id, place_number, container_number,
			shipment_status, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		shipment.ID, shipment.OrderID, shipment.PlaceNumber, shipment.ContainerNumber,
		shipment.ShipmentStatus, shipment.Description, shipment.CreatedAt, shipment.UpdatedAt,
	)
	if err != nil {
		return errors.FromPostgres(err, "shipment")
	}
	return nil
}

func (r *postgresShipmentRepository) GetByID(ctx context.Context, id string) (*entity.OrderShipment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+shipmentColumns+` FROM order_shipments WHERE id = $1`, id)
	shipment, err := scanShipment(row)
	if err != nil {
		return nil, errors.FromPostgres(err, "shipment")
	}
	return shipment, nil
}

func (r *postgresShipmentRepository) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderShipment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+shipmentColumns+` FROM order_shipments
		WHERE order_id = $1
		ORDER BY place_number`, orderID)
	if err != nil {
		return nil, errors.FromPostgres(err, "shipment")
	}
	defer rows.Close()

	var shipments []*entity.OrderShipment
	for rows.Next() {
		shipment, err := scanShipment(rows)
		if err != nil {
			return nil, errors.FromPostgres(err, "shipment")
		}
		shipments = append(shipments, shipment)
	}
	return shipments, rows.Err()
}

func (r *postgresShipmentRepository) Update(ctx context.Context, shipment *entity.OrderShipment) error {
	shipment.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE order_shipments
		SET place_number = $2, container_number = $3, shipment_status = $4,
			description = $5, updated_at = $6
		WHERE id = $1`,
		shipment.ID, shipment.PlaceNumber, shipment.ContainerNumber,
		shipment.ShipmentStatus, shipment.Description, shipment.UpdatedAt,
	)
	if err != nil {
		return errors.FromPostgres(err, "shipment")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("shipment", nil)
	}
	return nil
}

func (r *postgresShipmentRepository) ListContainers(ctx context.Context) ([]entity.ContainerSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT container_number,
			count(*),
			count(*) FILTER (WHERE shipment_status = 'in_transit'),
			count(*) FILTER (WHERE shipment_status = 'not_shipped')
		FROM order_shipments
		WHERE container_number IS NOT NULL
		GROUP BY container_number
		ORDER BY container_number`)
	if err != nil {
		return nil, errors.FromPostgres(err, "shipment")
	}
	defer rows.Close()

	var result []entity.ContainerSummary
	for rows.Next() {
		var cs entity.ContainerSummary
		if err := rows.Scan(&cs.ContainerNumber, &cs.TotalPlaces, &cs.InTransit, &cs.NotShipped); err != nil {
			return nil, errors.FromPostgres(err, "shipment")
		}
		result = append(result, cs)
	}
	return result, rows.Err()
}
