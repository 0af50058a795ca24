package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	"partsbay/pkg/errors"
)

type postgresEventLogRepository struct {
	db *pgxpool.Pool
}

func NewPostgresEventLogRepository(db *pgxpool.Pool) repository.EventLogRepository {
	return &postgresEventLogRepository{db: db}
}

func (r *postgresEventLogRepository) Append(ctx context.Context, event *entity.EventLog) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.CreatedAt = time.Now().UTC()

	var details []byte
	if event.Details != nil {
		var err error
		details, err = json.Marshal(event.Details)
		if err != nil {
			return errors.Internal("failed to encode event details", err)
		}
	}

	var actorID any
	if event.ActorID != "" {
		actorID = event.ActorID
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO event_logs (id, actor_id, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, actorID, event.Action, event.EntityType, event.EntityID,
		details, event.CreatedAt,
	)
	if err != nil {
		return errors.FromPostgres(err, "event log")
	}
	return nil
}

func (r *postgresEventLogRepository) ListByEntity(ctx context.Context, entityType, entityID string, limit, offset int) ([]*entity.EventLog, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM event_logs WHERE entity_type = $1 AND entity_id = $2`,
		entityType, entityID,
	).Scan(&total); err != nil {
		return nil, 0, errors.FromPostgres(err, "event log")
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, actor_id, action, entity_type, entity_id, details, created_at
		FROM event_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, entityType, entityID, limit, offset)
	if err != nil {
		return nil, 0, errors.FromPostgres(err, "event log")
	}
	defer rows.Close()

	var events []*entity.EventLog
	for rows.Next() {
		var e entity.EventLog
		var actorID *string
		var details []byte
		if err := rows.Scan(&e.ID, &actorID, &e.Action, &e.EntityType, &e.EntityID, &details, &e.CreatedAt); err != nil {
			return nil, 0, errors.FromPostgres(err, "event log")
		}
		if actorID != nil {
			e.ActorID = *actorID
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, 0, errors.Internal("failed to decode event details", err)
			}
		}
		events = append(events, &e)
	}
	return events, total, rows.Err()
}
