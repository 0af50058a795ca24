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

type postgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) repository.UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, company_name, phone, role,
	opt_id, telegram_chat_id, telegram_handle, verification_status, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CompanyName, &u.Phone,
		&u.Role, &u.OptID, &u.TelegramChatID, &u.TelegramHandle,
		&u.VerificationStatus, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.VerificationStatus == "" {
		user.VerificationStatus = "pending"
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO profiles (id, email, password_hash, full_name, company_name, phone,
			role, opt_id, telegram_chat_id, telegram_handle, verification_status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.CompanyName,
		user.Phone, user.Role, user.OptID, user.TelegramChatID, user.TelegramHandle,
		user.VerificationStatus, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return errors.FromPostgres(err, "user")
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM profiles WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, errors.FromPostgres(err, "user")
	}
	return user, nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM profiles WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, errors.FromPostgres(err, "user")
	}
	return user, nil
}

func (r *postgresUserRepository) List(ctx context.Context, role string, limit, offset int) ([]*entity.User, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM profiles WHERE ($1 = '' OR role = $1)`, role,
	).Scan(&total); err != nil {
		return nil, 0, errors.FromPostgres(err, "user")
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+` FROM profiles
		WHERE ($1 = '' OR role = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, role, limit, offset)
	if err != nil {
		return nil, 0, errors.FromPostgres(err, "user")
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, errors.FromPostgres(err, "user")
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

func (r *postgresUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE profiles
		SET full_name = $2, company_name = $3, phone = $4, role = $5, opt_id = $6,
			telegram_handle = $7, verification_status = $8, updated_at = $9
		WHERE id = $1`,
		user.ID, user.FullName, user.CompanyName, user.Phone, user.Role, user.OptID,
		user.TelegramHandle, user.VerificationStatus, user.UpdatedAt,
	)
	if err != nil {
		return errors.FromPostgres(err, "user")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("user", nil)
	}
	return nil
}

func (r *postgresUserRepository) SetTelegramChat(ctx context.Context, id string, chatID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET telegram_chat_id = $2, updated_at = now() WHERE id = $1`,
		id, chatID,
	)
	if err != nil {
		return errors.FromPostgres(err, "user")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("user", nil)
	}
	return nil
}
