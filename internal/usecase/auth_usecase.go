package usecase

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	"partsbay/pkg/errors"
)

type AuthUseCase struct {
	userRepo  repository.UserRepository
	notifier  Notifier
	jwtSecret []byte
	jwtExpiry time.Duration
}

func NewAuthUseCase(userRepo repository.UserRepository, notifier Notifier, jwtSecret string, jwtExpiry time.Duration) *AuthUseCase {
	return &AuthUseCase{
		userRepo:  userRepo,
		notifier:  notifier,
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
	}
}

type RegisterInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"full_name" validate:"required"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	Role        string `json:"role" validate:"required,oneof=seller buyer"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *entity.User `json:"user"`
}

// Claims is the JWT payload. Role is embedded so middleware can gate
// admin routes without a user lookup.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Register creates a user account. Admin accounts cannot be
// self-registered; validation restricts role to seller or buyer.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if input.Role == entity.RoleAdmin {
		return nil, errors.Forbidden("admin accounts cannot be self-registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password", err)
	}

	user := &entity.User{
		Email:              input.Email,
		PasswordHash:       string(hash),
		FullName:           input.FullName,
		CompanyName:        input.CompanyName,
		Phone:              input.Phone,
		Role:               input.Role,
		VerificationStatus: "unverified",
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		uc.notifier.NotifyWelcome(ctx, user)
	}()

	return uc.issueToken(user)
}

// Login verifies credentials and issues a JWT.
func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Unauthorized("invalid email or password", nil)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errors.Unauthorized("invalid email or password", nil)
	}

	return uc.issueToken(user)
}

// GetMe returns the authenticated user's profile.
func (uc *AuthUseCase) GetMe(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	OptID       string `json:"opt_id"`
}

// UpdateProfile patches the authenticated user's editable fields.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.CompanyName != "" {
		user.CompanyName = input.CompanyName
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.OptID != "" {
		user.OptID = input.OptID
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers is admin-only; the handler enforces the role.
func (uc *AuthUseCase) ListUsers(ctx context.Context, role string, limit, offset int) ([]*entity.User, int64, error) {
	return uc.userRepo.List(ctx, role, limit, offset)
}

// LinkTelegramChat binds a Telegram chat to a user so notifications can
// reach them. Called from the bot's /start flow.
func (uc *AuthUseCase) LinkTelegramChat(ctx context.Context, userID string, chatID int64) error {
	return uc.userRepo.SetTelegramChat(ctx, userID, chatID)
}

// ParseToken validates a JWT and returns its claims.
func (uc *AuthUseCase) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Unauthorized("unexpected signing method", nil)
		}
		return uc.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.Unauthorized("invalid or expired token", err)
	}
	return claims, nil
}

func (uc *AuthUseCase) issueToken(user *entity.User) (*AuthResult, error) {
	expiresAt := time.Now().UTC().Add(uc.jwtExpiry)
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.jwtSecret)
	if err != nil {
		return nil, errors.Internal("failed to sign token", err)
	}

	return &AuthResult{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}
