package entity

import (
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
	RoleBuyer  = "buyer"
)

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FullName     string `json:"full_name,omitempty"`
	CompanyName  string `json:"company_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role"`

	// OptID is the short human-readable identifier printed on stickers
	// and used in Telegram messages.
	OptID string `json:"opt_id,omitempty"`

	TelegramChatID int64  `json:"telegram_chat_id,omitempty"`
	TelegramHandle string `json:"telegram_handle,omitempty"`

	VerificationStatus string `json:"verification_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}
