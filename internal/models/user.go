package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account: browsing user, listing agent or admin.
type User struct {
	Versioned

	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	Name         string    `json:"name"`
	Phone        *string   `json:"phone,omitempty"`
	Role         UserRole  `json:"role"`

	EmailVerified bool `json:"email_verified"`
	PhoneVerified bool `json:"phone_verified"`

	// TOTPSecret is set for admins only.
	TOTPSecret string `json:"-"`

	// Login lockout bookkeeping.
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) GetID() string {
	return u.ID.String()
}

func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}
