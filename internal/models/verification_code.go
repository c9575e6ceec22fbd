package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationChannel is the delivery medium of a code.
type VerificationChannel string

const (
	ChannelEmail VerificationChannel = "email"
	ChannelSMS   VerificationChannel = "sms"
)

// VerificationCode is a short-lived numeric code sent to confirm an email
// address or phone number during agent onboarding.
type VerificationCode struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Channel   VerificationChannel `json:"channel"`
	CodeHash  string              `json:"-"`
	ExpiresAt time.Time           `json:"expires_at"`
	CreatedAt time.Time           `json:"created_at"`
}

func (v *VerificationCode) IsExpired() bool {
	return time.Now().After(v.ExpiresAt)
}
