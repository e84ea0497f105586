package models

import "time"

// Invitation lets a customer created without a password pick one later.
// The row is deleted on activation.
type Invitation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
}
