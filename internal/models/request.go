package models

import "time"

// ResolvedBy nil means the request is still open.
type Request struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Title       string  `gorm:"size:100;not null" json:"title"`
	Description string  `gorm:"type:text;not null" json:"description"`
	PhotoURL    string  `gorm:"size:500" json:"photo_url"`
	ResolvedBy  *string `gorm:"size:100" json:"resolved_by"`

	CreatedAt time.Time `json:"created_at"`
}
