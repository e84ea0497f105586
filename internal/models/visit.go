package models

import "time"

type Visit struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Date     time.Time `json:"date"`
	Note     string    `gorm:"size:1000;not null" json:"note"`
	SignedBy string    `gorm:"size:100" json:"signed_by"`

	Photos   []Photo   `json:"photos"`
	Feedback *Feedback `json:"feedback"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
