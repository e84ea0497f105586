package models

import "time"

type Photo struct {
	ID uint `gorm:"primaryKey" json:"id"`

	VisitID uint   `gorm:"index;not null" json:"visit_id"`
	URL     string `gorm:"size:500;not null" json:"url"`

	CreatedAt time.Time `json:"created_at"`
}
