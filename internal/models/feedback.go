package models

import "time"

// One feedback per visit, enforced by the unique index on VisitID.
type Feedback struct {
	ID uint `gorm:"primaryKey" json:"id"`

	VisitID  uint   `gorm:"uniqueIndex;not null" json:"visit_id"`
	Text     string `gorm:"size:1000;not null" json:"text"`
	PhotoURL string `gorm:"size:500" json:"photo_url"`

	CreatedAt time.Time `json:"created_at"`
}
