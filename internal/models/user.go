package models

import "time"

const (
	RoleCustomer = "CUSTOMER"
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)

func IsStaff(role string) bool {
	return role == RoleEmployee || role == RoleAdmin
}

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"size:20;default:'CUSTOMER'" json:"role"`
	Address      string `gorm:"size:255" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
