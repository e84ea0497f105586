package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/GreenvaleServices/lawn-portal/internal/domain/request"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

type RequestGormRepository struct {
	db *gorm.DB
}

func NewRequestGormRepository(db *gorm.DB) *RequestGormRepository {
	return &RequestGormRepository{db: db}
}

func (r *RequestGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.Request, error) {

	var req models.Request
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestGormRepository) SetResolvedBy(
	ctx context.Context,
	id uint,
	name string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ?", id).
		Update("resolved_by", name).Error
}

// Compile-time check
var _ domain.Repository = (*RequestGormRepository)(nil)
