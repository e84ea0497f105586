package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/GreenvaleServices/lawn-portal/internal/domain/visit"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

type VisitGormRepository struct {
	db *gorm.DB
}

func NewVisitGormRepository(db *gorm.DB) *VisitGormRepository {
	return &VisitGormRepository{db: db}
}

// --------------------------------------------------
// Unit of work
// --------------------------------------------------

func (r *VisitGormRepository) Atomic(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&VisitGormRepository{db: tx})
	})
}

// --------------------------------------------------
// User
// --------------------------------------------------

func (r *VisitGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Visit
// --------------------------------------------------

func (r *VisitGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.Visit, error) {

	var v models.Visit
	if err := r.db.WithContext(ctx).
		Preload("Photos").
		Preload("Feedback").
		First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VisitGormRepository) Create(
	ctx context.Context,
	v *models.Visit,
) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VisitGormRepository) UpdateNoteAndSigner(
	ctx context.Context,
	visitID uint,
	note string,
	signedBy string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Visit{}).
		Where("id = ?", visitID).
		Updates(map[string]any{
			"note":      note,
			"signed_by": signedBy,
		}).Error
}

func (r *VisitGormRepository) Delete(
	ctx context.Context,
	visitID uint,
) error {
	return r.db.WithContext(ctx).
		Delete(&models.Visit{}, visitID).Error
}

// --------------------------------------------------
// Photos
// --------------------------------------------------

func (r *VisitGormRepository) CreatePhotos(
	ctx context.Context,
	visitID uint,
	urls []string,
) error {

	if len(urls) == 0 {
		return nil
	}

	photos := make([]models.Photo, 0, len(urls))
	for _, u := range urls {
		photos = append(photos, models.Photo{
			VisitID: visitID,
			URL:     u,
		})
	}

	return r.db.WithContext(ctx).Create(&photos).Error
}

func (r *VisitGormRepository) DeletePhotosByID(
	ctx context.Context,
	visitID uint,
	photoIDs []uint,
) error {

	if len(photoIDs) == 0 {
		return nil
	}

	// Scoped to the visit: ids belonging to another visit match nothing
	// and are silently skipped.
	return r.db.WithContext(ctx).
		Where("visit_id = ? AND id IN ?", visitID, photoIDs).
		Delete(&models.Photo{}).Error
}

func (r *VisitGormRepository) DeletePhotosByVisit(
	ctx context.Context,
	visitID uint,
) error {
	return r.db.WithContext(ctx).
		Where("visit_id = ?", visitID).
		Delete(&models.Photo{}).Error
}

// --------------------------------------------------
// Feedback
// --------------------------------------------------

func (r *VisitGormRepository) DeleteFeedbackByVisit(
	ctx context.Context,
	visitID uint,
) error {
	return r.db.WithContext(ctx).
		Where("visit_id = ?", visitID).
		Delete(&models.Feedback{}).Error
}

// Compile-time check
var _ domain.Repository = (*VisitGormRepository)(nil)
