package visit

import (
	"context"

	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

// Repository is the storage surface for the visit mutations. Atomic scopes a
// group of writes to one transaction: the callback receives a Repository bound
// to that transaction, and any error rolls every write back.
type Repository interface {
	Atomic(ctx context.Context, fn func(Repository) error) error

	// -------- User --------
	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// -------- Visit --------
	GetByID(
		ctx context.Context,
		id uint,
	) (*models.Visit, error)

	Create(
		ctx context.Context,
		v *models.Visit,
	) error

	UpdateNoteAndSigner(
		ctx context.Context,
		visitID uint,
		note string,
		signedBy string,
	) error

	Delete(
		ctx context.Context,
		visitID uint,
	) error

	// -------- Photos --------
	CreatePhotos(
		ctx context.Context,
		visitID uint,
		urls []string,
	) error

	// DeletePhotosByID removes only the listed photos that belong to the
	// visit; foreign ids are ignored.
	DeletePhotosByID(
		ctx context.Context,
		visitID uint,
		photoIDs []uint,
	) error

	DeletePhotosByVisit(
		ctx context.Context,
		visitID uint,
	) error

	// -------- Feedback --------
	DeleteFeedbackByVisit(
		ctx context.Context,
		visitID uint,
	) error
}
