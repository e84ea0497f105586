package visit

import (
	"context"

	"github.com/GreenvaleServices/lawn-portal/internal/audit"
	domain "github.com/GreenvaleServices/lawn-portal/internal/domain/visit"
	"github.com/GreenvaleServices/lawn-portal/internal/httperr"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

type UpdateVisitInput struct {
	VisitID uint
	Note    string

	NewPhotoURLs     []string
	PhotoIDsToDelete []uint

	EditorID   uint
	EditorName string
}

type UpdateVisit struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateVisit(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateVisit {
	return &UpdateVisit{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateVisit) Execute(
	ctx context.Context,
	in UpdateVisitInput,
) (*models.Visit, error) {

	if _, err := uc.repo.GetByID(ctx, in.VisitID); err != nil {
		return nil, httperr.ErrBusiness("visit_not_found")
	}

	signedBy := in.EditorName + " (Edited)"

	// Photo deletes, photo creates and the note update are one unit:
	// a failure anywhere leaves the visit exactly as it was.
	err := uc.repo.Atomic(ctx, func(tx domain.Repository) error {
		if err := tx.DeletePhotosByID(ctx, in.VisitID, in.PhotoIDsToDelete); err != nil {
			return err
		}
		if err := tx.CreatePhotos(ctx, in.VisitID, in.NewPhotoURLs); err != nil {
			return err
		}
		return tx.UpdateNoteAndSigner(ctx, in.VisitID, in.Note, signedBy)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.EditorID,
		Action:   "visit_updated",
		Entity:   "visit",
		EntityID: &in.VisitID,
	})

	return uc.repo.GetByID(ctx, in.VisitID)
}
