package visit

import (
	"context"

	"github.com/GreenvaleServices/lawn-portal/internal/audit"
	domain "github.com/GreenvaleServices/lawn-portal/internal/domain/visit"
	"github.com/GreenvaleServices/lawn-portal/internal/httperr"
)

type DeleteVisit struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteVisit(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteVisit {
	return &DeleteVisit{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteVisit) Execute(
	ctx context.Context,
	visitID uint,
	actorID uint,
) error {

	if _, err := uc.repo.GetByID(ctx, visitID); err != nil {
		return httperr.ErrBusiness("visit_not_found")
	}

	// Children first, then the visit. The cascade is a correctness rule:
	// a feedback or photo must never outlive its visit.
	err := uc.repo.Atomic(ctx, func(tx domain.Repository) error {
		if err := tx.DeleteFeedbackByVisit(ctx, visitID); err != nil {
			return err
		}
		if err := tx.DeletePhotosByVisit(ctx, visitID); err != nil {
			return err
		}
		return tx.Delete(ctx, visitID)
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "visit_deleted",
		Entity:   "visit",
		EntityID: &visitID,
	})

	return nil
}
