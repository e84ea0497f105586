package visit

import (
	"context"
	"time"

	"github.com/GreenvaleServices/lawn-portal/internal/audit"
	domain "github.com/GreenvaleServices/lawn-portal/internal/domain/visit"
	"github.com/GreenvaleServices/lawn-portal/internal/httperr"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateVisitInput struct {
	CustomerID uint
	Note       string
	PhotoURLs  []string
	Date       *time.Time

	StaffID   uint
	StaffName string
}

// ======================================================
// USE CASE
// ======================================================

type CreateVisit struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateVisit(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateVisit {
	return &CreateVisit{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateVisit) Execute(
	ctx context.Context,
	in CreateVisitInput,
) (*models.Visit, error) {

	customer, err := uc.repo.GetUser(ctx, in.CustomerID)
	if err != nil {
		return nil, httperr.ErrBusiness("customer_not_found")
	}

	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}

	v := &models.Visit{
		UserID:   customer.ID,
		Date:     date,
		Note:     in.Note,
		SignedBy: in.StaffName,
	}

	// Visit and its photo rows land together or not at all.
	err = uc.repo.Atomic(ctx, func(tx domain.Repository) error {
		if err := tx.Create(ctx, v); err != nil {
			return err
		}
		return tx.CreatePhotos(ctx, v.ID, in.PhotoURLs)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.StaffID,
		Action:   "visit_created",
		Entity:   "visit",
		EntityID: &v.ID,
	})

	return v, nil
}
