package request

import (
	"context"

	"github.com/GreenvaleServices/lawn-portal/internal/audit"
	domain "github.com/GreenvaleServices/lawn-portal/internal/domain/request"
	"github.com/GreenvaleServices/lawn-portal/internal/httperr"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

type ResolveRequestInput struct {
	RequestID uint

	CallerID   uint
	CallerName string
	CallerRole string
}

type ResolveRequest struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewResolveRequest(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ResolveRequest {
	return &ResolveRequest{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ResolveRequest) Execute(
	ctx context.Context,
	in ResolveRequestInput,
) (*models.Request, error) {

	req, err := uc.repo.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, httperr.ErrBusiness("request_not_found")
	}

	// Staff may resolve anything; a customer only their own request.
	if !models.IsStaff(in.CallerRole) && req.UserID != in.CallerID {
		return nil, httperr.ErrBusiness("forbidden")
	}

	name := in.CallerName
	if name == "" {
		name = "User"
	}

	// Re-resolution overwrites: last write wins, even after an earlier
	// resolver already set the name.
	if err := uc.repo.SetResolvedBy(ctx, req.ID, name); err != nil {
		return nil, err
	}

	req.ResolvedBy = &name

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.CallerID,
		Action:   "request_resolved",
		Entity:   "request",
		EntityID: &req.ID,
	})

	return req, nil
}
