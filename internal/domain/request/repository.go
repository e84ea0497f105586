package request

import (
	"context"

	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

type Repository interface {
	GetByID(
		ctx context.Context,
		id uint,
	) (*models.Request, error)

	SetResolvedBy(
		ctx context.Context,
		id uint,
		name string,
	) error
}
