package request

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	Update(ctx context.Context, r *Request) error
	List(ctx context.Context, status Status, limit, offset int) ([]*Request, int, error)
	// ListPendingByTypes returns pending requests whose blood type is in the
	// given set, ordered by urgency then creation time. It is the candidate
	// pool query for organ matching.
	ListPendingByTypes(ctx context.Context, types []blood.Type) ([]*Request, error)
}
