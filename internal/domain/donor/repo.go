package donor

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

type Repository interface {
	Create(ctx context.Context, d *Donor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Donor, error)
	Update(ctx context.Context, d *Donor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Donor, int, error)
	// ListAvailableByTypes returns available donors whose blood type is in
	// the given set. It is the candidate pool query for donor matching.
	ListAvailableByTypes(ctx context.Context, types []blood.Type) ([]*Donor, error)
}
