package fraud

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Activity) error
	// Latest returns the donor's most recent activity, or nil when the
	// donor has none.
	Latest(ctx context.Context, donorID uuid.UUID) (*Activity, error)
	ListByDonor(ctx context.Context, donorID uuid.UUID, limit int) ([]*Activity, error)
	ListFlagged(ctx context.Context, limit, offset int) ([]*Activity, int, error)
}
