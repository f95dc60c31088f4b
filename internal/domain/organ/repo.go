package organ

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *Organ) error
	GetByID(ctx context.Context, id uuid.UUID) (*Organ, error)
	Update(ctx context.Context, o *Organ) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status Status, limit, offset int) ([]*Organ, int, error)
	// ListViable returns available organs whose ischemia deadline is after
	// the given instant, nearest deadline first.
	ListViable(ctx context.Context, now time.Time) ([]*Organ, error)
	Stats(ctx context.Context) (*Stats, error)
}
