package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateBank(ctx context.Context, b *Bank) error
	GetBank(ctx context.Context, id uuid.UUID) (*Bank, error)
	ListBanks(ctx context.Context, limit, offset int) ([]*Bank, int, error)
	DeleteBank(ctx context.Context, id uuid.UUID) error

	CreateBatch(ctx context.Context, b *Batch) error
	GetBatch(ctx context.Context, id uuid.UUID) (*Batch, error)
	ListBatches(ctx context.Context, bankID *uuid.UUID, limit, offset int) ([]*Batch, int, error)
	DeleteBatch(ctx context.Context, id uuid.UUID) error

	// ListUnexpiredBatches returns batches with units that have not yet
	// expired, bank fields joined, soonest expiry first.
	ListUnexpiredBatches(ctx context.Context, now time.Time) ([]*Batch, error)
	// Deficits aggregates pending request units by blood type and hospital.
	Deficits(ctx context.Context) ([]*Deficit, error)
}
