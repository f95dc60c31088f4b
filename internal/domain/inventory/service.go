package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lifeline/lifeline/internal/domain/blood"
	"github.com/lifeline/lifeline/internal/platform/ws"
)

type Service struct {
	repo   Repository
	events ws.EventPublisher
	now    func() time.Time
}

func NewService(repo Repository, events ws.EventPublisher) *Service {
	if events == nil {
		events = ws.NopPublisher{}
	}
	return &Service{repo: repo, events: events, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) CreateBank(ctx context.Context, b *Bank) error {
	if b.Name == "" {
		return fmt.Errorf("name is required")
	}
	if b.City == "" {
		return fmt.Errorf("city is required")
	}
	if (b.Latitude == nil) != (b.Longitude == nil) {
		return fmt.Errorf("latitude and longitude must be set together")
	}
	return s.repo.CreateBank(ctx, b)
}

func (s *Service) GetBank(ctx context.Context, id uuid.UUID) (*Bank, error) {
	return s.repo.GetBank(ctx, id)
}

func (s *Service) ListBanks(ctx context.Context, limit, offset int) ([]*Bank, int, error) {
	return s.repo.ListBanks(ctx, limit, offset)
}

func (s *Service) DeleteBank(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteBank(ctx, id)
}

func (s *Service) CreateBatch(ctx context.Context, b *Batch) error {
	if _, err := blood.Parse(string(b.BloodType)); err != nil {
		return err
	}
	if b.Units <= 0 {
		return fmt.Errorf("units must be positive")
	}
	if b.BankID == uuid.Nil {
		return fmt.Errorf("bank_id is required")
	}
	if _, err := s.repo.GetBank(ctx, b.BankID); err != nil {
		return fmt.Errorf("bank not found")
	}
	now := s.now()
	if b.CollectedAt.IsZero() {
		b.CollectedAt = now
	}
	if b.ExpiresAt.IsZero() {
		return fmt.Errorf("expires_at is required")
	}
	if !b.ExpiresAt.After(b.CollectedAt) {
		return fmt.Errorf("expires_at must be after collected_at")
	}
	if err := s.repo.CreateBatch(ctx, b); err != nil {
		return err
	}
	s.publish(ctx, "inventory.batch_added", b.ID, b)
	return nil
}

func (s *Service) GetBatch(ctx context.Context, id uuid.UUID) (*Batch, error) {
	return s.repo.GetBatch(ctx, id)
}

func (s *Service) ListBatches(ctx context.Context, bankID *uuid.UUID, limit, offset int) ([]*Batch, int, error) {
	return s.repo.ListBatches(ctx, bankID, limit, offset)
}

func (s *Service) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteBatch(ctx, id)
}

// ExpiringBatches lists stock expiring within the window, soonest first.
func (s *Service) ExpiringBatches(ctx context.Context, withinDays int) ([]ExpiringBatch, error) {
	if withinDays < 1 || withinDays > MaxExpiryWindowDays {
		return nil, ErrInvalidWindow
	}
	now := s.now()
	batches, err := s.repo.ListUnexpiredBatches(ctx, now)
	if err != nil {
		return nil, err
	}
	return FindExpiring(batches, withinDays, now)
}

// SuggestTransfers builds a transfer plan matching expiring stock against
// current hospital deficits.
func (s *Service) SuggestTransfers(ctx context.Context, withinDays int) ([]TransferSuggestion, error) {
	expiring, err := s.ExpiringBatches(ctx, withinDays)
	if err != nil {
		return nil, err
	}
	deficits, err := s.repo.Deficits(ctx)
	if err != nil {
		return nil, err
	}
	return SuggestTransfers(expiring, deficits), nil
}

func (s *Service) publish(ctx context.Context, eventType string, id uuid.UUID, payload any) {
	_ = s.events.Publish(ctx, ws.NewEvent(eventType, ws.TopicInventory, "batch", id.String(), payload))
}
