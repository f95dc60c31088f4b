package request

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
}

func NewService(repo Repository, events ws.EventPublisher) *Service {
	if events == nil {
		events = ws.NopPublisher{}
	}
	return &Service{repo: repo, events: events}
}

func (s *Service) Create(ctx context.Context, r *Request) error {
	if _, err := blood.Parse(string(r.BloodType)); err != nil {
		return err
	}
	if r.Units <= 0 {
		return fmt.Errorf("units must be positive")
	}
	if r.Urgency == "" {
		r.Urgency = UrgencyNormal
	}
	if !r.Urgency.Valid() {
		return fmt.Errorf("invalid urgency: %s", r.Urgency)
	}
	r.Status = StatusPending
	if err := s.repo.Create(ctx, r); err != nil {
		return err
	}
	s.publish(ctx, "request.created", r)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status Status, limit, offset int) ([]*Request, int, error) {
	return s.repo.List(ctx, status, limit, offset)
}

// Fulfill transitions a pending request to fulfilled, recording the donor
// and the fulfillment time.
func (s *Service) Fulfill(ctx context.Context, id, donorID uuid.UUID, now time.Time) (*Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusPending {
		return nil, fmt.Errorf("request is %s; only pending requests can be fulfilled", r.Status)
	}
	r.Status = StatusFulfilled
	r.FulfilledBy = &donorID
	at := now
	r.FulfilledAt = &at
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	s.publish(ctx, "request.fulfilled", r)
	return r, nil
}

// Cancel transitions a pending request to cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusPending {
		return nil, fmt.Errorf("request is %s; only pending requests can be cancelled", r.Status)
	}
	r.Status = StatusCancelled
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	s.publish(ctx, "request.cancelled", r)
	return r, nil
}

func (s *Service) publish(ctx context.Context, eventType string, r *Request) {
	_ = s.events.Publish(ctx, ws.NewEvent(eventType, ws.TopicRequests, "request", r.ID.String(), r))
}
