package organ

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lifeline/lifeline/internal/domain/blood"
	"github.com/lifeline/lifeline/internal/platform/ws"
)

// UrgentWindowHours is the remaining-viability threshold below which an
// available organ is flagged for immediate placement.
const UrgentWindowHours = 4.0

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

// Register records a harvested organ. The ischemia deadline is computed
// here and never recomputed afterwards.
func (s *Service) Register(ctx context.Context, o *Organ) error {
	if o.OrganType == "" {
		return fmt.Errorf("organ_type is required")
	}
	if _, err := blood.Parse(string(o.BloodType)); err != nil {
		return err
	}
	if o.HarvestedAt.IsZero() {
		o.HarvestedAt = s.now()
	}
	if (o.Latitude == nil) != (o.Longitude == nil) {
		return fmt.Errorf("latitude and longitude must be set together")
	}
	o.IschemiaDeadline = IschemiaDeadline(o.OrganType, o.HarvestedAt)
	o.Status = StatusAvailable
	if err := s.repo.Create(ctx, o); err != nil {
		return err
	}
	s.publish(ctx, "organ.registered", o)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Organ, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, status Status, limit, offset int) ([]*Organ, int, error) {
	if status != "" && !validStatus(status) {
		return nil, 0, fmt.Errorf("unknown status %q", status)
	}
	return s.repo.List(ctx, status, limit, offset)
}

// UpdateStatus drives the allocation lifecycle. Transplanting requires a
// recipient, which may arrive with this call or an earlier match.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to Status, recipientID *uuid.UUID) (*Organ, error) {
	if !validStatus(to) {
		return nil, fmt.Errorf("unknown status %q", to)
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, to) {
		return nil, fmt.Errorf("cannot move organ from %s to %s", o.Status, to)
	}
	if recipientID != nil {
		o.RecipientID = recipientID
	}
	if to == StatusTransplanted {
		if o.RecipientID == nil {
			return nil, fmt.Errorf("transplant requires a recipient")
		}
		at := s.now()
		o.TransplantedAt = &at
	}
	o.Status = to
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	s.publish(ctx, "organ.status_changed", o)
	return o, nil
}

// Viability reports the organ's remaining window at the current instant.
func (s *Service) Viability(ctx context.Context, id uuid.UUID) (*Organ, Viability, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, Viability{}, err
	}
	return o, o.ViabilityAt(s.now()), nil
}

// ListViable returns available organs that have not passed their deadline.
func (s *Service) ListViable(ctx context.Context) ([]*Organ, error) {
	return s.repo.ListViable(ctx, s.now())
}

// ListUrgent returns viable organs with under UrgentWindowHours remaining.
func (s *Service) ListUrgent(ctx context.Context) ([]*Organ, error) {
	now := s.now()
	organs, err := s.repo.ListViable(ctx, now)
	if err != nil {
		return nil, err
	}
	var urgent []*Organ
	for _, o := range organs {
		if RemainingHours(o.IschemiaDeadline, now) < UrgentWindowHours {
			urgent = append(urgent, o)
		}
	}
	return urgent, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	urgent, err := s.ListUrgent(ctx)
	if err != nil {
		return nil, err
	}
	st.CriticalUrgency = len(urgent)
	return st, nil
}

func (s *Service) publish(ctx context.Context, eventType string, o *Organ) {
	_ = s.events.Publish(ctx, ws.NewEvent(eventType, ws.TopicOrgans, "organ", o.ID.String(), o))
}

func validStatus(st Status) bool {
	switch st {
	case StatusAvailable, StatusMatched, StatusInTransit, StatusTransplanted, StatusExpired, StatusDiscarded:
		return true
	}
	return false
}
