package donor

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

func (s *Service) Create(ctx context.Context, d *Donor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := blood.Parse(string(d.BloodType)); err != nil {
		return err
	}
	if (d.Latitude == nil) != (d.Longitude == nil) {
		return fmt.Errorf("latitude and longitude must be set together")
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Donor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, d *Donor) error {
	if _, err := blood.Parse(string(d.BloodType)); err != nil {
		return err
	}
	return s.repo.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Donor, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// SetAvailability toggles whether the donor appears in matching pools.
func (s *Service) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*Donor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Available = available
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.publish(ctx, "donor.availability_changed", d)
	return d, nil
}

// RecordDonation marks a completed donation: the donation date is stored and
// the donor drops out of the matching pool until made available again.
func (s *Service) RecordDonation(ctx context.Context, id uuid.UUID, at time.Time) (*Donor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.Eligible(at) {
		days, _ := d.DaysSinceDonation(at)
		return nil, fmt.Errorf("donor donated %d days ago; minimum interval is %d days", days, MinDaysBetweenDonations)
	}
	donated := at
	d.LastDonation = &donated
	d.Available = false
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.publish(ctx, "donor.donated", d)
	return d, nil
}

func (s *Service) publish(ctx context.Context, eventType string, d *Donor) {
	// Best effort; a failed broadcast never affects the committed change.
	_ = s.events.Publish(ctx, ws.NewEvent(eventType, ws.TopicDonors, "donor", d.ID.String(), d))
}
