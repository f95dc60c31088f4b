package fraud

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// CheckAndRecord screens a new activity against the donor's latest recorded
// one, stores it with the screening verdict, and returns the verdict. The
// first activity for a donor is never suspicious.
func (s *Service) CheckAndRecord(ctx context.Context, a *Activity) (Check, error) {
	if a.DonorID == uuid.Nil {
		return Check{}, fmt.Errorf("donor_id is required")
	}
	if a.Kind == "" {
		a.Kind = "donation"
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = s.now()
	}

	prev, err := s.repo.Latest(ctx, a.DonorID)
	if err != nil {
		return Check{}, err
	}

	var check Check
	if prev != nil {
		check = ImpossibleTravel(prev, a)
	}
	a.Flagged = check.Suspicious

	if err := s.repo.Create(ctx, a); err != nil {
		return Check{}, err
	}
	if check.Suspicious {
		s.log.Warn().
			Str("donor_id", a.DonorID.String()).
			Str("reason", check.Reason).
			Float64("distance_km", check.DistanceKm).
			Msg("suspicious donor activity")
	}
	return check, nil
}

func (s *Service) History(ctx context.Context, donorID uuid.UUID, limit int) ([]*Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListByDonor(ctx, donorID, limit)
}

func (s *Service) Flagged(ctx context.Context, limit, offset int) ([]*Activity, int, error) {
	return s.repo.ListFlagged(ctx, limit, offset)
}
