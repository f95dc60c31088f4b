package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lifeline/lifeline/internal/domain/blood"
	"github.com/lifeline/lifeline/internal/domain/donor"
	"github.com/lifeline/lifeline/internal/domain/organ"
	"github.com/lifeline/lifeline/internal/domain/request"
)

// RequestSource is the slice of the request repository matching needs.
type RequestSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*request.Request, error)
	ListPendingByTypes(ctx context.Context, types []blood.Type) ([]*request.Request, error)
}

// DonorSource is the slice of the donor repository matching needs.
type DonorSource interface {
	ListAvailableByTypes(ctx context.Context, types []blood.Type) ([]*donor.Donor, error)
}

// OrganSource is the slice of the organ repository matching needs.
type OrganSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*organ.Organ, error)
}

type Service struct {
	requests RequestSource
	donors   DonorSource
	organs   OrganSource
	now      func() time.Time
}

func NewService(requests RequestSource, donors DonorSource, organs OrganSource) *Service {
	return &Service{
		requests: requests,
		donors:   donors,
		organs:   organs,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// MatchDonors ranks compatible, available donors for a pending request.
func (s *Service) MatchDonors(ctx context.Context, requestID uuid.UUID) (*request.Request, []DonorCandidate, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if req.Status != request.StatusPending {
		return req, nil, fmt.Errorf("request is %s, only pending requests can be matched", req.Status)
	}

	types, err := blood.AcceptableDonors(req.BloodType, blood.Transfusion)
	if err != nil {
		return req, nil, err
	}
	pool, err := s.donors.ListAvailableByTypes(ctx, types)
	if err != nil {
		return req, nil, err
	}
	return req, RankDonors(pool, req, s.now()), nil
}

// MatchRequests ranks pending requests that could receive the organ. The
// compatibility table is looked up by the organ's blood type; candidates are
// the request blood types listed for it.
func (s *Service) MatchRequests(ctx context.Context, organID uuid.UUID) (*organ.Organ, []RequestMatch, error) {
	o, err := s.organs.GetByID(ctx, organID)
	if err != nil {
		return nil, nil, err
	}

	types, err := blood.AcceptableDonors(o.BloodType, blood.OrganTransplant)
	if err != nil {
		return o, nil, err
	}
	candidates, err := s.requests.ListPendingByTypes(ctx, types)
	if err != nil {
		return o, nil, err
	}
	return o, RankRequests(candidates, o, s.now()), nil
}
