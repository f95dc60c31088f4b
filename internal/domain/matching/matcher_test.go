package matching

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lifeline/lifeline/internal/domain/blood"
	"github.com/lifeline/lifeline/internal/domain/donor"
	"github.com/lifeline/lifeline/internal/domain/organ"
	"github.com/lifeline/lifeline/internal/domain/request"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func daysAgo(n int) *time.Time {
	t := now.AddDate(0, 0, -n)
	return &t
}

func TestScoreDonorExactTypeBonus(t *testing.T) {
	req := &request.Request{BloodType: blood.APositive, Status: request.StatusPending}
	exact := &donor.Donor{BloodType: blood.APositive}
	compat := &donor.Donor{BloodType: blood.ONegative}

	se := ScoreDonor(exact, req, now)
	sc := ScoreDonor(compat, req, now)
	if se.Score-sc.Score != ExactTypeBonus {
		t.Errorf("exact-type gap = %v, want %v", se.Score-sc.Score, ExactTypeBonus)
	}
}

func TestScoreDonorDistancePenalty(t *testing.T) {
	// Request at the origin, donor roughly 111 km due north.
	req := &request.Request{BloodType: blood.APositive, Latitude: ptr(0.0), Longitude: ptr(0.0)}
	d := &donor.Donor{BloodType: blood.APositive, Latitude: ptr(1.0), Longitude: ptr(0.0)}

	got := ScoreDonor(d, req, now)
	if got.DistanceKm == nil {
		t.Fatal("expected a computed distance")
	}
	want := BaseScore + ExactTypeBonus + FirstTimeBonus - *got.DistanceKm/5
	if diff := got.Score - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("score = %v, want %v", got.Score, want)
	}
}

func TestScoreDonorDistancePenaltyCapped(t *testing.T) {
	// Donor on the other side of the world; penalty must stop at the cap.
	req := &request.Request{BloodType: blood.APositive, Latitude: ptr(0.0), Longitude: ptr(0.0)}
	d := &donor.Donor{BloodType: blood.APositive, Latitude: ptr(0.0), Longitude: ptr(179.0)}

	got := ScoreDonor(d, req, now)
	want := BaseScore + ExactTypeBonus + FirstTimeBonus - MaxDistancePenalty
	if got.Score != want {
		t.Errorf("score = %v, want %v", got.Score, want)
	}
}

func TestScoreDonorSameCityFallback(t *testing.T) {
	req := &request.Request{BloodType: blood.APositive, City: ptr("Pune")}
	sameCity := &donor.Donor{BloodType: blood.APositive, City: ptr("Pune")}
	otherCity := &donor.Donor{BloodType: blood.APositive, City: ptr("Nagpur")}
	noCity := &donor.Donor{BloodType: blood.APositive}

	if gap := ScoreDonor(sameCity, req, now).Score - ScoreDonor(otherCity, req, now).Score; gap != SameCityBonus {
		t.Errorf("same-city gap = %v, want %v", gap, SameCityBonus)
	}
	if ScoreDonor(otherCity, req, now).Score != ScoreDonor(noCity, req, now).Score {
		t.Error("city mismatch and missing city must score the same")
	}
}

func TestScoreDonorRecency(t *testing.T) {
	req := &request.Request{BloodType: blood.APositive}

	first := ScoreDonor(&donor.Donor{BloodType: blood.APositive}, req, now)
	recent := ScoreDonor(&donor.Donor{BloodType: blood.APositive, LastDonation: daysAgo(10)}, req, now)
	rested := ScoreDonor(&donor.Donor{BloodType: blood.APositive, LastDonation: daysAgo(100)}, req, now)
	longRested := ScoreDonor(&donor.Donor{BloodType: blood.APositive, LastDonation: daysAgo(400)}, req, now)

	// A first-timer outranks a 10-day donor by the full bonus plus penalty.
	if gap := first.Score - recent.Score; gap != FirstTimeBonus+IneligiblePenalty {
		t.Errorf("first-timer vs recent gap = %v, want %v", gap, FirstTimeBonus+IneligiblePenalty)
	}
	if want := BaseScore + ExactTypeBonus + 10; rested.Score != want {
		t.Errorf("rested score = %v, want %v", rested.Score, want)
	}
	if want := BaseScore + ExactTypeBonus + MaxRecencyBonus; longRested.Score != want {
		t.Errorf("long-rested score = %v, want capped at %v", longRested.Score, want)
	}
	if recent.IsRecommended {
		t.Error("recently donated donor must not be recommended")
	}
	if !first.IsRecommended {
		t.Error("first-time exact-type donor should be recommended")
	}
}

func TestScoreDonorFloorsAtZero(t *testing.T) {
	// Recent donor far away with no type bonus drives the raw score negative.
	req := &request.Request{BloodType: blood.APositive, Latitude: ptr(0.0), Longitude: ptr(0.0)}
	d := &donor.Donor{BloodType: blood.ONegative, Latitude: ptr(0.0), Longitude: ptr(179.0), LastDonation: daysAgo(5)}

	if got := ScoreDonor(d, req, now); got.Score != 0 {
		t.Errorf("score = %v, want floored at 0", got.Score)
	}
}

func TestRankDonorsOrderAndCap(t *testing.T) {
	req := &request.Request{BloodType: blood.ONegative}
	var pool []*donor.Donor
	for i := 0; i < 25; i++ {
		pool = append(pool, &donor.Donor{ID: uuid.New(), BloodType: blood.ONegative})
	}
	pool = append(pool, &donor.Donor{ID: uuid.New(), BloodType: blood.ONegative, LastDonation: daysAgo(10)})

	ranked := RankDonors(pool, req, now)
	if len(ranked) != MaxDonorMatches {
		t.Fatalf("got %d matches, want capped at %d", len(ranked), MaxDonorMatches)
	}
	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1], ranked[i]
		if prev.Score < cur.Score {
			t.Fatalf("ranking not descending at %d: %v before %v", i, prev.Score, cur.Score)
		}
		if prev.Score == cur.Score && prev.Donor.ID.String() > cur.Donor.ID.String() {
			t.Fatalf("tie at %d not broken by donor ID", i)
		}
	}
}

func TestRankRequestsReachableFirst(t *testing.T) {
	harvested := now.Add(-2 * time.Hour)
	o := &organ.Organ{
		OrganType:        organ.TypeHeart,
		BloodType:        blood.APositive,
		HarvestedAt:      harvested,
		IschemiaDeadline: organ.IschemiaDeadline(organ.TypeHeart, harvested),
		Status:           organ.StatusAvailable,
		Latitude:         ptr(0.0),
		Longitude:        ptr(0.0),
	}

	// Two hours of viability remain; 60 km/h reaches under 120 km.
	near := &request.Request{ID: uuid.New(), Urgency: request.UrgencyNormal,
		Latitude: ptr(0.5), Longitude: ptr(0.0)} // ~56 km
	far := &request.Request{ID: uuid.New(), Urgency: request.UrgencyCritical,
		Latitude: ptr(3.0), Longitude: ptr(0.0)} // ~334 km
	unknown := &request.Request{ID: uuid.New(), Urgency: request.UrgencyUrgent}

	matches := RankRequests([]*request.Request{far, unknown, near}, o, now)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	// Reachable block first: the unknown-location urgent request outranks
	// the reachable normal one on urgency, and the unreachable critical
	// request sorts last despite its tier.
	if matches[0].Request.ID != unknown.ID {
		t.Errorf("first match = %v, want the urgent unknown-location request", matches[0].Request.ID)
	}
	if matches[1].Request.ID != near.ID {
		t.Errorf("second match = %v, want the near request", matches[1].Request.ID)
	}
	if matches[2].Request.ID != far.ID || matches[2].Reachable {
		t.Errorf("last match should be the unreachable far request")
	}
}

func TestRankRequestsUnknownDistanceLast(t *testing.T) {
	harvested := now
	o := &organ.Organ{
		OrganType:        organ.TypeKidney,
		BloodType:        blood.APositive,
		HarvestedAt:      harvested,
		IschemiaDeadline: organ.IschemiaDeadline(organ.TypeKidney, harvested),
		Latitude:         ptr(0.0),
		Longitude:        ptr(0.0),
	}

	near := &request.Request{ID: uuid.New(), Urgency: request.UrgencyCritical, Latitude: ptr(0.5), Longitude: ptr(0.0)}
	unknown := &request.Request{ID: uuid.New(), Urgency: request.UrgencyCritical}

	matches := RankRequests([]*request.Request{unknown, near}, o, now)
	if matches[0].Request.ID != near.ID {
		t.Error("known distance must sort before unknown within the same tier")
	}
}

type stubRequests struct {
	byID     map[uuid.UUID]*request.Request
	pending  []*request.Request
	gotTypes []blood.Type
}

func (s *stubRequests) GetByID(_ context.Context, id uuid.UUID) (*request.Request, error) {
	r, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return r, nil
}

func (s *stubRequests) ListPendingByTypes(_ context.Context, types []blood.Type) ([]*request.Request, error) {
	s.gotTypes = types
	return s.pending, nil
}

type stubDonors struct {
	pool     []*donor.Donor
	gotTypes []blood.Type
}

func (s *stubDonors) ListAvailableByTypes(_ context.Context, types []blood.Type) ([]*donor.Donor, error) {
	s.gotTypes = types
	return s.pool, nil
}

type stubOrgans struct {
	byID map[uuid.UUID]*organ.Organ
}

func (s *stubOrgans) GetByID(_ context.Context, id uuid.UUID) (*organ.Organ, error) {
	o, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return o, nil
}

func TestMatchDonorsUsesCompatiblePool(t *testing.T) {
	req := &request.Request{ID: uuid.New(), BloodType: blood.ONegative, Status: request.StatusPending}
	requests := &stubRequests{byID: map[uuid.UUID]*request.Request{req.ID: req}}
	donors := &stubDonors{pool: []*donor.Donor{{ID: uuid.New(), BloodType: blood.ONegative}}}

	svc := NewService(requests, donors, &stubOrgans{})
	svc.now = func() time.Time { return now }

	_, matches, err := svc.MatchDonors(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// O- recipients can only take O- blood.
	if len(donors.gotTypes) != 1 || donors.gotTypes[0] != blood.ONegative {
		t.Errorf("queried types = %v, want [O-]", donors.gotTypes)
	}
	if len(matches) != 1 || !matches[0].IsRecommended {
		t.Errorf("expected one recommended match, got %+v", matches)
	}
}

func TestMatchDonorsRejectsNonPending(t *testing.T) {
	req := &request.Request{ID: uuid.New(), BloodType: blood.APositive, Status: request.StatusFulfilled}
	requests := &stubRequests{byID: map[uuid.UUID]*request.Request{req.ID: req}}

	svc := NewService(requests, &stubDonors{}, &stubOrgans{})
	if _, _, err := svc.MatchDonors(context.Background(), req.ID); err == nil {
		t.Error("expected error for fulfilled request")
	}
}

func TestMatchRequestsKeysTableByOrganType(t *testing.T) {
	o := &organ.Organ{ID: uuid.New(), OrganType: organ.TypeKidney, BloodType: blood.ONegative,
		IschemiaDeadline: now.Add(36 * time.Hour)}
	organs := &stubOrgans{byID: map[uuid.UUID]*organ.Organ{o.ID: o}}
	requests := &stubRequests{byID: map[uuid.UUID]*request.Request{}}

	svc := NewService(requests, &stubDonors{}, organs)
	svc.now = func() time.Time { return now }

	if _, _, err := svc.MatchRequests(context.Background(), o.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The table row for O- lists only O-.
	if len(requests.gotTypes) != 1 || requests.gotTypes[0] != blood.ONegative {
		t.Errorf("queried types = %v, want [O-]", requests.gotTypes)
	}
}
