package integration

import (
	"context"
	"testing"
	"time"

	"github.com/lifeline/lifeline/internal/domain/blood"
	"github.com/lifeline/lifeline/internal/domain/donor"
	"github.com/lifeline/lifeline/internal/domain/matching"
	"github.com/lifeline/lifeline/internal/domain/organ"
	"github.com/lifeline/lifeline/internal/domain/request"
	"github.com/lifeline/lifeline/internal/platform/ws"
)

func TestMatchDonorsAgainstDatabase(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)

	h := createTestHospital(t, ctx, "City General", "Dhaka", 23.8103, 90.4125)

	// Compatible donors for an A+ recipient: A+, A-, O+, O-.
	exact := createTestDonor(t, ctx, "Exact Match", blood.APositive, "Dhaka", nil)
	universal := createTestDonor(t, ctx, "Universal", blood.ONegative, "Dhaka", nil)
	createTestDonor(t, ctx, "Incompatible", blood.BPositive, "Dhaka", nil)

	// Recently donated donors are heavily penalized.
	recent := time.Now().UTC().AddDate(0, 0, -10)
	createTestDonor(t, ctx, "Too Recent", blood.APositive, "Dhaka", &recent)

	requestRepo := request.NewRepoPG(globalDB.Pool)
	requestSvc := request.NewService(requestRepo, ws.NopPublisher{})
	r := &request.Request{
		HospitalID: &h.ID,
		BloodType:  blood.APositive,
		Units:      2,
		Urgency:    request.UrgencyUrgent,
	}
	if err := requestSvc.Create(ctx, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	donorRepo := donor.NewRepoPG(globalDB.Pool)
	organRepo := organ.NewRepoPG(globalDB.Pool)
	matchSvc := matching.NewService(requestRepo, donorRepo, organRepo)

	_, candidates, err := matchSvc.MatchDonors(ctx, r.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("candidates = %d, want 3", len(candidates))
	}

	ids := map[string]bool{}
	for _, c := range candidates {
		ids[c.Donor.ID.String()] = true
	}
	if !ids[exact.ID.String()] || !ids[universal.ID.String()] {
		t.Error("expected both compatible donors in the candidate list")
	}

	// The exact-type, never-donated donor in the same city outranks the rest.
	if candidates[0].Donor.ID != exact.ID {
		t.Errorf("top candidate = %s, want exact-type donor", candidates[0].Donor.Name)
	}
	if candidates[0].Score <= candidates[1].Score {
		t.Errorf("scores not descending: %v then %v", candidates[0].Score, candidates[1].Score)
	}

	// The recently donated donor scores lowest.
	last := candidates[len(candidates)-1]
	if last.Donor.Name != "Too Recent" {
		t.Errorf("last candidate = %s, want the recently donated donor", last.Donor.Name)
	}
}

func TestMatchRequestsForOrgan(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)

	near := createTestHospital(t, ctx, "Near Hospital", "Dhaka", 23.8103, 90.4125)
	far := createTestHospital(t, ctx, "Far Hospital", "Chattogram", 22.3569, 91.7832)

	requestRepo := request.NewRepoPG(globalDB.Pool)
	requestSvc := request.NewService(requestRepo, ws.NopPublisher{})

	nearReq := &request.Request{
		HospitalID: &near.ID,
		BloodType:  blood.ONegative,
		Units:      1,
		Urgency:    request.UrgencyNormal,
	}
	farReq := &request.Request{
		HospitalID: &far.ID,
		BloodType:  blood.ONegative,
		Units:      1,
		Urgency:    request.UrgencyCritical,
	}
	for _, r := range []*request.Request{nearReq, farReq} {
		if err := requestSvc.Create(ctx, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	organRepo := organ.NewRepoPG(globalDB.Pool)
	organSvc := organ.NewService(organRepo, ws.NopPublisher{})
	o := &organ.Organ{
		OrganType: organ.TypeKidney,
		BloodType: blood.ONegative,
		Latitude:  ptr(23.8103),
		Longitude: ptr(90.4125),
	}
	if err := organSvc.Register(ctx, o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	donorRepo := donor.NewRepoPG(globalDB.Pool)
	matchSvc := matching.NewService(requestRepo, donorRepo, organRepo)

	_, matches, err := matchSvc.MatchRequests(ctx, o.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}

	// A kidney has 36 viable hours: both hospitals are reachable, so the
	// critical request ranks first despite being farther away.
	if matches[0].Request.ID != farReq.ID {
		t.Errorf("top match = %v, want the critical request", matches[0].Request.Urgency)
	}
	for _, m := range matches {
		if !m.Reachable {
			t.Errorf("request at %v should be reachable within kidney viability", m.DistanceKm)
		}
	}
}
