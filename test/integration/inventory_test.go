package integration

import (
	"context"
	"testing"
	"time"

	"github.com/lifeline/lifeline/internal/domain/blood"
	"github.com/lifeline/lifeline/internal/domain/inventory"
	"github.com/lifeline/lifeline/internal/domain/request"
	"github.com/lifeline/lifeline/internal/platform/ws"
)

func TestExpiringBatchesAndTransfers(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)

	// Surplus bank in Dhaka, deficit hospital nearby.
	bank := createTestBank(t, ctx, "Central Blood Bank", "Dhaka", 23.8103, 90.4125)
	h := createTestHospital(t, ctx, "City General", "Dhaka", 23.75, 90.39)

	repo := inventory.NewRepoPG(globalDB.Pool)
	svc := inventory.NewService(repo, ws.NopPublisher{})

	now := time.Now().UTC()
	expiring := &inventory.Batch{
		BankID:      bank.ID,
		BloodType:   blood.OPositive,
		Units:       8,
		CollectedAt: now.AddDate(0, 0, -30),
		ExpiresAt:   now.AddDate(0, 0, 4),
	}
	if err := svc.CreateBatch(ctx, expiring); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fresh := &inventory.Batch{
		BankID:      bank.ID,
		BloodType:   blood.OPositive,
		Units:       10,
		CollectedAt: now,
		ExpiresAt:   now.AddDate(0, 0, 40),
	}
	if err := svc.CreateBatch(ctx, fresh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	batches, err := svc.ExpiringBatches(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("expiring batches = %d, want 1", len(batches))
	}
	if batches[0].Batch.ID != expiring.ID {
		t.Error("wrong batch reported as expiring")
	}
	if batches[0].Urgency != inventory.ExpiryHigh {
		t.Errorf("urgency = %s, want high", batches[0].Urgency)
	}

	// A pending request creates a deficit the expiring surplus can cover.
	reqRepo := request.NewRepoPG(globalDB.Pool)
	reqSvc := request.NewService(reqRepo, ws.NopPublisher{})
	r := &request.Request{
		HospitalID: &h.ID,
		BloodType:  blood.OPositive,
		Units:      5,
		Urgency:    request.UrgencyUrgent,
	}
	if err := reqSvc.Create(ctx, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	suggestions, err := svc.SuggestTransfers(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(suggestions))
	}
	s := suggestions[0]
	if s.Units != 5 {
		t.Errorf("units = %d, want 5", s.Units)
	}
	if s.EstimatedValue != 5*inventory.UnitValue {
		t.Errorf("value = %d, want %d", s.EstimatedValue, 5*inventory.UnitValue)
	}
	if s.DistanceKm <= 0 || s.DistanceKm > 20 {
		t.Errorf("distance = %v km, expected a short in-city hop", s.DistanceKm)
	}
}

func TestCreateBatchValidation(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)

	bank := createTestBank(t, ctx, "Central Blood Bank", "Dhaka", 23.8103, 90.4125)
	repo := inventory.NewRepoPG(globalDB.Pool)
	svc := inventory.NewService(repo, ws.NopPublisher{})

	now := time.Now().UTC()
	bad := &inventory.Batch{
		BankID:      bank.ID,
		BloodType:   blood.APositive,
		Units:       4,
		CollectedAt: now,
		ExpiresAt:   now.AddDate(0, 0, -1),
	}
	if err := svc.CreateBatch(ctx, bad); err == nil {
		t.Error("expected error for expiry before collection")
	}
}
