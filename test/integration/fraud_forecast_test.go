package integration

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lifeline/lifeline/internal/domain/blood"
	"github.com/lifeline/lifeline/internal/domain/forecast"
	"github.com/lifeline/lifeline/internal/domain/fraud"
	"github.com/lifeline/lifeline/internal/domain/request"
	"github.com/lifeline/lifeline/internal/platform/ws"
)

func TestImpossibleTravelIsPersisted(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)

	d := createTestDonor(t, ctx, "Nadia Islam", blood.BNegative, "Dhaka", nil)

	repo := fraud.NewRepoPG(globalDB.Pool)
	svc := fraud.NewService(repo, zerolog.Nop())

	now := time.Now().UTC()

	// First activity in Dhaka is never suspicious.
	first := &fraud.Activity{
		DonorID:    d.ID,
		Latitude:   23.8103,
		Longitude:  90.4125,
		OccurredAt: now,
	}
	check, err := svc.CheckAndRecord(ctx, first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Suspicious {
		t.Error("first activity should not be suspicious")
	}

	// Second activity in Chattogram ten minutes later is impossible.
	second := &fraud.Activity{
		DonorID:    d.ID,
		Latitude:   22.3569,
		Longitude:  91.7832,
		OccurredAt: now.Add(10 * time.Minute),
	}
	check, err = svc.CheckAndRecord(ctx, second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.Suspicious {
		t.Fatal("expected the second activity to be flagged")
	}
	if check.SpeedKmh == nil || *check.SpeedKmh <= fraud.MaxSpeedKmh {
		t.Errorf("speed = %v, want above %v km/h", check.SpeedKmh, fraud.MaxSpeedKmh)
	}

	flagged, total, err := svc.Flagged(ctx, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(flagged) != 1 {
		t.Fatalf("flagged = %d (total %d), want 1", len(flagged), total)
	}
	if flagged[0].DonorID != d.ID {
		t.Error("flagged activity belongs to the wrong donor")
	}

	history, err := svc.History(ctx, d.ID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history = %d entries, want 2", len(history))
	}
}

func TestForecastFromRequestHistory(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)

	h := createTestHospital(t, ctx, "City General", "Dhaka", 23.8103, 90.4125)

	// Seed thirty days of A+ demand at 4 units per day.
	reqRepo := request.NewRepoPG(globalDB.Pool)
	reqSvc := request.NewService(reqRepo, ws.NopPublisher{})
	for day := 1; day <= 30; day++ {
		r := &request.Request{
			HospitalID: &h.ID,
			BloodType:  blood.APositive,
			Units:      4,
			Urgency:    request.UrgencyNormal,
		}
		if err := reqSvc.Create(ctx, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Backdate so the history query sees a spread of days.
		ts := time.Now().UTC().AddDate(0, 0, -day)
		if _, err := globalDB.Pool.Exec(ctx,
			`UPDATE requests SET created_at = $1 WHERE id = $2`, ts, r.ID); err != nil {
			t.Fatalf("backdate request: %v", err)
		}
	}

	svc := forecast.NewService(forecast.NewRepoPG(globalDB.Pool))
	tf, err := svc.ForecastType(ctx, blood.APositive, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tf.Days) != 7 {
		t.Fatalf("days = %d, want 7", len(tf.Days))
	}
	for _, day := range tf.Days {
		// Thirty days of history gives each weekday a handful of samples.
		if day.Confidence != forecast.ConfidenceMedium {
			t.Errorf("confidence = %s, want medium", day.Confidence)
		}
		// Seasonal adjustment stays within 10% of the 4 unit mean.
		if day.PredictedUnits < 3.5 || day.PredictedUnits > 4.5 {
			t.Errorf("predicted units = %v, want near 4", day.PredictedUnits)
		}
	}

	// Types with no history fall back to a flat default.
	ab, err := svc.ForecastType(ctx, blood.ABNegative, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, day := range ab.Days {
		if day.Confidence != forecast.ConfidenceLow {
			t.Errorf("confidence = %s, want low without history", day.Confidence)
		}
		if day.PredictedUnits != forecast.FallbackDailyUnits {
			t.Errorf("fallback units = %v, want %v", day.PredictedUnits, forecast.FallbackDailyUnits)
		}
	}
}
