package forecast

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

var now = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func TestPredictRejectsBadHorizon(t *testing.T) {
	for _, days := range []int{0, -1, 31, 100} {
		if _, err := Predict(History{}, days, now); err != ErrInvalidHorizon {
			t.Errorf("Predict(%d days) error = %v, want ErrInvalidHorizon", days, err)
		}
	}
}

func TestPredictFallbackWithoutHistory(t *testing.T) {
	days, err := Predict(History{}, 3, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("got %d days, want 3", len(days))
	}
	for _, d := range days {
		// The fallback is flat: no seasonal factor is applied to it.
		if d.PredictedUnits != FallbackDailyUnits {
			t.Errorf("%s predicted = %v, want flat fallback %v", d.Date.Weekday(), d.PredictedUnits, FallbackDailyUnits)
		}
		if d.Confidence != ConfidenceLow {
			t.Errorf("confidence = %s, want low with no samples", d.Confidence)
		}
	}
}

func TestPredictMeanWithSeasonalFactor(t *testing.T) {
	target := now.AddDate(0, 0, 1)
	history := History{target.Weekday(): {8, 10, 12}}

	days, err := Predict(history, 1, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 10 * (1 + SeasonalAmplitude*math.Sin(2*math.Pi*float64(target.YearDay())/365))
	want = math.Round(want*10) / 10
	if days[0].PredictedUnits != want {
		t.Errorf("predicted = %v, want %v", days[0].PredictedUnits, want)
	}
	if days[0].Confidence != ConfidenceMedium {
		t.Errorf("confidence = %s, want medium for 3 samples", days[0].Confidence)
	}
}

func TestPredictConfidenceTiers(t *testing.T) {
	target := now.AddDate(0, 0, 1)
	wd := target.Weekday()

	ten := make([]float64, 10)
	for i := range ten {
		ten[i] = 5
	}
	cases := []struct {
		samples []float64
		want    Confidence
	}{
		{ten, ConfidenceHigh},
		{[]float64{5}, ConfidenceMedium},
		{nil, ConfidenceLow},
	}
	for _, tc := range cases {
		days, err := Predict(History{wd: tc.samples}, 1, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if days[0].Confidence != tc.want {
			t.Errorf("%d samples: confidence = %s, want %s", len(tc.samples), days[0].Confidence, tc.want)
		}
	}
}

func TestPredictDeterministic(t *testing.T) {
	history := History{
		time.Monday:  {4, 6},
		time.Tuesday: {10},
	}
	a, _ := Predict(history, 14, now)
	b, _ := Predict(history, 14, now)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("day %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

type stubSource struct {
	histories map[blood.Type]History
}

func (s *stubSource) DemandHistory(_ context.Context, _ time.Time) (map[blood.Type]History, error) {
	return s.histories, nil
}

func TestForecastCoversAllBloodTypes(t *testing.T) {
	svc := NewService(&stubSource{histories: map[blood.Type]History{}})
	svc.now = func() time.Time { return now }

	forecasts, err := svc.Forecast(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forecasts) != len(blood.All) {
		t.Fatalf("got %d type forecasts, want %d", len(forecasts), len(blood.All))
	}
	for _, tf := range forecasts {
		if len(tf.Days) != 7 {
			t.Errorf("%s: got %d days, want 7", tf.BloodType, len(tf.Days))
		}
		if tf.TotalUnits != 7*FallbackDailyUnits {
			t.Errorf("%s: total = %v, want %v", tf.BloodType, tf.TotalUnits, 7*FallbackDailyUnits)
		}
	}
}

func TestForecastTypeValidatesInput(t *testing.T) {
	svc := NewService(&stubSource{})
	svc.now = func() time.Time { return now }

	if _, err := svc.ForecastType(context.Background(), "Z+", 7); err == nil {
		t.Error("expected error for unknown blood type")
	}
	if _, err := svc.ForecastType(context.Background(), blood.APositive, 31); err != ErrInvalidHorizon {
		t.Errorf("error = %v, want ErrInvalidHorizon", err)
	}
}
