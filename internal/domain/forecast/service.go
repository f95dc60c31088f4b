package forecast

import (
	"context"
	"time"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

type Service struct {
	source HistorySource
	now    func() time.Time
}

func NewService(source HistorySource) *Service {
	return &Service{source: source, now: func() time.Time { return time.Now().UTC() }}
}

// Forecast predicts daily demand per blood type for the given horizon. Every
// blood type appears in the result; types with no history rely entirely on
// the fallback prediction.
func (s *Service) Forecast(ctx context.Context, daysAhead int) ([]TypeForecast, error) {
	if daysAhead < 1 || daysAhead > MaxHorizonDays {
		return nil, ErrInvalidHorizon
	}
	now := s.now()
	histories, err := s.source.DemandHistory(ctx, now)
	if err != nil {
		return nil, err
	}

	out := make([]TypeForecast, 0, len(blood.All))
	for _, bt := range blood.All {
		days, err := Predict(histories[bt], daysAhead, now)
		if err != nil {
			return nil, err
		}
		tf := TypeForecast{BloodType: bt, Days: days}
		for _, d := range days {
			tf.TotalUnits += d.PredictedUnits
		}
		out = append(out, tf)
	}
	return out, nil
}

// ForecastType predicts demand for a single blood type.
func (s *Service) ForecastType(ctx context.Context, bt blood.Type, daysAhead int) (*TypeForecast, error) {
	if _, err := blood.Parse(string(bt)); err != nil {
		return nil, err
	}
	if daysAhead < 1 || daysAhead > MaxHorizonDays {
		return nil, ErrInvalidHorizon
	}
	now := s.now()
	histories, err := s.source.DemandHistory(ctx, now)
	if err != nil {
		return nil, err
	}
	days, err := Predict(histories[bt], daysAhead, now)
	if err != nil {
		return nil, err
	}
	tf := &TypeForecast{BloodType: bt, Days: days}
	for _, d := range days {
		tf.TotalUnits += d.PredictedUnits
	}
	return tf, nil
}
