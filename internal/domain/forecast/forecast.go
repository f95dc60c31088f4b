// Package forecast predicts near-term demand for blood units from recent
// request history.
package forecast

import (
	"errors"
	"math"
	"time"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

const (
	// HistoryDays is how far back demand history is considered.
	HistoryDays = 90
	// MaxHorizonDays bounds how far ahead a forecast may reach.
	MaxHorizonDays = 30
	// FallbackDailyUnits is predicted when a weekday has no history at all.
	FallbackDailyUnits = 5.0
	// SeasonalAmplitude scales the annual sinusoidal demand swing.
	SeasonalAmplitude = 0.1

	highConfidenceSamples = 10
)

// ErrInvalidHorizon is returned for a horizon outside 1..MaxHorizonDays.
var ErrInvalidHorizon = errors.New("forecast horizon must be between 1 and 30 days")

// Confidence grades a prediction by how much history backs it.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// History holds, per weekday, the daily unit totals observed over the
// trailing HistoryDays window for one blood type.
type History map[time.Weekday][]float64

// DayForecast is the prediction for a single future date.
type DayForecast struct {
	Date           time.Time  `json:"date"`
	PredictedUnits float64    `json:"predicted_units"`
	Confidence     Confidence `json:"confidence"`
	Samples        int        `json:"samples"`
}

// TypeForecast is the horizon for one blood type.
type TypeForecast struct {
	BloodType  blood.Type    `json:"blood_type"`
	Days       []DayForecast `json:"days"`
	TotalUnits float64       `json:"total_units"`
}

// Predict projects daily demand for the given blood type history. The
// prediction for a date is the mean of that weekday's observed totals with a
// seasonal adjustment applied; a weekday with no history falls back to a
// flat default with no adjustment.
func Predict(history History, daysAhead int, now time.Time) ([]DayForecast, error) {
	if daysAhead < 1 || daysAhead > MaxHorizonDays {
		return nil, ErrInvalidHorizon
	}

	out := make([]DayForecast, 0, daysAhead)
	for d := 1; d <= daysAhead; d++ {
		date := now.AddDate(0, 0, d)
		samples := history[date.Weekday()]

		var predicted float64
		if len(samples) == 0 {
			predicted = FallbackDailyUnits
		} else {
			predicted = mean(samples) * seasonalFactor(date)
		}
		out = append(out, DayForecast{
			Date:           date,
			PredictedUnits: round1(predicted),
			Confidence:     confidence(len(samples)),
			Samples:        len(samples),
		})
	}
	return out, nil
}

// seasonalFactor models a mild annual demand cycle over the day of year.
func seasonalFactor(date time.Time) float64 {
	return 1 + SeasonalAmplitude*math.Sin(2*math.Pi*float64(date.YearDay())/365)
}

func confidence(samples int) Confidence {
	switch {
	case samples >= highConfidenceSamples:
		return ConfidenceHigh
	case samples >= 1:
		return ConfidenceMedium
	}
	return ConfidenceLow
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
