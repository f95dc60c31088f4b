// Package fraud flags physically impossible donor activity, such as two
// check-ins too far apart for the elapsed time.
package fraud

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifeline/lifeline/internal/platform/geo"
)

const (
	// MaxSpeedKmh is the fastest plausible travel between activities.
	MaxSpeedKmh = 800.0
	// MaxColocatedKm is how far apart two simultaneous activities may be
	// before they are considered impossible.
	MaxColocatedKm = 10.0
)

// Activity is a geolocated donor action, typically a donation check-in.
type Activity struct {
	ID         uuid.UUID `db:"id" json:"id"`
	DonorID    uuid.UUID `db:"donor_id" json:"donor_id"`
	Kind       string    `db:"kind" json:"kind"`
	Latitude   float64   `db:"latitude" json:"latitude"`
	Longitude  float64   `db:"longitude" json:"longitude"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
	Flagged    bool      `db:"flagged" json:"flagged"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Check is the outcome of screening one activity against the previous one.
type Check struct {
	Suspicious bool     `json:"suspicious"`
	Reason     string   `json:"reason,omitempty"`
	DistanceKm float64  `json:"distance_km"`
	SpeedKmh   *float64 `json:"speed_kmh,omitempty"`
}

// ImpossibleTravel screens a new activity against the donor's previous one.
// Simultaneous activities are impossible beyond MaxColocatedKm; otherwise the
// implied speed must stay under MaxSpeedKmh.
func ImpossibleTravel(prev, next *Activity) Check {
	km := geo.DistanceKm(prev.Latitude, prev.Longitude, next.Latitude, next.Longitude)
	elapsed := next.OccurredAt.Sub(prev.OccurredAt).Hours()

	if elapsed <= 0 {
		if km > MaxColocatedKm {
			return Check{Suspicious: true, Reason: "simultaneous activity at distant locations", DistanceKm: km}
		}
		return Check{DistanceKm: km}
	}

	speed := km / elapsed
	if speed > MaxSpeedKmh {
		return Check{Suspicious: true, Reason: "implied travel speed is impossible", DistanceKm: km, SpeedKmh: &speed}
	}
	return Check{DistanceKm: km, SpeedKmh: &speed}
}
