package organ

import (
	"math"
	"time"
)

// Maximum cold ischemia times per organ type, in hours. Types outside the
// table get DefaultViableHours rather than an error.
var maxViableHours = map[Type]float64{
	TypeHeart:    4,
	TypeLung:     6,
	TypeLiver:    12,
	TypePancreas: 18,
	TypeKidney:   36,
	TypeCornea:   168,
	TypeSkin:     336,
	TypeBone:     720,
}

// DefaultViableHours is the fallback window for unrecognized organ types.
const DefaultViableHours = 24

// MaxViableHours returns the maximum viability window for an organ type.
func MaxViableHours(t Type) float64 {
	if h, ok := maxViableHours[t]; ok {
		return h
	}
	return DefaultViableHours
}

// IschemiaDeadline is the latest instant the organ remains transplantable.
func IschemiaDeadline(t Type, harvestedAt time.Time) time.Time {
	return harvestedAt.Add(time.Duration(MaxViableHours(t) * float64(time.Hour)))
}

// RemainingHours returns the hours left before the deadline, floored at zero.
func RemainingHours(deadline, now time.Time) float64 {
	remaining := deadline.Sub(now).Hours()
	if remaining < 0 {
		return 0
	}
	return round2(remaining)
}

// ViabilityPercent expresses remaining hours as a percentage of the organ
// type's maximum window, capped at 100 and rounded to one decimal.
func ViabilityPercent(remainingHours float64, t Type) float64 {
	pct := remainingHours / MaxViableHours(t) * 100
	if pct > 100 {
		pct = 100
	}
	return round1(pct)
}

// Viability is the computed freshness of an organ at a point in time.
type Viability struct {
	RemainingHours float64 `json:"remaining_hours"`
	Percent        float64 `json:"percent"`
	Viable         bool    `json:"viable"`
}

// ViabilityAt evaluates the organ's viability. An organ is viable only while
// it is still available and its deadline has not passed; the clock never
// mutates stored status, callers discover expiry through this predicate.
func (o *Organ) ViabilityAt(now time.Time) Viability {
	remaining := RemainingHours(o.IschemiaDeadline, now)
	return Viability{
		RemainingHours: remaining,
		Percent:        ViabilityPercent(remaining, o.OrganType),
		Viable:         o.Status == StatusAvailable && remaining > 0,
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
