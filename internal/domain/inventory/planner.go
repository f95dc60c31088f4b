package inventory

import (
	"errors"
	"sort"
	"time"

	"github.com/lifeline/lifeline/internal/platform/geo"
)

const (
	// MaxExpiryWindowDays bounds the expiring-stock lookahead.
	MaxExpiryWindowDays = 30
	// CriticalExpiryDays and HighExpiryDays split the window into urgency
	// tiers for planning.
	CriticalExpiryDays = 2
	HighExpiryDays     = 5

	// DefaultTransferDistanceKm stands in when either side lacks
	// coordinates; far enough to rank below any located nearby pair but
	// inside the transfer radius.
	DefaultTransferDistanceKm = 100.0
	// MaxTransferDistanceKm is the radius beyond which a transfer is not
	// worth proposing.
	MaxTransferDistanceKm = 200.0
	// UnitValue is the estimated value of one recovered unit, in rupees.
	UnitValue = 2500
	// MaxSuggestions bounds the transfer plan.
	MaxSuggestions = 10
)

// ErrInvalidWindow is returned for a lookahead outside 1..MaxExpiryWindowDays.
var ErrInvalidWindow = errors.New("expiry window must be between 1 and 30 days")

// ExpiryUrgency grades how soon a batch must move.
type ExpiryUrgency string

const (
	ExpiryCritical ExpiryUrgency = "critical"
	ExpiryHigh     ExpiryUrgency = "high"
	ExpiryMedium   ExpiryUrgency = "medium"
)

func (u ExpiryUrgency) rank() int {
	switch u {
	case ExpiryCritical:
		return 0
	case ExpiryHigh:
		return 1
	}
	return 2
}

// ClassifyExpiry grades a batch by days until it expires.
func ClassifyExpiry(daysToExpiry int) ExpiryUrgency {
	switch {
	case daysToExpiry <= CriticalExpiryDays:
		return ExpiryCritical
	case daysToExpiry <= HighExpiryDays:
		return ExpiryHigh
	}
	return ExpiryMedium
}

// FindExpiring annotates batches that expire within the window. Batches with
// no units left are skipped.
func FindExpiring(batches []*Batch, withinDays int, now time.Time) ([]ExpiringBatch, error) {
	if withinDays < 1 || withinDays > MaxExpiryWindowDays {
		return nil, ErrInvalidWindow
	}
	cutoff := now.AddDate(0, 0, withinDays)

	var out []ExpiringBatch
	for _, b := range batches {
		if b.Units <= 0 {
			continue
		}
		if b.ExpiresAt.Before(now) || b.ExpiresAt.After(cutoff) {
			continue
		}
		days := int(b.ExpiresAt.Sub(now).Hours() / 24)
		out = append(out, ExpiringBatch{
			Batch:        b,
			DaysToExpiry: days,
			Urgency:      ClassifyExpiry(days),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Batch.ExpiresAt.Before(out[j].Batch.ExpiresAt)
	})
	return out, nil
}

// SuggestTransfers pairs expiring stock with hospitals short of the same
// type. Pairs beyond the transfer radius are dropped; pairs where either
// side lacks coordinates use the default distance. The plan is capped at
// MaxSuggestions, most urgent and nearest first.
func SuggestTransfers(expiring []ExpiringBatch, deficits []*Deficit) []TransferSuggestion {
	var out []TransferSuggestion
	for _, eb := range expiring {
		b := eb.Batch
		for _, d := range deficits {
			if d.BloodType != b.BloodType || d.UnitsNeeded <= 0 {
				continue
			}

			km := DefaultTransferDistanceKm
			if b.Latitude != nil && b.Longitude != nil && d.Latitude != nil && d.Longitude != nil {
				km = geo.DistanceKm(*b.Latitude, *b.Longitude, *d.Latitude, *d.Longitude)
			}
			if km > MaxTransferDistanceKm {
				continue
			}

			units := b.Units
			if d.UnitsNeeded < units {
				units = d.UnitsNeeded
			}
			out = append(out, TransferSuggestion{
				BatchID:        b.ID,
				BloodType:      b.BloodType,
				FromBankID:     b.BankID,
				FromBankName:   deref(b.BankName),
				ToHospitalID:   d.HospitalID,
				ToHospitalName: d.HospitalName,
				Units:          units,
				DistanceKm:     km,
				EstimatedValue: units * UnitValue,
				Urgency:        eb.Urgency,
				DaysToExpiry:   eb.DaysToExpiry,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if ra, rb := out[i].Urgency.rank(), out[j].Urgency.rank(); ra != rb {
			return ra < rb
		}
		return out[i].DistanceKm < out[j].DistanceKm
	})
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
