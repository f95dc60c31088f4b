// Package matching ranks donors against blood requests and pending requests
// against harvested organs. Scoring is deterministic: the same inputs always
// produce the same ordering.
package matching

import (
	"math"
	"sort"
	"time"

	"github.com/lifeline/lifeline/internal/domain/donor"
	"github.com/lifeline/lifeline/internal/domain/request"
	"github.com/lifeline/lifeline/internal/platform/geo"
)

const (
	// BaseScore is the starting score every compatible donor receives.
	BaseScore = 100.0
	// ExactTypeBonus rewards a donor whose blood type equals the request's.
	ExactTypeBonus = 20.0
	// MaxDistancePenalty caps how much distance can cost a donor.
	MaxDistancePenalty = 50.0
	// DistancePenaltyPerKm converts kilometres into penalty points.
	DistancePenaltyPerKm = 1.0 / 5.0
	// SameCityBonus replaces the distance term when coordinates are missing
	// but both parties report the same city.
	SameCityBonus = 10.0
	// FirstTimeBonus rewards donors with no donation on record.
	FirstTimeBonus = 15.0
	// MaxRecencyBonus caps the reward for a long-rested donor.
	MaxRecencyBonus = 20.0
	// RecencyBonusPerTenDays converts rest days into bonus points.
	RecencyBonusPerTenDays = 1.0 / 10.0
	// IneligiblePenalty applies when the donor donated too recently.
	IneligiblePenalty = 50.0

	// RecommendedThreshold is the minimum score for the recommended flag.
	RecommendedThreshold = 80.0
	// MaxDonorMatches bounds the ranked result list.
	MaxDonorMatches = 20
)

// DonorCandidate is one ranked donor for a request.
type DonorCandidate struct {
	Donor         *donor.Donor `json:"donor"`
	Score         float64      `json:"score"`
	DistanceKm    *float64     `json:"distance_km,omitempty"`
	IsRecommended bool         `json:"is_recommended"`
}

// scoreRule is one additive term of the donor score. Rules never see each
// other's output, so their order is irrelevant to the total.
type scoreRule func(d *donor.Donor, req *request.Request, now time.Time) float64

var donorRules = []scoreRule{
	exactTypeRule,
	proximityRule,
	recencyRule,
}

func exactTypeRule(d *donor.Donor, req *request.Request, _ time.Time) float64 {
	if d.BloodType == req.BloodType {
		return ExactTypeBonus
	}
	return 0
}

// proximityRule penalizes distance when both sides have coordinates and
// falls back to a same-city bonus otherwise. A donor with no location data
// at all gets neither.
func proximityRule(d *donor.Donor, req *request.Request, _ time.Time) float64 {
	if km := distanceBetween(d, req); km != nil {
		return -math.Min(MaxDistancePenalty, *km*DistancePenaltyPerKm)
	}
	if d.City != nil && req.City != nil && *d.City == *req.City {
		return SameCityBonus
	}
	return 0
}

// recencyRule rewards rested donors and penalizes those inside the medical
// re-donation interval. First-time donors get a flat bonus.
func recencyRule(d *donor.Donor, _ *request.Request, now time.Time) float64 {
	days, donated := d.DaysSinceDonation(now)
	if !donated {
		return FirstTimeBonus
	}
	if days >= donor.MinDaysBetweenDonations {
		return math.Min(MaxRecencyBonus, float64(days)*RecencyBonusPerTenDays)
	}
	return -IneligiblePenalty
}

// ScoreDonor evaluates a single donor against a request.
func ScoreDonor(d *donor.Donor, req *request.Request, now time.Time) DonorCandidate {
	score := BaseScore
	for _, rule := range donorRules {
		score += rule(d, req, now)
	}
	if score < 0 {
		score = 0
	}
	return DonorCandidate{
		Donor:         d,
		Score:         score,
		DistanceKm:    distanceBetween(d, req),
		IsRecommended: score >= RecommendedThreshold,
	}
}

// RankDonors scores the candidate pool and returns at most MaxDonorMatches
// candidates, best first. Ties break on donor ID so repeated calls agree.
func RankDonors(pool []*donor.Donor, req *request.Request, now time.Time) []DonorCandidate {
	ranked := make([]DonorCandidate, 0, len(pool))
	for _, d := range pool {
		ranked = append(ranked, ScoreDonor(d, req, now))
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Donor.ID.String() < ranked[j].Donor.ID.String()
	})
	if len(ranked) > MaxDonorMatches {
		ranked = ranked[:MaxDonorMatches]
	}
	return ranked
}

func distanceBetween(d *donor.Donor, req *request.Request) *float64 {
	if d.Latitude == nil || d.Longitude == nil || req.Latitude == nil || req.Longitude == nil {
		return nil
	}
	km := geo.DistanceKm(*d.Latitude, *d.Longitude, *req.Latitude, *req.Longitude)
	return &km
}
