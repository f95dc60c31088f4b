package matching

import (
	"sort"
	"time"

	"github.com/lifeline/lifeline/internal/domain/organ"
	"github.com/lifeline/lifeline/internal/domain/request"
	"github.com/lifeline/lifeline/internal/platform/geo"
)

// RequestMatch is one candidate recipient request for an organ. Requests
// with unknown locations carry no distance and are assumed reachable; a
// transplant team can rule them out, the matcher cannot.
type RequestMatch struct {
	Request     *request.Request `json:"request"`
	DistanceKm  *float64         `json:"distance_km,omitempty"`
	TravelHours *float64         `json:"travel_hours,omitempty"`
	Reachable   bool             `json:"reachable"`
}

// RankRequests orders candidate requests for an organ: reachable before
// unreachable, then by urgency tier, then nearest first with unknown
// distances last. There is no numeric score for organ placement.
func RankRequests(candidates []*request.Request, o *organ.Organ, now time.Time) []RequestMatch {
	remaining := organ.RemainingHours(o.IschemiaDeadline, now)

	matches := make([]RequestMatch, 0, len(candidates))
	for _, req := range candidates {
		m := RequestMatch{Request: req, Reachable: true}
		if o.Latitude != nil && o.Longitude != nil && req.Latitude != nil && req.Longitude != nil {
			km := geo.DistanceKm(*o.Latitude, *o.Longitude, *req.Latitude, *req.Longitude)
			hours := geo.TravelHours(km, geo.DefaultSpeedKmh)
			m.DistanceKm = &km
			m.TravelHours = &hours
			m.Reachable = geo.Reachable(hours, remaining)
		}
		matches = append(matches, m)
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Reachable != b.Reachable {
			return a.Reachable
		}
		if ra, rb := a.Request.Urgency.Rank(), b.Request.Urgency.Rank(); ra != rb {
			return ra < rb
		}
		switch {
		case a.DistanceKm == nil && b.DistanceKm == nil:
			return a.Request.ID.String() < b.Request.ID.String()
		case a.DistanceKm == nil:
			return false
		case b.DistanceKm == nil:
			return true
		}
		return *a.DistanceKm < *b.DistanceKm
	})
	return matches
}
