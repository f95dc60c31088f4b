package request

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

// Urgency is the ordinal priority of a request.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyNormal   Urgency = "normal"
)

// Rank returns the sort ordinal for an urgency tier; lower sorts first.
// Unknown tiers rank after normal.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 0
	case UrgencyUrgent:
		return 1
	case UrgencyNormal:
		return 2
	}
	return 3
}

// Valid reports whether u is a known urgency tier.
func (u Urgency) Valid() bool { return u.Rank() < 3 }

// Status is the lifecycle state of a request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
)

// Request is a hospital's demand for blood units. Only pending requests are
// eligible for matching. City and coordinates are denormalized from the
// owning hospital on read.
type Request struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	HospitalID  *uuid.UUID `db:"hospital_id" json:"hospital_id,omitempty"`
	BloodType   blood.Type `db:"blood_type" json:"blood_type"`
	Units       int        `db:"units" json:"units"`
	Urgency     Urgency    `db:"urgency" json:"urgency"`
	Status      Status     `db:"status" json:"status"`
	PatientName *string    `db:"patient_name" json:"patient_name,omitempty"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
	FulfilledBy *uuid.UUID `db:"fulfilled_by" json:"fulfilled_by,omitempty"`
	FulfilledAt *time.Time `db:"fulfilled_at" json:"fulfilled_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	// Joined from the owning hospital; absent when the request has no
	// hospital or the hospital has no recorded location.
	City      *string  `db:"city" json:"city,omitempty"`
	Latitude  *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude *float64 `db:"longitude" json:"longitude,omitempty"`
}
