package organ

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

// Type identifies the organ being tracked.
type Type string

const (
	TypeHeart    Type = "heart"
	TypeLung     Type = "lung"
	TypeLiver    Type = "liver"
	TypePancreas Type = "pancreas"
	TypeKidney   Type = "kidney"
	TypeCornea   Type = "cornea"
	TypeSkin     Type = "skin"
	TypeBone     Type = "bone"
)

// Status is the allocation lifecycle state of an organ.
type Status string

const (
	StatusAvailable    Status = "available"
	StatusMatched      Status = "matched"
	StatusInTransit    Status = "in_transit"
	StatusTransplanted Status = "transplanted"
	StatusExpired      Status = "expired"
	StatusDiscarded    Status = "discarded"
)

// validTransitions encodes the allocation lifecycle. Terminal states have no
// outgoing edges.
var validTransitions = map[Status][]Status{
	StatusAvailable: {StatusMatched, StatusInTransit, StatusExpired, StatusDiscarded},
	StatusMatched:   {StatusAvailable, StatusInTransit, StatusExpired, StatusDiscarded},
	StatusInTransit: {StatusTransplanted, StatusDiscarded},
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// HLA holds the six typed loci used for recipient cross-matching. All fields
// are optional; typing may be incomplete at registration time.
type HLA struct {
	A  *string `db:"hla_a" json:"hla_a,omitempty"`
	B  *string `db:"hla_b" json:"hla_b,omitempty"`
	C  *string `db:"hla_c" json:"hla_c,omitempty"`
	DR *string `db:"hla_dr" json:"hla_dr,omitempty"`
	DQ *string `db:"hla_dq" json:"hla_dq,omitempty"`
	DP *string `db:"hla_dp" json:"hla_dp,omitempty"`
}

// Organ is a harvested organ awaiting allocation. The ischemia deadline is
// derived once at registration from the harvest time and organ type.
type Organ struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	OrganType        Type       `db:"organ_type" json:"organ_type"`
	BloodType        blood.Type `db:"blood_type" json:"blood_type"`
	DonorID          *uuid.UUID `db:"donor_id" json:"donor_id,omitempty"`
	DonorAge         *int       `db:"donor_age" json:"donor_age,omitempty"`
	HLA              HLA        `json:"hla"`
	HarvestedAt      time.Time  `db:"harvested_at" json:"harvested_at"`
	IschemiaDeadline time.Time  `db:"ischemia_deadline" json:"ischemia_deadline"`
	Status           Status     `db:"status" json:"status"`
	RecipientID      *uuid.UUID `db:"recipient_id" json:"recipient_id,omitempty"`
	HospitalID       *uuid.UUID `db:"hospital_id" json:"hospital_id,omitempty"`
	Latitude         *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64   `db:"longitude" json:"longitude,omitempty"`
	TransplantedAt   *time.Time `db:"transplanted_at" json:"transplanted_at,omitempty"`
	Notes            *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Stats summarizes the organ program for dashboards.
type Stats struct {
	Total           int          `json:"total"`
	Available       int          `json:"available"`
	Transplanted    int          `json:"transplanted"`
	Expired         int          `json:"expired"`
	CriticalUrgency int          `json:"critical_urgency"`
	ByType          map[Type]int `json:"by_type"`
	SuccessRate     float64      `json:"success_rate"`
}
