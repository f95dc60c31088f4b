package donor

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

// MinDaysBetweenDonations is the medical eligibility interval for whole-blood
// donation.
const MinDaysBetweenDonations = 90

// Donor is a registered blood donor. Location fields are optional; matching
// treats a donor without coordinates optimistically rather than excluding it.
type Donor struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	BloodType    blood.Type `db:"blood_type" json:"blood_type"`
	City         *string    `db:"city" json:"city,omitempty"`
	Latitude     *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude    *float64   `db:"longitude" json:"longitude,omitempty"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Email        *string    `db:"email" json:"email,omitempty"`
	Available    bool       `db:"available" json:"available"`
	LastDonation *time.Time `db:"last_donation" json:"last_donation,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// DaysSinceDonation returns the whole days since the donor last donated, or
// false if the donor never donated.
func (d *Donor) DaysSinceDonation(now time.Time) (int, bool) {
	if d.LastDonation == nil {
		return 0, false
	}
	return int(now.Sub(*d.LastDonation).Hours() / 24), true
}

// Eligible reports whether the donor may donate again at the given time.
// First-time donors are always eligible.
func (d *Donor) Eligible(now time.Time) bool {
	days, donated := d.DaysSinceDonation(now)
	return !donated || days >= MinDaysBetweenDonations
}
