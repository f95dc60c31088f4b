package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

// Bank is a blood bank holding batches of stock.
type Bank struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	City      string    `db:"city" json:"city"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Latitude  *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude *float64  `db:"longitude" json:"longitude,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Batch is a quantity of typed blood units with a shared expiry date.
type Batch struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	BankID      uuid.UUID  `db:"bank_id" json:"bank_id"`
	BloodType   blood.Type `db:"blood_type" json:"blood_type"`
	Units       int        `db:"units" json:"units"`
	CollectedAt time.Time  `db:"collected_at" json:"collected_at"`
	ExpiresAt   time.Time  `db:"expires_at" json:"expires_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	// Joined from the owning bank on read.
	BankName  *string  `db:"bank_name" json:"bank_name,omitempty"`
	BankCity  *string  `db:"bank_city" json:"bank_city,omitempty"`
	Latitude  *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude *float64 `db:"longitude" json:"longitude,omitempty"`
}

// ExpiringBatch is a batch inside the expiry planning window.
type ExpiringBatch struct {
	Batch        *Batch        `json:"batch"`
	DaysToExpiry int           `json:"days_to_expiry"`
	Urgency      ExpiryUrgency `json:"urgency"`
}

// Deficit is outstanding pending demand for one blood type at one hospital.
type Deficit struct {
	BloodType    blood.Type `db:"blood_type" json:"blood_type"`
	HospitalID   uuid.UUID  `db:"hospital_id" json:"hospital_id"`
	HospitalName string     `db:"hospital_name" json:"hospital_name"`
	City         string     `db:"city" json:"city"`
	Latitude     *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude    *float64   `db:"longitude" json:"longitude,omitempty"`
	UnitsNeeded  int        `db:"units_needed" json:"units_needed"`
}

// TransferSuggestion proposes moving soon-to-expire stock to a hospital
// that needs it before the stock is wasted.
type TransferSuggestion struct {
	BatchID        uuid.UUID     `json:"batch_id"`
	BloodType      blood.Type    `json:"blood_type"`
	FromBankID     uuid.UUID     `json:"from_bank_id"`
	FromBankName   string        `json:"from_bank_name"`
	ToHospitalID   uuid.UUID     `json:"to_hospital_id"`
	ToHospitalName string        `json:"to_hospital_name"`
	Units          int           `json:"units"`
	DistanceKm     float64       `json:"distance_km"`
	EstimatedValue int           `json:"estimated_value"`
	Urgency        ExpiryUrgency `json:"urgency"`
	DaysToExpiry   int           `json:"days_to_expiry"`
}
