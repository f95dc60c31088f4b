// Package blood defines the canonical ABO/Rh blood types and the fixed
// donor-compatibility tables used for transfusion and organ-transplant
// matching. The two tables diverge on purpose: transfusion follows the
// standard ABO/Rh rule while organ allocation uses a clinically stricter
// pairing, so both are encoded as explicit lookup tables rather than derived
// from each other.
package blood

import (
	"errors"
	"fmt"
)

// Type is one of the eight canonical ABO/Rh blood types.
type Type string

const (
	APositive  Type = "A+"
	ANegative  Type = "A-"
	BPositive  Type = "B+"
	BNegative  Type = "B-"
	ABPositive Type = "AB+"
	ABNegative Type = "AB-"
	OPositive  Type = "O+"
	ONegative  Type = "O-"
)

// All lists the canonical types in display order. Iteration over this slice
// keeps forecast and inventory output deterministic.
var All = []Type{APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative, OPositive, ONegative}

// ErrInvalidBloodType is returned when an input is not one of the eight
// canonical values.
var ErrInvalidBloodType = errors.New("invalid blood type")

// Parse validates a raw string against the canonical set.
func Parse(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidBloodType, s)
	}
	return t, nil
}

// Valid reports whether t is one of the eight canonical values.
func (t Type) Valid() bool {
	switch t {
	case APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative, OPositive, ONegative:
		return true
	}
	return false
}

func (t Type) String() string { return string(t) }

// Mode selects which compatibility table applies.
type Mode int

const (
	// Transfusion is the standard ABO/Rh donor-to-recipient rule.
	Transfusion Mode = iota
	// OrganTransplant is the stricter table used for organ allocation.
	OrganTransplant
)

// transfusionDonors maps a recipient type to the set of donor types whose
// blood it can receive.
var transfusionDonors = map[Type][]Type{
	APositive:  {APositive, ANegative, OPositive, ONegative},
	ANegative:  {ANegative, ONegative},
	BPositive:  {BPositive, BNegative, OPositive, ONegative},
	BNegative:  {BNegative, ONegative},
	ABPositive: {APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative, OPositive, ONegative},
	ABNegative: {ANegative, BNegative, ABNegative, ONegative},
	OPositive:  {OPositive, ONegative},
	ONegative:  {ONegative},
}

// organDonors maps a blood type to the acceptable organ-donor types under the
// conservative allocation rule.
var organDonors = map[Type][]Type{
	ONegative:  {ONegative},
	OPositive:  {ONegative, OPositive},
	ANegative:  {ONegative, ANegative},
	APositive:  {ONegative, OPositive, ANegative, APositive},
	BNegative:  {ONegative, BNegative},
	BPositive:  {ONegative, OPositive, BNegative, BPositive},
	ABNegative: {ONegative, ANegative, BNegative, ABNegative},
	ABPositive: {ONegative, OPositive, ANegative, APositive, BNegative, BPositive, ABNegative, ABPositive},
}

// AcceptableDonors returns the donor blood types acceptable for the given
// type under the selected mode. The returned slice is a copy; callers may
// mutate it freely.
func AcceptableDonors(recipient Type, mode Mode) ([]Type, error) {
	if !recipient.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBloodType, recipient)
	}
	var table map[Type][]Type
	switch mode {
	case OrganTransplant:
		table = organDonors
	default:
		table = transfusionDonors
	}
	src := table[recipient]
	out := make([]Type, len(src))
	copy(out, src)
	return out, nil
}

// CanDonate reports whether donor blood is acceptable for recipient under the
// selected mode.
func CanDonate(donor, recipient Type, mode Mode) (bool, error) {
	donors, err := AcceptableDonors(recipient, mode)
	if err != nil {
		return false, err
	}
	if !donor.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidBloodType, donor)
	}
	for _, d := range donors {
		if d == donor {
			return true, nil
		}
	}
	return false, nil
}
