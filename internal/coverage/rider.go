package coverage

import (
	"strings"

	dErrors "intake/pkg/domain-errors"
)

// RiderType identifies a rider product.
type RiderType string

const (
	RiderChildTerm              RiderType = "CHILD_TERM"
	RiderAccidentalDeath        RiderType = "ACCIDENTAL_DEATH"
	RiderWaiverOfPremium        RiderType = "WAIVER_OF_PREMIUM"
	RiderSpouseTerm             RiderType = "SPOUSE_TERM"
	RiderGuaranteedInsurability RiderType = "GUARANTEED_INSURABILITY"
)

// riderMinimums holds type-specific minimum face amounts. Zero means the
// rider carries no face amount.
var riderMinimums = map[RiderType]int{
	RiderChildTerm:              5_000,
	RiderAccidentalDeath:        10_000,
	RiderWaiverOfPremium:        0,
	RiderSpouseTerm:             25_000,
	RiderGuaranteedInsurability: 5_000,
}

// ParseRiderType validates a rider type code.
func ParseRiderType(s string) (RiderType, error) {
	t := RiderType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := riderMinimums[t]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown rider type: "+s)
	}
	return t, nil
}

// MinimumFaceAmount returns the rider's minimum and whether it has a face amount.
func (t RiderType) MinimumFaceAmount() (int, bool) {
	minimum, ok := riderMinimums[t]
	return minimum, ok && minimum > 0
}

// Rider is an optional benefit attached to the coverage of its selected person.
type Rider struct {
	ID               int       `json:"id"`
	Type             RiderType `json:"riderType"`
	SelectedPersonID int       `json:"selectedPersonId"`
	FaceAmount       string    `json:"faceAmount,omitempty"`
}

// CoverageID returns the allocation bucket id of the rider.
func (r Rider) CoverageID() string { return RiderID(r.ID) }

// SetField applies one edit.
func (r *Rider) SetField(field, value string) error {
	value = strings.TrimSpace(value)
	switch field {
	case FieldRiderType:
		if value == "" {
			r.Type = ""
			return nil
		}
		t, err := ParseRiderType(value)
		if err != nil {
			return err
		}
		r.Type = t
	case FieldSelectedPersonID:
		n, err := parseRef(field, value)
		if err != nil {
			return err
		}
		r.SelectedPersonID = n
	case FieldFaceAmount:
		r.FaceAmount = value
	default:
		return dErrors.New(dErrors.CodeInvalidInput, "unknown rider field: "+field)
	}
	return nil
}

// Validate returns field errors.
func (r Rider) Validate(exists func(int) bool) map[string]string {
	errs := map[string]string{}
	if r.Type == "" {
		errs[FieldRiderType] = "Rider type is required"
	}
	if r.SelectedPersonID == 0 {
		errs[FieldSelectedPersonID] = "Select the person this rider covers"
	} else if !exists(r.SelectedPersonID) {
		errs[FieldSelectedPersonID] = "Selected person no longer exists"
	}
	if minimum, hasFace := r.Type.MinimumFaceAmount(); hasFace {
		if msg := checkFaceAmount(r.FaceAmount, minimum); msg != "" {
			errs[FieldFaceAmount] = msg
		}
	}
	return errs
}
