// Package coverage models the base, additional and rider coverages of an
// application and the registry of insured parties they reference.
package coverage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	dErrors "intake/pkg/domain-errors"
)

// Face amount bounds for base and additional coverages: [MinFaceAmount, MaxFaceAmount).
const (
	MinFaceAmount = 10_000
	MaxFaceAmount = 5_000_000
)

// BaseID is the coverage id of the base coverage.
const BaseID = "base"

// AdditionalID renders the coverage id of an additional coverage.
func AdditionalID(n int) string { return fmt.Sprintf("additional-%d", n) }

// RiderID renders the coverage id of a rider.
func RiderID(n int) string { return fmt.Sprintf("rider-%d", n) }

// Wire field names of coverage edits.
const (
	FieldInsuredID         = "insuredId"
	FieldSecondInsuredID   = "secondInsuredId"
	FieldCoverageType      = "coverageType"
	FieldFaceAmount        = "faceAmount"
	FieldUnderwritingClass = "underwritingClass"
	FieldTableRating       = "tableRating"
	FieldFlatExtraEnabled  = "flatExtraEnabled"
	FieldFlatExtraAmount   = "flatExtraAmount"
	FieldFlatExtraDuration = "flatExtraDuration"
	FieldRiderType         = "riderType"
	FieldSelectedPersonID  = "selectedPersonId"
)

// Type is single or joint life.
type Type string

const (
	TypeSingle Type = "single"
	TypeJoint  Type = "joint"
)

// FlatExtra is an optional per-thousand surcharge.
type FlatExtra struct {
	Enabled  bool   `json:"enabled"`
	Amount   string `json:"amount"`
	Duration string `json:"duration"`
}

// Details are the fields shared by base and additional coverages. Numeric
// inputs are kept as entered and normalized when documents are built.
type Details struct {
	InsuredID         int       `json:"insuredId"`
	SecondInsuredID   int       `json:"secondInsuredId,omitempty"`
	CoverageType      Type      `json:"coverageType"`
	FaceAmount        string    `json:"faceAmount"`
	UnderwritingClass string    `json:"underwritingClass"`
	TableRating       string    `json:"tableRating,omitempty"`
	FlatExtra         FlatExtra `json:"flatExtra"`
}

// Base is the one coverage every application has.
type Base struct {
	Details
}

// Additional is an extra coverage added by the user.
type Additional struct {
	ID int `json:"id"`
	Details
}

// CoverageID returns the allocation bucket id of the coverage.
func (a Additional) CoverageID() string { return AdditionalID(a.ID) }

// IsJoint reports whether a second insured is required.
func (d Details) IsJoint() bool { return d.CoverageType == TypeJoint }

// References reports whether the coverage names the insured.
func (d Details) References(insuredID int) bool {
	return insuredID > 0 && (d.InsuredID == insuredID || (d.IsJoint() && d.SecondInsuredID == insuredID))
}

// SetField applies one edit.
func (d *Details) SetField(field, value string) error {
	value = strings.TrimSpace(value)
	switch field {
	case FieldInsuredID:
		n, err := parseRef(field, value)
		if err != nil {
			return err
		}
		d.InsuredID = n
	case FieldSecondInsuredID:
		n, err := parseRef(field, value)
		if err != nil {
			return err
		}
		d.SecondInsuredID = n
	case FieldCoverageType:
		switch Type(strings.ToLower(value)) {
		case TypeSingle, "":
			d.CoverageType = TypeSingle
		case TypeJoint:
			d.CoverageType = TypeJoint
		default:
			return dErrors.New(dErrors.CodeInvalidInput, "coverageType must be single or joint")
		}
	case FieldFaceAmount:
		d.FaceAmount = value
	case FieldUnderwritingClass:
		d.UnderwritingClass = value
	case FieldTableRating:
		d.TableRating = value
	case FieldFlatExtraEnabled:
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "flatExtraEnabled must be true or false")
		}
		d.FlatExtra.Enabled = enabled
	case FieldFlatExtraAmount:
		d.FlatExtra.Amount = value
	case FieldFlatExtraDuration:
		d.FlatExtra.Duration = value
	default:
		return dErrors.New(dErrors.CodeInvalidInput, "unknown coverage field: "+field)
	}
	return nil
}

// Validate returns field errors. exists reports whether an insured id is
// present in the registry.
func (d Details) Validate(exists func(int) bool) map[string]string {
	errs := map[string]string{}
	if d.InsuredID == 0 {
		errs[FieldInsuredID] = "Insured is required"
	} else if !exists(d.InsuredID) {
		errs[FieldInsuredID] = "Insured no longer exists"
	}
	if d.IsJoint() {
		switch {
		case d.SecondInsuredID == 0:
			errs[FieldSecondInsuredID] = "Second insured is required for joint coverage"
		case d.SecondInsuredID == d.InsuredID:
			errs[FieldSecondInsuredID] = "Second insured must differ from the first"
		case !exists(d.SecondInsuredID):
			errs[FieldSecondInsuredID] = "Second insured no longer exists"
		}
	}
	if msg := checkFaceAmount(d.FaceAmount, MinFaceAmount); msg != "" {
		errs[FieldFaceAmount] = msg
	}
	if d.UnderwritingClass == "" {
		errs[FieldUnderwritingClass] = "Underwriting class is required"
	}
	if d.TableRating != "" {
		if _, err := ParseTableRating(d.TableRating); err != nil {
			errs[FieldTableRating] = "Table rating must be a percentage"
		}
	}
	if d.FlatExtra.Enabled {
		if n, err := ParseAmount(d.FlatExtra.Amount); err != nil || n <= 0 {
			errs[FieldFlatExtraAmount] = "Flat extra amount must be a positive number"
		}
		if n, err := strconv.Atoi(d.FlatExtra.Duration); err != nil || n < 1 || n > 99 {
			errs[FieldFlatExtraDuration] = "Flat extra duration must be between 1 and 99 years"
		}
	}
	return errs
}

var tableRatingPattern = regexp.MustCompile(`^\d{1,3}\s*%?$`)

// ParseTableRating strips the percent sign: "150%" -> 150.
func ParseTableRating(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !tableRatingPattern.MatchString(s) {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid table rating: "+s)
	}
	return strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "%")))
}

// ParseFaceAmount normalizes an entered amount ("$100,000") to whole dollars.
func ParseFaceAmount(s string) (int, error) {
	v, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	if v != float64(int(v)) {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "face amount must be whole dollars")
	}
	return int(v), nil
}

// ParseAmount parses a currency amount, ignoring "$", "," and spaces.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if cleaned == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount is empty")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount is not a number: "+s)
	}
	return v, nil
}

func checkFaceAmount(raw string, minimum int) string {
	if strings.TrimSpace(raw) == "" {
		return "Face amount is required"
	}
	n, err := ParseFaceAmount(raw)
	if err != nil {
		return "Face amount must be a whole dollar amount"
	}
	if n < minimum || n >= MaxFaceAmount {
		return fmt.Sprintf("Face amount must be at least %d and less than %d", minimum, MaxFaceAmount)
	}
	return ""
}

func parseRef(field, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, field+" must be an insured id")
	}
	return n, nil
}
