package party

import (
	"strconv"
	"strings"

	dErrors "intake/pkg/domain-errors"
)

// Wire field names. These are the keys carried by field-change events and by
// validation error maps.
const (
	FieldOwnerType = "ownerType"

	FieldFirstName          = "firstName"
	FieldLastName           = "lastName"
	FieldDateOfBirth        = "dateOfBirth"
	FieldGender             = "gender"
	FieldTobaccoStatus      = "tobaccoStatus"
	FieldCitizenshipCountry = "citizenshipCountry"
	FieldStateOrProvince    = "stateOrProvince"
	FieldSSN                = "ssn"

	FieldEmployer     = "employer"
	FieldOccupation   = "occupation"
	FieldNetWorth     = "netWorth"
	FieldAnnualIncome = "annualIncome"

	FieldCompanyName                = "companyName"
	FieldRegisteredCountry          = "registeredCountry"
	FieldRegisteredState            = "registeredState"
	FieldBusinessRegistrationNumber = "businessRegistrationNumber"
	FieldBusinessType               = "businessType"
	FieldRelationshipToInsured      = "relationshipToInsured"

	FieldEmail       = "email"
	FieldPhoneNumber = "phoneNumber"

	FieldAddressLine1         = "addressLine1"
	FieldAddressLine2         = "addressLine2"
	FieldAddressCity          = "addressCity"
	FieldAddressCountry       = "addressCountry"
	FieldAddressState         = "addressState"
	FieldAddressZipCode       = "addressZipCode"
	FieldSameAsMailingAddress = "sameAsMailingAddress"

	FieldMailingAddressLine1 = "mailingAddressLine1"
	FieldMailingAddressLine2 = "mailingAddressLine2"
	FieldMailingCity         = "mailingCity"
	FieldMailingCountry      = "mailingCountry"
	FieldMailingState        = "mailingState"
	FieldMailingZipCode      = "mailingZipCode"
)

// Section is a gated sub-group of a party's fields.
type Section string

const (
	SectionDetails    Section = "details"
	SectionOccupation Section = "occupation"
	SectionContact    Section = "contact"
	SectionAddress    Section = "address"
)

var (
	individualSections = []Section{SectionDetails, SectionOccupation, SectionContact, SectionAddress}
	corporateSections  = []Section{SectionDetails, SectionContact, SectionAddress}
)

// Sections returns the fixed section order for a kind.
func Sections(kind Kind) []Section {
	if kind == KindCorporate {
		return append([]Section(nil), corporateSections...)
	}
	return append([]Section(nil), individualSections...)
}

// ParseSection accepts the section names used by clients, including the
// ownerDetails alias for details.
func ParseSection(s string) (Section, error) {
	switch strings.TrimSpace(s) {
	case "details", "ownerDetails", "individual", "corporate":
		return SectionDetails, nil
	case "occupation":
		return SectionOccupation, nil
	case "contact":
		return SectionContact, nil
	case "address":
		return SectionAddress, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown section: "+s)
	}
}

// HasSection reports whether the section belongs to the kind's order.
func HasSection(kind Kind, section Section) bool {
	for _, s := range Sections(kind) {
		if s == section {
			return true
		}
	}
	return false
}

var (
	individualDetailFields = []string{
		FieldFirstName, FieldLastName, FieldDateOfBirth, FieldGender,
		FieldTobaccoStatus, FieldCitizenshipCountry, FieldStateOrProvince, FieldSSN,
	}
	occupationFields = []string{FieldEmployer, FieldOccupation, FieldNetWorth, FieldAnnualIncome}
	corporateFields  = []string{
		FieldCompanyName, FieldRegisteredCountry, FieldRegisteredState,
		FieldBusinessRegistrationNumber, FieldBusinessType, FieldRelationshipToInsured,
	}
	contactFields        = []string{FieldEmail, FieldPhoneNumber}
	primaryAddressFields = []string{
		FieldAddressLine1, FieldAddressLine2, FieldAddressCity,
		FieldAddressCountry, FieldAddressState, FieldAddressZipCode,
	}
	mailingAddressFields = []string{
		FieldMailingAddressLine1, FieldMailingAddressLine2, FieldMailingCity,
		FieldMailingCountry, FieldMailingState, FieldMailingZipCode,
	}
)

// PrimaryAddressFields lists the always-validated address fields.
func PrimaryAddressFields() []string { return append([]string(nil), primaryAddressFields...) }

// MailingAddressFields lists the fields validated only for a distinct mailing address.
func MailingAddressFields() []string { return append([]string(nil), mailingAddressFields...) }

// SectionFields lists the fields a section owns for a kind. For the address
// section the mailing fields are included only when they are active.
func (p *Party) SectionFields(section Section) []string {
	switch section {
	case SectionDetails:
		if p.Kind == KindCorporate {
			return append([]string(nil), corporateFields...)
		}
		return append([]string(nil), individualDetailFields...)
	case SectionOccupation:
		if p.Kind == KindCorporate {
			return nil
		}
		return append([]string(nil), occupationFields...)
	case SectionContact:
		return append([]string(nil), contactFields...)
	case SectionAddress:
		fields := append([]string(nil), primaryAddressFields...)
		if p.Address.HasDistinctMailing() {
			fields = append(fields, mailingAddressFields...)
		}
		return fields
	default:
		return nil
	}
}

// Value returns the current value of a wire field. Fields of the inactive
// variant read as empty.
func (p *Party) Value(field string) string {
	if ptr := p.fieldPtr(field); ptr != nil {
		return *ptr
	}
	switch field {
	case FieldOwnerType:
		return string(p.Kind)
	case FieldSameAsMailingAddress:
		return strconv.FormatBool(p.Address.SameAsMailingAddress)
	}
	return ""
}

// SetField applies one field-change event.
//
// Changing ownerType switches the variant and discards the previous variant's
// fields. Setting a field that belongs to the inactive variant is rejected.
func (p *Party) SetField(field, value string) error {
	switch field {
	case FieldOwnerType:
		kind, err := ParseKind(value)
		if err != nil {
			return err
		}
		p.switchKind(kind)
		return nil
	case FieldSameAsMailingAddress:
		same, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "sameAsMailingAddress must be true or false")
		}
		p.Address.SameAsMailingAddress = same
		return nil
	}
	ptr := p.fieldPtr(field)
	if ptr == nil {
		if isKnownField(field) {
			return dErrors.New(dErrors.CodeInvalidInput, field+" does not apply to a "+p.Kind.String()+" party")
		}
		return dErrors.New(dErrors.CodeInvalidInput, "unknown field: "+field)
	}
	*ptr = value
	return nil
}

func (p *Party) fieldPtr(field string) *string {
	if ind := p.Individual; ind != nil && p.Kind == KindIndividual {
		switch field {
		case FieldFirstName:
			return &ind.FirstName
		case FieldLastName:
			return &ind.LastName
		case FieldDateOfBirth:
			return &ind.DateOfBirth
		case FieldGender:
			return &ind.Gender
		case FieldTobaccoStatus:
			return &ind.TobaccoStatus
		case FieldCitizenshipCountry:
			return &ind.CitizenshipCountry
		case FieldStateOrProvince:
			return &ind.StateOrProvince
		case FieldSSN:
			return &ind.SSN
		case FieldEmployer:
			return &ind.Employer
		case FieldOccupation:
			return &ind.Occupation
		case FieldNetWorth:
			return &ind.NetWorth
		case FieldAnnualIncome:
			return &ind.AnnualIncome
		}
	}
	if corp := p.Corporate; corp != nil && p.Kind == KindCorporate {
		switch field {
		case FieldCompanyName:
			return &corp.CompanyName
		case FieldRegisteredCountry:
			return &corp.RegisteredCountry
		case FieldRegisteredState:
			return &corp.RegisteredState
		case FieldBusinessRegistrationNumber:
			return &corp.BusinessRegistrationNumber
		case FieldBusinessType:
			return &corp.BusinessType
		case FieldRelationshipToInsured:
			return &corp.RelationshipToInsured
		}
	}
	switch field {
	case FieldEmail:
		return &p.Contact.Email
	case FieldPhoneNumber:
		return &p.Contact.PhoneNumber
	case FieldAddressLine1:
		return &p.Address.Line1
	case FieldAddressLine2:
		return &p.Address.Line2
	case FieldAddressCity:
		return &p.Address.City
	case FieldAddressCountry:
		return &p.Address.Country
	case FieldAddressState:
		return &p.Address.State
	case FieldAddressZipCode:
		return &p.Address.ZipCode
	case FieldMailingAddressLine1:
		return &p.Address.Mailing.Line1
	case FieldMailingAddressLine2:
		return &p.Address.Mailing.Line2
	case FieldMailingCity:
		return &p.Address.Mailing.City
	case FieldMailingCountry:
		return &p.Address.Mailing.Country
	case FieldMailingState:
		return &p.Address.Mailing.State
	case FieldMailingZipCode:
		return &p.Address.Mailing.ZipCode
	}
	return nil
}

func isKnownField(field string) bool {
	for _, group := range [][]string{individualDetailFields, occupationFields, corporateFields} {
		for _, f := range group {
			if f == field {
				return true
			}
		}
	}
	return false
}
