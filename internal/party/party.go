// Package party models the people and organizations that take part in an
// application: owners, insureds, beneficiaries and payors.
//
// A Party is a tagged variant. Kind selects which of Individual or Corporate
// is populated; the other pointer is always nil. Contact and Address are shared
// by both variants.
package party

import (
	"strings"

	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
)

// Kind is the ownerType discriminator.
type Kind string

const (
	KindIndividual Kind = "01"
	KindCorporate  Kind = "02"
)

// ParseKind validates an ownerType code.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.TrimSpace(s)) {
	case KindIndividual:
		return KindIndividual, nil
	case KindCorporate:
		return KindCorporate, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "ownerType must be 01 (individual) or 02 (corporate)")
	}
}

func (k Kind) String() string {
	switch k {
	case KindIndividual:
		return "individual"
	case KindCorporate:
		return "corporate"
	default:
		return "unknown"
	}
}

// Individual holds person-specific fields, including the occupation section.
type Individual struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	DateOfBirth        string `json:"dateOfBirth"`
	Gender             string `json:"gender"`
	TobaccoStatus      string `json:"tobaccoStatus"`
	CitizenshipCountry string `json:"citizenshipCountry"`
	StateOrProvince    string `json:"stateOrProvince"`
	SSN                string `json:"ssn"`
	Employer           string `json:"employer"`
	Occupation         string `json:"occupation"`
	NetWorth           string `json:"netWorth"`
	AnnualIncome       string `json:"annualIncome"`
}

// Corporate holds organization-specific fields.
type Corporate struct {
	CompanyName                string `json:"companyName"`
	RegisteredCountry          string `json:"registeredCountry"`
	RegisteredState            string `json:"registeredState"`
	BusinessRegistrationNumber string `json:"businessRegistrationNumber"`
	BusinessType               string `json:"businessType"`
	RelationshipToInsured      string `json:"relationshipToInsured"`
}

// Contact is shared by both variants.
type Contact struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// Party is one owner, insured, beneficiary or payor record.
//
// Invariants:
//   - exactly one of Individual, Corporate is non-nil and it matches Kind
//   - ID is unique within the owning collection and never changes
//   - ClientGUID/RoleGUID are zero until the first successful save
type Party struct {
	ID         int           `json:"id"`
	Kind       Kind          `json:"ownerType"`
	Individual *Individual   `json:"individual,omitempty"`
	Corporate  *Corporate    `json:"corporate,omitempty"`
	Contact    Contact       `json:"contact"`
	Address    Address       `json:"address"`
	ClientGUID id.ClientGUID `json:"clientGUID"`
	RoleGUID   id.RoleGUID   `json:"roleGUID"`
}

// NewIndividual returns an empty individual party.
func NewIndividual(partyID int) Party {
	return Party{
		ID:         partyID,
		Kind:       KindIndividual,
		Individual: &Individual{},
		Address:    NewAddress(),
	}
}

// NewCorporate returns an empty corporate party.
func NewCorporate(partyID int) Party {
	return Party{
		ID:        partyID,
		Kind:      KindCorporate,
		Corporate: &Corporate{},
		Address:   NewAddress(),
	}
}

// New returns an empty party of the given kind.
func New(partyID int, kind Kind) (Party, error) {
	switch kind {
	case KindIndividual:
		return NewIndividual(partyID), nil
	case KindCorporate:
		return NewCorporate(partyID), nil
	default:
		_, err := ParseKind(string(kind))
		return Party{}, err
	}
}

func (p *Party) IsIndividual() bool { return p.Kind == KindIndividual && p.Individual != nil }
func (p *Party) IsCorporate() bool  { return p.Kind == KindCorporate && p.Corporate != nil }

// IsSaved reports whether the server has issued a role identity for this party.
func (p *Party) IsSaved() bool { return !p.RoleGUID.IsNil() }

// DisplayName is the label shown when the party is selected elsewhere.
func (p *Party) DisplayName() string {
	switch {
	case p.IsIndividual():
		return strings.TrimSpace(p.Individual.FirstName + " " + p.Individual.LastName)
	case p.IsCorporate():
		return p.Corporate.CompanyName
	default:
		return ""
	}
}

// Clone returns a deep copy.
func (p Party) Clone() Party {
	if p.Individual != nil {
		ind := *p.Individual
		p.Individual = &ind
	}
	if p.Corporate != nil {
		corp := *p.Corporate
		p.Corporate = &corp
	}
	return p
}

// switchKind replaces the variant payload. Shared contact and address data survive.
func (p *Party) switchKind(kind Kind) {
	if p.Kind == kind {
		return
	}
	p.Kind = kind
	p.Individual, p.Corporate = nil, nil
	switch kind {
	case KindIndividual:
		p.Individual = &Individual{}
	case KindCorporate:
		p.Corporate = &Corporate{}
	}
}
