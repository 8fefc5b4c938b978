// Package application holds the application aggregate: the explicit state
// object every wizard operation reads and writes. It replaces ambient
// per-step stores with one value that is loaded, mutated and saved as a unit.
package application

import (
	"fmt"
	"strings"
	"time"

	"intake/internal/allocation"
	"intake/internal/coverage"
	"intake/internal/medical"
	"intake/internal/party"
	"intake/internal/payment"
	"intake/internal/premium"
	"intake/internal/wizard/section"
	"intake/internal/wizard/step"
	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
)

// Role names a party collection.
type Role string

const (
	RoleOwner       Role = "owner"
	RoleBeneficiary Role = "beneficiary"
	RolePayor       Role = "payor"
)

// ParseRole accepts singular or plural role names.
func ParseRole(s string) (Role, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s") {
	case "owner":
		return RoleOwner, nil
	case "beneficiarie", "beneficiary":
		return RoleBeneficiary, nil
	case "payor":
		return RolePayor, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown party role: "+s)
	}
}

// Step returns the wizard step that owns the role's collection.
func (r Role) Step() step.Step {
	switch r {
	case RoleBeneficiary:
		return step.Beneficiary
	case RolePayor:
		return step.Payment
	default:
		return step.Owner
	}
}

// Application is one intake session.
//
// Invariants:
//   - every party in Owners, Beneficiaries and Payors has a gate under its id
//   - Version increases by one on every save
//   - allocation rows only target ids present in the matching collection
type Application struct {
	ID        id.ApplicationID `json:"id"`
	Number    string           `json:"applicationNumber"`
	Version   int64            `json:"version"`
	Country   string           `json:"country"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`

	Steps *step.Controller `json:"steps"`

	Owners           []party.Party        `json:"owners"`
	OwnerGates       map[int]section.Gate `json:"ownerGates"`
	Beneficiaries    []party.Party        `json:"beneficiaries"`
	BeneficiaryGates map[int]section.Gate `json:"beneficiaryGates"`
	Payors           []party.Party        `json:"payors"`
	PayorGates       map[int]section.Gate `json:"payorGates"`

	Coverage    *coverage.Portfolio `json:"coverage"`
	Medical     medical.Answers     `json:"medical"`
	Allocations *allocation.Engine  `json:"allocations"`
	Payment     payment.Details     `json:"payment"`
	Quote       *premium.Quote      `json:"quote,omitempty"`

	Notices []Notice `json:"notices"`
}

// New returns an empty application positioned on the owner step.
func New(appID id.ApplicationID, country string, now time.Time, strategy allocation.Strategy) *Application {
	return &Application{
		ID:               appID,
		Number:           NumberFor(appID),
		Country:          country,
		CreatedAt:        now,
		UpdatedAt:        now,
		Steps:            step.New(),
		Owners:           []party.Party{},
		OwnerGates:       map[int]section.Gate{},
		Beneficiaries:    []party.Party{},
		BeneficiaryGates: map[int]section.Gate{},
		Payors:           []party.Party{},
		PayorGates:       map[int]section.Gate{},
		Coverage:         coverage.NewPortfolio(),
		Medical:          medical.Answers{},
		Allocations:      allocation.New(allocation.WithStrategy(strategy)),
		Notices:          []Notice{},
	}
}

// NumberFor derives the human-facing application form number.
func NumberFor(appID id.ApplicationID) string {
	return "IA-" + strings.ToUpper(strings.ReplaceAll(appID.String(), "-", "")[:10])
}

// Parties returns the collection for a role.
func (a *Application) Parties(role Role) []party.Party {
	switch role {
	case RoleBeneficiary:
		return a.Beneficiaries
	case RolePayor:
		return a.Payors
	default:
		return a.Owners
	}
}

// SetParties replaces the collection for a role.
func (a *Application) SetParties(role Role, parties []party.Party) {
	switch role {
	case RoleBeneficiary:
		a.Beneficiaries = parties
	case RolePayor:
		a.Payors = parties
	default:
		a.Owners = parties
	}
}

// Gates returns the gate map for a role, creating it when a decoded
// document left it nil.
func (a *Application) Gates(role Role) map[int]section.Gate {
	switch role {
	case RoleBeneficiary:
		if a.BeneficiaryGates == nil {
			a.BeneficiaryGates = map[int]section.Gate{}
		}
		return a.BeneficiaryGates
	case RolePayor:
		if a.PayorGates == nil {
			a.PayorGates = map[int]section.Gate{}
		}
		return a.PayorGates
	default:
		if a.OwnerGates == nil {
			a.OwnerGates = map[int]section.Gate{}
		}
		return a.OwnerGates
	}
}

// Party returns a pointer into the role's collection.
func (a *Application) Party(role Role, partyID int) (*party.Party, error) {
	parties := a.Parties(role)
	i := party.Find(parties, partyID)
	if i < 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("%s %d not found", role, partyID))
	}
	return &parties[i], nil
}

// CountryFor is the country whose patterns apply to a party: its primary
// address country when set, else the application jurisdiction.
func (a *Application) CountryFor(p party.Party) string {
	if c := strings.TrimSpace(p.Address.Country); c != "" {
		return c
	}
	return a.Country
}

// Clone returns a deep copy.
func (a *Application) Clone() *Application {
	cp := *a
	if a.Steps != nil {
		cp.Steps = a.Steps.Clone()
	}
	cp.Owners = cloneParties(a.Owners)
	cp.Beneficiaries = cloneParties(a.Beneficiaries)
	cp.Payors = cloneParties(a.Payors)
	cp.OwnerGates = cloneGates(a.OwnerGates)
	cp.BeneficiaryGates = cloneGates(a.BeneficiaryGates)
	cp.PayorGates = cloneGates(a.PayorGates)
	if a.Coverage != nil {
		cp.Coverage = a.Coverage.Clone()
	}
	cp.Medical = make(medical.Answers, len(a.Medical))
	for k, v := range a.Medical {
		cp.Medical[k] = v
	}
	if a.Allocations != nil {
		cp.Allocations = a.Allocations.Clone()
	}
	if a.Quote != nil {
		q := *a.Quote
		q.PerCoverage = make(map[string]float64, len(a.Quote.PerCoverage))
		for k, v := range a.Quote.PerCoverage {
			q.PerCoverage[k] = v
		}
		cp.Quote = &q
	}
	cp.Notices = append([]Notice{}, a.Notices...)
	return &cp
}

func cloneParties(in []party.Party) []party.Party {
	out := make([]party.Party, 0, len(in))
	for _, p := range in {
		out = append(out, p.Clone())
	}
	return out
}

func cloneGates(in map[int]section.Gate) map[int]section.Gate {
	out := make(map[int]section.Gate, len(in))
	for k, g := range in {
		out[k] = g.Clone()
	}
	return out
}
