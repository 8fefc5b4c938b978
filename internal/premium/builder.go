// Package premium assembles the premium calculation request from the
// coverage graph and reads the named aggregates out of the opaque response.
// Everything here is pure.
package premium

import (
	"strconv"
	"strings"

	"intake/internal/coverage"
	"intake/internal/party"
)

// RequestDocument is the body sent to the premium calculation service.
type RequestDocument struct {
	ApplicationNumber string            `json:"applicationNumber"`
	PlanCode          string            `json:"planCode"`
	ProductCode       string            `json:"productCode,omitempty"`
	Roles             []Role            `json:"roles"`
	Coverages         []CoverageRequest `json:"coverages"`
}

// Role is one insured person.
type Role struct {
	RoleID        string `json:"roleId"`
	InsuredID     int    `json:"insuredId"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	DateOfBirth   string `json:"dateOfBirth"`
	Gender        string `json:"gender"`
	TobaccoStatus string `json:"tobaccoStatus"`
	StateCode     string `json:"stateCode"`
}

// CoverageRequest is one base or additional coverage with its riders.
type CoverageRequest struct {
	CoverageID      string          `json:"coverageId"`
	CoverageType    string          `json:"coverageType"`
	RoleIDs         []string        `json:"roleIds"`
	CoverageDetails CoverageDetails `json:"coveragedetails"`
	Riders          []RiderRequest  `json:"riders"`
}

// CoverageDetails holds the normalized numeric inputs.
type CoverageDetails struct {
	FaceAmount        int     `json:"FaceAmount"`
	UnderwritingClass string  `json:"UnderwritingClass"`
	TableRating       int     `json:"TableRating"`
	FlatExtraAmount   float64 `json:"FlatExtraAmount"`
	FlatExtraDuration int     `json:"FlatExtraDuration"`
}

// RiderRequest is a rider attached to a coverage entry.
type RiderRequest struct {
	RiderID    string `json:"riderId"`
	RiderType  string `json:"riderType"`
	RoleID     string `json:"roleId,omitempty"`
	FaceAmount int    `json:"faceAmount"`
}

// RoleID renders the role id of an insured.
func RoleID(insuredID int) string { return "insured-" + strconv.Itoa(insuredID) }

// BuildFromPortfolio is Build over a coverage portfolio.
func BuildFromPortfolio(p *coverage.Portfolio, applicationNumber string) *RequestDocument {
	return Build(p.Product, p.Base, p.Additional, p.Riders, &p.Insureds, applicationNumber)
}

// Build returns nil when the graph is not ready to be priced: no plan, an
// incomplete base or additional coverage, a joint coverage without its second
// insured, or a rider without a type or selected person.
func Build(
	product coverage.Product,
	base coverage.Base,
	additional []coverage.Additional,
	riders []coverage.Rider,
	registry *coverage.Registry,
	applicationNumber string,
) *RequestDocument {
	if strings.TrimSpace(product.PlanCode) == "" {
		return nil
	}
	if !detailsReady(base.Details, registry) {
		return nil
	}
	for _, a := range additional {
		if !detailsReady(a.Details, registry) {
			return nil
		}
	}
	for _, r := range riders {
		if r.Type == "" || r.SelectedPersonID == 0 || !registry.Exists(r.SelectedPersonID) {
			return nil
		}
	}

	doc := &RequestDocument{
		ApplicationNumber: applicationNumber,
		PlanCode:          product.PlanCode,
		ProductCode:       product.ProductCode,
		Roles:             []Role{},
		Coverages:         []CoverageRequest{},
	}
	roles := newRoleSet(registry)

	doc.Coverages = append(doc.Coverages, coverageEntry(coverage.BaseID, base.Details, roles))
	for _, a := range additional {
		doc.Coverages = append(doc.Coverages, coverageEntry(a.CoverageID(), a.Details, roles))
	}
	for _, r := range riders {
		target := riderTarget(base.Details, additional, r)
		doc.Coverages[target].Riders = append(doc.Coverages[target].Riders, RiderRequest{
			RiderID:    r.CoverageID(),
			RiderType:  string(r.Type),
			RoleID:     roles.add(r.SelectedPersonID),
			FaceAmount: faceAmountOrZero(r.FaceAmount),
		})
	}
	doc.Roles = roles.list
	return doc
}

func detailsReady(d coverage.Details, registry *coverage.Registry) bool {
	if d.InsuredID == 0 || !registry.Exists(d.InsuredID) {
		return false
	}
	if d.IsJoint() && (d.SecondInsuredID == 0 || !registry.Exists(d.SecondInsuredID)) {
		return false
	}
	if strings.TrimSpace(d.UnderwritingClass) == "" {
		return false
	}
	_, err := coverage.ParseFaceAmount(d.FaceAmount)
	return err == nil
}

func coverageEntry(coverageID string, d coverage.Details, roles *roleSet) CoverageRequest {
	faceAmount, _ := coverage.ParseFaceAmount(d.FaceAmount)
	entry := CoverageRequest{
		CoverageID:   coverageID,
		CoverageType: string(d.CoverageType),
		RoleIDs:      []string{},
		CoverageDetails: CoverageDetails{
			FaceAmount:        faceAmount,
			UnderwritingClass: d.UnderwritingClass,
		},
		Riders: []RiderRequest{},
	}
	if d.TableRating != "" {
		if rating, err := coverage.ParseTableRating(d.TableRating); err == nil {
			entry.CoverageDetails.TableRating = rating
		}
	}
	if d.FlatExtra.Enabled {
		if amount, err := coverage.ParseAmount(d.FlatExtra.Amount); err == nil {
			entry.CoverageDetails.FlatExtraAmount = amount
		}
		if years, err := strconv.Atoi(strings.TrimSpace(d.FlatExtra.Duration)); err == nil {
			entry.CoverageDetails.FlatExtraDuration = years
		}
	}
	if roleID := roles.add(d.InsuredID); roleID != "" {
		entry.RoleIDs = append(entry.RoleIDs, roleID)
	}
	if d.IsJoint() {
		if roleID := roles.add(d.SecondInsuredID); roleID != "" {
			entry.RoleIDs = append(entry.RoleIDs, roleID)
		}
	}
	return entry
}

// riderTarget picks the coverage whose insured is the rider's selected
// person, falling back to the base coverage at index 0.
func riderTarget(base coverage.Details, additional []coverage.Additional, r coverage.Rider) int {
	if base.References(r.SelectedPersonID) {
		return 0
	}
	for i, a := range additional {
		if a.References(r.SelectedPersonID) {
			return i + 1
		}
	}
	return 0
}

func faceAmountOrZero(raw string) int {
	if n, err := coverage.ParseFaceAmount(raw); err == nil {
		return n
	}
	return 0
}

// roleSet collects one role per distinct individual insured, in first-use order.
type roleSet struct {
	registry *coverage.Registry
	seen     map[int]string
	list     []Role
}

func newRoleSet(registry *coverage.Registry) *roleSet {
	return &roleSet{registry: registry, seen: map[int]string{}, list: []Role{}}
}

// add returns the role id for an insured, or "" when the insured is not an
// individual.
func (s *roleSet) add(insuredID int) string {
	if roleID, ok := s.seen[insuredID]; ok {
		return roleID
	}
	p, ok := s.registry.Get(insuredID)
	if !ok || !p.IsIndividual() {
		s.seen[insuredID] = ""
		return ""
	}
	roleID := RoleID(insuredID)
	s.seen[insuredID] = roleID
	s.list = append(s.list, roleFromParty(roleID, p))
	return roleID
}

func roleFromParty(roleID string, p party.Party) Role {
	ind := p.Individual
	return Role{
		RoleID:        roleID,
		InsuredID:     p.ID,
		FirstName:     ind.FirstName,
		LastName:      ind.LastName,
		DateOfBirth:   ind.DateOfBirth,
		Gender:        ind.Gender,
		TobaccoStatus: ind.TobaccoStatus,
		StateCode:     ind.StateOrProvince,
	}
}
