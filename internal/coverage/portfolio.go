package coverage

import (
	"fmt"
	"strings"

	"intake/internal/party"
	dErrors "intake/pkg/domain-errors"
)

// Product is the selected plan.
type Product struct {
	PlanCode    string `json:"planCode"`
	ProductCode string `json:"productCode"`
	Name        string `json:"name,omitempty"`
}

// Portfolio is the coverage step's state.
type Portfolio struct {
	Product    Product      `json:"product"`
	Base       Base         `json:"base"`
	Additional []Additional `json:"additional"`
	Riders     []Rider      `json:"riders"`
	Insureds   Registry     `json:"insureds"`
}

// NewPortfolio returns a portfolio with an empty single-life base coverage.
func NewPortfolio() *Portfolio {
	return &Portfolio{
		Base:       Base{Details: Details{CoverageType: TypeSingle}},
		Additional: []Additional{},
		Riders:     []Rider{},
		Insureds:   Registry{Entries: []party.Party{}},
	}
}

// SetProduct selects the plan.
func (p *Portfolio) SetProduct(prod Product) error {
	prod.PlanCode = strings.TrimSpace(prod.PlanCode)
	if prod.PlanCode == "" {
		return dErrors.New(dErrors.CodeValidation, "plan code is required")
	}
	p.Product = prod
	return nil
}

// AddAdditional appends an empty additional coverage with the next id.
func (p *Portfolio) AddAdditional() Additional {
	ids := make([]int, 0, len(p.Additional))
	for _, a := range p.Additional {
		ids = append(ids, a.ID)
	}
	a := Additional{ID: party.NextID(ids), Details: Details{CoverageType: TypeSingle}}
	p.Additional = append(p.Additional, a)
	return a
}

// RemoveAdditional deletes an additional coverage.
func (p *Portfolio) RemoveAdditional(additionalID int) error {
	for i, a := range p.Additional {
		if a.ID == additionalID {
			p.Additional = append(p.Additional[:i], p.Additional[i+1:]...)
			return nil
		}
	}
	return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("additional coverage %d not found", additionalID))
}

// AddRider appends a rider with the next id.
func (p *Portfolio) AddRider(t RiderType) Rider {
	ids := make([]int, 0, len(p.Riders))
	for _, r := range p.Riders {
		ids = append(ids, r.ID)
	}
	r := Rider{ID: party.NextID(ids), Type: t}
	p.Riders = append(p.Riders, r)
	return r
}

// RemoveRider deletes a rider.
func (p *Portfolio) RemoveRider(riderID int) error {
	for i, r := range p.Riders {
		if r.ID == riderID {
			p.Riders = append(p.Riders[:i], p.Riders[i+1:]...)
			return nil
		}
	}
	return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("rider %d not found", riderID))
}

// SetCoverageField routes an edit to the coverage with the given bucket id.
func (p *Portfolio) SetCoverageField(coverageID, field, value string) error {
	switch {
	case coverageID == BaseID:
		return p.Base.SetField(field, value)
	case strings.HasPrefix(coverageID, "additional-"):
		for i := range p.Additional {
			if p.Additional[i].CoverageID() == coverageID {
				return p.Additional[i].SetField(field, value)
			}
		}
	case strings.HasPrefix(coverageID, "rider-"):
		for i := range p.Riders {
			if p.Riders[i].CoverageID() == coverageID {
				return p.Riders[i].SetField(field, value)
			}
		}
	}
	return dErrors.New(dErrors.CodeNotFound, "coverage not found: "+coverageID)
}

// CoverageIDs lists every coverage id in display order.
func (p *Portfolio) CoverageIDs() []string {
	out := []string{BaseID}
	for _, a := range p.Additional {
		out = append(out, a.CoverageID())
	}
	for _, r := range p.Riders {
		out = append(out, r.CoverageID())
	}
	return out
}

// HasCoverage reports whether a coverage id exists.
func (p *Portfolio) HasCoverage(coverageID string) bool {
	for _, c := range p.CoverageIDs() {
		if c == coverageID {
			return true
		}
	}
	return false
}

// ReferencesInsured lists the coverages naming an insured.
func (p *Portfolio) ReferencesInsured(insuredID int) []string {
	var out []string
	if p.Base.References(insuredID) {
		out = append(out, BaseID)
	}
	for _, a := range p.Additional {
		if a.References(insuredID) {
			out = append(out, a.CoverageID())
		}
	}
	for _, r := range p.Riders {
		if r.SelectedPersonID == insuredID {
			out = append(out, r.CoverageID())
		}
	}
	return out
}

// RemoveInsured deletes an insured that no coverage references.
func (p *Portfolio) RemoveInsured(insuredID int) error {
	if refs := p.ReferencesInsured(insuredID); len(refs) > 0 {
		return dErrors.New(dErrors.CodeReferential,
			fmt.Sprintf("insured %d is referenced by %s", insuredID, strings.Join(refs, ", ")))
	}
	return p.Insureds.Remove(insuredID)
}

// ImportInsureds replaces the registry with a server-returned owner list.
// Coverage references follow their insured by client GUID; references to
// insureds missing from the list are cleared.
func (p *Portfolio) ImportInsureds(list []party.Party) {
	previous := p.Insureds.List()
	p.Insureds.SetAll(list)

	mapping := map[int]int{}
	for _, old := range previous {
		if old.ClientGUID.IsNil() {
			continue
		}
		for _, imported := range p.Insureds.Entries {
			if imported.ClientGUID == old.ClientGUID {
				mapping[old.ID] = imported.ID
				break
			}
		}
	}
	remap := func(old int) int { return mapping[old] }
	p.Base.InsuredID = remap(p.Base.InsuredID)
	p.Base.SecondInsuredID = remap(p.Base.SecondInsuredID)
	for i := range p.Additional {
		p.Additional[i].InsuredID = remap(p.Additional[i].InsuredID)
		p.Additional[i].SecondInsuredID = remap(p.Additional[i].SecondInsuredID)
	}
	for i := range p.Riders {
		p.Riders[i].SelectedPersonID = remap(p.Riders[i].SelectedPersonID)
	}
}

// Validate returns errors keyed by coverage id, then field. Coverages without
// errors are omitted.
func (p *Portfolio) Validate() map[string]map[string]string {
	out := map[string]map[string]string{}
	exists := p.Insureds.Exists
	add := func(id string, errs map[string]string) {
		if len(errs) > 0 {
			out[id] = errs
		}
	}
	baseErrs := p.Base.Validate(exists)
	if p.Product.PlanCode == "" {
		baseErrs["planCode"] = "Select a product"
	}
	add(BaseID, baseErrs)
	for _, a := range p.Additional {
		add(a.CoverageID(), a.Validate(exists))
	}
	for _, r := range p.Riders {
		add(r.CoverageID(), r.Validate(exists))
	}
	return out
}

// IsComplete reports whether the coverage step validates.
func (p *Portfolio) IsComplete() bool {
	return len(p.Validate()) == 0
}

// Clone returns a deep copy.
func (p *Portfolio) Clone() *Portfolio {
	cp := *p
	cp.Additional = append([]Additional{}, p.Additional...)
	cp.Riders = append([]Rider{}, p.Riders...)
	cp.Insureds = Registry{Entries: p.Insureds.List()}
	return &cp
}
