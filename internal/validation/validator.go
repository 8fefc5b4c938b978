// Package validation is the entity validator for party sections.
//
// Domain Purity: this package performs no I/O and never reads the wall clock
// directly. The current time is injected with WithClock and reference data is
// received as a snapshot, so every call is safe on every keystroke.
package validation

import (
	"time"

	"intake/internal/party"
	"intake/internal/referencedata"
)

// FieldResult is the outcome of validating one field.
type FieldResult struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
}

// SectionResult is the outcome of validating one section. Errors is keyed by
// wire field name and never contains fields of a skipped pass.
type SectionResult struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

// Validator evaluates the static rule tables.
type Validator struct {
	now  func() time.Time
	refs *referencedata.Snapshot
}

type Option func(*Validator)

// WithClock injects the time source used by age checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithReferenceData enforces membership of code fields in the served lists.
func WithReferenceData(snap referencedata.Snapshot) Option {
	return func(v *Validator) {
		v.refs = &snap
	}
}

func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithSnapshot returns a copy of v that enforces the given reference data.
func (v *Validator) WithSnapshot(snap referencedata.Snapshot) *Validator {
	cp := *v
	cp.refs = &snap
	return &cp
}

// ValidateField checks one value against the rule registered for
// (ruleSet, field). Discriminator fields and fields without a rule are valid.
func (v *Validator) ValidateField(field, value string, ruleSet RuleSet, country string) FieldResult {
	r, ok := lookup(ruleSet, field)
	if !ok {
		return FieldResult{IsValid: true}
	}
	if msg := r.check(v.env(country), value); msg != "" {
		return FieldResult{IsValid: false, Error: msg}
	}
	return FieldResult{IsValid: true}
}

// ValidateSection validates every field the section owns for the party's kind.
//
// The details section (and its ownerDetails alias) dispatches on the party's
// discriminator. The address section runs the primary pass always and the
// mailing pass only when the mailing address is distinct. Sections that do
// not apply to the party's kind are valid.
func (v *Validator) ValidateSection(p party.Party, section party.Section, country string) SectionResult {
	res := SectionResult{IsValid: true, Errors: map[string]string{}}
	resolved, err := party.ParseSection(string(section))
	if err != nil || !party.HasSection(p.Kind, resolved) {
		return res
	}

	ruleSet := RuleSetFor(p.Kind, resolved)
	switch resolved {
	case party.SectionAddress:
		v.collect(&res, p, ruleSet, party.PrimaryAddressFields(), country)
		if p.Address.HasDistinctMailing() {
			mailingCountry := country
			if c := p.Address.Mailing.Country; c != "" {
				mailingCountry = c
			}
			v.collect(&res, p, ruleSet, party.MailingAddressFields(), mailingCountry)
		}
	default:
		v.collect(&res, p, ruleSet, p.SectionFields(resolved), country)
	}
	return res
}

// ValidateParty validates every section of the party in order.
func (v *Validator) ValidateParty(p party.Party, country string) map[party.Section]SectionResult {
	out := make(map[party.Section]SectionResult)
	for _, s := range party.Sections(p.Kind) {
		out[s] = v.ValidateSection(p, s, country)
	}
	return out
}

// IsPartyValid reports whether every section of the party validates.
func (v *Validator) IsPartyValid(p party.Party, country string) bool {
	for _, res := range v.ValidateParty(p, country) {
		if !res.IsValid {
			return false
		}
	}
	return true
}

func (v *Validator) collect(res *SectionResult, p party.Party, ruleSet RuleSet, fields []string, country string) {
	for _, f := range fields {
		fr := v.ValidateField(f, p.Value(f), ruleSet, country)
		if !fr.IsValid {
			res.IsValid = false
			res.Errors[f] = fr.Error
		}
	}
}

func (v *Validator) env(country string) checkEnv {
	return checkEnv{country: country, now: v.now(), refs: v.refs}
}
