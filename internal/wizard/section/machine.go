package section

import (
	"fmt"

	"intake/internal/party"
	"intake/internal/validation"
	dErrors "intake/pkg/domain-errors"
)

// SectionValidator is the validation the gate consumes.
type SectionValidator interface {
	ValidateSection(p party.Party, section party.Section, country string) validation.SectionResult
}

// RelockPolicy decides what happens to open sections when a predecessor
// becomes invalid.
type RelockPolicy string

const (
	// RelockLenient leaves already-open sections open. Only new expand
	// requests are blocked.
	RelockLenient RelockPolicy = "lenient"
	// RelockStrict locks every open section that has an invalid predecessor,
	// so an open section always has valid predecessors.
	RelockStrict RelockPolicy = "strict"
)

// ParseRelockPolicy maps a config value to a policy, defaulting to lenient.
func ParseRelockPolicy(s string) RelockPolicy {
	if RelockPolicy(s) == RelockStrict {
		return RelockStrict
	}
	return RelockLenient
}

// Machine applies gate transitions.
type Machine struct {
	validator SectionValidator
	policy    RelockPolicy
}

type Option func(*Machine)

func WithRelockPolicy(p RelockPolicy) Option {
	return func(m *Machine) {
		m.policy = p
	}
}

func NewMachine(v SectionValidator, opts ...Option) *Machine {
	m := &Machine{validator: v, policy: RelockLenient}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Policy returns the configured relock policy.
func (m *Machine) Policy() RelockPolicy { return m.policy }

// New returns the initial gate for a party: the first section expanded and
// every later section locked, then unlocked as far as the data already allows.
func (m *Machine) New(p party.Party, country string) Gate {
	g := Gate{
		Kind:      p.Kind,
		States:    map[party.Section]State{},
		Validity:  map[party.Section]bool{},
		Attempted: map[string]bool{},
	}
	for i, s := range party.Sections(p.Kind) {
		if i == 0 {
			g.States[s] = StateExpanded
		} else {
			g.States[s] = StateLocked
		}
	}
	m.Recompute(&g, p, country)
	return g
}

// RequestExpand opens a section when every strict predecessor is valid.
//
// On refusal every field of every invalid predecessor becomes attempted so
// its errors are visible, and the refusal is recorded on the gate.
func (m *Machine) RequestExpand(g *Gate, p party.Party, s party.Section, country string) *Refusal {
	m.sync(g, p)
	resolved, err := party.ParseSection(string(s))
	if err != nil || !party.HasSection(g.Kind, resolved) {
		r := &Refusal{
			Section: s,
			Message: fmt.Sprintf("section %s is not available for a %s party", s, g.Kind),
			Errors:  map[string]string{},
		}
		g.LastRefusal = r
		return r
	}

	var refusal *Refusal
	for _, pred := range g.Order() {
		if pred == resolved {
			break
		}
		res := m.validator.ValidateSection(p, pred, country)
		g.Validity[pred] = res.IsValid
		if res.IsValid {
			continue
		}
		if refusal == nil {
			refusal = &Refusal{
				Section:   resolved,
				BlockedBy: pred,
				Message:   fmt.Sprintf("complete the %s section before opening %s", pred, resolved),
				Errors:    map[string]string{},
			}
		}
		for _, f := range p.SectionFields(pred) {
			g.Attempted[f] = true
		}
		for f, msg := range res.Errors {
			refusal.Errors[f] = msg
		}
	}
	if refusal != nil {
		g.LastRefusal = refusal
		return refusal
	}

	g.States[resolved] = StateExpanded
	g.LastRefusal = nil
	return nil
}

// RequestCollapse collapses an expanded section. It reports whether the
// state changed.
func (m *Machine) RequestCollapse(g *Gate, s party.Section) bool {
	resolved, err := party.ParseSection(string(s))
	if err != nil || g.StateOf(resolved) != StateExpanded {
		return false
	}
	g.States[resolved] = StateCollapsed
	return true
}

// FieldChanged applies one edit to the party, marks the field attempted and
// returns the recomputed validity of every section. The returned map is the
// complete new state; no partial update is observable.
func (m *Machine) FieldChanged(g *Gate, p *party.Party, s party.Section, field, value, country string) (map[party.Section]bool, error) {
	resolved, err := party.ParseSection(string(s))
	if err != nil {
		return nil, err
	}
	if !ownsField(p, resolved, field) {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("field %s does not belong to section %s", field, resolved))
	}
	if err := p.SetField(field, value); err != nil {
		return nil, err
	}
	g.Attempted[field] = true
	return m.Recompute(g, *p, country), nil
}

// Recompute revalidates every section, unlocks sections whose predecessors
// are now all valid and, under the strict policy, relocks the rest.
func (m *Machine) Recompute(g *Gate, p party.Party, country string) map[party.Section]bool {
	m.sync(g, p)
	for _, s := range g.Order() {
		g.Validity[s] = m.validator.ValidateSection(p, s, country).IsValid
	}

	predecessorsValid := true
	for i, s := range g.Order() {
		if i > 0 {
			switch st := g.StateOf(s); {
			case predecessorsValid && st == StateLocked:
				g.States[s] = StateCollapsed
			case !predecessorsValid && st.IsOpen() && m.policy == RelockStrict:
				g.States[s] = StateLocked
			}
		}
		predecessorsValid = predecessorsValid && g.Validity[s]
	}
	return g.ValiditySnapshot()
}

// VisibleErrors returns the current errors of attempted fields only.
func (m *Machine) VisibleErrors(g *Gate, p party.Party, country string) map[string]string {
	out := map[string]string{}
	for _, s := range g.Order() {
		for f, msg := range m.validator.ValidateSection(p, s, country).Errors {
			if g.Attempted[f] {
				out[f] = msg
			}
		}
	}
	return out
}

// AttemptAll marks every field of the party attempted and returns all of
// its current errors.
func (m *Machine) AttemptAll(g *Gate, p party.Party, country string) map[string]string {
	m.sync(g, p)
	for _, s := range g.Order() {
		for _, f := range p.SectionFields(s) {
			g.Attempted[f] = true
		}
	}
	m.Recompute(g, p, country)
	return m.VisibleErrors(g, p, country)
}

// sync reshapes the gate after the party switched variant. Sections shared
// by both orders keep their state; new sections start locked.
func (m *Machine) sync(g *Gate, p party.Party) {
	if g.States == nil {
		g.States = map[party.Section]State{}
	}
	if g.Validity == nil {
		g.Validity = map[party.Section]bool{}
	}
	if g.Attempted == nil {
		g.Attempted = map[string]bool{}
	}
	if g.Kind == p.Kind && len(g.States) > 0 {
		return
	}
	g.Kind = p.Kind
	states := map[party.Section]State{}
	for i, s := range party.Sections(p.Kind) {
		switch st, ok := g.States[s]; {
		case ok:
			states[s] = st
		case i == 0:
			states[s] = StateExpanded
		default:
			states[s] = StateLocked
		}
	}
	g.States = states

	live := map[string]bool{}
	for _, s := range party.Sections(p.Kind) {
		for _, f := range p.SectionFields(s) {
			live[f] = true
		}
	}
	for _, f := range party.MailingAddressFields() {
		live[f] = true
	}
	for f := range g.Attempted {
		if !live[f] {
			delete(g.Attempted, f)
		}
	}
	for s := range g.Validity {
		if !party.HasSection(p.Kind, s) {
			delete(g.Validity, s)
		}
	}
}

func ownsField(p *party.Party, s party.Section, field string) bool {
	switch field {
	case party.FieldOwnerType:
		return s == party.SectionDetails
	case party.FieldSameAsMailingAddress:
		return s == party.SectionAddress
	}
	if s == party.SectionAddress {
		for _, f := range party.MailingAddressFields() {
			if f == field {
				return true
			}
		}
	}
	for _, f := range p.SectionFields(s) {
		if f == field {
			return true
		}
	}
	return false
}
