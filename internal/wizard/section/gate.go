// Package section implements the per-party section gate: which sub-sections
// of a party's data entry are locked, collapsed or expanded.
//
// Gate is plain data stored on the application. Machine is the reducer that
// moves a Gate between states using live validation results.
package section

import (
	"intake/internal/party"
)

// State is the display state of one section.
type State string

const (
	StateLocked    State = "locked"
	StateCollapsed State = "collapsed"
	StateExpanded  State = "expanded"
)

// IsOpen reports whether the section is unlocked.
func (s State) IsOpen() bool {
	return s == StateCollapsed || s == StateExpanded
}

// Gate is the section state for one party.
//
// Invariants:
//   - States has exactly one entry per section of Kind
//   - a section moves locked -> collapsed at most once per predecessor validity change
//   - Attempted only grows, except when a variant switch drops the old variant's fields
type Gate struct {
	Kind        party.Kind              `json:"kind"`
	States      map[party.Section]State `json:"states"`
	Validity    map[party.Section]bool  `json:"validity"`
	Attempted   map[string]bool         `json:"attempted"`
	LastRefusal *Refusal                `json:"lastRefusal,omitempty"`
}

// Refusal is returned when an expand request hits a locked section.
type Refusal struct {
	Section   party.Section     `json:"section"`
	BlockedBy party.Section     `json:"blockedBy"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors"`
}

// Order returns the gate's section order.
func (g *Gate) Order() []party.Section {
	return party.Sections(g.Kind)
}

// StateOf returns the state of a section, locked for unknown sections.
func (g *Gate) StateOf(s party.Section) State {
	if st, ok := g.States[s]; ok {
		return st
	}
	return StateLocked
}

// ValiditySnapshot returns a copy of the per-section validity flags.
func (g *Gate) ValiditySnapshot() map[party.Section]bool {
	out := make(map[party.Section]bool, len(g.Validity))
	for k, v := range g.Validity {
		out[k] = v
	}
	return out
}

// AllValid reports whether every section of the party validated on the last recompute.
func (g *Gate) AllValid() bool {
	for _, s := range g.Order() {
		if !g.Validity[s] {
			return false
		}
	}
	return true
}

// Violations lists sections that are open while some strict predecessor is
// invalid. Under the strict relock policy it is always empty.
func (g *Gate) Violations() []party.Section {
	var out []party.Section
	predecessorsValid := true
	for _, s := range g.Order() {
		if !predecessorsValid && g.StateOf(s).IsOpen() {
			out = append(out, s)
		}
		predecessorsValid = predecessorsValid && g.Validity[s]
	}
	return out
}

// Clone returns a deep copy.
func (g Gate) Clone() Gate {
	cp := Gate{
		Kind:      g.Kind,
		States:    make(map[party.Section]State, len(g.States)),
		Validity:  g.ValiditySnapshot(),
		Attempted: make(map[string]bool, len(g.Attempted)),
	}
	for k, v := range g.States {
		cp.States[k] = v
	}
	for k, v := range g.Attempted {
		cp.Attempted[k] = v
	}
	if g.LastRefusal != nil {
		r := *g.LastRefusal
		r.Errors = make(map[string]string, len(g.LastRefusal.Errors))
		for k, v := range g.LastRefusal.Errors {
			r.Errors[k] = v
		}
		cp.LastRefusal = &r
	}
	return cp
}
