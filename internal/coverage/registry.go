package coverage

import (
	"fmt"

	"intake/internal/party"
	dErrors "intake/pkg/domain-errors"
)

// Registry is the flat list of insured parties coverages may reference. It
// is separate from the application's owners so that an insured added during
// coverage entry never changes the owner list.
//
// Invariants:
//   - ids are unique
//   - Add and Update never change existing ids; only SetAll re-indexes
type Registry struct {
	Entries []party.Party `json:"entries"`
}

// SetAll replaces the list and re-indexes ids sequentially from 1. It returns
// the old->new id mapping.
func (r *Registry) SetAll(list []party.Party) map[int]int {
	mapping := make(map[int]int, len(list))
	r.Entries = make([]party.Party, 0, len(list))
	for i, p := range list {
		cp := p.Clone()
		mapping[p.ID] = i + 1
		cp.ID = i + 1
		r.Entries = append(r.Entries, cp)
	}
	return mapping
}

// Add appends an entry with the next sequential id.
func (r *Registry) Add(p party.Party) party.Party {
	cp := p.Clone()
	cp.ID = party.NextID(party.IDs(r.Entries))
	r.Entries = append(r.Entries, cp)
	return cp.Clone()
}

// Update merges a field patch into an entry. The id never changes.
func (r *Registry) Update(insuredID int, patch map[string]string) (party.Party, error) {
	i := party.Find(r.Entries, insuredID)
	if i < 0 {
		return party.Party{}, notFound(insuredID)
	}
	updated := r.Entries[i].Clone()
	// ownerType first so variant fields land on the right variant.
	if kind, ok := patch[party.FieldOwnerType]; ok {
		if err := updated.SetField(party.FieldOwnerType, kind); err != nil {
			return party.Party{}, err
		}
	}
	for field, value := range patch {
		if field == party.FieldOwnerType {
			continue
		}
		if err := updated.SetField(field, value); err != nil {
			return party.Party{}, err
		}
	}
	updated.ID = insuredID
	r.Entries[i] = updated
	return updated.Clone(), nil
}

// Remove deletes an entry without re-indexing the others.
func (r *Registry) Remove(insuredID int) error {
	i := party.Find(r.Entries, insuredID)
	if i < 0 {
		return notFound(insuredID)
	}
	r.Entries = append(r.Entries[:i], r.Entries[i+1:]...)
	return nil
}

// Get returns a copy of an entry.
func (r *Registry) Get(insuredID int) (party.Party, bool) {
	i := party.Find(r.Entries, insuredID)
	if i < 0 {
		return party.Party{}, false
	}
	return r.Entries[i].Clone(), true
}

// Exists reports whether an id is registered.
func (r *Registry) Exists(insuredID int) bool {
	return party.Find(r.Entries, insuredID) >= 0
}

// List returns copies of every entry.
func (r *Registry) List() []party.Party {
	out := make([]party.Party, 0, len(r.Entries))
	for _, p := range r.Entries {
		out = append(out, p.Clone())
	}
	return out
}

func notFound(insuredID int) error {
	return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("insured %d not found", insuredID))
}
