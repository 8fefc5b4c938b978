// Package models holds the wire documents exchanged with the carrier's
// save and calculation endpoints.
package models

import (
	"fmt"

	"intake/internal/party"
	id "intake/pkg/domain"
)

// Address types on the wire.
const (
	AddressPrimary = "primary"
	AddressMailing = "mailing"
)

// PartySaveRequest is the body of the party save call.
type PartySaveRequest struct {
	ApplicationFormNumber string        `json:"applicationFormNumber"`
	Role                  string        `json:"role"`
	Owners                []PartyRecord `json:"owners"`
}

// PartyRecord is one party in the save shape: the type code, the variant's
// own fields inline, the jurisdiction codes and the address list.
type PartyRecord struct {
	LocalID    int    `json:"localId"`
	TypeCode   string `json:"typeCode"`
	ClientGUID string `json:"clientGUID,omitempty"`
	RoleGUID   string `json:"roleGUID,omitempty"`

	*party.Individual
	*party.Corporate

	Email       string          `json:"email"`
	PhoneNumber string          `json:"phoneNumber"`
	CountryCode string          `json:"countryCode"`
	StateCode   string          `json:"stateCode"`
	Addresses   []AddressRecord `json:"addresses"`
}

type AddressRecord struct {
	Type        string `json:"type"`
	AddressGUID string `json:"addressGUID,omitempty"`
	Line1       string `json:"line1"`
	Line2       string `json:"line2,omitempty"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
	StateCode   string `json:"stateCode"`
	ZipCode     string `json:"zipCode"`
}

// PartySaveResponse carries the identifiers issued for each saved party.
type PartySaveResponse struct {
	Owners []SavedParty `json:"owners"`
}

type SavedParty struct {
	LocalID    int            `json:"localId"`
	ClientGUID string         `json:"clientGUID"`
	RoleGUID   string         `json:"roleGUID"`
	Addresses  []SavedAddress `json:"addresses"`
}

type SavedAddress struct {
	Type        string `json:"type"`
	AddressGUID string `json:"addressGUID"`
}

// NewPartySaveRequest renders parties into the save shape.
func NewPartySaveRequest(applicationNumber, role string, parties []party.Party) PartySaveRequest {
	req := PartySaveRequest{
		ApplicationFormNumber: applicationNumber,
		Role:                  role,
		Owners:                make([]PartyRecord, 0, len(parties)),
	}
	for _, p := range parties {
		req.Owners = append(req.Owners, RecordFromParty(p))
	}
	return req
}

// RecordFromParty renders one party.
func RecordFromParty(p party.Party) PartyRecord {
	rec := PartyRecord{
		LocalID:     p.ID,
		TypeCode:    string(p.Kind),
		Email:       p.Contact.Email,
		PhoneNumber: p.Contact.PhoneNumber,
	}
	if !p.ClientGUID.IsNil() {
		rec.ClientGUID = p.ClientGUID.String()
	}
	if !p.RoleGUID.IsNil() {
		rec.RoleGUID = p.RoleGUID.String()
	}
	switch {
	case p.IsIndividual():
		ind := *p.Individual
		rec.Individual = &ind
		rec.CountryCode = ind.CitizenshipCountry
		rec.StateCode = ind.StateOrProvince
	case p.IsCorporate():
		corp := *p.Corporate
		rec.Corporate = &corp
		rec.CountryCode = corp.RegisteredCountry
		rec.StateCode = corp.RegisteredState
	}

	a := p.Address
	primary := AddressRecord{
		Type:        AddressPrimary,
		Line1:       a.Line1,
		Line2:       a.Line2,
		City:        a.City,
		CountryCode: a.Country,
		StateCode:   a.State,
		ZipCode:     a.ZipCode,
	}
	if !a.AddressGUID.IsNil() {
		primary.AddressGUID = a.AddressGUID.String()
	}
	rec.Addresses = []AddressRecord{primary}
	if a.HasDistinctMailing() {
		m := a.Mailing
		mailing := AddressRecord{
			Type:        AddressMailing,
			Line1:       m.Line1,
			Line2:       m.Line2,
			City:        m.City,
			CountryCode: m.Country,
			StateCode:   m.State,
			ZipCode:     m.ZipCode,
		}
		if !m.AddressGUID.IsNil() {
			mailing.AddressGUID = m.AddressGUID.String()
		}
		rec.Addresses = append(rec.Addresses, mailing)
	}
	return rec
}

// Enrich copies the issued identifiers onto the matching local parties.
// Parties absent from the response are left untouched. It returns how many
// parties were enriched.
func (r PartySaveResponse) Enrich(parties []party.Party) (int, error) {
	enriched := 0
	for _, saved := range r.Owners {
		i := party.Find(parties, saved.LocalID)
		if i < 0 {
			continue
		}
		clientGUID, err := id.ParseClientGUID(saved.ClientGUID)
		if err != nil {
			return enriched, fmt.Errorf("party %d: %w", saved.LocalID, err)
		}
		roleGUID, err := id.ParseRoleGUID(saved.RoleGUID)
		if err != nil {
			return enriched, fmt.Errorf("party %d: %w", saved.LocalID, err)
		}
		p := &parties[i]
		p.ClientGUID = clientGUID
		p.RoleGUID = roleGUID
		for _, addr := range saved.Addresses {
			if addr.AddressGUID == "" {
				continue
			}
			guid, err := id.ParseAddressGUID(addr.AddressGUID)
			if err != nil {
				return enriched, fmt.Errorf("party %d address: %w", saved.LocalID, err)
			}
			switch addr.Type {
			case AddressPrimary:
				p.Address.AddressGUID = guid
			case AddressMailing:
				p.Address.Mailing.AddressGUID = guid
			}
		}
		enriched++
	}
	return enriched, nil
}
