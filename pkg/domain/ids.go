// Package domain holds identifier primitives shared across modules.
//
// Local entity ids (owners, beneficiaries, coverages, rows) are small integers
// scoped to their collection. Server-issued identifiers and application ids are
// UUIDs wrapped in distinct types so a RoleGUID can never be passed where a
// ClientGUID is expected.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "intake/pkg/domain-errors"
)

// maxIDLength bounds input before it reaches uuid.Parse.
const maxIDLength = 64

type (
	// ApplicationID identifies one intake session.
	ApplicationID uuid.UUID
	// ClientGUID is the server-issued identity of a persisted party.
	ClientGUID uuid.UUID
	// RoleGUID is the server-issued identity of a party's role on the application.
	RoleGUID uuid.UUID
	// AddressGUID is the server-issued identity of a persisted address.
	AddressGUID uuid.UUID
)

func parseUUID(kind, s string) (uuid.UUID, error) {
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is too long")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be nil")
	}
	return u, nil
}

func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseUUID("application id", s)
	return ApplicationID(u), err
}

func ParseClientGUID(s string) (ClientGUID, error) {
	u, err := parseUUID("client guid", s)
	return ClientGUID(u), err
}

func ParseRoleGUID(s string) (RoleGUID, error) {
	u, err := parseUUID("role guid", s)
	return RoleGUID(u), err
}

func ParseAddressGUID(s string) (AddressGUID, error) {
	u, err := parseUUID("address guid", s)
	return AddressGUID(u), err
}

// NewApplicationID returns a random application id.
func NewApplicationID() ApplicationID { return ApplicationID(uuid.New()) }

func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id ApplicationID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id ApplicationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *ApplicationID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (g ClientGUID) String() string { return uuid.UUID(g).String() }
func (g ClientGUID) IsNil() bool    { return uuid.UUID(g) == uuid.Nil }

func (g ClientGUID) MarshalText() ([]byte, error) { return marshalOptional(uuid.UUID(g)) }
func (g *ClientGUID) UnmarshalText(b []byte) error {
	return unmarshalOptional((*uuid.UUID)(g), b)
}

func (g RoleGUID) String() string { return uuid.UUID(g).String() }
func (g RoleGUID) IsNil() bool    { return uuid.UUID(g) == uuid.Nil }

func (g RoleGUID) MarshalText() ([]byte, error) { return marshalOptional(uuid.UUID(g)) }
func (g *RoleGUID) UnmarshalText(b []byte) error {
	return unmarshalOptional((*uuid.UUID)(g), b)
}

func (g AddressGUID) String() string { return uuid.UUID(g).String() }
func (g AddressGUID) IsNil() bool    { return uuid.UUID(g) == uuid.Nil }

func (g AddressGUID) MarshalText() ([]byte, error) { return marshalOptional(uuid.UUID(g)) }
func (g *AddressGUID) UnmarshalText(b []byte) error {
	return unmarshalOptional((*uuid.UUID)(g), b)
}

// GUIDs are absent until the first successful save; an absent GUID
// serializes as the empty string rather than the nil UUID.
func marshalOptional(u uuid.UUID) ([]byte, error) {
	if u == uuid.Nil {
		return []byte{}, nil
	}
	return u.MarshalText()
}

func unmarshalOptional(u *uuid.UUID, b []byte) error {
	if len(b) == 0 {
		*u = uuid.Nil
		return nil
	}
	return u.UnmarshalText(b)
}
