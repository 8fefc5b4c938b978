package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/allocation"
	"intake/internal/party"
	id "intake/pkg/domain"
)

func TestRecordFromParty_Individual(t *testing.T) {
	p := party.NewIndividual(3)
	p.Individual.FirstName = "Ada"
	p.Individual.CitizenshipCountry = "01"
	p.Individual.StateOrProvince = "NY"
	p.Address.ZipCode = "10001"

	rec := RecordFromParty(p)

	assert.Equal(t, 3, rec.LocalID)
	assert.Equal(t, "01", rec.TypeCode)
	assert.Equal(t, "01", rec.CountryCode)
	assert.Equal(t, "NY", rec.StateCode)
	require.Len(t, rec.Addresses, 1, "mailing address is sent only when distinct")
	assert.Equal(t, AddressPrimary, rec.Addresses[0].Type)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Ada", body["firstName"], "variant fields are inlined")
	assert.NotContains(t, body, "companyName")
	assert.NotContains(t, body, "clientGUID")
}

func TestRecordFromParty_CorporateWithMailing(t *testing.T) {
	p := party.NewCorporate(1)
	p.Corporate.RegisteredCountry = "02"
	p.Corporate.RegisteredState = "ON"
	p.Address.SameAsMailingAddress = false
	p.Address.Mailing.City = "Toronto"

	rec := RecordFromParty(p)

	assert.Equal(t, "02", rec.CountryCode)
	assert.Equal(t, "ON", rec.StateCode)
	require.Len(t, rec.Addresses, 2)
	assert.Equal(t, AddressMailing, rec.Addresses[1].Type)
	assert.Equal(t, "Toronto", rec.Addresses[1].City)
}

func TestPartySaveResponse_Enrich(t *testing.T) {
	parties := []party.Party{party.NewIndividual(1), party.NewIndividual(2)}
	parties[1].Address.SameAsMailingAddress = false
	client, role, addr, mail := uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString()

	resp := PartySaveResponse{Owners: []SavedParty{
		{
			LocalID:    2,
			ClientGUID: client,
			RoleGUID:   role,
			Addresses: []SavedAddress{
				{Type: AddressPrimary, AddressGUID: addr},
				{Type: AddressMailing, AddressGUID: mail},
			},
		},
		{LocalID: 9, ClientGUID: uuid.NewString(), RoleGUID: uuid.NewString()},
	}}

	n, err := resp.Enrich(parties)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "unknown local ids are ignored")
	assert.True(t, parties[0].RoleGUID.IsNil())
	assert.Equal(t, role, parties[1].RoleGUID.String())
	assert.Equal(t, client, parties[1].ClientGUID.String())
	assert.Equal(t, addr, parties[1].Address.AddressGUID.String())
	assert.Equal(t, mail, parties[1].Address.Mailing.AddressGUID.String())
}

func TestPartySaveResponse_EnrichRejectsBadGUID(t *testing.T) {
	parties := []party.Party{party.NewIndividual(1)}
	resp := PartySaveResponse{Owners: []SavedParty{{LocalID: 1, ClientGUID: "nope", RoleGUID: uuid.NewString()}}}

	_, err := resp.Enrich(parties)
	require.Error(t, err)
	assert.True(t, parties[0].ClientGUID.IsNil())
}

func TestNewAllocationSaveRequest(t *testing.T) {
	engine := allocation.New()
	key, err := allocation.NewBucketKey("base", allocation.KindPrimary)
	require.NoError(t, err)
	engine.AddRow(key)
	engine.AddRow(key)
	require.NoError(t, engine.LinkRow(key, 1, 1))
	require.NoError(t, engine.LinkRow(key, 2, 2))
	require.NoError(t, engine.DescribeRow(key, 1, "spouse", "insured-1"))

	saved := party.NewIndividual(1)
	saved.RoleGUID = id.RoleGUID(uuid.New())
	beneficiaries := []party.Party{saved, party.NewIndividual(2)}

	req, unresolved := NewAllocationSaveRequest("IA-1", engine, []allocation.BucketKey{key, allocation.PayorBucket()}, beneficiaries)

	assert.Equal(t, "IA-1", req.ApplicationFormNumber)
	require.Len(t, req.BeneficiaryAllocations, 1)
	got := req.BeneficiaryAllocations[0]
	assert.Equal(t, saved.RoleGUID.String(), got.RoleGUID)
	assert.Equal(t, "base", got.CoverageID)
	assert.Equal(t, "primary", got.Type)
	assert.Equal(t, "spouse", got.RelationshipToInsured)
	assert.InDelta(t, 33.33, got.Allocation, 0.001)

	assert.Len(t, unresolved, 1, "beneficiary 2 has no role guid")
	assert.Equal(t, 2, unresolved[0].RowID)
}
