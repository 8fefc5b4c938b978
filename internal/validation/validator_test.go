package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/party"
	"intake/internal/party/partytest"
	"intake/internal/referencedata"
)

var fixedNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newValidator() *Validator {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func TestValidateField_PostalCodeDependsOnCountry(t *testing.T) {
	v := newValidator()
	tests := []struct {
		name    string
		value   string
		country string
		valid   bool
	}{
		{"us zip in usa", "12345", referencedata.CountryUSA, true},
		{"zip+4 in usa", "12345-6789", referencedata.CountryUSA, true},
		{"us zip in canada", "12345", referencedata.CountryCanada, false},
		{"canadian postal in canada", "K1A0B1", referencedata.CountryCanada, true},
		{"canadian postal with space", "K1A 0B1", referencedata.CountryCanada, true},
		{"canadian postal in usa", "K1A0B1", referencedata.CountryUSA, false},
		{"generic postal elsewhere", "SW1A 1AA", "04", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.ValidateField(party.FieldAddressZipCode, tt.value, RuleSetAddress, tt.country)
			assert.Equal(t, tt.valid, res.IsValid, res.Error)
			if !tt.valid {
				assert.NotEmpty(t, res.Error)
			}
		})
	}
}

func TestValidateField_DiscriminatorAlwaysValid(t *testing.T) {
	v := newValidator()
	for _, rs := range []RuleSet{RuleSetIndividual, RuleSetCorporate, RuleSetAddress} {
		assert.True(t, v.ValidateField(party.FieldOwnerType, "", rs, "01").IsValid)
		assert.True(t, v.ValidateField(party.FieldOwnerType, "garbage", rs, "01").IsValid)
	}
}

func TestValidateField_Age(t *testing.T) {
	v := newValidator()
	tests := []struct {
		value string
		valid bool
	}{
		{"1980-01-01", true},
		{"06/15/2026", true},  // age 0
		{"1926-06-15", true},  // exactly 100
		{"1925-06-14", false}, // 101
		{"2027-01-01", false}, // future
		{"15.06.1980", false}, // unsupported layout
	}
	for _, tt := range tests {
		res := v.ValidateField(party.FieldDateOfBirth, tt.value, RuleSetIndividual, "01")
		assert.Equal(t, tt.valid, res.IsValid, "%s: %s", tt.value, res.Error)
	}
}

func TestValidateField_PhoneDependsOnCountry(t *testing.T) {
	v := newValidator()
	assert.True(t, v.ValidateField(party.FieldPhoneNumber, "(212) 555-0100", RuleSetContact, "01").IsValid)
	assert.False(t, v.ValidateField(party.FieldPhoneNumber, "555-0100", RuleSetContact, "02").IsValid)
	assert.True(t, v.ValidateField(party.FieldPhoneNumber, "+44 20 7946 0958", RuleSetContact, "04").IsValid)
}

func TestValidateSection_PolymorphicDetails(t *testing.T) {
	v := newValidator()

	corp := party.NewCorporate(1)
	res := v.ValidateSection(corp, party.Section("ownerDetails"), "01")
	require.False(t, res.IsValid)
	assert.Contains(t, res.Errors, party.FieldCompanyName)
	assert.NotContains(t, res.Errors, party.FieldFirstName)

	ind := party.NewIndividual(1)
	res = v.ValidateSection(ind, party.Section("ownerDetails"), "01")
	require.False(t, res.IsValid)
	assert.Contains(t, res.Errors, party.FieldFirstName)
	assert.NotContains(t, res.Errors, party.FieldCompanyName)
}

func TestValidateSection_AddressPasses(t *testing.T) {
	v := newValidator()
	p := partytest.ValidIndividual(1)

	res := v.ValidateSection(p, party.SectionAddress, "01")
	require.True(t, res.IsValid, res.Errors)

	require.NoError(t, p.SetField(party.FieldSameAsMailingAddress, "false"))
	res = v.ValidateSection(p, party.SectionAddress, "01")
	require.False(t, res.IsValid)
	assert.Contains(t, res.Errors, party.FieldMailingZipCode)
	for f := range res.Errors {
		assert.Contains(t, party.MailingAddressFields(), f, "primary fields stay valid")
	}

	require.NoError(t, p.SetField(party.FieldSameAsMailingAddress, "true"))
	p.Address.Mailing.ZipCode = "not a zip"
	res = v.ValidateSection(p, party.SectionAddress, "01")
	assert.True(t, res.IsValid, "skipped mailing pass reports nothing")
}

func TestValidateSection_MailingUsesItsOwnCountry(t *testing.T) {
	v := newValidator()
	p := partytest.ValidIndividual(1)
	p.Address.SameAsMailingAddress = false
	p.Address.Mailing = party.MailingAddress{
		Line1: "24 Sussex Drive", City: "Ottawa", Country: "02", State: "ON", ZipCode: "K1M 1M4",
	}
	res := v.ValidateSection(p, party.SectionAddress, "01")
	assert.True(t, res.IsValid, res.Errors)
}

func TestValidateSection_NotApplicableSection(t *testing.T) {
	res := newValidator().ValidateSection(party.NewCorporate(1), party.SectionOccupation, "01")
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
}

func TestValidateParty_Fixtures(t *testing.T) {
	v := New(WithClock(func() time.Time { return fixedNow }), WithReferenceData(referencedata.Default()))
	assert.True(t, v.IsPartyValid(partytest.ValidIndividual(1), "01"))
	assert.True(t, v.IsPartyValid(partytest.ValidCorporate(2), "01"))
}

func TestReferenceDataMembership(t *testing.T) {
	plain := newValidator()
	strict := plain.WithSnapshot(referencedata.Default())

	assert.True(t, plain.ValidateField(party.FieldGender, "X", RuleSetIndividual, "01").IsValid)
	assert.False(t, strict.ValidateField(party.FieldGender, "X", RuleSetIndividual, "01").IsValid)
	assert.False(t, strict.ValidateField(party.FieldAddressState, "ON", RuleSetAddress, "01").IsValid)
	assert.True(t, strict.ValidateField(party.FieldAddressState, "ON", RuleSetAddress, "02").IsValid)
}

func TestParseRuleSet(t *testing.T) {
	rs, ok := ParseRuleSet("ownerDetails", party.KindCorporate)
	require.True(t, ok)
	assert.Equal(t, RuleSetCorporate, rs)

	rs, ok = ParseRuleSet("address", party.KindIndividual)
	require.True(t, ok)
	assert.Equal(t, RuleSetAddress, rs)

	_, ok = ParseRuleSet("payment", party.KindIndividual)
	assert.False(t, ok)
}
