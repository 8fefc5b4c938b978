package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/allocation"
	"intake/internal/party"
	id "intake/pkg/domain"
)

var now = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func TestNormalizeMethod(t *testing.T) {
	tests := map[string]Method{
		"EFT":         MethodBank,
		"pac":         MethodBank,
		"CC":          MethodCard,
		"card":        MethodCard,
		"DIRECT_BILL": MethodDirectBill,
	}
	for raw, want := range tests {
		got, err := NormalizeMethod(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := NormalizeMethod("cheque")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("bank", func(t *testing.T) {
		d := Details{Method: MethodBank, Frequency: FrequencyMonthly, Bank: Bank{
			AccountHolder: "Ada Lovelace", RoutingNumber: "021000021", AccountNumber: "12345678",
		}}
		assert.Empty(t, d.Validate("01", now))
		assert.Contains(t, d.Validate("02", now), FieldRoutingNumber)
		d.Bank.RoutingNumber = "12345-003"
		assert.Empty(t, d.Validate("02", now))
	})

	t.Run("card", func(t *testing.T) {
		d := Details{Method: MethodCard, Frequency: FrequencyAnnual, Card: Card{
			CardholderName: "Ada Lovelace", CardNumber: "4111111111111111", ExpiryMonth: "06", ExpiryYear: "26",
		}}
		assert.Empty(t, d.Validate("01", now))

		d.Card.CardNumber = "4111111111111112"
		assert.Contains(t, d.Validate("01", now), FieldCardNumber)

		d.Card.CardNumber = "4111111111111111"
		d.Card.ExpiryMonth = "05"
		assert.Contains(t, d.Validate("01", now), FieldExpiryYear)
	})

	t.Run("direct bill needs no sub-document", func(t *testing.T) {
		d := Details{Method: MethodDirectBill, Frequency: FrequencyQuarterly}
		assert.Empty(t, d.Validate("01", now))
	})

	t.Run("method and frequency are required", func(t *testing.T) {
		errs := Details{}.Validate("01", now)
		assert.Contains(t, errs, FieldMethod)
		assert.Contains(t, errs, FieldFrequency)
	})
}

func TestSetField(t *testing.T) {
	var d Details
	require.NoError(t, d.SetField(FieldMethod, "PAC"))
	require.NoError(t, d.SetField(FieldCardNumber, "4111 1111 1111 1111"))
	assert.Equal(t, MethodBank, d.Method)
	assert.Equal(t, "4111111111111111", d.Card.CardNumber)
	require.Error(t, d.SetField(FieldFrequency, "weekly"))
	require.Error(t, d.SetField("cvv", "123"))
}

func TestBuildSaveDocument(t *testing.T) {
	saved := party.NewIndividual(1)
	saved.ClientGUID = id.ClientGUID(uuid.New())
	saved.RoleGUID = id.RoleGUID(uuid.New())
	unsaved := party.NewCorporate(2)

	rows := []allocation.Row{
		{ID: 1, TargetID: 1, Percent: 60},
		{ID: 2, TargetID: 2, Percent: 40},
		{ID: 3, Percent: 0},
	}
	d := Details{Method: MethodCard, Frequency: FrequencyMonthly, Card: Card{CardNumber: "4111111111111111"}}

	doc := BuildSaveDocument("APP-1", d, []party.Party{saved, unsaved}, rows)
	require.Len(t, doc.Payors, 2, "unlinked rows are skipped")
	assert.Equal(t, saved.RoleGUID.String(), doc.Payors[0].RoleGUID)
	assert.Empty(t, doc.Payors[1].ClientGUID)
	assert.NotNil(t, doc.Card)
	assert.Nil(t, doc.Bank)

	d.Method = MethodDirectBill
	doc = BuildSaveDocument("APP-1", d, nil, nil)
	assert.Nil(t, doc.Card)
	assert.Nil(t, doc.Bank)
	assert.Empty(t, doc.Payors)
}
