package coverage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/party"
	"intake/internal/party/partytest"
	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
)

func always(int) bool { return true }

func TestFaceAmountBounds(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"10000", true},
		{"$100,000", true},
		{"4999999", true},
		{"9999", false},
		{"5000000", false},
		{"100000.50", false},
		{"lots", false},
		{"", false},
	}
	for _, tt := range tests {
		d := Details{InsuredID: 1, CoverageType: TypeSingle, FaceAmount: tt.value, UnderwritingClass: "STANDARD"}
		_, hasErr := d.Validate(always)[FieldFaceAmount]
		assert.Equal(t, tt.valid, !hasErr, tt.value)
	}
}

func TestRiderMinimums(t *testing.T) {
	child := Rider{Type: RiderChildTerm, SelectedPersonID: 1, FaceAmount: "5000"}
	assert.Empty(t, child.Validate(always))

	spouse := Rider{Type: RiderSpouseTerm, SelectedPersonID: 1, FaceAmount: "10000"}
	assert.Contains(t, spouse.Validate(always), FieldFaceAmount)

	waiver := Rider{Type: RiderWaiverOfPremium, SelectedPersonID: 1}
	assert.Empty(t, waiver.Validate(always), "waiver carries no face amount")

	missing := Rider{}
	errs := missing.Validate(always)
	assert.Contains(t, errs, FieldRiderType)
	assert.Contains(t, errs, FieldSelectedPersonID)
}

func TestDetails_Joint(t *testing.T) {
	d := Details{InsuredID: 1, CoverageType: TypeJoint, FaceAmount: "50000", UnderwritingClass: "STANDARD"}
	assert.Contains(t, d.Validate(always), FieldSecondInsuredID)
	d.SecondInsuredID = 1
	assert.Contains(t, d.Validate(always), FieldSecondInsuredID)
	d.SecondInsuredID = 2
	assert.Empty(t, d.Validate(always))
	assert.True(t, d.References(2))
}

func TestDetails_SetField(t *testing.T) {
	var d Details
	require.NoError(t, d.SetField(FieldInsuredID, "3"))
	require.NoError(t, d.SetField(FieldCoverageType, "JOINT"))
	require.NoError(t, d.SetField(FieldFlatExtraEnabled, "true"))
	assert.Equal(t, 3, d.InsuredID)
	assert.True(t, d.IsJoint())
	assert.True(t, d.FlatExtra.Enabled)

	require.Error(t, d.SetField(FieldInsuredID, "x"))
	require.Error(t, d.SetField(FieldCoverageType, "triple"))
	require.Error(t, d.SetField("color", "red"))
}

func TestParseTableRating(t *testing.T) {
	n, err := ParseTableRating("150%")
	require.NoError(t, err)
	assert.Equal(t, 150, n)
	n, err = ParseTableRating("75")
	require.NoError(t, err)
	assert.Equal(t, 75, n)
	_, err = ParseTableRating("high")
	require.Error(t, err)
}

func TestRegistry(t *testing.T) {
	var r Registry
	mapping := r.SetAll([]party.Party{partytest.ValidIndividual(7), partytest.ValidCorporate(9)})
	assert.Equal(t, map[int]int{7: 1, 9: 2}, mapping)
	assert.Equal(t, []int{1, 2}, party.IDs(r.List()))

	added := r.Add(party.NewIndividual(0))
	assert.Equal(t, 3, added.ID)
	require.NoError(t, r.Remove(2))
	assert.Equal(t, []int{1, 3}, party.IDs(r.List()), "remove does not re-index")
	assert.Equal(t, 4, r.Add(party.NewIndividual(0)).ID)

	updated, err := r.Update(3, map[string]string{
		party.FieldOwnerType:   "02",
		party.FieldCompanyName: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.ID)
	assert.Equal(t, "Acme", updated.Corporate.CompanyName)

	_, err = r.Update(42, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = r.Update(1, map[string]string{party.FieldCompanyName: "Nope"})
	require.Error(t, err)
	got, _ := r.Get(1)
	assert.True(t, got.IsIndividual(), "failed patch leaves the entry untouched")
}

func validPortfolio() *Portfolio {
	p := NewPortfolio()
	p.Insureds.SetAll([]party.Party{partytest.ValidIndividual(1), partytest.ValidIndividual(2)})
	_ = p.SetProduct(Product{PlanCode: "TERM20"})
	p.Base.Details = Details{InsuredID: 1, CoverageType: TypeSingle, FaceAmount: "100000", UnderwritingClass: "PREFERRED"}
	return p
}

func TestPortfolio(t *testing.T) {
	p := validPortfolio()
	assert.True(t, p.IsComplete())

	a := p.AddAdditional()
	assert.Equal(t, "additional-1", a.CoverageID())
	assert.False(t, p.IsComplete())
	require.NoError(t, p.SetCoverageField(a.CoverageID(), FieldInsuredID, "2"))
	require.NoError(t, p.SetCoverageField(a.CoverageID(), FieldFaceAmount, "20000"))
	require.NoError(t, p.SetCoverageField(a.CoverageID(), FieldUnderwritingClass, "STANDARD"))
	assert.True(t, p.IsComplete(), p.Validate())

	r := p.AddRider(RiderAccidentalDeath)
	assert.Equal(t, []string{"base", "additional-1", "rider-1"}, p.CoverageIDs())
	require.NoError(t, p.SetCoverageField(r.CoverageID(), FieldSelectedPersonID, "2"))

	err := p.RemoveInsured(2)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeReferential))
	assert.ElementsMatch(t, []string{"additional-1", "rider-1"}, p.ReferencesInsured(2))

	require.Error(t, p.SetCoverageField("rider-9", FieldFaceAmount, "1"))
	require.NoError(t, p.RemoveRider(r.ID))
	require.NoError(t, p.RemoveAdditional(a.ID))
	require.NoError(t, p.RemoveInsured(2))
}

func TestPortfolio_ImportFollowsClientGUID(t *testing.T) {
	p := validPortfolio()
	ada := partytest.ValidIndividual(1)
	ada.ClientGUID = id.ClientGUID(uuid.New())
	grace := partytest.ValidIndividual(2)
	grace.ClientGUID = id.ClientGUID(uuid.New())
	p.Insureds.SetAll([]party.Party{ada, grace})
	p.Base.InsuredID = 2

	acme := partytest.ValidCorporate(5)
	p.ImportInsureds([]party.Party{acme, ada, grace})
	assert.Equal(t, 3, p.Base.InsuredID, "grace moved to the third slot")

	p.ImportInsureds([]party.Party{ada})
	assert.Equal(t, 0, p.Base.InsuredID, "dropped insureds clear the reference")
}

func TestPortfolio_ProductRequired(t *testing.T) {
	p := validPortfolio()
	p.Product = Product{}
	assert.Contains(t, p.Validate()[BaseID], "planCode")
	require.Error(t, p.SetProduct(Product{PlanCode: "  "}))
}
