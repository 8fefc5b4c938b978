package application

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/allocation"
	"intake/internal/medical"
	"intake/internal/party"
	"intake/internal/party/partytest"
	"intake/internal/wizard/section"
	"intake/internal/wizard/step"
	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
)

var now = time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)

func newApp() *Application {
	return New(id.ApplicationID(uuid.New()), "01", now, allocation.StrategyEqual)
}

func TestNew(t *testing.T) {
	app := newApp()
	assert.Equal(t, step.Owner, app.Steps.Active)
	assert.Regexp(t, `^IA-[0-9A-F]{10}$`, app.Number)
	assert.Empty(t, app.Owners)
	assert.NotNil(t, app.Coverage)
	assert.NotNil(t, app.Allocations)
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{
		"owner": RoleOwner, "owners": RoleOwner,
		"beneficiary": RoleBeneficiary, "beneficiaries": RoleBeneficiary,
		"payors": RolePayor,
	} {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseRole("insurer")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestParty(t *testing.T) {
	app := newApp()
	app.SetParties(RoleBeneficiary, []party.Party{partytest.ValidIndividual(3)})

	p, err := app.Party(RoleBeneficiary, 3)
	require.NoError(t, err)
	p.Contact.Email = "changed@example.com"
	assert.Equal(t, "changed@example.com", app.Beneficiaries[0].Contact.Email, "Party returns a pointer into the collection")

	_, err = app.Party(RoleOwner, 3)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestCountryFor(t *testing.T) {
	app := newApp()
	p := party.NewIndividual(1)
	assert.Equal(t, "01", app.CountryFor(p))
	p.Address.Country = "02"
	assert.Equal(t, "02", app.CountryFor(p))
}

func TestNotices(t *testing.T) {
	app := newApp()
	first := app.AddNotice(NoticeError, step.Owner, "save failed", now)
	second := app.AddNotice(NoticeWarning, step.Review, "unbalanced", now)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	assert.Equal(t, 1, app.DismissNotices(first.ID))
	require.Len(t, app.Notices, 1)
	assert.Equal(t, second.ID, app.Notices[0].ID)

	assert.Equal(t, 1, app.DismissNotices())
	assert.Empty(t, app.Notices)
}

func TestClone_IsDeep(t *testing.T) {
	app := newApp()
	app.Owners = []party.Party{partytest.ValidIndividual(1)}
	app.OwnerGates[1] = section.Gate{Kind: party.KindIndividual, States: map[party.Section]section.State{party.SectionDetails: section.StateExpanded}}
	app.Medical["heart"] = medical.Answer{Value: medical.AnswerNo}

	cp := app.Clone()
	cp.Owners[0].Individual.FirstName = "Grace"
	cp.OwnerGates[1].States[party.SectionDetails] = section.StateCollapsed
	cp.Steps.Active = step.Coverage
	cp.Allocations.AddRow(allocation.PayorBucket())
	cp.Medical["heart"] = medical.Answer{Value: medical.AnswerYes}

	assert.Equal(t, "Ada", app.Owners[0].Individual.FirstName)
	assert.Equal(t, section.StateExpanded, app.OwnerGates[1].States[party.SectionDetails])
	assert.Equal(t, step.Owner, app.Steps.Active)
	assert.Len(t, app.Allocations.Rows(allocation.PayorBucket()), 1)
	assert.Equal(t, medical.AnswerNo, app.Medical["heart"].Value)
}

func TestJSONRoundTrip(t *testing.T) {
	app := newApp()
	app.Owners = []party.Party{partytest.ValidCorporate(1)}
	app.OwnerGates[1] = section.Gate{Kind: party.KindCorporate, States: map[party.Section]section.State{}}
	app.Steps.ReportCompletion(step.Owner, true)

	raw, err := json.Marshal(app)
	require.NoError(t, err)

	var decoded Application
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, app.ID, decoded.ID)
	assert.Equal(t, "Acme Holdings", decoded.Owners[0].Corporate.CompanyName)
	assert.True(t, decoded.Steps.IsComplete(step.Owner))
	assert.Contains(t, decoded.OwnerGates, 1)
}
