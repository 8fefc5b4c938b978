package service

import (
	"context"
	"fmt"

	"intake/internal/allocation"
	"intake/internal/application"
	"intake/internal/application/models"
	"intake/internal/party"
	"intake/internal/validation"
	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/platform/audit"
)

// AddParty appends an empty party of the given kind to a role's collection
// with the next id and its initial section gate.
func (s *Service) AddParty(ctx context.Context, appID id.ApplicationID, role application.Role, kind party.Kind) (*Result, error) {
	return s.mutate(ctx, appID, func(ctx context.Context, app *application.Application, res *Result) error {
		parties := app.Parties(role)
		p, err := party.New(party.NextID(party.IDs(parties)), kind)
		if err != nil {
			return err
		}
		m := s.machine(s.validatorFor(ctx))
		app.Gates(role)[p.ID] = m.New(p, app.CountryFor(p))
		app.SetParties(role, append(parties, p))

		added := p.Clone()
		res.Party = &added
		return nil
	})
}

// EditPartyField applies one field-change event inside a section and
// republishes the party's section validity.
func (s *Service) EditPartyField(ctx context.Context, appID id.ApplicationID, role application.Role, partyID int, sec party.Section, field, value string) (*Result, error) {
	return s.mutate(ctx, appID, func(ctx context.Context, app *application.Application, res *Result) error {
		p, err := app.Party(role, partyID)
		if err != nil {
			return err
		}
		m := s.machine(s.validatorFor(ctx))
		gates := app.Gates(role)
		gate, ok := gates[partyID]
		if !ok {
			gate = m.New(*p, app.CountryFor(*p))
		}
		validity, err := m.FieldChanged(&gate, p, sec, field, value, app.CountryFor(*p))
		if err != nil {
			return err
		}
		gates[partyID] = gate

		res.Validity = validity
		res.addErrors("", m.VisibleErrors(&gate, *p, app.CountryFor(*p)))
		edited := p.Clone()
		res.Party = &edited
		return nil
	})
}

// ExpandSection opens a section of a party. A refusal makes the blocking
// predecessor's errors visible and is returned in the result.
func (s *Service) ExpandSection(ctx context.Context, appID id.ApplicationID, role application.Role, partyID int, sec party.Section) (*Result, error) {
	return s.mutate(ctx, appID, func(ctx context.Context, app *application.Application, res *Result) error {
		p, err := app.Party(role, partyID)
		if err != nil {
			return err
		}
		m := s.machine(s.validatorFor(ctx))
		gates := app.Gates(role)
		gate, ok := gates[partyID]
		if !ok {
			gate = m.New(*p, app.CountryFor(*p))
		}
		refusal := m.RequestExpand(&gate, *p, sec, app.CountryFor(*p))
		gates[partyID] = gate
		if refusal == nil {
			return nil
		}

		res.SectionRefusal = refusal
		res.addErrors("", refusal.Errors)
		app.AddNotice(application.NoticeWarning, role.Step(), refusal.Message, s.now())
		s.metrics.IncSectionRefusal(string(refusal.Section))
		s.logAudit(ctx, audit.EventSectionRefused,
			"application_id", app.ID.String(),
			"subject", fmt.Sprintf("%s:%d:%s", role, partyID, refusal.Section),
			"reason", refusal.Message)
		return nil
	})
}

// CollapseSection collapses an expanded section. Collapsing anything else
// is a no-op.
func (s *Service) CollapseSection(ctx context.Context, appID id.ApplicationID, role application.Role, partyID int, sec party.Section) (*Result, error) {
	return s.mutate(ctx, appID, func(_ context.Context, app *application.Application, _ *Result) error {
		if _, err := app.Party(role, partyID); err != nil {
			return err
		}
		gates := app.Gates(role)
		gate := gates[partyID]
		s.machine(s.validator).RequestCollapse(&gate, sec)
		gates[partyID] = gate
		return nil
	})
}

// RemoveParty deletes a party. Beneficiaries and payors linked from an
// allocation row cannot be removed.
func (s *Service) RemoveParty(ctx context.Context, appID id.ApplicationID, role application.Role, partyID int) (*Result, error) {
	return s.mutate(ctx, appID, func(_ context.Context, app *application.Application, _ *Result) error {
		parties := app.Parties(role)
		i := party.Find(parties, partyID)
		if i < 0 {
			return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("%s %d not found", role, partyID))
		}
		var refs []allocation.BucketKey
		switch role {
		case application.RoleBeneficiary:
			refs = app.Allocations.References(partyID, allocation.KindPrimary, allocation.KindContingent)
		case application.RolePayor:
			refs = app.Allocations.References(partyID, allocation.KindPayor)
		}
		if len(refs) > 0 {
			return dErrors.New(dErrors.CodeReferential,
				fmt.Sprintf("%s %d is referenced by the %s allocations", role, partyID, refs[0]))
		}
		app.SetParties(role, append(parties[:i:i], parties[i+1:]...))
		delete(app.Gates(role), partyID)
		return nil
	})
}

// AddPayorFromOwner copies an owner into the payor collection. The client
// identity is kept; the role identity is issued when the payor is saved.
func (s *Service) AddPayorFromOwner(ctx context.Context, appID id.ApplicationID, ownerID int) (*Result, error) {
	return s.mutate(ctx, appID, func(ctx context.Context, app *application.Application, res *Result) error {
		owner, err := app.Party(application.RoleOwner, ownerID)
		if err != nil {
			return err
		}
		payor := owner.Clone()
		payor.ID = party.NextID(party.IDs(app.Payors))
		payor.RoleGUID = id.RoleGUID{}

		m := s.machine(s.validatorFor(ctx))
		app.Gates(application.RolePayor)[payor.ID] = m.New(payor, app.CountryFor(payor))
		app.Payors = append(app.Payors, payor)

		added := payor.Clone()
		res.Party = &added
		return nil
	})
}

func (s *Service) AddOwner(ctx context.Context, appID id.ApplicationID, kind party.Kind) (*Result, error) {
	return s.AddParty(ctx, appID, application.RoleOwner, kind)
}

func (s *Service) EditOwnerField(ctx context.Context, appID id.ApplicationID, ownerID int, sec party.Section, field, value string) (*Result, error) {
	return s.EditPartyField(ctx, appID, application.RoleOwner, ownerID, sec, field, value)
}

func (s *Service) ExpandOwnerSection(ctx context.Context, appID id.ApplicationID, ownerID int, sec party.Section) (*Result, error) {
	return s.ExpandSection(ctx, appID, application.RoleOwner, ownerID, sec)
}

func (s *Service) CollapseOwnerSection(ctx context.Context, appID id.ApplicationID, ownerID int, sec party.Section) (*Result, error) {
	return s.CollapseSection(ctx, appID, application.RoleOwner, ownerID, sec)
}

func (s *Service) AddBeneficiary(ctx context.Context, appID id.ApplicationID, kind party.Kind) (*Result, error) {
	return s.AddParty(ctx, appID, application.RoleBeneficiary, kind)
}

func (s *Service) EditBeneficiaryField(ctx context.Context, appID id.ApplicationID, beneficiaryID int, sec party.Section, field, value string) (*Result, error) {
	return s.EditPartyField(ctx, appID, application.RoleBeneficiary, beneficiaryID, sec, field, value)
}

func (s *Service) RemoveBeneficiary(ctx context.Context, appID id.ApplicationID, beneficiaryID int) (*Result, error) {
	return s.RemoveParty(ctx, appID, application.RoleBeneficiary, beneficiaryID)
}

func (s *Service) AddPayor(ctx context.Context, appID id.ApplicationID, kind party.Kind) (*Result, error) {
	return s.AddParty(ctx, appID, application.RolePayor, kind)
}

// ContinueOwners validates every owner, saves them, stores the issued
// identifiers and advances to coverage. The first save also seeds the
// coverage insureds from the owners.
func (s *Service) ContinueOwners(ctx context.Context, appID id.ApplicationID) (*Result, error) {
	return s.continueStep(ctx, appID, stepOwner, s.continueOwners)
}

func (s *Service) continueOwners(ctx context.Context, app *application.Application, res *Result) error {
	if len(app.Owners) == 0 {
		s.refuseContinue(ctx, app, res, "add at least one owner before continuing")
		return nil
	}
	v := s.validatorFor(ctx)
	if errs := s.attemptParties(app, application.RoleOwner, v); len(errs) > 0 {
		res.Errors = errs
		s.refuseContinue(ctx, app, res, "some owner details are missing or invalid")
		return nil
	}

	if err := s.saveParties(ctx, app, application.RoleOwner, false); err != nil {
		return err
	}
	if len(app.Coverage.Insureds.Entries) == 0 {
		app.Coverage.ImportInsureds(app.Owners)
	}
	app.Steps.ReportCompletion(stepOwner, true)
	s.advance(ctx, app, res)
	return nil
}

// attemptParties makes every field of every party in a role visible and
// returns the errors keyed by party scope.
func (s *Service) attemptParties(app *application.Application, role application.Role, v *validation.Validator) map[string]string {
	m := s.machine(v)
	gates := app.Gates(role)
	out := &Result{}
	for _, p := range app.Parties(role) {
		gate, ok := gates[p.ID]
		if !ok {
			gate = m.New(p, app.CountryFor(p))
		}
		errs := m.AttemptAll(&gate, p, app.CountryFor(p))
		gates[p.ID] = gate
		out.addErrors(partyScope(role, p.ID), errs)
	}
	return out.Errors
}

// saveParties sends a role's parties to the carrier and copies the issued
// identifiers back. With onlyUnsaved set, parties that already carry a role
// guid are not re-sent.
func (s *Service) saveParties(ctx context.Context, app *application.Application, role application.Role, onlyUnsaved bool) error {
	parties := app.Parties(role)
	var pending []party.Party
	for _, p := range parties {
		if onlyUnsaved && !p.RoleGUID.IsNil() {
			continue
		}
		pending = append(pending, p)
	}
	if len(pending) == 0 {
		return nil
	}

	var enriched int
	err := s.callExternal(ctx, app, callSaveParties, func(ctx context.Context) error {
		resp, err := s.backend.SaveParties(ctx, models.NewPartySaveRequest(app.Number, string(role), pending))
		if err != nil {
			return err
		}
		enriched, err = resp.Enrich(parties)
		return err
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventPartiesSaved,
		"application_id", app.ID.String(),
		"subject", string(role),
		"count", enriched)
	return nil
}
