package service

import (
	"context"

	"intake/internal/application"
	"intake/internal/coverage"
	"intake/internal/medical"
	"intake/internal/party"
	id "intake/pkg/domain"
)

// SetProduct selects the plan.
func (s *Service) SetProduct(ctx context.Context, appID id.ApplicationID, product coverage.Product) (*Result, error) {
	return s.editCoverage(ctx, appID, func(app *application.Application, _ *Result) error {
		return app.Coverage.SetProduct(product)
	})
}

// EditCoverageField applies one edit to the base, an additional coverage or
// a rider, addressed by its bucket id.
func (s *Service) EditCoverageField(ctx context.Context, appID id.ApplicationID, coverageID, field, value string) (*Result, error) {
	return s.editCoverage(ctx, appID, func(app *application.Application, res *Result) error {
		if err := app.Coverage.SetCoverageField(coverageID, field, value); err != nil {
			return err
		}
		res.addErrors("", app.Coverage.Validate()[coverageID])
		return nil
	})
}

func (s *Service) EditBaseCoverage(ctx context.Context, appID id.ApplicationID, field, value string) (*Result, error) {
	return s.EditCoverageField(ctx, appID, coverage.BaseID, field, value)
}

func (s *Service) AddAdditionalCoverage(ctx context.Context, appID id.ApplicationID) (*Result, error) {
	return s.editCoverage(ctx, appID, func(app *application.Application, _ *Result) error {
		app.Coverage.AddAdditional()
		return nil
	})
}

// RemoveAdditionalCoverage deletes an additional coverage together with its
// beneficiary allocations.
func (s *Service) RemoveAdditionalCoverage(ctx context.Context, appID id.ApplicationID, additionalID int) (*Result, error) {
	return s.editCoverage(ctx, appID, func(app *application.Application, _ *Result) error {
		if err := app.Coverage.RemoveAdditional(additionalID); err != nil {
			return err
		}
		app.Allocations.DropCoverage(coverage.AdditionalID(additionalID))
		return nil
	})
}

func (s *Service) AddRider(ctx context.Context, appID id.ApplicationID, riderType string) (*Result, error) {
	return s.editCoverage(ctx, appID, func(app *application.Application, _ *Result) error {
		t, err := coverage.ParseRiderType(riderType)
		if err != nil {
			return err
		}
		app.Coverage.AddRider(t)
		return nil
	})
}

func (s *Service) RemoveRider(ctx context.Context, appID id.ApplicationID, riderID int) (*Result, error) {
	return s.editCoverage(ctx, appID, func(app *application.Application, _ *Result) error {
		if err := app.Coverage.RemoveRider(riderID); err != nil {
			return err
		}
		app.Allocations.DropCoverage(coverage.RiderID(riderID))
		return nil
	})
}

// ImportInsureds replaces the coverage insureds with the current owners,
// re-indexed from 1. Coverage references follow their insured by client guid.
func (s *Service) ImportInsureds(ctx context.Context, appID id.ApplicationID) (*Result, error) {
	return s.editCoverage(ctx, appID, func(app *application.Application, _ *Result) error {
		app.Coverage.ImportInsureds(app.Owners)
		return nil
	})
}

// AddInsured registers an insured that is not an owner. Fields are applied
// as field-change events; ownerType, when present, is applied first.
func (s *Service) AddInsured(ctx context.Context, appID id.ApplicationID, kind party.Kind, fields map[string]string) (*Result, error) {
	return s.editCoverage(ctx, appID, func(app *application.Application, res *Result) error {
		p, err := party.New(0, kind)
		if err != nil {
			return err
		}
		added := app.Coverage.Insureds.Add(p)
		if len(fields) > 0 {
			if added, err = app.Coverage.Insureds.Update(added.ID, fields); err != nil {
				return err
			}
		}
		res.Party = &added
		return nil
	})
}

// UpdateInsured merges a field patch into an insured. Its id never changes.
func (s *Service) UpdateInsured(ctx context.Context, appID id.ApplicationID, insuredID int, patch map[string]string) (*Result, error) {
	return s.editCoverage(ctx, appID, func(app *application.Application, res *Result) error {
		updated, err := app.Coverage.Insureds.Update(insuredID, patch)
		if err != nil {
			return err
		}
		res.Party = &updated
		return nil
	})
}

// RemoveInsured deletes an insured no coverage references.
func (s *Service) RemoveInsured(ctx context.Context, appID id.ApplicationID, insuredID int) (*Result, error) {
	return s.editCoverage(ctx, appID, func(app *application.Application, _ *Result) error {
		return app.Coverage.RemoveInsured(insuredID)
	})
}

// ContinueCoverage validates every coverage and advances to medical.
func (s *Service) ContinueCoverage(ctx context.Context, appID id.ApplicationID) (*Result, error) {
	return s.continueStep(ctx, appID, stepCoverage, s.continueCoverage)
}

func (s *Service) continueCoverage(ctx context.Context, app *application.Application, res *Result) error {
	if errs := app.Coverage.Validate(); len(errs) > 0 {
		for coverageID, fieldErrs := range errs {
			res.addErrors(coverageID, fieldErrs)
		}
		s.refuseContinue(ctx, app, res, "some coverage details are missing or invalid")
		return nil
	}
	app.Steps.ReportCompletion(stepCoverage, true)
	s.advance(ctx, app, res)
	return nil
}

// editCoverage applies a coverage edit and raises the coverage step's
// completion once its data validates.
func (s *Service) editCoverage(ctx context.Context, appID id.ApplicationID, fn func(app *application.Application, res *Result) error) (*Result, error) {
	return s.mutate(ctx, appID, func(_ context.Context, app *application.Application, res *Result) error {
		if err := fn(app, res); err != nil {
			return err
		}
		app.Steps.ObserveValidity(stepCoverage, app.Coverage.IsComplete())
		return nil
	})
}

// AnswerMedical records one questionnaire answer.
func (s *Service) AnswerMedical(ctx context.Context, appID id.ApplicationID, questionID, value, details string) (*Result, error) {
	return s.mutate(ctx, appID, func(_ context.Context, app *application.Application, res *Result) error {
		if app.Medical == nil {
			app.Medical = medical.Answers{}
		}
		if err := app.Medical.Set(s.questions, questionID, value, details); err != nil {
			return err
		}
		if msg, ok := app.Medical.Validate(s.questions)[questionID]; ok {
			res.addErrors("", map[string]string{questionID: msg})
		}
		app.Steps.ObserveValidity(stepMedical, app.Medical.IsComplete(s.questions))
		return nil
	})
}

// ContinueMedical requires every question answered and advances to
// beneficiaries.
func (s *Service) ContinueMedical(ctx context.Context, appID id.ApplicationID) (*Result, error) {
	return s.continueStep(ctx, appID, stepMedical, s.continueMedical)
}

func (s *Service) continueMedical(ctx context.Context, app *application.Application, res *Result) error {
	if errs := app.Medical.Validate(s.questions); len(errs) > 0 {
		res.addErrors("medical", errs)
		s.refuseContinue(ctx, app, res, "answer every medical question before continuing")
		return nil
	}
	app.Steps.ReportCompletion(stepMedical, true)
	s.advance(ctx, app, res)
	return nil
}
